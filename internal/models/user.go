// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role names a user's access tier. Premium is granted through the
// payment webhook, never self-assigned.
const (
	RoleMember  = "member"
	RolePremium = "premium"
)

// User represents a registered account. The password is stored as an
// HMAC-SHA512 digest keyed by a per-user random salt; neither field is
// ever serialized.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"unique;not null" json:"username"`
	Email        string         `gorm:"unique;not null" json:"email"`
	PasswordHash []byte         `gorm:"not null" json:"-"`
	PasswordSalt []byte         `gorm:"not null" json:"-"`
	Role         string         `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CustomerID   string         `gorm:"index" json:"-"`
	RefreshToken string         `gorm:"index" json:"-"`
	TokenCreated time.Time      `json:"-"`
	TokenExpires time.Time      `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsPremium reports whether the user has the premium role.
func (u *User) IsPremium() bool {
	return u.Role == RolePremium
}

// PublicUser is the projection of a user safe to return to other users.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Public returns the user's public projection.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}
