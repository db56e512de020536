package models

import (
	"time"
)

// FriendRequestStatus represents the lifecycle state of a friend request.
type FriendRequestStatus string

const (
	// FriendRequestPending indicates a request awaiting the receiver's decision.
	FriendRequestPending FriendRequestStatus = "pending"
	// FriendRequestAccepted indicates the receiver accepted the request.
	FriendRequestAccepted FriendRequestStatus = "accepted"
	// FriendRequestRejected indicates the receiver rejected the request.
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest records a directed request from sender to receiver.
// Accepted and rejected are terminal; rows are kept for history.
type FriendRequest struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	SenderID   uint                `gorm:"not null;index:idx_friend_requests_pair" json:"sender_id"`
	ReceiverID uint                `gorm:"not null;index:idx_friend_requests_pair" json:"receiver_id"`
	Status     FriendRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_friend_requests_status" json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`

	// Relationships
	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// FriendRequestView is the API projection of a request. Counterparties only
// ever see each other's public profile, never email or role.
type FriendRequestView struct {
	ID        uint                `json:"id"`
	Status    FriendRequestStatus `json:"status"`
	Sender    PublicUser          `json:"sender"`
	Receiver  PublicUser          `json:"receiver"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// View projects the request for API responses. Sender and Receiver should be
// preloaded; an unloaded side projects as a zero PublicUser.
func (r *FriendRequest) View() FriendRequestView {
	return FriendRequestView{
		ID:        r.ID,
		Status:    r.Status,
		Sender:    r.Sender.Public(),
		Receiver:  r.Receiver.Public(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ViewRequests projects a slice of requests for API responses.
func ViewRequests(requests []FriendRequest) []FriendRequestView {
	views := make([]FriendRequestView, 0, len(requests))
	for i := range requests {
		views = append(views, requests[i].View())
	}
	return views
}

// Friendship is the symmetric edge created when a request is accepted.
// The pair is normalized so UserLowID < UserHighID, which lets a single
// unique index guarantee at most one edge per pair.
type Friendship struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserLowID  uint      `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"user_low_id"`
	UserHighID uint      `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"user_high_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	UserLow  User `gorm:"foreignKey:UserLowID" json:"user_low,omitempty"`
	UserHigh User `gorm:"foreignKey:UserHighID" json:"user_high,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// NormalizePair orders two user IDs as (low, high) for friendship storage.
func NormalizePair(a, b uint) (low, high uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// NewFriendship builds a normalized friendship edge between two users.
func NewFriendship(a, b uint) Friendship {
	low, high := NormalizePair(a, b)
	return Friendship{UserLowID: low, UserHighID: high}
}

// Other returns the peer's ID for the given user, or 0 if the user is
// not part of the edge.
func (f *Friendship) Other(userID uint) uint {
	switch userID {
	case f.UserLowID:
		return f.UserHighID
	case f.UserHighID:
		return f.UserLowID
	default:
		return 0
	}
}
