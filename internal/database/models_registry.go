package database

import "plusnine/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Objective{},
	}
}
