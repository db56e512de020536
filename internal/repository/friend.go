// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"plusnine/internal/cache"
	"plusnine/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines the interface for friend graph data operations.
type FriendRepository interface {
	CreateRequest(ctx context.Context, request *models.FriendRequest) error
	GetRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	GetPendingBetween(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error)
	GetIncomingRequests(ctx context.Context, receiverID uint) ([]models.FriendRequest, error)
	GetSentRequests(ctx context.Context, senderID uint) ([]models.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID uint, from, to models.FriendRequestStatus) (bool, error)
	AcceptRequest(ctx context.Context, request *models.FriendRequest) (bool, error)
	GetFriends(ctx context.Context, userID uint) ([]models.User, error)
	AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error)
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) CreateRequest(ctx context.Context, request *models.FriendRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("A pending request already exists between these users")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) GetRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.WithContext(ctx).Preload("Sender").Preload("Receiver").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friend request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *friendRepository) GetPendingBetween(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	var request models.FriendRequest

	// A pending request in either direction blocks a new one.
	if err := r.db.WithContext(ctx).
		Where("status = ? AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
			models.FriendRequestPending, userID1, userID2, userID2, userID1).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *friendRepository) GetIncomingRequests(ctx context.Context, receiverID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, models.FriendRequestPending).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *friendRepository) GetSentRequests(ctx context.Context, senderID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? AND status = ?", senderID, models.FriendRequestPending).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

// UpdateRequestStatus transitions a request from one status to another. The
// update is conditional on the current status, so a request that was
// already decided concurrently is left untouched; the returned bool
// reports whether this call performed the transition.
func (r *friendRepository) UpdateRequestStatus(ctx context.Context, requestID uint, from, to models.FriendRequestStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", requestID, from).
		Update("status", to)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AcceptRequest transitions the request to accepted and creates the
// friendship edge in a single transaction. Returns false without error if
// the request was no longer pending.
func (r *friendRepository) AcceptRequest(ctx context.Context, request *models.FriendRequest) (bool, error) {
	won := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND status = ?", request.ID, models.FriendRequestPending).
			Update("status", models.FriendRequestAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		friendship := models.NewFriendship(request.SenderID, request.ReceiverID)
		if err := tx.Create(&friendship).Error; err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return false, models.NewValidationError("Users are already friends")
		}
		return false, models.NewInternalError(err)
	}

	if won {
		cache.InvalidateFriends(ctx, request.SenderID, request.ReceiverID)
	}
	return won, nil
}

func (r *friendRepository) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return cache.Aside(ctx, cache.FriendsKey(userID), cache.FriendsTTL, func() ([]models.User, error) {
		var users []models.User
		if err := r.db.WithContext(ctx).
			Table("users").
			Joins("JOIN friendships f ON (users.id = f.user_low_id OR users.id = f.user_high_id)").
			Where("(f.user_low_id = ? OR f.user_high_id = ?) AND users.id != ?",
				userID, userID, userID).
			Find(&users).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		return users, nil
	})
}

func (r *friendRepository) AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	low, high := models.NormalizePair(userID1, userID2)
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
