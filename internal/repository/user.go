package repository

import (
	"context"
	"errors"
	"time"

	"plusnine/internal/cache"
	"plusnine/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, username string, limit int) ([]models.User, error)
	SetRefreshToken(ctx context.Context, userID uint, token string, created, expires time.Time) error
	RotateRefreshToken(ctx context.Context, userID uint, presented, next string, created, expires time.Time) (bool, error)
	ClearRefreshToken(ctx context.Context, username string) (bool, error)
	SetCustomerID(ctx context.Context, userID uint, customerID string) error
	ElevateRoleByCustomerID(ctx context.Context, customerID, role string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return cache.Aside(ctx, cache.UserKey(id), cache.UserTTL, func() (*models.User, error) {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("User", id)
			}
			return nil, models.NewInternalError(err)
		}
		return &user, nil
	})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	var user models.User
	if err := r.db.WithContext(ctx).Where("refresh_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Search returns users whose username contains the query, case insensitive.
func (r *userRepository) Search(ctx context.Context, username string, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE LOWER(?)", "%"+username+"%").
		Order("username ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) SetRefreshToken(ctx context.Context, userID uint, token string, created, expires time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token": token,
			"token_created": created,
			"token_expires": expires,
		}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}

// RotateRefreshToken atomically replaces the stored refresh token, but only
// if the presented token is still the live one. A concurrent rotation that
// already consumed the presented token makes this a no-op; the returned
// bool reports whether this call won.
func (r *userRepository) RotateRefreshToken(ctx context.Context, userID uint, presented, next string, created, expires time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", userID, presented).
		Updates(map[string]interface{}{
			"refresh_token": next,
			"token_created": created,
			"token_expires": expires,
		})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	cache.InvalidateUser(ctx, userID)
	return true, nil
}

// ClearRefreshToken revokes the user's refresh token. Returns false when no
// user with the username exists.
func (r *userRepository) ClearRefreshToken(ctx context.Context, username string) (bool, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("id").Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"refresh_token": "",
			"token_created": time.Time{},
			"token_expires": time.Time{},
		}).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return true, nil
}

func (r *userRepository) SetCustomerID(ctx context.Context, userID uint, customerID string) error {
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("customer_id", customerID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}

// ElevateRoleByCustomerID promotes the user bound to the payment customer.
func (r *userRepository) ElevateRoleByCustomerID(ctx context.Context, customerID, role string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", customerID)
		}
		return nil, models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).
		Model(&user).
		Update("role", role).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	user.Role = role
	cache.InvalidateUser(ctx, user.ID)
	return &user, nil
}
