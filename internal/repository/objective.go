package repository

import (
	"context"
	"errors"

	"plusnine/internal/cache"
	"plusnine/internal/models"

	"gorm.io/gorm"
)

// ObjectiveRepository defines persistence operations for objectives.
type ObjectiveRepository interface {
	Create(ctx context.Context, objective *models.Objective) error
	GetByID(ctx context.Context, id uint) (*models.Objective, error)
	GetForUser(ctx context.Context, userID uint) ([]models.Objective, error)
	Update(ctx context.Context, objective *models.Objective) error
	Delete(ctx context.Context, id uint) error
}

type objectiveRepository struct {
	db *gorm.DB
}

// NewObjectiveRepository returns a new ObjectiveRepository implementation.
func NewObjectiveRepository(db *gorm.DB) ObjectiveRepository {
	return &objectiveRepository{db: db}
}

func (r *objectiveRepository) Create(ctx context.Context, objective *models.Objective) error {
	if err := r.db.WithContext(ctx).Create(objective).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateObjectives(ctx, objective.UserID)
	return nil
}

func (r *objectiveRepository) GetByID(ctx context.Context, id uint) (*models.Objective, error) {
	var objective models.Objective
	if err := r.db.WithContext(ctx).First(&objective, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Objective", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &objective, nil
}

func (r *objectiveRepository) GetForUser(ctx context.Context, userID uint) ([]models.Objective, error) {
	return cache.Aside(ctx, cache.ObjectivesKey(userID), cache.ObjectivesTTL, func() ([]models.Objective, error) {
		var objectives []models.Objective
		if err := r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&objectives).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		return objectives, nil
	})
}

func (r *objectiveRepository) Update(ctx context.Context, objective *models.Objective) error {
	if err := r.db.WithContext(ctx).Save(objective).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateObjectives(ctx, objective.UserID)
	return nil
}

func (r *objectiveRepository) Delete(ctx context.Context, id uint) error {
	objective, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Objective{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateObjectives(ctx, objective.UserID)
	return nil
}
