package service

import (
	"context"

	"plusnine/internal/models"
	"plusnine/internal/repository"
)

// ObjectiveService provides savings-objective business logic.
type ObjectiveService struct {
	objectiveRepo repository.ObjectiveRepository
	friendRepo    repository.FriendRepository
}

// ObjectiveInput carries the writable fields of an objective.
type ObjectiveInput struct {
	ObjectiveName    string
	CurrentAmount    float64
	AmountToComplete float64
}

// NewObjectiveService returns a new ObjectiveService.
func NewObjectiveService(objectiveRepo repository.ObjectiveRepository, friendRepo repository.FriendRepository) *ObjectiveService {
	return &ObjectiveService{
		objectiveRepo: objectiveRepo,
		friendRepo:    friendRepo,
	}
}

func validateObjectiveInput(in ObjectiveInput) error {
	if in.ObjectiveName == "" {
		return models.NewValidationError("Objective name is required")
	}
	if len(in.ObjectiveName) > 100 {
		return models.NewValidationError("Objective name too long (max 100 characters)")
	}
	if in.AmountToComplete <= 0 {
		return models.NewValidationError("Target amount must be greater than zero")
	}
	if in.CurrentAmount < 0 {
		return models.NewValidationError("Current amount cannot be negative")
	}
	return nil
}

// CreateObjective creates a new objective owned by the user.
func (s *ObjectiveService) CreateObjective(ctx context.Context, userID uint, in ObjectiveInput) (*models.Objective, error) {
	if err := validateObjectiveInput(in); err != nil {
		return nil, err
	}

	objective := &models.Objective{
		UserID:           userID,
		ObjectiveName:    in.ObjectiveName,
		CurrentAmount:    in.CurrentAmount,
		AmountToComplete: in.AmountToComplete,
	}
	if err := s.objectiveRepo.Create(ctx, objective); err != nil {
		return nil, err
	}
	return objective, nil
}

// GetObjectives returns the user's own objectives.
func (s *ObjectiveService) GetObjectives(ctx context.Context, userID uint) ([]models.Objective, error) {
	return s.objectiveRepo.GetForUser(ctx, userID)
}

// UpdateObjective updates an objective the user owns.
func (s *ObjectiveService) UpdateObjective(ctx context.Context, userID, objectiveID uint, in ObjectiveInput) (*models.Objective, error) {
	if err := validateObjectiveInput(in); err != nil {
		return nil, err
	}

	objective, err := s.objectiveRepo.GetByID(ctx, objectiveID)
	if err != nil {
		return nil, err
	}
	if objective.UserID != userID {
		return nil, models.NewForbiddenError("You can only update your own objectives")
	}

	objective.ObjectiveName = in.ObjectiveName
	objective.CurrentAmount = in.CurrentAmount
	objective.AmountToComplete = in.AmountToComplete
	if err := s.objectiveRepo.Update(ctx, objective); err != nil {
		return nil, err
	}
	return objective, nil
}

// DeleteObjective deletes an objective the user owns.
func (s *ObjectiveService) DeleteObjective(ctx context.Context, userID, objectiveID uint) error {
	objective, err := s.objectiveRepo.GetByID(ctx, objectiveID)
	if err != nil {
		return err
	}
	if objective.UserID != userID {
		return models.NewForbiddenError("You can only delete your own objectives")
	}
	return s.objectiveRepo.Delete(ctx, objectiveID)
}

// GetFriendObjectives returns another user's objectives, allowed only when
// the caller and the target are friends.
func (s *ObjectiveService) GetFriendObjectives(ctx context.Context, userID, friendID uint) ([]models.Objective, error) {
	if userID == friendID {
		return s.objectiveRepo.GetForUser(ctx, userID)
	}

	friends, err := s.friendRepo.AreFriends(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, models.NewForbiddenError("You can only view objectives of your friends")
	}
	return s.objectiveRepo.GetForUser(ctx, friendID)
}
