package service

import (
	"context"
	"sync"

	"plusnine/internal/models"
	"plusnine/internal/observability"
	"plusnine/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// pairShards is the number of mutexes guarding friend-pair operations.
const pairShards = 64

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository

	// Per-pair locks serialize request creation for a given user pair, so
	// two opposite-direction sends cannot both pass the pending check.
	// Terminal races (accept vs reject) are resolved by conditional
	// updates in the repository instead.
	pairLocks [pairShards]sync.Mutex
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

func (s *FriendService) lockPair(a, b uint) *sync.Mutex {
	low, high := models.NormalizePair(a, b)
	mu := &s.pairLocks[(low*31+high)%pairShards]
	mu.Lock()
	return mu
}

// SendFriendRequest creates a pending request from userID to receiverID.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID, receiverID uint) (request *models.FriendRequest, err error) {
	span, ctx := observability.NewSpan(ctx, "FriendService.SendFriendRequest")
	span.AddAttributes(
		attribute.Int64("friend.sender_id", int64(userID)),
		attribute.Int64("friend.receiver_id", int64(receiverID)),
	)
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if userID == receiverID {
		return nil, models.NewValidationError("Cannot send a friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	mu := s.lockPair(userID, receiverID)
	defer mu.Unlock()

	friends, err := s.friendRepo.AreFriends(ctx, userID, receiverID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, models.NewValidationError("You are already friends")
	}

	pending, err := s.friendRepo.GetPendingBetween(ctx, userID, receiverID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		if pending.SenderID == userID {
			return nil, models.NewValidationError("Friend request already sent")
		}
		return nil, models.NewValidationError("This user has already sent you a friend request")
	}

	request = &models.FriendRequest{
		SenderID:   userID,
		ReceiverID: receiverID,
		Status:     models.FriendRequestPending,
	}
	if err := s.friendRepo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	observability.FriendRequestTransitions.WithLabelValues("pending").Inc()
	return s.friendRepo.GetRequestByID(ctx, request.ID)
}

// AcceptFriendRequest moves a pending request to accepted and creates the
// friendship edge. Only the receiver may accept. A request that was already
// resolved, even in a concurrent race, is rejected.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, requestID uint) (_ *models.FriendRequest, err error) {
	span, ctx := observability.NewSpan(ctx, "FriendService.AcceptFriendRequest")
	defer func() {
		span.SetError(err)
		span.End()
	}()

	request, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.ReceiverID != userID {
		return nil, models.NewForbiddenError("You can only accept friend requests sent to you")
	}
	if request.Status != models.FriendRequestPending {
		return nil, models.NewValidationError("Friend request is no longer pending")
	}

	won, err := s.friendRepo.AcceptRequest(ctx, request)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, models.NewValidationError("Friend request is no longer pending")
	}

	observability.FriendRequestTransitions.WithLabelValues("accepted").Inc()
	return s.friendRepo.GetRequestByID(ctx, requestID)
}

// RejectFriendRequest moves a pending request to rejected. Only the receiver
// may reject. The rejected row is kept so the history of the pair survives.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, requestID uint) (_ *models.FriendRequest, err error) {
	span, ctx := observability.NewSpan(ctx, "FriendService.RejectFriendRequest")
	defer func() {
		span.SetError(err)
		span.End()
	}()

	request, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.ReceiverID != userID {
		return nil, models.NewForbiddenError("You can only reject friend requests sent to you")
	}
	if request.Status != models.FriendRequestPending {
		return nil, models.NewValidationError("Friend request is no longer pending")
	}

	won, err := s.friendRepo.UpdateRequestStatus(ctx, requestID, models.FriendRequestPending, models.FriendRequestRejected)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, models.NewValidationError("Friend request is no longer pending")
	}

	observability.FriendRequestTransitions.WithLabelValues("rejected").Inc()
	return s.friendRepo.GetRequestByID(ctx, requestID)
}

// GetIncomingRequests returns pending requests addressed to the user.
func (s *FriendService) GetIncomingRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.GetIncomingRequests(ctx, userID)
}

// GetSentRequests returns pending requests the user has sent.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

// GetFriends returns the user's friends.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// AreFriends reports whether the two users share a friendship edge.
func (s *FriendService) AreFriends(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.friendRepo.AreFriends(ctx, userID, otherID)
}

// SearchUsers finds users whose username contains the query, excluding the
// caller from the results.
func (s *FriendService) SearchUsers(ctx context.Context, userID uint, query string, limit int) ([]models.PublicUser, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	users, err := s.userRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		if u.ID == userID {
			continue
		}
		results = append(results, u.Public())
	}
	return results, nil
}
