package service

import (
	"context"
	"time"

	"plusnine/internal/models"
)

type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByUsernameFn      func(context.Context, string) (*models.User, error)
	getByEmailFn         func(context.Context, string) (*models.User, error)
	getByRefreshTokenFn  func(context.Context, string) (*models.User, error)
	createFn             func(context.Context, *models.User) error
	updateFn             func(context.Context, *models.User) error
	searchFn             func(context.Context, string, int) ([]models.User, error)
	setRefreshTokenFn    func(context.Context, uint, string, time.Time, time.Time) error
	rotateRefreshTokenFn func(context.Context, uint, string, string, time.Time, time.Time) (bool, error)
	clearRefreshTokenFn  func(context.Context, string) (bool, error)
	setCustomerIDFn      func(context.Context, uint, string) error
	elevateRoleFn        func(context.Context, string, string) (*models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return s.getByRefreshTokenFn(ctx, token)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, username string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, username, limit)
}
func (s *userRepoStub) SetRefreshToken(ctx context.Context, userID uint, token string, created, expires time.Time) error {
	return s.setRefreshTokenFn(ctx, userID, token, created, expires)
}
func (s *userRepoStub) RotateRefreshToken(ctx context.Context, userID uint, presented, next string, created, expires time.Time) (bool, error) {
	return s.rotateRefreshTokenFn(ctx, userID, presented, next, created, expires)
}
func (s *userRepoStub) ClearRefreshToken(ctx context.Context, username string) (bool, error) {
	return s.clearRefreshTokenFn(ctx, username)
}
func (s *userRepoStub) SetCustomerID(ctx context.Context, userID uint, customerID string) error {
	return s.setCustomerIDFn(ctx, userID, customerID)
}
func (s *userRepoStub) ElevateRoleByCustomerID(ctx context.Context, customerID, role string) (*models.User, error) {
	return s.elevateRoleFn(ctx, customerID, role)
}

type friendRepoStub struct {
	createRequestFn       func(context.Context, *models.FriendRequest) error
	getRequestByIDFn      func(context.Context, uint) (*models.FriendRequest, error)
	getPendingBetweenFn   func(context.Context, uint, uint) (*models.FriendRequest, error)
	getIncomingRequestsFn func(context.Context, uint) ([]models.FriendRequest, error)
	getSentRequestsFn     func(context.Context, uint) ([]models.FriendRequest, error)
	updateRequestStatusFn func(context.Context, uint, models.FriendRequestStatus, models.FriendRequestStatus) (bool, error)
	acceptRequestFn       func(context.Context, *models.FriendRequest) (bool, error)
	getFriendsFn          func(context.Context, uint) ([]models.User, error)
	areFriendsFn          func(context.Context, uint, uint) (bool, error)
}

func (s *friendRepoStub) CreateRequest(ctx context.Context, request *models.FriendRequest) error {
	return s.createRequestFn(ctx, request)
}
func (s *friendRepoStub) GetRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	return s.getRequestByIDFn(ctx, id)
}
func (s *friendRepoStub) GetPendingBetween(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	return s.getPendingBetweenFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) GetIncomingRequests(ctx context.Context, receiverID uint) ([]models.FriendRequest, error) {
	return s.getIncomingRequestsFn(ctx, receiverID)
}
func (s *friendRepoStub) GetSentRequests(ctx context.Context, senderID uint) ([]models.FriendRequest, error) {
	return s.getSentRequestsFn(ctx, senderID)
}
func (s *friendRepoStub) UpdateRequestStatus(ctx context.Context, requestID uint, from, to models.FriendRequestStatus) (bool, error) {
	return s.updateRequestStatusFn(ctx, requestID, from, to)
}
func (s *friendRepoStub) AcceptRequest(ctx context.Context, request *models.FriendRequest) (bool, error) {
	return s.acceptRequestFn(ctx, request)
}
func (s *friendRepoStub) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.getFriendsFn(ctx, userID)
}
func (s *friendRepoStub) AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	return s.areFriendsFn(ctx, userID1, userID2)
}

type objectiveRepoStub struct {
	createFn     func(context.Context, *models.Objective) error
	getByIDFn    func(context.Context, uint) (*models.Objective, error)
	getForUserFn func(context.Context, uint) ([]models.Objective, error)
	updateFn     func(context.Context, *models.Objective) error
	deleteFn     func(context.Context, uint) error
}

func (s *objectiveRepoStub) Create(ctx context.Context, objective *models.Objective) error {
	return s.createFn(ctx, objective)
}
func (s *objectiveRepoStub) GetByID(ctx context.Context, id uint) (*models.Objective, error) {
	return s.getByIDFn(ctx, id)
}
func (s *objectiveRepoStub) GetForUser(ctx context.Context, userID uint) ([]models.Objective, error) {
	return s.getForUserFn(ctx, userID)
}
func (s *objectiveRepoStub) Update(ctx context.Context, objective *models.Objective) error {
	return s.updateFn(ctx, objective)
}
func (s *objectiveRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:           func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn:     func(context.Context, string) (*models.User, error) { return nil, nil },
		getByEmailFn:        func(context.Context, string) (*models.User, error) { return nil, nil },
		getByRefreshTokenFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:            func(context.Context, *models.User) error { return nil },
		updateFn:            func(context.Context, *models.User) error { return nil },
		searchFn:            func(context.Context, string, int) ([]models.User, error) { return nil, nil },
		setRefreshTokenFn: func(context.Context, uint, string, time.Time, time.Time) error {
			return nil
		},
		rotateRefreshTokenFn: func(context.Context, uint, string, string, time.Time, time.Time) (bool, error) {
			return true, nil
		},
		clearRefreshTokenFn: func(context.Context, string) (bool, error) { return true, nil },
		setCustomerIDFn:     func(context.Context, uint, string) error { return nil },
		elevateRoleFn:       func(context.Context, string, string) (*models.User, error) { return &models.User{}, nil },
	}
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		createRequestFn:  func(context.Context, *models.FriendRequest) error { return nil },
		getRequestByIDFn: func(context.Context, uint) (*models.FriendRequest, error) { return &models.FriendRequest{}, nil },
		getPendingBetweenFn: func(context.Context, uint, uint) (*models.FriendRequest, error) {
			return nil, nil
		},
		getIncomingRequestsFn: func(context.Context, uint) ([]models.FriendRequest, error) { return nil, nil },
		getSentRequestsFn:     func(context.Context, uint) ([]models.FriendRequest, error) { return nil, nil },
		updateRequestStatusFn: func(context.Context, uint, models.FriendRequestStatus, models.FriendRequestStatus) (bool, error) {
			return true, nil
		},
		acceptRequestFn: func(context.Context, *models.FriendRequest) (bool, error) { return true, nil },
		getFriendsFn:    func(context.Context, uint) ([]models.User, error) { return nil, nil },
		areFriendsFn:    func(context.Context, uint, uint) (bool, error) { return false, nil },
	}
}

func noopObjectiveRepo() *objectiveRepoStub {
	return &objectiveRepoStub{
		createFn:     func(context.Context, *models.Objective) error { return nil },
		getByIDFn:    func(context.Context, uint) (*models.Objective, error) { return &models.Objective{}, nil },
		getForUserFn: func(context.Context, uint) ([]models.Objective, error) { return nil, nil },
		updateFn:     func(context.Context, *models.Objective) error { return nil },
		deleteFn:     func(context.Context, uint) error { return nil },
	}
}
