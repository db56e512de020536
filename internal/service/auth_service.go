package service

import (
	"context"
	"time"

	"plusnine/internal/auth"
	"plusnine/internal/models"
	"plusnine/internal/observability"
	"plusnine/internal/repository"
	"plusnine/internal/validation"
)

// AuthService owns credential verification and the refresh-token lifecycle.
type AuthService struct {
	userRepo repository.UserRepository
	issuer   *auth.Issuer
	hasher   *auth.Hasher
}

// RegisterInput carries the fields of a registration attempt.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Session is the result of a successful login or refresh: the user plus a
// fresh access/refresh token pair.
type Session struct {
	User         *models.User
	AccessToken  string
	RefreshToken auth.RefreshToken
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository, issuer *auth.Issuer, hasher *auth.Hasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
		hasher:   hasher,
	}
}

// Register validates the input and creates a new user account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Password != in.ConfirmPassword {
		return nil, models.NewValidationError("Passwords do not match")
	}

	hash, salt, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         models.RoleMember,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		observability.RecordAuthAttempt("register", false)
		return nil, err
	}

	observability.RecordAuthAttempt("register", true)
	return user, nil
}

// Login verifies the credentials and opens a new session. The stored refresh
// token is replaced, so logging in invalidates any earlier session's refresh
// token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash, user.PasswordSalt) {
		observability.RecordAuthAttempt("login", false)
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}

	session, err := s.openSession(ctx, user)
	if err != nil {
		observability.RecordAuthAttempt("login", false)
		return nil, err
	}

	observability.RecordAuthAttempt("login", true)
	return session, nil
}

// Refresh exchanges a presented refresh token for a new token pair. The
// rotation is guarded in storage, so when the same token is presented twice
// concurrently exactly one caller wins and the loser is rejected.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*Session, error) {
	user, err := s.userRepo.GetByRefreshToken(ctx, presented)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.RecordTokenRefresh(false)
		return nil, models.NewUnauthorizedError("Invalid refresh token")
	}
	if time.Now().After(user.TokenExpires) {
		observability.RecordTokenRefresh(false)
		return nil, models.NewUnauthorizedError("Refresh token expired")
	}

	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	next, err := s.issuer.IssueRefreshToken()
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	won, err := s.userRepo.RotateRefreshToken(ctx, user.ID, presented, next.Token, next.Created, next.Expires)
	if err != nil {
		return nil, err
	}
	if !won {
		observability.RecordTokenRefresh(false)
		return nil, models.NewUnauthorizedError("Refresh token already used")
	}

	observability.RecordTokenRefresh(true)
	return &Session{User: user, AccessToken: accessToken, RefreshToken: next}, nil
}

// Revoke clears the stored refresh token for the named user. Outstanding
// access tokens stay valid until they expire.
func (s *AuthService) Revoke(ctx context.Context, username string) error {
	cleared, err := s.userRepo.ClearRefreshToken(ctx, username)
	if err != nil {
		return err
	}
	if !cleared {
		return models.NewNotFoundError("User", username)
	}
	return nil
}

// Logout ends the caller's session by clearing their refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.userRepo.ClearRefreshToken(ctx, user.Username)
	return err
}

// AccessTTL exposes the configured access token lifetime for cookie expiry.
func (s *AuthService) AccessTTL() time.Duration {
	return s.issuer.AccessTTL()
}

func (s *AuthService) openSession(ctx context.Context, user *models.User) (*Session, error) {
	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refresh, err := s.issuer.IssueRefreshToken()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refresh.Token, refresh.Created, refresh.Expires); err != nil {
		return nil, err
	}
	return &Session{User: user, AccessToken: accessToken, RefreshToken: refresh}, nil
}
