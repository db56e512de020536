package repository

import (
	"context"
	"testing"
	"time"

	"plusnine/internal/cache"
	"plusnine/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: []byte("hash"),
		PasswordSalt: []byte("salt"),
		Role:         models.RoleMember,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("GetByUsername", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)

		missing, err := repo.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		dup := &models.User{
			Username:     "alice",
			Email:        "other@example.com",
			PasswordHash: []byte("h"),
			PasswordSalt: []byte("s"),
		}
		err := repo.Create(ctx, dup)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})
}

func TestUserRepository_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "anna")
	createTestUser(t, db, "annabel")
	createTestUser(t, db, "bob")

	results, err := repo.Search(ctx, "ANNA", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "anna", results[0].Username)
	assert.Equal(t, "annabel", results[1].Username)

	results, err = repo.Search(ctx, "zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUserRepository_RefreshTokenRotation(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")

	now := time.Now()
	require.NoError(t, repo.SetRefreshToken(ctx, user.ID, "token-one", now, now.Add(7*24*time.Hour)))

	got, err := repo.GetByRefreshToken(ctx, "token-one")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	t.Run("RotationWinsOnce", func(t *testing.T) {
		won, err := repo.RotateRefreshToken(ctx, user.ID, "token-one", "token-two", now, now.Add(7*24*time.Hour))
		require.NoError(t, err)
		assert.True(t, won)

		// Replaying the consumed token loses.
		won, err = repo.RotateRefreshToken(ctx, user.ID, "token-one", "token-three", now, now.Add(7*24*time.Hour))
		require.NoError(t, err)
		assert.False(t, won)

		got, err := repo.GetByRefreshToken(ctx, "token-two")
		require.NoError(t, err)
		require.NotNil(t, got)
	})

	t.Run("ClearRefreshToken", func(t *testing.T) {
		cleared, err := repo.ClearRefreshToken(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, cleared)

		got, err := repo.GetByRefreshToken(ctx, "token-two")
		require.NoError(t, err)
		assert.Nil(t, got)

		cleared, err = repo.ClearRefreshToken(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, cleared)
	})
}

func TestUserRepository_ClearRefreshTokenInvalidatesCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	now := time.Now()
	require.NoError(t, repo.SetRefreshToken(ctx, user.ID, "token-one", now, now.Add(time.Hour)))

	// Warm the cache so the revocation has something to drop.
	_, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.UserKey(user.ID)))

	cleared, err := repo.ClearRefreshToken(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.False(t, mr.Exists(cache.UserKey(user.ID)))
}

func TestUserRepository_ElevateRoleByCustomerID(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	require.NoError(t, repo.SetCustomerID(ctx, user.ID, "cus_123"))

	elevated, err := repo.ElevateRoleByCustomerID(ctx, "cus_123", models.RolePremium)
	require.NoError(t, err)
	assert.Equal(t, models.RolePremium, elevated.Role)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPremium())

	_, err = repo.ElevateRoleByCustomerID(ctx, "cus_unknown", models.RolePremium)
	require.Error(t, err)
}
