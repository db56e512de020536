package seed

import (
	"testing"

	"plusnine/internal/auth"
	"plusnine/internal/database"
	"plusnine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestFactoryCreateUser(t *testing.T) {
	db := testDB(t)
	factory := NewFactory(db, SeedOptions{})

	user, err := factory.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, models.RoleMember, user.Role)
	assert.NotEmpty(t, user.Username)
	assert.NotEmpty(t, user.Email)

	// Generated accounts must be able to log in with the default password.
	assert.True(t, auth.NewHasher().Verify(DefaultPassword, user.PasswordHash, user.PasswordSalt))
}

func TestFactoryCreateUserOverrides(t *testing.T) {
	db := testDB(t)
	factory := NewFactory(db, SeedOptions{SkipHashing: true})

	user, err := factory.CreateUser(func(u *models.User) {
		u.Username = "fixed"
		u.Role = models.RolePremium
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed", user.Username)
	assert.Equal(t, models.RolePremium, user.Role)
}

func TestFactoryDryRunWritesNothing(t *testing.T) {
	db := testDB(t)
	factory := NewFactory(db, SeedOptions{DryRun: true, SkipHashing: true})

	user, err := factory.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	_, err = factory.CreateFriendRequest(user, user, models.FriendRequestPending)
	require.NoError(t, err)
	require.NoError(t, factory.CreateFriendship(user, user))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.FriendRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFactoryCreateFriendshipNormalizesPair(t *testing.T) {
	db := testDB(t)
	factory := NewFactory(db, SeedOptions{SkipHashing: true})

	a, err := factory.CreateUser()
	require.NoError(t, err)
	b, err := factory.CreateUser()
	require.NoError(t, err)

	require.NoError(t, factory.CreateFriendship(b, a))

	var edge models.Friendship
	require.NoError(t, db.First(&edge).Error)
	assert.Less(t, edge.UserLowID, edge.UserHighID)
}

func TestFactoryCreateObjectiveDerivesProgress(t *testing.T) {
	db := testDB(t)
	factory := NewFactory(db, SeedOptions{SkipHashing: true})

	user, err := factory.CreateUser()
	require.NoError(t, err)

	objective, err := factory.CreateObjective(user, func(o *models.Objective) {
		o.CurrentAmount = 75
		o.AmountToComplete = 300
	})
	require.NoError(t, err)
	assert.EqualValues(t, 25, objective.Progress)
	assert.False(t, objective.Completed)
}

func TestSeedPopulatesAllTables(t *testing.T) {
	db := testDB(t)

	err := Seed(db, Options{
		NumUsers:          8,
		ObjectivesPerUser: 2,
		FriendDensity:     1, // every pair becomes friends, keeps the test deterministic
		SkipHashing:       true,
	})
	require.NoError(t, err)

	var users, requests, friendships int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.FriendRequest{}).Count(&requests).Error)
	require.NoError(t, db.Model(&models.Friendship{}).Count(&friendships).Error)

	assert.EqualValues(t, 8, users)
	assert.EqualValues(t, 28, friendships) // 8 choose 2
	assert.Equal(t, requests, friendships)
}
