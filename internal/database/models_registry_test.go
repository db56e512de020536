package database

import (
	"testing"

	modelspkg "plusnine/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesFriendGraph(t *testing.T) {
	var hasRequest, hasFriendship bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.FriendRequest:
			hasRequest = true
		case *modelspkg.Friendship:
			hasFriendship = true
		}
	}
	require.True(t, hasRequest, "PersistentModels should include FriendRequest")
	require.True(t, hasFriendship, "PersistentModels should include Friendship")
}

func TestMigrateOnSQLite(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"users", "friend_requests", "friendships", "objectives"} {
		require.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}
