package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix       = "user:%d"
	FriendsKeyPrefix    = "user:%d:friends"
	ObjectivesKeyPrefix = "user:%d:objectives"
)

const (
	UserTTL       = 5 * time.Minute
	FriendsTTL    = 2 * time.Minute
	ObjectivesTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func FriendsKey(userID uint) string {
	return fmt.Sprintf(FriendsKeyPrefix, userID)
}

func ObjectivesKey(userID uint) string {
	return fmt.Sprintf(ObjectivesKeyPrefix, userID)
}

// Aside implements the cache-aside pattern: return the cached value when
// present, otherwise load, store with the TTL, and return the loaded value.
// Cache failures fall through to the loader; the cache is never load-bearing.
func Aside[T any](ctx context.Context, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if client != nil {
		if raw, err := client.Get(ctx, key).Result(); err == nil {
			var cached T
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			// Corrupt entry; drop it and reload.
			client.Del(ctx, key)
		} else if err != redis.Nil {
			// Redis error is already counted by the metrics hook.
			_ = err
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if client != nil {
		if raw, err := json.Marshal(value); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return value, nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateFriends drops both users' cached friend lists after a
// friendship change.
func InvalidateFriends(ctx context.Context, a, b uint) {
	Invalidate(ctx, FriendsKey(a))
	Invalidate(ctx, FriendsKey(b))
}

func InvalidateObjectives(ctx context.Context, userID uint) {
	Invalidate(ctx, ObjectivesKey(userID))
}
