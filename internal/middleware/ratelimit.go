package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// limitingDisabled reports whether per-route limits should be skipped
// entirely. Dev, test, and load-test workflows must not be throttled.
func limitingDisabled() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// CheckRateLimit counts a hit against resource/id and reports whether the
// request is still within limit for the window. The counter lives in Redis
// so limits hold across instances.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if limitingDisabled() {
		return true, nil
	}
	if rdb == nil {
		return false, errors.New("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	// First hit in the window owns setting the expiry.
	if count == 1 {
		rdb.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

// RateLimit returns a Fiber middleware enforcing `limit` requests per
// `window`, failing open when the store is down. Requests are keyed by the
// authenticated user when available, by remote IP otherwise.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit store-failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := limiterKey(c)

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(context.Background(), rdb, resource, id, limit, window)
		switch {
		case err != nil && policy == FailClosed:
			log.Printf("WARNING: rate limit store unavailable for %s (resource: %s), failing closed: %v", c.Path(), resource, err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "rate limit unavailable",
			})
		case err != nil:
			return c.Next()
		case !allowed:
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}

func limiterKey(c *fiber.Ctx) string {
	if uid := c.Locals("userID"); uid != nil {
		return fmt.Sprintf("user:%v", uid)
	}
	return "ip:" + c.IP()
}
