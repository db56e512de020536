// Package cache provides Redis-backed caching and the shared client.
package cache

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"plusnine/internal/observability"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

var client *redis.Client

// metricsHook counts failed commands per command name. redis.Nil is a cache
// miss, not an error.
type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis connects the shared client to addr, which is either a bare
// host:port or a redis:// URL. Redis is optional: on any failure the client
// stays nil and callers degrade to uncached behavior.
func InitRedis(addr string) {
	opts, err := parseAddr(addr)
	if err != nil {
		log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
		client = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		client = nil
		return
	}

	log.Println("Redis connected successfully")
	client = c
}

func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// GetClient returns the shared Redis client, nil when Redis is unavailable.
func GetClient() *redis.Client {
	return client
}

// SetClient replaces the shared client. Intended for tests.
func SetClient(c *redis.Client) {
	client = c
}
