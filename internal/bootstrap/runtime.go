// Package bootstrap wires up the storage stack for commands that need
// the same database and cache connections as the API server.
package bootstrap

import (
	"fmt"
	"log"

	"plusnine/internal/cache"
	"plusnine/internal/config"
	"plusnine/internal/database"
	"plusnine/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// FixturesPath, when set, applies deterministic seed fixtures after
	// connecting. Only honored outside production.
	FixturesPath string
}

// InitRuntime connects to DB and Redis and optionally applies fixtures.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := applyFixtures(cfg, db, opts.FixturesPath); err != nil {
		return nil, nil, err
	}

	return db, r, nil
}

func applyFixtures(cfg *config.Config, db *gorm.DB, path string) error {
	if path == "" {
		return nil
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		return fmt.Errorf("refusing to apply fixtures in %s", cfg.Env)
	}

	fixtures, err := seed.LoadFixtures(path)
	if err != nil {
		return err
	}
	byName, err := fixtures.Apply(db, seed.NewFactory(db, seed.SeedOptions{}))
	if err != nil {
		return fmt.Errorf("failed to apply fixtures: %w", err)
	}
	log.Printf("applied %d fixture users from %s", len(byName), path)
	return nil
}
