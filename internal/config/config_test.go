package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		JWTSecret:        "secure-secret-at-least-32-chars-long",
		Port:             "8080",
		DBPassword:       "secure-password",
		DBSSLMode:        "require",
		RedisURL:         "localhost:6379",
		Env:              "development",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		StripeWebhookKey: "whsec_test",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid development", func(c *Config) {}, false},
		{"Valid production", func(c *Config) { c.Env = "production" }, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Zero access TTL", func(c *Config) { c.AccessTokenTTL = 0 }, true},
		{"Refresh TTL not longer than access TTL", func(c *Config) {
			c.RefreshTokenTTL = c.AccessTokenTTL
		}, true},
		{"Production with default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"Production with short secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"Production with weak DB password", func(c *Config) {
			c.Env = "prod"
			c.DBPassword = "password"
		}, true},
		{"Production without webhook secret", func(c *Config) {
			c.Env = "production"
			c.StripeWebhookKey = ""
		}, true},
		{"Development with short secret only warns", func(c *Config) {
			c.JWTSecret = "short"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
