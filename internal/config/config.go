// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	DBPath   string `env:"DB_PATH" envDefault:"./data/bahamm.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// JWTSecret verifies bearer tokens minted by the auth service.
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	// GroupWindow is how long a group accepts friends.
	GroupWindow time.Duration `env:"GROUP_WINDOW" envDefault:"24h"`

	// ShareBaseURL is the public URL invite links point to.
	ShareBaseURL string `env:"SHARE_BASE_URL" envDefault:"http://localhost:8080"`

	// RedisAddr enables the Redis acknowledgement store when set.
	RedisAddr string        `env:"REDIS_ADDR"`
	AckTTL    time.Duration `env:"ACK_TTL" envDefault:"720h"`

	// InviteRatePerMinute limits invite resolutions and joins per client.
	InviteRatePerMinute int `env:"INVITE_RATE_PER_MINUTE" envDefault:"30"`

	// OutboxInterval is how often pending payment instructions are dispatched.
	OutboxInterval time.Duration `env:"OUTBOX_INTERVAL" envDefault:"5s"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.GroupWindow <= 0 {
		return nil, fmt.Errorf("GROUP_WINDOW must be positive, got %s", cfg.GroupWindow)
	}
	if cfg.InviteRatePerMinute <= 0 {
		return nil, fmt.Errorf("INVITE_RATE_PER_MINUTE must be positive, got %d", cfg.InviteRatePerMinute)
	}
	return cfg, nil
}
