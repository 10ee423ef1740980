package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port                   int    `env:"PORT" envDefault:"8888"`
	DatabasePath           string `env:"DATABASE_PATH" envDefault:"scratchverifier.db"`
	RedisURL               string `env:"REDIS_URL"`
	LogLevel               string `env:"LOG_LEVEL" envDefault:"info"`
	SessionTTLSeconds      int    `env:"SESSION_TTL_SECONDS" envDefault:"31540000"`
	VerifyTTLSeconds       int    `env:"VERIFY_TTL_SECONDS" envDefault:"1800"`
	CleanupIntervalSeconds int    `env:"CLEANUP_INTERVAL_SECONDS" envDefault:"0"`
	ScratchAPIBaseURL      string `env:"SCRATCH_API_BASE_URL" envDefault:"https://api.scratch.mit.edu"`
	ScratchSiteBaseURL     string `env:"SCRATCH_SITE_BASE_URL" envDefault:"https://scratch.mit.edu"`
	ProfileCacheTTLSeconds int    `env:"PROFILE_CACHE_TTL_SECONDS" envDefault:"300"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

func (c *Config) VerifyTTL() time.Duration {
	return time.Duration(c.VerifyTTLSeconds) * time.Second
}

// CleanupInterval of 0 disables the background sweep entirely; expiry is
// then enforced only lazily at access time.
func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalSeconds) * time.Second
}

func (c *Config) ProfileCacheTTL() time.Duration {
	return time.Duration(c.ProfileCacheTTLSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate() error {
	if c.SessionTTLSeconds <= 0 {
		return fmt.Errorf("SESSION_TTL_SECONDS must be positive")
	}
	if c.VerifyTTLSeconds <= 0 {
		return fmt.Errorf("VERIFY_TTL_SECONDS must be positive")
	}
	if c.CleanupIntervalSeconds < 0 {
		return fmt.Errorf("CLEANUP_INTERVAL_SECONDS must not be negative")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
