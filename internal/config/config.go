// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver   string `env:"CHURCHNAV_DB_DRIVER" envDefault:"sqlite"`
	DBPath     string `env:"CHURCHNAV_DB_PATH" envDefault:"./data/churchnav.db"`
	ServerHost string `env:"CHURCHNAV_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"CHURCHNAV_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"CHURCHNAV_ENV" envDefault:"development"`
	LogLevel   string `env:"CHURCHNAV_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"CHURCHNAV_REDIS_URL"`                            // Optional Redis URL for shared caching
	CachePrefix  string `env:"CHURCHNAV_CACHE_PREFIX" envDefault:"churchnav:"` // Redis key prefix
	CacheTTL     int    `env:"CHURCHNAV_CACHE_TTL" envDefault:"3600"`          // Menu tree TTL in seconds
	CacheMaxSize int    `env:"CHURCHNAV_CACHE_MAX_SIZE" envDefault:"10000"`    // Max memory cache entries

	// CacheWarmSchedule is a cron spec for the warm-up job; empty disables it.
	CacheWarmSchedule string `env:"CHURCHNAV_CACHE_WARM_SCHEDULE" envDefault:"@every 15m"`

	// Mutation rate limiting, per client IP
	RateLimitRPS   float64 `env:"CHURCHNAV_RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"CHURCHNAV_RATE_LIMIT_BURST" envDefault:"20"`

	RequestTimeout time.Duration `env:"CHURCHNAV_REQUEST_TIMEOUT" envDefault:"15s"`

	// SeedChurch creates the location menus of this church on startup.
	SeedChurch string `env:"CHURCHNAV_SEED_CHURCH"`

	EventRetention time.Duration `env:"CHURCHNAV_EVENT_RETENTION" envDefault:"720h"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the menu cache TTL.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// RateLimitEnabled reports whether mutating routes are throttled.
func (c Config) RateLimitEnabled() bool {
	return c.RateLimitRPS > 0
}

var validDrivers = []string{"sqlite", "sqlite3"}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.RateLimitEnabled() && cfg.RateLimitBurst < 1 {
		slog.Warn("CHURCHNAV_RATE_LIMIT_BURST is below 1; using 1", "category", "config")
		cfg.RateLimitBurst = 1
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validDrivers, c.DBDriver) {
		errs = append(errs, fmt.Errorf("CHURCHNAV_DB_DRIVER must be one of %s, got %q",
			strings.Join(validDrivers, ", "), c.DBDriver))
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("CHURCHNAV_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("CHURCHNAV_CACHE_TTL must not be negative, got %d", c.CacheTTL))
	}
	if c.CacheWarmSchedule != "" {
		if _, err := cron.ParseStandard(c.CacheWarmSchedule); err != nil {
			errs = append(errs, fmt.Errorf("CHURCHNAV_CACHE_WARM_SCHEDULE: %w", err))
		}
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("CHURCHNAV_REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout))
	}
	return errors.Join(errs...)
}
