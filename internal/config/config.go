package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration for the service. Values come from
// environment variables; main loads a .env file first in development.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`

	// DB_URL enables the Postgres history archive sink when set.
	DatabaseURL string `envconfig:"DB_URL"`
	// REDIS_URL enables the task queue and the bootstrap rate limiter when set.
	RedisURL string `envconfig:"REDIS_URL"`

	// HISTORY_MAX_RECORDS caps the in-memory history log; 0 keeps it unbounded.
	HistoryMaxRecords int `envconfig:"HISTORY_MAX_RECORDS" default:"0"`

	// Bootstrap endpoint rate limiting (requires Redis).
	BootstrapRateLimit  int           `envconfig:"BOOTSTRAP_RATE_LIMIT" default:"30"`
	BootstrapRateWindow time.Duration `envconfig:"BOOTSTRAP_RATE_WINDOW" default:"1m"`

	// Queue worker settings.
	QueueConcurrency int `envconfig:"QUEUE_CONCURRENCY" default:"10"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

// IsDevelopment reports whether the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
