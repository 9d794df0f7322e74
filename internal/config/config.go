package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	RedisURL string     `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// AdminPasswordHash is a bcrypt hash; admin login is disabled when empty.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string `env:"JWT_SECRET"`

	// ConnectorIngestKey gates POST /ingest/event. Empty means open ingest,
	// which is only acceptable for local development.
	ConnectorIngestKey string `env:"CONNECTOR_INGEST_KEY"`

	// CleanupInterval enables the periodic retention sweep when > 0.
	CleanupInterval    time.Duration `env:"CLEANUP_INTERVAL" envDefault:"0"`
	CleanupMaxAgeHours int           `env:"CLEANUP_MAX_AGE_HOURS" envDefault:"24"`
	CleanupBatch       int           `env:"CLEANUP_BATCH" envDefault:"200"`

	StaticDir string `env:"STATIC_DIR"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
