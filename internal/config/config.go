// Package config loads storefront settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPAddr        string        `env:"STOREFRONT_HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"STOREFRONT_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	CatalogURL     string        `env:"STOREFRONT_CATALOG_URL" envDefault:"https://fakestoreapi.com"`
	CatalogTimeout time.Duration `env:"STOREFRONT_CATALOG_TIMEOUT" envDefault:"10s"`

	Storage       string `env:"STOREFRONT_STORAGE" envDefault:"sqlite"`
	SQLitePath    string `env:"STOREFRONT_SQLITE_PATH" envDefault:"storefront.db"`
	PostgresDSN   string `env:"STOREFRONT_POSTGRES_DSN"`
	RedisAddr     string `env:"STOREFRONT_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"STOREFRONT_REDIS_PASSWORD"`
	RedisDB       int    `env:"STOREFRONT_REDIS_DB" envDefault:"0"`

	AMQPURL string `env:"STOREFRONT_AMQP_URL"`

	SessionCookie string `env:"STOREFRONT_SESSION_COOKIE" envDefault:"storefront_session"`
	MaxSessions   int    `env:"STOREFRONT_MAX_SESSIONS" envDefault:"10000"`

	// SecureCookie marks the session cookie Secure; enable behind HTTPS.
	SecureCookie bool `env:"STOREFRONT_SECURE_COOKIE" envDefault:"false"`

	LogLevel  string `env:"STOREFRONT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"STOREFRONT_LOG_FORMAT" envDefault:"json"`

	OTelEndpoint string `env:"STOREFRONT_OTEL_ENDPOINT"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("STOREFRONT_SQLITE_PATH is required for sqlite storage")
		}
	case StoragePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("STOREFRONT_POSTGRES_DSN is required for postgres storage")
		}
	case StorageRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("STOREFRONT_REDIS_ADDR is required for redis storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STOREFRONT_STORAGE[%s] is not supported", c.Storage)
	}

	if c.SessionCookie == "" {
		return fmt.Errorf("STOREFRONT_SESSION_COOKIE is empty")
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("STOREFRONT_MAX_SESSIONS must not be negative")
	}
	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("STOREFRONT_CATALOG_TIMEOUT must be positive")
	}
	if _, err := c.slogLevel(); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("STOREFRONT_LOG_FORMAT[%s] is not supported", c.LogFormat)
	}

	return nil
}

// NewLogger builds the process logger described by the log settings.
func (c Config) NewLogger() *slog.Logger {
	level, err := c.slogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func (c Config) slogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("STOREFRONT_LOG_LEVEL[%s] is not supported", c.LogLevel)
	}
	return level, nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
