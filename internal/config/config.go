package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Environment variables names
const (
	EnvDBURI         = "MFLIX_DB_URI"
	EnvNamespace     = "MFLIX_NS"
	EnvDBPoolSize    = "MFLIX_DB_POOL_SIZE"
	EnvDBWTimeout    = "MFLIX_DB_WTIMEOUT_MS"
	EnvPort          = "PORT"
	EnvCookieSecret  = "COOKIE_SECRET"
	EnvMoviesPerPage = "MOVIES_PER_PAGE"
	EnvLogLevel      = "LOG_LEVEL"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	DBURI         string
	Namespace     string
	PoolSize      uint64
	WTimeout      time.Duration
	Port          string
	CookieSecret  string
	MoviesPerPage int64
	LogLevel      zerolog.Level
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		DBURI:         os.Getenv(EnvDBURI),
		Namespace:     os.Getenv(EnvNamespace),
		WTimeout:      time.Duration(getEnvInt(EnvDBWTimeout, 2500)) * time.Millisecond,
		Port:          getEnv(EnvPort, "5000"),
		CookieSecret:  os.Getenv(EnvCookieSecret),
		MoviesPerPage: int64(getEnvInt(EnvMoviesPerPage, 20)),
	}

	if cfg.DBURI == "" {
		return Config{}, fmt.Errorf("%s is required", EnvDBURI)
	}
	if cfg.Namespace == "" {
		return Config{}, fmt.Errorf("%s is required", EnvNamespace)
	}
	if cfg.CookieSecret == "" {
		return Config{}, fmt.Errorf("%s is required", EnvCookieSecret)
	}
	poolSize := getEnvInt(EnvDBPoolSize, 50)
	if poolSize <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", EnvDBPoolSize)
	}
	cfg.PoolSize = uint64(poolSize)
	if cfg.WTimeout <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", EnvDBWTimeout)
	}
	if cfg.MoviesPerPage <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", EnvMoviesPerPage)
	}

	level, err := zerolog.ParseLevel(getEnv(EnvLogLevel, "debug"))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
