// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Storage drivers accepted in STORE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

type Config struct {
	Port        int
	StoreDriver string
	DBPath      string
	DataDir     string
	RedisURL    string
	JWTSecret   string // Empty disables authentication
	TokenTTL    time.Duration
	Epsilon     decimal.Decimal
}

// AuthEnabled reports whether RPCs require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Load reads the configuration. Variables already set in the environment
// take precedence over the .env file.
func Load() (*Config, error) {
	godotenv.Load() // Load .env file if present
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		StoreDriver: getEnv("STORE_DRIVER", DriverSQLite),
		DBPath:      getEnv("DB_PATH", "./data/expenses.db"),
		DataDir:     getEnv("DATA_DIR", "./data"),
		RedisURL:    getEnv("REDIS_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	cfg.Epsilon, err = decimal.NewFromString(getEnv("SETTLE_EPSILON", "0.01"))
	if err != nil || cfg.Epsilon.IsNegative() {
		return nil, fmt.Errorf("invalid SETTLE_EPSILON %q", os.Getenv("SETTLE_EPSILON"))
	}

	switch cfg.StoreDriver {
	case DriverSQLite, DriverFile:
	case DriverRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when STORE_DRIVER=%s", DriverRedis)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
