package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "DB_PATH", "DATA_DIR", "REDIS_URL", "JWT_SECRET", "TOKEN_TTL", "SETTLE_EPSILON"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.StoreDriver != DriverSQLite || cfg.DBPath != "./data/expenses.db" {
		t.Errorf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.Epsilon.String() != "0.01" {
		t.Errorf("Epsilon = %s, want 0.01", cfg.Epsilon)
	}
	if cfg.AuthEnabled() {
		t.Error("auth should be disabled without JWT_SECRET")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("SETTLE_EPSILON", "0.005")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Port != 9090 || cfg.StoreDriver != DriverRedis || cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.AuthEnabled() || cfg.TokenTTL != time.Hour {
		t.Errorf("unexpected auth config: %+v", cfg)
	}
	if cfg.Epsilon.String() != "0.005" {
		t.Errorf("Epsilon = %s, want 0.005", cfg.Epsilon)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port not a number", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"bad ttl", "TOKEN_TTL", "forever"},
		{"negative epsilon", "SETTLE_EPSILON", "-0.01"},
		{"unknown driver", "STORE_DRIVER", "postgres"},
		{"redis without url", "STORE_DRIVER", "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REDIS_URL", "")
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
