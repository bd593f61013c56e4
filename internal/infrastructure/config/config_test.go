package config_test

import (
	"testing"
	"time"

	"github.com/iho/stockledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RECONCILE_INTERVAL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.ReconcileInterval != 0 {
		t.Fatalf("expected reconciliation sweep disabled by default, got %s", cfg.ReconcileInterval)
	}

	if cfg.OutboxPollInterval != 5*time.Second {
		t.Fatalf("expected default outbox poll interval 5s, got %s", cfg.OutboxPollInterval)
	}

	if cfg.OutboxRetention != 168*time.Hour {
		t.Fatalf("expected default outbox retention of a week, got %s", cfg.OutboxRetention)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("RATE_LIMIT_RPS", "10")
	t.Setenv("RECONCILE_INTERVAL", "1h")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.RateLimitRPS != 10 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}

	if cfg.ReconcileInterval != time.Hour {
		t.Fatalf("expected reconciliation interval override, got %s", cfg.ReconcileInterval)
	}
}
