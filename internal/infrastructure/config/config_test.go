package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

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

	if cfg.OperationTimeout != 30*time.Second {
		t.Fatalf("expected default operation timeout 30s, got %s", cfg.OperationTimeout)
	}

	limits, err := cfg.Limits()
	if err != nil {
		t.Fatalf("unexpected error parsing limits: %v", err)
	}
	if !limits.MaxTransfer.Equal(decimal.NewFromInt(10_000)) {
		t.Fatalf("expected default transfer cap 10000, got %s", limits.MaxTransfer)
	}
	if !limits.MaxDeposit.Equal(decimal.NewFromInt(50_000)) {
		t.Fatalf("expected default deposit cap 50000, got %s", limits.MaxDeposit)
	}
	if !limits.MaxWithdrawal.Equal(decimal.NewFromInt(25_000)) {
		t.Fatalf("expected default withdrawal cap 25000, got %s", limits.MaxWithdrawal)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("MAX_TRANSFER", "2500.50")

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

	limits, err := cfg.Limits()
	if err != nil {
		t.Fatalf("unexpected error parsing limits: %v", err)
	}
	if !limits.MaxTransfer.Equal(decimal.RequireFromString("2500.50")) {
		t.Fatalf("expected transfer cap override, got %s", limits.MaxTransfer)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLimitsRejectNonPositiveCaps(t *testing.T) {
	t.Setenv("MAX_DEPOSIT", "0")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if _, err := cfg.Limits(); err == nil {
		t.Fatalf("expected error for zero deposit cap")
	}
}

func TestLimitsRejectMalformedCaps(t *testing.T) {
	t.Setenv("MAX_WITHDRAWAL", "lots")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if _, err := cfg.Limits(); err == nil {
		t.Fatalf("expected error for malformed withdrawal cap")
	}
}
