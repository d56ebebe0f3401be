package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("RECONCILE_SCHEDULE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Driver != "sqlite3" {
		t.Errorf("Expected default driver sqlite3, got %s", cfg.Database.Driver)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Expected 25 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Reconciler.Schedule != "@every 15m" {
		t.Errorf("Expected default schedule, got %s", cfg.Reconciler.Schedule)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("Expected 24h token ttl, got %s", cfg.Auth.TokenTTL)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_TTL", "tomorrow")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for invalid duration, got nil")
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.MaxIdleConns != 5 {
		t.Errorf("Expected fallback 5, got %d", cfg.Database.MaxIdleConns)
	}
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mysql")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for unsupported driver, got nil")
	}
}
