package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/akarpov/content-api/internal/common/config"
)

const validSecret = "test-secret-key-must-be-at-least-32-bytes-long"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/content")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("expected default bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("expected request timeout disabled by default, got %v", cfg.RequestTimeout)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/content")

	_, err := config.Load()
	if !errors.Is(err, config.ErrMissingRequiredEnv) {
		t.Fatalf("expected ErrMissingRequiredEnv, got %v", err)
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/content")

	_, err := config.Load()
	if !errors.Is(err, config.ErrInvalidJWTSecret) {
		t.Fatalf("expected ErrInvalidJWTSecret, got %v", err)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	if !errors.Is(err, config.ErrMissingRequiredEnv) {
		t.Fatalf("expected ErrMissingRequiredEnv, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("REQUEST_TIMEOUT", "30s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.HTTPPort)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("expected bcrypt cost 12, got %d", cfg.BcryptCost)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected request timeout 30s, got %v", cfg.RequestTimeout)
	}
}
