package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/akarpov/content-api/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
)

// Config is loaded once at startup and never mutated afterwards. The
// signing secret and hash cost are threaded explicitly into the token
// issuer/verifier and the password hasher.
type Config struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	BcryptCost     int
	RequestTimeout time.Duration
	LogDir         string
	LogLevel       string
}

func Load() (Config, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return Config{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:    getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL: databaseURL,
		JWTSecret:   jwtSecret,
		BcryptCost:  getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		// Zero keeps the global request-timeout wrapper disabled.
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 0),
		LogDir:         os.Getenv("LOG_DIR"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
	}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
