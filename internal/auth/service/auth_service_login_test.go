package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/akarpov/content-api/internal/auth/service"
	"github.com/akarpov/content-api/internal/common/clock"
	commoncrypto "github.com/akarpov/content-api/internal/common/crypto"
	commonerrors "github.com/akarpov/content-api/internal/common/errors"
	"github.com/akarpov/content-api/internal/common/jwtverify"
	userdomain "github.com/akarpov/content-api/internal/user/domain"
)

func storedUser() userdomain.User {
	return userdomain.User{
		ID:           "user-123",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed_s3cret",
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	users := &mockUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (userdomain.User, error) {
			return storedUser(), nil
		},
	}

	svc := newTestService(t, users, &mockHasher{}, clock.NewRealClock())

	token, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := jwtverify.ParseToken(token, []byte(testSecret))
	if err != nil {
		t.Fatalf("expected issued token to verify, got %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected sub user-123, got %q", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected usr alice, got %q", claims.Username)
	}
	if claims.IsAdmin {
		t.Error("expected adm to be false")
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestService(t, &mockUserRepo{}, &mockHasher{}, clock.NewRealClock())

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@example.com",
		Password: "s3cret",
	})

	if !errors.Is(err, service.ErrUnknownEmail) {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}

	de, _ := commonerrors.AsDomainError(err)
	if de.HTTPStatus() != 404 {
		t.Errorf("expected status 404, got %d", de.HTTPStatus())
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	users := &mockUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (userdomain.User, error) {
			return storedUser(), nil
		},
	}
	hasher := &mockHasher{
		compareFunc: func(hash string, password string) error {
			return commoncrypto.ErrPasswordMismatch
		},
	}

	svc := newTestService(t, users, hasher, clock.NewRealClock())

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong",
	})

	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	de, _ := commonerrors.AsDomainError(err)
	if de.HTTPStatus() != 401 {
		t.Errorf("expected status 401, got %d", de.HTTPStatus())
	}
}

func TestAuthService_Login_MalformedStoredHash(t *testing.T) {
	users := &mockUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (userdomain.User, error) {
			return storedUser(), nil
		},
	}
	hasher := &mockHasher{
		compareFunc: func(hash string, password string) error {
			return fmt.Errorf("%w: bad prefix", commoncrypto.ErrMalformedHash)
		},
	}

	svc := newTestService(t, users, hasher, clock.NewRealClock())

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "alice@example.com",
		Password: "s3cret",
	})

	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatalf("expected a domain error, got %v", err)
	}
	if de.HTTPStatus() != 500 {
		t.Errorf("a corrupted credential record is an internal error, expected 500, got %d", de.HTTPStatus())
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		t.Error("a corrupted credential record must not look like a wrong password")
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	users := &mockUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (userdomain.User, error) {
			return userdomain.User{}, errors.New("connection refused")
		},
	}

	svc := newTestService(t, users, &mockHasher{}, clock.NewRealClock())

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "alice@example.com",
		Password: "s3cret",
	})

	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatalf("expected a domain error, got %v", err)
	}
	if de.HTTPStatus() != 500 {
		t.Errorf("expected status 500, got %d", de.HTTPStatus())
	}
}
