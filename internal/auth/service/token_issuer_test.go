package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akarpov/content-api/internal/auth/service"
	"github.com/akarpov/content-api/internal/common/clock"
	"github.com/akarpov/content-api/internal/common/jwtverify"
)

func TestTokenIssuer_Issue_Roundtrip(t *testing.T) {
	issuer := service.NewTokenIssuer(testSecret, time.Hour, clock.NewRealClock())

	token, err := issuer.Issue(storedUser())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := jwtverify.ParseToken(token, []byte(testSecret))
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected sub user-123, got %q", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected email claim, got %q", claims.Email)
	}
}

func TestTokenIssuer_Issue_ClaimsAreSanitized(t *testing.T) {
	issuer := service.NewTokenIssuer(testSecret, time.Hour, clock.NewRealClock())

	token, err := issuer.Issue(storedUser())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("expected token to parse, got %v", err)
	}

	mapClaims := parsed.Claims.(jwt.MapClaims)
	allowed := map[string]bool{
		"sub": true, "email": true, "usr": true, "adm": true, "iat": true, "exp": true,
	}
	for name := range mapClaims {
		if !allowed[name] {
			t.Errorf("unexpected claim %q in token", name)
		}
	}
	if _, found := mapClaims["password"]; found {
		t.Error("token must never carry the password hash")
	}
}

func TestTokenIssuer_ExpiryIsOneTTLFromNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mockClock := clock.NewMockClock(now)
	issuer := service.NewTokenIssuer(testSecret, time.Hour, mockClock)

	token, err := issuer.Issue(storedUser())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, err := parser.Parse(token, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("expected token to parse, got %v", err)
	}

	mapClaims := parsed.Claims.(jwt.MapClaims)
	exp := int64(mapClaims["exp"].(float64))
	if want := now.Add(time.Hour).Unix(); exp != want {
		t.Errorf("expected exp %d, got %d", want, exp)
	}
	iat := int64(mapClaims["iat"].(float64))
	if iat != now.Unix() {
		t.Errorf("expected iat %d, got %d", now.Unix(), iat)
	}
}

func TestTokenIssuer_ExpiredTokenFailsVerification(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := service.NewTokenIssuer(testSecret, time.Hour, clock.NewMockClock(past))

	token, err := issuer.Issue(storedUser())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := jwtverify.ParseToken(token, []byte(testSecret)); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestTokenIssuer_WrongSecretFailsVerification(t *testing.T) {
	issuer := service.NewTokenIssuer(testSecret, time.Hour, clock.NewRealClock())

	token, err := issuer.Issue(storedUser())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	other := []byte("different-secret-key-also-32-bytes-long!!")
	if _, err := jwtverify.ParseToken(token, other); err == nil {
		t.Fatal("expected wrong secret to fail verification")
	}
}
