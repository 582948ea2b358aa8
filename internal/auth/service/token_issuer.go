package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akarpov/content-api/internal/common/clock"
	"github.com/akarpov/content-api/internal/observability/metrics"
	userdomain "github.com/akarpov/content-api/internal/user/domain"
)

// TokenIssuer signs HS256 access tokens. Claims are a snapshot of the
// user at issuance time; expiry is always relative to the clock, never
// configurable per call.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokenIssuer(secret string, ttl time.Duration, clk clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clk,
	}
}

func (ti *TokenIssuer) Issue(user userdomain.User) (string, error) {
	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub":   string(user.ID),
		"email": user.Email,
		"usr":   user.Username,
		"adm":   false,
		"iat":   now.Unix(),
		"exp":   now.Add(ti.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.secret)
	if err != nil {
		return "", err
	}

	metrics.AccessTokensIssued.Inc()
	return tokenString, nil
}
