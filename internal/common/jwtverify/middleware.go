package jwtverify

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	commonhttp "github.com/akarpov/content-api/internal/common/http"
	"github.com/akarpov/content-api/internal/common/logger"
	"github.com/akarpov/content-api/internal/observability/metrics"
	userdomain "github.com/akarpov/content-api/internal/user/domain"
	userrepo "github.com/akarpov/content-api/internal/user/repository"
)

// TokenHeader carries the raw bearer token. The API predates the
// conventional Authorization: Bearer scheme and clients send the token
// in a bare "auth" header.
const TokenHeader = "auth"

// Claims is the verified identity snapshot decoded from a token.
type Claims struct {
	UserID   string
	Email    string
	Username string
	IsAdmin  bool
}

// UserResolver re-resolves the token subject to a live user record on
// every request. Satisfied by the user repository.
type UserResolver interface {
	FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

type contextKey string

const (
	claimsKey contextKey = "jwt_claims"
	userKey   contextKey = "auth_user"
)

// Guard authenticates requests. It is stateless: authorization is
// re-derived from the token on each call, and a valid token stays valid
// until its expiry elapses. Every path through the guard produces
// exactly one response or forwards to the next handler.
type Guard struct {
	secret []byte
	users  UserResolver
	log    *logger.Logger
}

func New(secret string, users UserResolver, log *logger.Logger) *Guard {
	return &Guard{
		secret: []byte(secret),
		users:  users,
		log:    log,
	}
}

func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(TokenHeader)
		if raw == "" {
			g.log.Warnf("auth failed path=%s: missing token header", r.URL.Path)
			commonhttp.WriteError(w, http.StatusUnauthorized, "authentication failed")
			return
		}

		claims, err := ParseToken(raw, g.secret)
		if err != nil {
			g.log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
			commonhttp.WriteError(w, http.StatusUnauthorized, "authentication failed")
			return
		}

		user, err := g.users.FindByID(r.Context(), userdomain.ID(claims.UserID))
		if err != nil {
			if errors.Is(err, userrepo.ErrUserNotFound) {
				// The account may have been deleted after issuance.
				g.log.Warnf("auth failed path=%s: token subject no longer exists", r.URL.Path)
				commonhttp.WriteError(w, http.StatusUnauthorized, "authentication failed")
				return
			}
			g.log.Errorf("auth failed path=%s: user lookup error: %v", r.URL.Path, err)
			commonhttp.WriteError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = context.WithValue(ctx, userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require adapts Middleware for individual handler funcs.
func (g *Guard) Require(next http.HandlerFunc) http.HandlerFunc {
	wrapped := g.Middleware(next)
	return func(w http.ResponseWriter, r *http.Request) {
		wrapped.ServeHTTP(w, r)
	}
}

func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

func UserFromContext(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(userKey).(userdomain.User)
	return user, ok
}

// ParseToken verifies the signature and expiry and decodes the claims.
// It never panics on malformed input; every failure is an error result.
func ParseToken(tokenString string, secret []byte) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, errors.New("missing sub claim")
	}

	email, _ := mapClaims["email"].(string)
	username, _ := mapClaims["usr"].(string)
	isAdmin, _ := mapClaims["adm"].(bool)

	return Claims{
		UserID:   sub,
		Email:    email,
		Username: username,
		IsAdmin:  isAdmin,
	}, nil
}
