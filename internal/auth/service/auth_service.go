package service

import (
	"context"
	"errors"

	"github.com/akarpov/content-api/internal/common/clock"
	commoncrypto "github.com/akarpov/content-api/internal/common/crypto"
	commonerrors "github.com/akarpov/content-api/internal/common/errors"
	"github.com/akarpov/content-api/internal/common/logger"
	"github.com/akarpov/content-api/internal/observability/metrics"
	userdomain "github.com/akarpov/content-api/internal/user/domain"
	userrepo "github.com/akarpov/content-api/internal/user/repository"
)

// AuthService implements registration and login. Password hashing runs
// on the request goroutine; bcrypt blocks only that goroutine, so no
// separate hashing worker is needed.
type AuthService struct {
	users       userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	tokens      *TokenIssuer
	clock       clock.Clock
	log         *logger.Logger
}

func NewAuthService(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	tokens *TokenIssuer,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		hasher:      hasher,
		idGenerator: idGenerator,
		tokens:      tokens,
		clock:       clk,
		log:         log,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_email_exists",
			}).Warn("register failed: email already registered")
			return userdomain.User{}, ErrEmailTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return userdomain.User{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.UsersRegistered.Inc()

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_email").Inc()
			return "", ErrUnknownEmail
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return "", commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, commoncrypto.ErrMalformedHash) {
			// A credential record we cannot parse is a data-integrity
			// failure, not a wrong password.
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_malformed_hash",
			}).Errorf("login failed: %v", err)
			return "", commonerrors.ErrInternalError.WithCause(err)
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_invalid_password",
		}).Warn("login failed: invalid password")
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_password").Inc()
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return token, nil
}
