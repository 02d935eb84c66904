package service

import (
	"context"
	"errors"

	"github.com/rkarimov/smart-traffic/internal/auth/domain"
	"github.com/rkarimov/smart-traffic/internal/auth/repository"
	"github.com/rkarimov/smart-traffic/internal/auth/token"
	"github.com/rkarimov/smart-traffic/internal/common/clock"
	commoncrypto "github.com/rkarimov/smart-traffic/internal/common/crypto"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/observability/metrics"
)

type AuthService struct {
	repo        repository.UserRepository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	issuer      *token.Issuer
	verifier    *token.Verifier
	clock       clock.Clock
	log         *logger.Logger
}

func NewAuthService(
	repo repository.UserRepository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	issuer *token.Issuer,
	verifier *token.Verifier,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		issuer:      issuer,
		verifier:    verifier,
		clock:       clk,
		log:         log,
	}
}

type Credentials struct {
	Username string
	Password string
}

type TokenResult struct {
	AccessToken string
	TokenType   string
}

// Signup hashes the password and stores a new active user. A taken username
// leaves the existing record untouched.
func (s *AuthService) Signup(ctx context.Context, creds Credentials) (domain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": creds.Username,
		"action":   "signup_attempt",
	}).Info("signup attempt")

	if err := validateCredentials(creds.Username, creds.Password); err != nil {
		metrics.SignupsTotal.WithLabelValues("validation_failed").Inc()
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": creds.Username,
			"action":   "signup_hash_failed",
		}).Errorf("signup failed: password hash error: %v", err)
		return domain.User{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           domain.UserID(id),
		Username:     creds.Username,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": creds.Username,
				"action":   "signup_username_taken",
			}).Warn("signup failed: username taken")
			metrics.SignupsTotal.WithLabelValues("username_taken").Inc()
			return domain.User{}, ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": creds.Username,
			"action":   "signup_create_failed",
		}).Errorf("signup failed: %v", err)
		return domain.User{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "signup_success",
	}).Info("signup success")
	metrics.SignupsTotal.WithLabelValues("success").Inc()

	return user, nil
}

// Login verifies the password against the stored hash and mints a token.
// Unknown username and wrong password both return ErrInvalidCredentials;
// callers must not be able to tell which happened.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (TokenResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": creds.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	user, err := s.repo.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": creds.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: unknown username")
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_user").Inc()
			return TokenResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": creds.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return TokenResult{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, creds.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": creds.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		metrics.LoginAttemptsTotal.WithLabelValues("bad_password").Inc()
		return TokenResult{}, ErrInvalidCredentials
	}

	accessToken, err := s.issuer.Issue(user.Username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": user.Username,
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return TokenResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return TokenResult{AccessToken: accessToken, TokenType: "bearer"}, nil
}

// Resolve turns a bearer token into the current user record. The store is
// re-read on every call, so deactivation wins over a still-valid token. The
// caller decides whether an inactive user is acceptable.
func (s *AuthService) Resolve(ctx context.Context, tokenString string) (domain.User, error) {
	subject, err := s.verifier.Verify(tokenString)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "token_rejected",
		}).Warnf("token verification failed: %v", err)
		return domain.User{}, ErrUnauthorized.WithCause(err)
	}

	user, err := s.repo.FindByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "token_unknown_subject",
			}).Warn("token subject no longer exists")
			return domain.User{}, ErrUnauthorized
		}
		return domain.User{}, err
	}

	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id domain.UserID) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	return s.repo.List(ctx, skip, limit)
}
