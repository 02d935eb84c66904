package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rkarimov/smart-traffic/internal/auth/domain"
	"github.com/rkarimov/smart-traffic/internal/auth/repository"
	"github.com/rkarimov/smart-traffic/internal/auth/token"
	"github.com/rkarimov/smart-traffic/internal/common/clock"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
)

const testSecret = "test-secret-key-with-enough-length-0123456789"

func setupAuthService(t *testing.T) (*AuthService, *mockUserRepo, *mockHasher, *clock.MockClock) {
	t.Helper()

	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "ERROR")

	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	cfg := token.Config{Secret: []byte(testSecret), TTL: 30 * time.Minute}

	svc := NewAuthService(
		repo,
		hasher,
		&mockIDGenerator{},
		token.NewIssuer(cfg, mockClock),
		token.NewVerifier(cfg, mockClock),
		mockClock,
		log,
	)
	return svc, repo, hasher, mockClock
}

func TestAuthService_Signup_Success(t *testing.T) {
	svc, repo, _, mockClock := setupAuthService(t)

	var stored domain.User
	repo.createFunc = func(ctx context.Context, user domain.User) error {
		stored = user
		return nil
	}

	user, err := svc.Signup(context.Background(), Credentials{
		Username: "testuser",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.Username != "testuser" {
		t.Errorf("expected username testuser, got %s", user.Username)
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}
	if user.PasswordHash == "password123" {
		t.Error("expected password to be hashed")
	}
	if !user.CreatedAt.Equal(mockClock.Now()) {
		t.Errorf("expected CreatedAt %v, got %v", mockClock.Now(), user.CreatedAt)
	}
	if stored.ID != user.ID {
		t.Error("expected returned user to match stored user")
	}
}

func TestAuthService_Signup_UsernameTaken(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user domain.User) error {
		return repository.ErrUsernameAlreadyExists
	}

	_, err := svc.Signup(context.Background(), Credentials{
		Username: "testuser",
		Password: "password123",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Signup_ValidationFailures(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"short username", "ab", "password123", ErrValidationUsernameLength},
		{"bad characters", "bad user!", "password123", ErrValidationUsernameChars},
		{"short password", "testuser", "short", ErrValidationPasswordLength},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), Credentials{
				Username: tc.username,
				Password: tc.password,
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_password123",
			IsActive:     true,
		}, nil
	}

	result, err := svc.Login(context.Background(), Credentials{
		Username: "testuser",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.AccessToken == "" {
		t.Error("expected access token to be set")
	}
	if result.TokenType != "bearer" {
		t.Errorf("expected token type bearer, got %s", result.TokenType)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{}, repository.ErrUserNotFound
	}
	_, unknownUserErr := svc.Login(context.Background(), Credentials{
		Username: "ghost",
		Password: "password123",
	})

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{
			Username:     username,
			PasswordHash: "hashed_rightpassword",
			IsActive:     true,
		}, nil
	}
	_, wrongPasswordErr := svc.Login(context.Background(), Credentials{
		Username: "testuser",
		Password: "wrongpassword",
	})

	if !errors.Is(unknownUserErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", unknownUserErr)
	}
	if !errors.Is(wrongPasswordErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPasswordErr)
	}
	if unknownUserErr.Error() != wrongPasswordErr.Error() {
		t.Errorf("failure modes must be identical: %q vs %q", unknownUserErr, wrongPasswordErr)
	}
}

func TestAuthService_Login_MalformedStoredHash(t *testing.T) {
	svc, repo, hasher, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{
			Username:     username,
			PasswordHash: "not-a-real-hash",
			IsActive:     true,
		}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		return errors.New("hashedPassword is not the hash of the given password")
	}

	_, err := svc.Login(context.Background(), Credentials{
		Username: "testuser",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Resolve_Success(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_password123",
			IsActive:     true,
		}, nil
	}
	result, err := svc.Login(context.Background(), Credentials{
		Username: "testuser",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login setup failed: %v", err)
	}

	user, err := svc.Resolve(context.Background(), result.AccessToken)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username testuser, got %s", user.Username)
	}
}

func TestAuthService_Resolve_ExpiredToken(t *testing.T) {
	svc, repo, _, mockClock := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_password123",
			IsActive:     true,
		}, nil
	}
	result, err := svc.Login(context.Background(), Credentials{
		Username: "testuser",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login setup failed: %v", err)
	}

	mockClock.Advance(31 * time.Minute)

	_, err = svc.Resolve(context.Background(), result.AccessToken)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Resolve_UnknownSubject(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_password123",
			IsActive:     true,
		}, nil
	}
	result, err := svc.Login(context.Background(), Credentials{
		Username: "testuser",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login setup failed: %v", err)
	}

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{}, repository.ErrUserNotFound
	}

	_, err = svc.Resolve(context.Background(), result.AccessToken)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// Resolve reports the user as stored, deactivated or not. Rejecting
// inactive accounts is the transport's job.
func TestAuthService_Resolve_ReturnsInactiveUser(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_password123",
			IsActive:     true,
		}, nil
	}
	result, err := svc.Login(context.Background(), Credentials{
		Username: "testuser",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login setup failed: %v", err)
	}

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_password123",
			IsActive:     false,
		}, nil
	}

	user, err := svc.Resolve(context.Background(), result.AccessToken)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.IsActive {
		t.Error("expected resolved user to be inactive")
	}
}

func TestAuthService_Resolve_GarbageToken(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	_, err := svc.Resolve(context.Background(), "not.a.token")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_GetUser_NotFound(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.UserID) (domain.User, error) {
		return domain.User{}, repository.ErrUserNotFound
	}

	_, err := svc.GetUser(context.Background(), "missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
