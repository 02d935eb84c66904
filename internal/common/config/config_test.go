package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	commonerrors "github.com/rkarimov/smart-traffic/internal/common/errors"
)

func TestValidateJWTSecret(t *testing.T) {
	cases := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"valid", strings.Repeat("x", 32), false},
		{"longer than minimum", strings.Repeat("x", 64), false},
		{"empty", "", true},
		{"too short", strings.Repeat("x", 31), true},
		{"placeholder", "YOUR_SECRET_KEY", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateJWTSecret(tc.secret)
			if tc.wantErr {
				if !errors.Is(err, commonerrors.ErrInsecureJWTSecret) {
					t.Fatalf("expected ErrInsecureJWTSecret, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestLoadTrafficConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TRAFFIC_DATABASE_URL", "postgres://localhost/traffic")

	_, err := LoadTrafficConfig()
	if !errors.Is(err, commonerrors.ErrMissingRequiredEnv) {
		t.Fatalf("expected ErrMissingRequiredEnv, got %v", err)
	}
}

func TestLoadTrafficConfig_RejectsPlaceholderSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "YOUR_SECRET_KEY")
	t.Setenv("TRAFFIC_DATABASE_URL", "postgres://localhost/traffic")

	_, err := LoadTrafficConfig()
	if !errors.Is(err, commonerrors.ErrInsecureJWTSecret) {
		t.Fatalf("expected ErrInsecureJWTSecret, got %v", err)
	}
}

func TestLoadTrafficConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("x", 32))
	t.Setenv("TRAFFIC_DATABASE_URL", "postgres://localhost/traffic")
	t.Setenv("TRAFFIC_HTTP_PORT", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	os.Unsetenv("TRAFFIC_HTTP_PORT")
	os.Unsetenv("ACCESS_TOKEN_TTL")

	cfg, err := LoadTrafficConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort == "" {
		t.Error("expected default port")
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("expected default TTL 30m, got %v", cfg.AccessTokenTTL)
	}
}

func TestLoadTrafficConfig_TTLOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("x", 32))
	t.Setenv("TRAFFIC_DATABASE_URL", "postgres://localhost/traffic")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")

	cfg, err := LoadTrafficConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("expected 15m, got %v", cfg.AccessTokenTTL)
	}
}

func TestGetDurationEnv_IgnoresGarbage(t *testing.T) {
	t.Setenv("SOME_DURATION", "not-a-duration")

	if got := getDurationEnv("SOME_DURATION", time.Minute); got != time.Minute {
		t.Errorf("expected fallback, got %v", got)
	}
}
