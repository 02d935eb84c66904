package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rkarimov/smart-traffic/internal/common/constants"
	commonerrors "github.com/rkarimov/smart-traffic/internal/common/errors"
)

// Logging is shared by every service: where rotated log files go and the
// minimum level to emit.
type Logging struct {
	Dir   string
	Level string
}

type TrafficConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	AccessTokenTTL time.Duration
	RequestTimeout time.Duration
	Logging        Logging
}

type IncidentConfig struct {
	HTTPPort       string
	DatabaseURL    string
	RequestTimeout time.Duration
	Logging        Logging
}

type SignalConfig struct {
	HTTPPort string
	Logging  Logging
}

type UIConfig struct {
	HTTPPort       string
	TrafficAPIURL  string
	IncidentAPIURL string
	RedisAddr      string
	RedisPassword  string
	RequestTimeout time.Duration
	Logging        Logging
}

func loadLogging() Logging {
	return Logging{
		Dir:   getEnv("LOG_DIR", "logs"),
		Level: getEnv("LOG_LEVEL", "INFO"),
	}
}

func LoadTrafficConfig() (TrafficConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return TrafficConfig{}, err
	}

	if err := ValidateJWTSecret(jwtSecret); err != nil {
		return TrafficConfig{}, err
	}

	databaseURL, err := mustEnv("TRAFFIC_DATABASE_URL")
	if err != nil {
		return TrafficConfig{}, err
	}

	return TrafficConfig{
		HTTPPort:       getEnv("TRAFFIC_HTTP_PORT", constants.DefaultTrafficHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		RequestTimeout: getDurationEnv("TRAFFIC_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		Logging:        loadLogging(),
	}, nil
}

func LoadIncidentConfig() (IncidentConfig, error) {
	databaseURL, err := mustEnv("INCIDENT_DATABASE_URL")
	if err != nil {
		return IncidentConfig{}, err
	}

	return IncidentConfig{
		HTTPPort:       getEnv("INCIDENT_HTTP_PORT", constants.DefaultIncidentHTTPPort),
		DatabaseURL:    databaseURL,
		RequestTimeout: getDurationEnv("INCIDENT_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		Logging:        loadLogging(),
	}, nil
}

func LoadSignalConfig() SignalConfig {
	return SignalConfig{
		HTTPPort: getEnv("SIGNAL_HTTP_PORT", constants.DefaultSignalHTTPPort),
		Logging:  loadLogging(),
	}
}

func LoadUIConfig() UIConfig {
	return UIConfig{
		HTTPPort:       getEnv("UI_HTTP_PORT", constants.DefaultUIHTTPPort),
		TrafficAPIURL:  getEnv("TRAFFIC_API_URL", "http://127.0.0.1:8001"),
		IncidentAPIURL: getEnv("INCIDENT_API_URL", "http://127.0.0.1:8002"),
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RequestTimeout: getDurationEnv("UI_REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		Logging:        loadLogging(),
	}
}

// ValidateJWTSecret rejects secrets that are unusable in any production
// posture: empty, shorter than the minimum, or the documented placeholder.
func ValidateJWTSecret(secret string) error {
	if secret == constants.InsecureSecretPlaceholder {
		return fmt.Errorf("%w: placeholder value", commonerrors.ErrInsecureJWTSecret)
	}
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes, need %d", commonerrors.ErrInsecureJWTSecret, len(secret), constants.JWTSecretMinLength)
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
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
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
