package constants

import "time"

const (
	UsernameMinLength  = 3
	UsernameMaxLength  = 32
	PasswordMinLength  = 8
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32

	// Placeholder secret that shipped in early deployment docs. Startup
	// refuses to run with it.
	InsecureSecretPlaceholder = "YOUR_SECRET_KEY"

	DefaultAccessTokenTTL = 30 * time.Minute

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultTrafficHTTPPort  = "8001"
	DefaultIncidentHTTPPort = "8002"
	DefaultSignalHTTPPort   = "8003"
	DefaultUIHTTPPort       = "5000"

	DefaultRequestTimeout = 5 * time.Second
	DefaultListLimit      = 100

	UISessionTTL    = 24 * time.Hour
	UISessionCookie = "session_id"

	SignalFeedSendBufSize = 64
	SignalFeedWriteWait   = 10 * time.Second
	SignalFeedPongWait    = 60 * time.Second
	SignalFeedPingPeriod  = 54 * time.Second

	SignalRedThreshold     = 70
	SignalRedDurationSec   = 45
	SignalGreenDurationSec = 30

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
