package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rkarimov/smart-traffic/internal/common/clock"
	"github.com/rkarimov/smart-traffic/internal/observability/metrics"
)

// Verification failures, kept distinct for server-side logs and metrics.
// The transport collapses all of them into one generic 401 so a caller
// cannot probe which check failed.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrBadSignature   = errors.New("token signature does not match")
	ErrTokenExpired   = errors.New("token has expired")
	ErrMissingSubject = errors.New("token has no subject")
	ErrTokenInvalid   = errors.New("token is not valid")
)

// Config carries the signing material and lifetime. It is constructed once
// at startup and passed in explicitly so separate instances (and tests) can
// hold independent secrets.
type Config struct {
	Secret []byte
	TTL    time.Duration
}

// Issuer mints HS256-signed bearer tokens with sub and exp claims.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewIssuer(cfg Config, clk clock.Clock) *Issuer {
	return &Issuer{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		clock:  clk,
	}
}

func (i *Issuer) Issue(subject string) (string, error) {
	now := i.clock.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(i.ttl).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	metrics.AccessTokensIssued.Inc()
	return tokenString, nil
}

// Verifier checks signature and expiry and recovers the subject.
type Verifier struct {
	secret []byte
	clock  clock.Clock
}

func NewVerifier(cfg Config, clk clock.Clock) *Verifier {
	return &Verifier{
		secret: cfg.Secret,
		clock:  clk,
	}
}

// Verify returns the subject of a valid token. Expiry is strict: no leeway
// is granted, and now comes from the configured clock.
func (v *Verifier) Verify(tokenString string) (string, error) {
	metrics.TokenVerificationsTotal.Inc()

	parsed, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil {
		return "", v.classify(err)
	}
	if !parsed.Valid {
		return "", fail("invalid", ErrTokenInvalid)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fail("missing_subject", ErrMissingSubject)
	}

	return subject, nil
}

func (v *Verifier) classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fail("expired", ErrTokenExpired)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fail("bad_signature", ErrBadSignature)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fail("malformed", ErrTokenMalformed)
	default:
		return fail("invalid", fmt.Errorf("%w: %v", ErrTokenInvalid, err))
	}
}

func fail(reason string, err error) error {
	metrics.TokenVerificationsFailed.WithLabelValues(reason).Inc()
	return err
}
