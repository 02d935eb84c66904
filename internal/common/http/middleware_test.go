package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rkarimov/smart-traffic/internal/common/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestTraceIDMiddleware_GeneratesAndEchoes(t *testing.T) {
	handler := TraceIDMiddleware(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Header().Get("X-Trace-ID") == "" {
		t.Error("expected generated trace id")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Trace-ID"); got != "trace-123" {
		t.Errorf("expected incoming trace id echoed, got %q", got)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("expected nosniff, got %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("expected DENY, got %q", got)
	}
}

func TestMaxRequestSizeMiddleware_RejectsOversized(t *testing.T) {
	handler := MaxRequestSizeMiddleware(16)(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 64)))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestRecoveryMiddleware_Returns500(t *testing.T) {
	log, _ := logger.New("", "test", "CRITICAL")
	handler := RecoveryMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"detail":"Internal server error"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
