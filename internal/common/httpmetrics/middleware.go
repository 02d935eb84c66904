package httpmetrics

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rkarimov/smart-traffic/internal/observability/metrics"
)

type Collector struct {
	service string
}

func New(service string) *Collector {
	return &Collector{service: service}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (c *Collector) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := NormalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(c.service, r.Method, path).Inc()
		metrics.HTTPRequestsInFlight.WithLabelValues(c.service).Inc()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.HTTPRequestsInFlight.WithLabelValues(c.service).Dec()

		statusClass := fmt.Sprintf("%dxx", rec.status/100)
		metrics.HTTPRequestDurationSeconds.
			WithLabelValues(c.service, r.Method, path, statusClass).
			Observe(time.Since(start).Seconds())

		if rec.status >= http.StatusBadRequest {
			metrics.HTTPErrorsTotal.
				WithLabelValues(c.service, fmt.Sprintf("%d", rec.status), path, r.Method).
				Inc()
		}
	})
}

// NormalizePath collapses path parameters so metric cardinality stays
// bounded: numeric segments and UUID-looking segments become {param}.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if isNumeric(part) || isUUIDLike(part) {
			parts[i] = "{param}"
		}
	}

	return strings.Join(parts, "/")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isUUIDLike(s string) bool {
	if len(s) != 36 {
		return false
	}
	return s[8] == '-' && s[13] == '-' && s[18] == '-' && s[23] == '-'
}
