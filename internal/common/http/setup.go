package http

import (
	"net/http"

	"github.com/rkarimov/smart-traffic/internal/common/constants"
	"github.com/rkarimov/smart-traffic/internal/common/httpmetrics"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
)

// BuildBaseHandler wraps a service router with the shared middleware stack:
// security headers, panic recovery, trace IDs, request size limit, metrics.
func BuildBaseHandler(serviceName string, log *logger.Logger, handler http.Handler) http.Handler {
	collector := httpmetrics.New(serviceName)
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(collector.Wrap(handler)))))
}
