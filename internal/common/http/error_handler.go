package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/rkarimov/smart-traffic/internal/common/errors"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
	"github.com/rkarimov/smart-traffic/internal/observability/metrics"
)

// HandleError translates an error into the public {"detail": ...} shape.
// Domain errors keep their configured status and detail; anything else is a
// plain 500 with the cause confined to the server log.
func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	if err == nil {
		return
	}

	ctx := r.Context()

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		status := domainErr.HTTPStatus()

		log.WithFields(ctx, logger.Fields{
			"error_code": domainErr.Code(),
			"category":   string(domainErr.Category()),
			"status":     status,
			"action":     "domain_error",
		}).Warnf("domain error: %s", domainErr.Error())

		metrics.DomainErrorsTotal.WithLabelValues(
			string(domainErr.Category()),
			domainErr.Code(),
			strconv.Itoa(status),
		).Inc()

		if status == http.StatusUnauthorized {
			WriteUnauthorized(w, domainErr.Detail())
			return
		}
		WriteDetail(w, status, domainErr.Detail())
		return
	}

	log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Error("unhandled error")

	WriteDetail(w, http.StatusInternalServerError, "Internal server error")
}
