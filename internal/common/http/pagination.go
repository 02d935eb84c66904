package http

import (
	"net/http"
	"strconv"

	"github.com/rkarimov/smart-traffic/internal/common/constants"
)

// Pagination reads skip/limit query parameters, falling back to 0 and the
// default list limit on absent or unparsable values.
func Pagination(r *http.Request) (skip, limit int) {
	skip = intQuery(r, "skip", 0)
	limit = intQuery(r, "limit", constants.DefaultListLimit)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > constants.DefaultListLimit {
		limit = constants.DefaultListLimit
	}
	return skip, limit
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
