package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/rkarimov/smart-traffic/internal/auth/domain"
	"github.com/rkarimov/smart-traffic/internal/auth/service"
	commonhttp "github.com/rkarimov/smart-traffic/internal/common/http"
	"github.com/rkarimov/smart-traffic/internal/common/logger"
)

type contextKey string

const userKey contextKey = "current_user"

// CurrentUser returns the user resolved by RequireUser for this request.
func CurrentUser(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey).(domain.User)
	return user, ok
}

// RequireUser resolves the bearer token into a user record and stores it in
// the request context. Resolution happens on every request: tokens are not
// cached, so a deactivated or deleted user is cut off at their next call.
// Every failure mode answers with the same generic 401.
func RequireUser(auth *service.AuthService, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "auth_missing_header",
				}).Warn("missing or malformed authorization header")
				commonhttp.WriteUnauthorized(w, service.ErrUnauthorized.Detail())
				return
			}

			user, err := auth.Resolve(r.Context(), strings.TrimPrefix(raw, "Bearer "))
			if err != nil {
				commonhttp.HandleError(w, r, err, log)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActiveUser rejects authenticated-but-disabled accounts. Kept
// separate from RequireUser so the response distinguishes "not
// authenticated" (401) from "authenticated but disabled" (400).
func RequireActiveUser(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				commonhttp.WriteUnauthorized(w, service.ErrUnauthorized.Detail())
				return
			}
			if !user.IsActive {
				log.WithFields(r.Context(), logger.Fields{
					"username": user.Username,
					"action":   "inactive_user_rejected",
				}).Warn("inactive user rejected")
				commonhttp.HandleError(w, r, service.ErrInactiveUser, log)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
