package middleware

import (
	"net/http"

	"github.com/frahmantamala/survey-admin/internal/session"
	"github.com/frahmantamala/survey-admin/pkg/logger"
)

// UserContext tags the request logger with the session user, if any. It
// must run after the session middleware.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := session.UserFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", user.ID, "role", user.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
