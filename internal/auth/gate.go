package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/observability/metrics"
	"github.com/frahmantamala/survey-admin/internal/session"
	"github.com/frahmantamala/survey-admin/internal/transport"
)

// Gate enforces the two access policies of the API. It expects
// session.Manager.Middleware to have run earlier in the chain.
type Gate struct {
	base   *transport.BaseHandler
	logger *slog.Logger
}

func NewGate(logger *slog.Logger) *Gate {
	return &Gate{
		base:   transport.NewBaseHandler(logger),
		logger: logger,
	}
}

// RequireAuth lets a request through only when it carries a session user.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.UserFromContext(r.Context()); !ok {
			g.logger.WarnContext(r.Context(), "access denied: no session", "path", r.URL.Path)
			metrics.ObserveAuthDenial("unauthenticated")
			g.deny(w, internal.ErrAuthenticationRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin lets a request through only for Admin session users. A
// missing session counts as non-admin.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := session.UserFromContext(r.Context())
		if !user.IsAdmin() {
			attrs := []any{"path", r.URL.Path}
			if user != nil {
				attrs = append(attrs, "user_id", user.ID, "role", user.Role)
			}
			g.logger.WarnContext(r.Context(), "access denied: admin role required", attrs...)
			metrics.ObserveAuthDenial("forbidden")
			g.deny(w, internal.ErrAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) deny(w http.ResponseWriter, err *internal.AppError) {
	g.base.WriteError(w, err.StatusCode, err.Message)
}
