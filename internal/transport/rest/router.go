package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/survey-admin/api"
	"github.com/frahmantamala/survey-admin/internal/auth"
	"github.com/frahmantamala/survey-admin/internal/dashboard"
	"github.com/frahmantamala/survey-admin/internal/department"
	"github.com/frahmantamala/survey-admin/internal/observability/metrics"
	"github.com/frahmantamala/survey-admin/internal/permission"
	"github.com/frahmantamala/survey-admin/internal/survey"
	"github.com/frahmantamala/survey-admin/internal/transport"
	"github.com/frahmantamala/survey-admin/internal/transport/middleware"
	"github.com/frahmantamala/survey-admin/internal/transport/swagger"
	"github.com/frahmantamala/survey-admin/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// SessionLoader attaches the request's session to its context.
type SessionLoader interface {
	Middleware(next http.Handler) http.Handler
}

type Dependencies struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Sessions       SessionLoader
	Gate           *auth.Gate
	HealthChecks   map[string]CheckFunc
	// MetricsPath mounts the Prometheus handler when non-empty.
	MetricsPath string

	Auth        *auth.Handler
	Departments *department.Handler
	Users       *user.Handler
	Permissions *permission.Handler
	Surveys     *survey.Handler
	Dashboard   *dashboard.Handler
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.HealthChecks)
	base := transport.NewBaseHandler(deps.Logger)

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	// metrics wraps recovery so recovered panics are counted as 500s
	router.Use(metrics.Middleware)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(deps.Sessions.Middleware)
	router.Use(middleware.UserContext)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Document())
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)
	if deps.MetricsPath != "" {
		router.Handle(deps.MetricsPath, metrics.Handler())
	}

	// Session endpoints are reachable without a session.
	router.Post("/login", deps.Auth.Login)
	router.Post("/logout", deps.Auth.Logout)
	router.Get("/verify_auth", deps.Auth.VerifyAuth)

	router.Route("/api", func(r chi.Router) {
		r.Use(deps.Gate.RequireAuth)

		r.Get("/departments", deps.Departments.GetDepartments)
		r.Get("/permissions", deps.Permissions.GetPermissions)

		r.Get("/surveys", deps.Surveys.ListSurveys)
		r.Get("/surveys/{id}", deps.Surveys.GetSurvey)
		r.Post("/submit-survey", deps.Surveys.SubmitSurvey)
		r.Get("/user-submissions", deps.Surveys.ListUserSubmissions)

		r.Get("/dashboard/overall-stats", deps.Dashboard.GetOverallStats)
		r.Get("/dashboard/department-metrics", deps.Dashboard.GetDepartmentMetrics)

		// Admin only
		r.Group(func(ar chi.Router) {
			ar.Use(deps.Gate.RequireAdmin)

			ar.Post("/departments", deps.Departments.CreateDepartment)

			ar.Post("/permissions", deps.Permissions.ReplacePermissions)
			ar.Post("/permissions/mail-alert", deps.Permissions.MailAlert)

			ar.Route("/users", func(ur chi.Router) {
				ur.Get("/", deps.Users.ListUsers)
				ur.Post("/", deps.Users.CreateUser)
				ur.Put("/{id}", deps.Users.UpdateUser)
				ur.Delete("/{id}", deps.Users.DeleteUser)
			})
		})
	})
}
