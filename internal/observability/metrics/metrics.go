package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_admin_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "survey_admin_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	authDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_admin_auth_denials_total",
		Help: "Requests refused by the auth gate",
	}, []string{"reason"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "survey_admin_login_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	surveySubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "survey_admin_survey_submissions_total",
		Help: "Accepted survey submissions",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveAuthDenial counts a gate refusal; reason is "unauthenticated" or "forbidden".
func ObserveAuthDenial(reason string) {
	authDenials.WithLabelValues(reason).Inc()
}

// ObserveLogin counts a login attempt; result is "success", "invalid" or "error".
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

func ObserveSubmission() {
	surveySubmissions.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records every request under its chi route pattern so ids in
// the path do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		ObserveHTTPRequest(r.Method, path, strconv.Itoa(rec.status), time.Since(start))
	})
}
