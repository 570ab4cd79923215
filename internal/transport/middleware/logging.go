package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/survey-admin/internal/transport"
	"github.com/go-chi/chi/middleware"
)

// maxLoggedBody is how much of a request or response body reaches the log.
const maxLoggedBody = 4 << 10

const (
	masked    = "[FILTERED]"
	truncated = "[TRUNCATED]"
)

// sensitiveFields are matched as substrings of lower-cased header names and
// JSON keys.
var sensitiveFields = []string{
	"password",
	"token",
	"secret",
	"key",
	"session",
	"cookie",
	"credential",
	"authorization",
}

// LoggingMiddleware writes one record when a request arrives and one when
// it completes. Login bodies, session cookies and other credentials are
// masked. Request bodies are capped at transport.MaxBodyBytes and only their
// first maxLoggedBody bytes are held for the log.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())

			head := peekBody(w, r)
			logger.InfoContext(r.Context(), "incoming request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", maskHeaders(r.Header),
				"body", maskBody(head),
			)

			rec := &capturingWriter{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Log(r.Context(), levelFor(status), "request completed",
				"request_id", reqID,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", rec.size,
				"body", maskBody(rec.head),
			)
		})
	}
}

// peekBody caps r.Body and reads at most maxLoggedBody+1 bytes from it. The
// handler then reads those bytes followed by the unread remainder, so nothing
// beyond the peek is buffered here.
func peekBody(w http.ResponseWriter, r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	capped := http.MaxBytesReader(w, r.Body, transport.MaxBodyBytes)
	head, err := io.ReadAll(io.LimitReader(capped, maxLoggedBody+1))

	var rest io.Reader = capped
	if err != nil {
		rest = failedReader{err: err}
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), rest), capped}
	return head
}

type failedReader struct{ err error }

func (f failedReader) Read([]byte) (int, error) { return 0, f.err }

// capturingWriter records the status, the byte count and the first
// maxLoggedBody+1 bytes of the response.
type capturingWriter struct {
	http.ResponseWriter
	status int
	size   int
	head   []byte
}

func (c *capturingWriter) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *capturingWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	if room := maxLoggedBody + 1 - len(c.head); room > 0 {
		c.head = append(c.head, b[:min(room, len(b))]...)
	}
	n, err := c.ResponseWriter.Write(b)
	c.size += n
	return n, err
}

func (c *capturingWriter) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func isSensitive(name string) bool {
	name = strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(name, field) {
			return true
		}
	}
	return false
}

func maskHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = masked
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// maskBody renders body for the log. JSON has sensitive keys masked at any
// depth; other text is dropped whole if it mentions a sensitive field.
func maskBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxLoggedBody {
		return truncated
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSensitive(string(body)) {
			return masked
		}
		return string(body)
	}

	out, err := json.Marshal(maskJSON(doc))
	if err != nil {
		return masked
	}
	return string(out)
}

func maskJSON(v interface{}) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(node))
		for key, value := range node {
			if isSensitive(key) {
				out[key] = masked
				continue
			}
			out[key] = maskJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(node))
		for i, item := range node {
			out[i] = maskJSON(item)
		}
		return out
	default:
		return v
	}
}
