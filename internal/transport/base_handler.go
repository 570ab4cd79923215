package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/pkg/logger"
	"github.com/go-chi/chi"
)

// MaxBodyBytes caps request bodies, both when logged and when decoded.
const MaxBodyBytes = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// ErrorResponse is the envelope every failing request receives.
type ErrorResponse struct {
	Code    int                        `json:"code"`
	Message string                     `json:"message"`
	Detail  string                     `json:"detail,omitempty"`
	Errors  []internal.ValidationError `json:"errors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteMessage writes {"message": message}.
func (h *BaseHandler) WriteMessage(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, MessageResponse{Message: message})
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.writeEnvelope(w, ErrorResponse{Code: status, Message: message})
}

func (h *BaseHandler) writeEnvelope(w http.ResponseWriter, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// HandleServiceError maps err onto the error envelope. AppErrors keep their
// status and message; anything else becomes a 500 whose cause is only logged.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	lg := h.Logger
	if scoped, ok := logger.Lookup(r.Context()); ok {
		lg = scoped
	}

	appErr, ok := internal.IsAppError(err)
	if !ok {
		lg.ErrorContext(r.Context(), "unhandled service error", "error", err, "path", r.URL.Path)
		h.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		lg.ErrorContext(r.Context(), "service error", "error", err, "code", appErr.Code, "path", r.URL.Path)
		h.WriteError(w, appErr.StatusCode, appErr.Message)
		return
	}

	lg.WarnContext(r.Context(), "request rejected", "status", appErr.StatusCode, "code", appErr.Code, "error", appErr.Error())

	resp := ErrorResponse{Code: appErr.StatusCode, Message: appErr.Message}
	if details, ok := appErr.Details.(internal.ValidationErrors); ok && len(details.Errors) > 0 {
		resp.Errors = details.Errors
		resp.Detail = appErr.GetDetailedMessage()
	}
	h.writeEnvelope(w, resp)
}

// DecodeJSON reads a single JSON document from the request body into dst.
// Unknown fields and trailing data are rejected.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) *internal.AppError {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.NewValidationError("Request body is required", internal.ErrCodeInvalidBody)
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return internal.NewValidationFieldError(typeErr.Field,
				fmt.Sprintf("%s has the wrong type", typeErr.Field), internal.ErrCodeInvalidBody)
		}
		if strings.HasPrefix(err.Error(), "json: unknown field ") {
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return internal.NewValidationFieldError(field,
				fmt.Sprintf("%s is not a recognised field", field), internal.ErrCodeInvalidBody)
		}
		return internal.NewValidationError("Invalid request body", internal.ErrCodeInvalidBody)
	}
	if dec.More() {
		return internal.NewValidationError("Request body must contain a single JSON object", internal.ErrCodeInvalidBody)
	}
	return nil
}

// PathID parses the named chi URL parameter as a positive integer id.
func (h *BaseHandler) PathID(r *http.Request, name string) (int64, *internal.AppError) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, fmt.Sprintf("%s must be a positive integer", name), internal.ErrCodeInvalidID)
	}
	return id, nil
}
