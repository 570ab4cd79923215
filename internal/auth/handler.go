package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/frahmantamala/survey-admin/internal"
	"github.com/frahmantamala/survey-admin/internal/core/events"
	"github.com/frahmantamala/survey-admin/internal/observability/metrics"
	"github.com/frahmantamala/survey-admin/internal/session"
	"github.com/frahmantamala/survey-admin/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Sessions SessionManager
	Events   events.Publisher
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, sessions SessionManager, publisher events.Publisher) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		Sessions:    sessions,
		Events:      publisher,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	profile, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		switch {
		case errors.Is(err, internal.ErrInvalidCredentials):
			metrics.ObserveLogin("invalid")
		default:
			if appErr, ok := internal.IsAppError(err); !ok || appErr.StatusCode >= http.StatusInternalServerError {
				metrics.ObserveLogin("error")
			}
		}
		h.HandleServiceError(w, r, err)
		return
	}

	if _, err := h.Sessions.Establish(w, r, *profile); err != nil {
		metrics.ObserveLogin("error")
		h.HandleServiceError(w, r, internal.NewInternalError("Internal server error", err))
		return
	}

	metrics.ObserveLogin("success")
	h.publish(r.Context(), events.NewSessionEstablishedEvent(profile.ID, profile.Username))
	h.WriteJSON(w, http.StatusOK, profile)
}

// Logout destroys the session. The cookie is cleared only once the store
// confirms the destroy, so a failed logout leaves the client still logged in.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, hadUser := session.UserFromContext(r.Context())

	if err := h.Sessions.Destroy(w, r); err != nil {
		h.Logger.ErrorContext(r.Context(), "logout failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "Failed to logout")
		return
	}

	if hadUser {
		h.publish(r.Context(), events.NewSessionDestroyedEvent(user.ID))
	}
	h.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) VerifyAuth(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFromContext(r.Context())
	if !ok {
		h.WriteJSON(w, http.StatusUnauthorized, VerifyAuthResponse{IsAuthenticated: false})
		return
	}
	h.WriteJSON(w, http.StatusOK, VerifyAuthResponse{IsAuthenticated: true, User: user})
}

func (h *Handler) publish(ctx context.Context, event events.Event) {
	if h.Events == nil {
		return
	}
	if err := h.Events.Publish(ctx, event); err != nil {
		h.Logger.WarnContext(ctx, "failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
