package permission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/survey-admin/internal/session"
	"github.com/frahmantamala/survey-admin/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]View, error)
	Replace(ctx context.Context, actorID int64, dto ReplacePermissionsDTO) error
	RequestMailAlert(ctx context.Context, actorID int64, payload map[string]interface{}) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) ReplacePermissions(w http.ResponseWriter, r *http.Request) {
	var dto ReplacePermissionsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Replace(r.Context(), actorID(r), dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Permissions updated successfully")
}

// MailAlert accepts any JSON object. Nothing is mailed.
func (h *Handler) MailAlert(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{}
	if r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &payload); err != nil {
			h.Logger.DebugContext(r.Context(), "mail alert body ignored", "error", err)
		}
	}

	_ = h.Service.RequestMailAlert(r.Context(), actorID(r), payload)
	h.WriteMessage(w, http.StatusOK, "Mail alert request received (delivery not implemented)")
}

func actorID(r *http.Request) int64 {
	if user, ok := session.UserFromContext(r.Context()); ok {
		return user.ID
	}
	return 0
}
