package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/survey-admin/internal/session"
	"github.com/frahmantamala/survey-admin/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, actorID int64, dto CreateUserDTO) (int64, error)
	Update(ctx context.Context, id int64, dto UpdateUserDTO) error
	Delete(ctx context.Context, actorID, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// ListUsers handles GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /api/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	id, err := h.Service.Create(r.Context(), actorID(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, CreateUserResponse{ID: id})
}

// UpdateUser handles PUT /api/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, perr := h.PathID(r, "id")
	if perr != nil {
		h.HandleServiceError(w, r, perr)
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Update(r.Context(), id, dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "User updated successfully")
}

// DeleteUser handles DELETE /api/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, perr := h.PathID(r, "id")
	if perr != nil {
		h.HandleServiceError(w, r, perr)
		return
	}

	if err := h.Service.Delete(r.Context(), actorID(r), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "User deleted successfully")
}

func actorID(r *http.Request) int64 {
	if u, ok := session.UserFromContext(r.Context()); ok {
		return u.ID
	}
	return 0
}
