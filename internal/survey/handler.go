package survey

import (
	"context"
	"net/http"

	"github.com/frahmantamala/survey-admin/internal"
	coreuser "github.com/frahmantamala/survey-admin/internal/core/user"
	"github.com/frahmantamala/survey-admin/internal/session"
	"github.com/frahmantamala/survey-admin/internal/transport"
)

type ServiceAPI interface {
	ListSurveys(ctx context.Context) ([]Survey, error)
	GetSurvey(ctx context.Context, id int64) (*Survey, error)
	Submit(ctx context.Context, submitter *coreuser.Profile, dto SubmitSurveyDTO) (int64, error)
	ListUserSubmissions(ctx context.Context, userID int64) ([]Submission, error)
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

func (h *Handler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.Service.ListSurveys(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, surveys)
}

func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	id, perr := h.PathID(r, "id")
	if perr != nil {
		h.HandleServiceError(w, r, perr)
		return
	}

	survey, err := h.Service.GetSurvey(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, survey)
}

func (h *Handler) SubmitSurvey(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	var dto SubmitSurveyDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	id, err := h.Service.Submit(r.Context(), user, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SubmitResponse{Message: "Survey submitted successfully", SubmissionID: id})
}

func (h *Handler) ListUserSubmissions(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	subs, err := h.Service.ListUserSubmissions(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, subs)
}
