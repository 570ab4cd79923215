package dashboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/survey-admin/internal/transport"
)

type ServiceAPI interface {
	OverallStats(ctx context.Context) (*OverallStats, error)
	DepartmentMetrics(ctx context.Context) ([]DepartmentMetric, error)
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

func (h *Handler) GetOverallStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.OverallStats(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetDepartmentMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.Service.DepartmentMetrics(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, metrics)
}
