package procurement

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gaia-project/gaia/internal/platform/httpx"
	"github.com/gaia-project/gaia/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes mounts read and transition endpoints. Generation for a build
// is mounted by the cascade handler.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{code}", h.show)
	r.Post("/{code}/ordered", h.markOrdered)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := httpx.ListFilters(r)
	orders, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		httpx.Fail(w, h.logger, "list purchase orders", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": orders, "pagination": shared.NewPagination(filters, total)})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	po, err := h.service.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Fail(w, h.logger, "get purchase order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewView(po))
}

func (h *Handler) markOrdered(w http.ResponseWriter, r *http.Request) {
	po, err := h.service.SetOrdered(r.Context(), chi.URLParam(r, "code"), true)
	if err != nil {
		httpx.Fail(w, h.logger, "mark purchase order ordered", err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewView(po))
}
