package invoicing

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

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{code}", h.show)
	r.Post("/{code}/sent", h.markSent)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := httpx.ListFilters(r)
	invoices, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		httpx.Fail(w, h.logger, "list invoices", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": invoices, "pagination": shared.NewPagination(filters, total)})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Fail(w, h.logger, "get invoice", err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewView(inv))
}

func (h *Handler) markSent(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.SetSent(r.Context(), chi.URLParam(r, "code"), true)
	if err != nil {
		httpx.Fail(w, h.logger, "mark invoice sent", err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewView(inv))
}
