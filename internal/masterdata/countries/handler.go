package countries

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gaia-project/gaia/internal/platform/httpx"
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
	r.Post("/import", h.importRows)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.List(r.Context())
	if err != nil {
		httpx.Fail(w, h.logger, "list countries", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": countries})
}

func (h *Handler) importRows(w http.ResponseWriter, r *http.Request) {
	var rows []Row
	if err := httpx.DecodeJSON(r, &rows); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Import(r.Context(), rows)
	if err != nil {
		httpx.Fail(w, h.logger, "import countries", err)
		return
	}
	h.logger.Info("countries imported", slog.Int("rows", len(rows)), slog.Int("created", created))
	httpx.JSON(w, http.StatusOK, map[string]int{"created": created})
}
