package colours

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

// MountColourRoutes mounts colour code endpoints.
func (h *Handler) MountColourRoutes(r chi.Router) {
	r.Get("/", h.listColours)
	r.Post("/", h.createColour)
	r.Get("/{id}", h.showColour)
	r.Put("/{id}", h.updateColour)
	r.Delete("/{id}", h.deleteColour)
}

// MountPinoutRoutes mounts RJ45 pinout endpoints.
func (h *Handler) MountPinoutRoutes(r chi.Router) {
	r.Get("/", h.listPinouts)
	r.Post("/", h.createPinout)
	r.Get("/{name}", h.showPinout)
	r.Delete("/{name}", h.deletePinout)
}

func (h *Handler) listColours(w http.ResponseWriter, r *http.Request) {
	colours, err := h.service.ListColours(r.Context())
	if err != nil {
		httpx.Fail(w, h.logger, "list colours", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": colours})
}

func (h *Handler) showColour(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	colour, err := h.service.GetColour(r.Context(), id)
	if err != nil {
		httpx.Fail(w, h.logger, "get colour", err)
		return
	}
	httpx.JSON(w, http.StatusOK, colour)
}

func (h *Handler) createColour(w http.ResponseWriter, r *http.Request) {
	var in ColourInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	colour, err := h.service.CreateColour(r.Context(), in)
	if err != nil {
		httpx.Fail(w, h.logger, "create colour", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, colour)
}

func (h *Handler) updateColour(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in ColourInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	colour, err := h.service.UpdateColour(r.Context(), id, in)
	if err != nil {
		httpx.Fail(w, h.logger, "update colour", err)
		return
	}
	httpx.JSON(w, http.StatusOK, colour)
}

func (h *Handler) deleteColour(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteColour(r.Context(), id); err != nil {
		httpx.Fail(w, h.logger, "delete colour", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listPinouts(w http.ResponseWriter, r *http.Request) {
	pinouts, err := h.service.ListPinouts(r.Context())
	if err != nil {
		httpx.Fail(w, h.logger, "list pinouts", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": pinouts})
}

func (h *Handler) showPinout(w http.ResponseWriter, r *http.Request) {
	pinout, err := h.service.GetPinout(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httpx.Fail(w, h.logger, "get pinout", err)
		return
	}
	httpx.JSON(w, http.StatusOK, pinout)
}

func (h *Handler) createPinout(w http.ResponseWriter, r *http.Request) {
	var in PinoutInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	pinout, err := h.service.CreatePinout(r.Context(), in)
	if err != nil {
		httpx.Fail(w, h.logger, "create pinout", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, pinout)
}

func (h *Handler) deletePinout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePinout(r.Context(), chi.URLParam(r, "name")); err != nil {
		httpx.Fail(w, h.logger, "delete pinout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
