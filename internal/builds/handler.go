package builds

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gaia-project/gaia/internal/platform/httpx"
	"github.com/gaia-project/gaia/internal/shared"
)

// Handler exposes builds over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{code}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Patch("/", h.update)
		r.Delete("/", h.delete)
		r.Post("/complete", h.complete)
		r.Get("/connections", h.listConnections)
		r.Post("/connections", h.addConnection)
		r.Delete("/connections/{id}", h.deleteConnection)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := httpx.ListFilters(r)
	builds, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		httpx.Fail(w, h.logger, "list builds", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": builds, "pagination": shared.NewPagination(filters, total)})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	build, err := h.service.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Fail(w, h.logger, "get build", err)
		return
	}
	httpx.JSON(w, http.StatusOK, build)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	build, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.Fail(w, h.logger, "create build", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, build)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	build, err := h.service.Update(r.Context(), chi.URLParam(r, "code"), in)
	if err != nil {
		httpx.Fail(w, h.logger, "update build", err)
		return
	}
	httpx.JSON(w, http.StatusOK, build)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	build, err := h.service.Complete(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Fail(w, h.logger, "complete build", err)
		return
	}
	httpx.JSON(w, http.StatusOK, build)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "code")); err != nil {
		httpx.Fail(w, h.logger, "delete build", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listConnections(w http.ResponseWriter, r *http.Request) {
	conns, err := h.service.ListConnections(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Fail(w, h.logger, "list connections", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": conns})
}

func (h *Handler) addConnection(w http.ResponseWriter, r *http.Request) {
	var in ConnectionInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	conn, err := h.service.AddConnection(r.Context(), chi.URLParam(r, "code"), in)
	if err != nil {
		httpx.Fail(w, h.logger, "add connection", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, conn)
}

func (h *Handler) deleteConnection(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteConnection(r.Context(), chi.URLParam(r, "code"), id); err != nil {
		httpx.Fail(w, h.logger, "delete connection", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
