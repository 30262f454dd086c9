package cascade

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gaia-project/gaia/internal/invoicing"
	"github.com/gaia-project/gaia/internal/platform/httpx"
	"github.com/gaia-project/gaia/internal/procurement"
)

// Handler exposes the cascade steps for manual invocation. Unlike the
// dispatcher it reports every error to the caller.
type Handler struct {
	logger *slog.Logger
	engine *Engine
}

func NewHandler(logger *slog.Logger, engine *Engine) *Handler {
	return &Handler{logger: logger, engine: engine}
}

// MountOrderRoutes attaches steps keyed by build or purchase order under the
// purchase order router.
func (h *Handler) MountOrderRoutes(r chi.Router) {
	r.Post("/generate/{build}", h.generateOrder)
	r.Post("/{code}/invoice", h.generateInvoice)
	r.Post("/{code}/debit", h.postDebit)
}

// MountInvoiceRoutes attaches steps keyed by invoice under the invoice router.
func (h *Handler) MountInvoiceRoutes(r chi.Router) {
	r.Post("/{code}/credit", h.postCredit)
}

func (h *Handler) generateOrder(w http.ResponseWriter, r *http.Request) {
	po, err := h.engine.SynthesizePurchaseOrder(r.Context(), chi.URLParam(r, "build"))
	if err != nil {
		httpx.Fail(w, h.logger, "generate purchase order", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, procurement.NewView(po))
}

func (h *Handler) generateInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.engine.SynthesizeInvoice(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Fail(w, h.logger, "generate invoice", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, invoicing.NewView(inv))
}

func (h *Handler) postDebit(w http.ResponseWriter, r *http.Request) {
	tx, err := h.engine.PostLedgerDebit(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Fail(w, h.logger, "post ledger debit", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tx)
}

func (h *Handler) postCredit(w http.ResponseWriter, r *http.Request) {
	tx, err := h.engine.PostLedgerCredit(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.Fail(w, h.logger, "post ledger credit", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tx)
}
