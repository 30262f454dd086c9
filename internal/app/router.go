package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/cascade"
	"github.com/gaia-project/gaia/internal/invoicing"
	"github.com/gaia-project/gaia/internal/ledger"
	"github.com/gaia-project/gaia/internal/masterdata/cables"
	"github.com/gaia-project/gaia/internal/masterdata/clients"
	"github.com/gaia-project/gaia/internal/masterdata/colours"
	"github.com/gaia-project/gaia/internal/masterdata/countries"
	"github.com/gaia-project/gaia/internal/masterdata/products"
	"github.com/gaia-project/gaia/internal/masterdata/suppliers"
	"github.com/gaia-project/gaia/internal/masterdata/terminals"
	"github.com/gaia-project/gaia/internal/observability"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	SupplierHandler    *suppliers.Handler
	ProductHandler     *products.Handler
	ClientHandler      *clients.Handler
	CableHandler       *cables.Handler
	TerminalHandler    *terminals.Handler
	ColourHandler      *colours.Handler
	CountryHandler     *countries.Handler
	BuildHandler       *builds.Handler
	ProcurementHandler *procurement.Handler
	InvoicingHandler   *invoicing.Handler
	LedgerHandler      *ledger.Handler
	CascadeHandler     *cascade.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with Gaia defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	if !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/masterdata", func(r chi.Router) {
		mount(r, "/suppliers", params.SupplierHandler)
		mount(r, "/products", params.ProductHandler)
		mount(r, "/clients", params.ClientHandler)
		mount(r, "/cables", params.CableHandler)
		mount(r, "/terminals", params.TerminalHandler)
		mount(r, "/countries", params.CountryHandler)
		if params.ColourHandler != nil {
			r.Route("/colours", params.ColourHandler.MountColourRoutes)
			r.Route("/pinouts", params.ColourHandler.MountPinoutRoutes)
		}
	})
	mount(r, "/builds", params.BuildHandler)
	if params.ProcurementHandler != nil {
		r.Route("/procurement/orders", func(r chi.Router) {
			params.ProcurementHandler.MountRoutes(r)
			if params.CascadeHandler != nil {
				params.CascadeHandler.MountOrderRoutes(r)
			}
		})
	}
	if params.InvoicingHandler != nil {
		r.Route("/invoicing/invoices", func(r chi.Router) {
			params.InvoicingHandler.MountRoutes(r)
			if params.CascadeHandler != nil {
				params.CascadeHandler.MountInvoiceRoutes(r)
			}
		})
	}
	mount(r, "/ledger", params.LedgerHandler)
	mount(r, "/jobs", params.JobHandler)
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

type mounter interface {
	MountRoutes(r chi.Router)
}

// mount attaches h under pattern unless h is a nil pointer.
func mount[H interface {
	*T
	mounter
}, T any](r chi.Router, pattern string, h H) {
	if h == nil {
		return
	}
	r.Route(pattern, h.MountRoutes)
}
