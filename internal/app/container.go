package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/cascade"
	"github.com/gaia-project/gaia/internal/codes"
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
	"github.com/gaia-project/gaia/internal/platform/cache"
	"github.com/gaia-project/gaia/internal/platform/db"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/internal/shared"
	"github.com/gaia-project/gaia/internal/store/memory"
	"github.com/gaia-project/gaia/jobs"
)

type auditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// repositories bundles one persistence backend.
type repositories struct {
	tx        shared.Transactor
	suppliers suppliers.Repository
	products  products.Repository
	clients   clients.Repository
	cables    cables.Repository
	terminals terminals.Repository
	colours   colours.Repository
	countries countries.Repository
	builds    builds.RepositoryPort
	orders    procurement.RepositoryPort
	invoices  invoicing.RepositoryPort
	ledger    ledger.RepositoryPort
	audit     auditPort
}

func postgresRepositories(pool *pgxpool.Pool) repositories {
	return repositories{
		tx:        db.NewTransactor(pool),
		suppliers: suppliers.NewRepository(pool),
		products:  products.NewRepository(pool),
		clients:   clients.NewRepository(pool),
		cables:    cables.NewRepository(pool),
		terminals: terminals.NewRepository(pool),
		colours:   colours.NewRepository(pool),
		countries: countries.NewRepository(pool),
		builds:    builds.NewRepository(pool),
		orders:    procurement.NewRepository(pool),
		invoices:  invoicing.NewRepository(pool),
		ledger:    ledger.NewRepository(pool),
		audit:     shared.NewAuditLogger(pool),
	}
}

func memoryRepositories(st *memory.Store) repositories {
	return repositories{
		tx:        st,
		suppliers: st.Suppliers(),
		products:  st.Products(),
		clients:   st.Clients(),
		cables:    st.Cables(),
		terminals: st.Terminals(),
		colours:   st.Colours(),
		countries: st.Countries(),
		builds:    st.Builds(),
		orders:    st.Orders(),
		invoices:  st.Invoices(),
		ledger:    st.Ledger(),
		audit:     st.Audit(),
	}
}

// Container owns the wired application graph and the connections behind it.
type Container struct {
	Config  *Config
	Logger  *slog.Logger
	Metrics *observability.Metrics
	Engine  *cascade.Engine
	Router  http.Handler

	pool        *pgxpool.Pool
	redis       *redis.Client
	retryClient *jobs.Client
	inspector   *asynq.Inspector
}

// NewContainer connects the configured backends and wires every service and handler.
func NewContainer(ctx context.Context, cfg *Config, logger *slog.Logger) (_ *Container, err error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{Config: cfg, Logger: logger, Metrics: observability.NewMetrics()}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if cfg.RedisAddr != "" {
		client, redisErr := cache.New(ctx, cfg.RedisAddr)
		switch {
		case redisErr == nil:
			c.redis = client
		case cfg.StoreDriver == DriverPostgres && cfg.CodeStrategy == CodesSequence:
			return nil, fmt.Errorf("app: redis: %w", redisErr)
		default:
			logger.Warn("redis unavailable, continuing without cache and retries", slog.Any("error", redisErr))
		}
	}

	var repos repositories
	switch cfg.StoreDriver {
	case DriverMemory:
		repos = memoryRepositories(memory.New())
	default:
		pool, dbErr := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if dbErr != nil {
			return nil, dbErr
		}
		c.pool = pool
		if cfg.PGAutoMigrate {
			if err := db.Migrate(ctx, pool); err != nil {
				return nil, err
			}
		}
		repos = postgresRepositories(pool)
	}

	gen := c.codeGenerator()

	ledgerService := ledger.NewService(repos.ledger)

	c.Engine = cascade.NewEngine(cascade.Deps{
		Tx:        repos.tx,
		Builds:    repos.builds,
		Cables:    repos.cables,
		Terminals: repos.terminals,
		Products:  repos.products,
		Orders:    repos.orders,
		Invoices:  repos.invoices,
		Ledger:    repos.ledger,
		Balances:  ledgerService,
		Codes:     gen,
		Audit:     repos.audit,
		Account:   cfg.LedgerDefaultAccount,
	})

	var retry cascade.RetryQueue
	var queueInspector jobs.QueueInspector
	if c.redis != nil && cfg.CascadeRetryEnabled {
		opts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		c.retryClient = jobs.NewClient(opts, logger)
		c.inspector = asynq.NewInspector(opts)
		retry = c.retryClient
		queueInspector = c.inspector
	}
	dispatcher := cascade.NewDispatcher(c.Engine, logger, retry, c.Metrics)

	colourService := colours.NewService(repos.colours, repos.tx)
	c.Router = NewRouter(RouterParams{
		Logger:             logger,
		Config:             cfg,
		Metrics:            c.Metrics,
		SupplierHandler:    suppliers.NewHandler(logger, suppliers.NewService(repos.suppliers, gen)),
		ProductHandler:     products.NewHandler(logger, products.NewService(repos.products, gen)),
		ClientHandler:      clients.NewHandler(logger, clients.NewService(repos.clients, gen)),
		CableHandler:       cables.NewHandler(logger, cables.NewService(repos.cables)),
		TerminalHandler:    terminals.NewHandler(logger, terminals.NewService(repos.terminals)),
		ColourHandler:      colours.NewHandler(logger, colourService),
		CountryHandler:     countries.NewHandler(logger, countries.NewService(repos.countries, repos.tx)),
		BuildHandler:       builds.NewHandler(logger, builds.NewService(repos.builds, gen, dispatcher, repos.audit)),
		ProcurementHandler: procurement.NewHandler(logger, procurement.NewService(repos.orders, dispatcher, repos.audit)),
		InvoicingHandler:   invoicing.NewHandler(logger, invoicing.NewService(repos.invoices, dispatcher, repos.audit)),
		LedgerHandler:      ledger.NewHandler(logger, ledgerService),
		CascadeHandler:     cascade.NewHandler(logger, c.Engine),
		JobHandler:         jobs.NewHandler(queueInspector, logger),
	})
	return c, nil
}

func (c *Container) codeGenerator() codes.Generator {
	if c.Config.CodeStrategy == CodesRandom {
		return codes.RandomGenerator{}
	}
	if c.redis != nil {
		return codes.NewSequenceGenerator(codes.NewRedisSequence(c.redis, c.Config.CodeSequenceKey))
	}
	return codes.NewSequenceGenerator(&codes.CounterSequence{})
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	if c.retryClient != nil {
		if err := c.retryClient.Close(); err != nil {
			c.Logger.Warn("retry client close", slog.Any("error", err))
		}
	}
	if c.inspector != nil {
		if err := c.inspector.Close(); err != nil {
			c.Logger.Warn("queue inspector close", slog.Any("error", err))
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.Logger.Warn("redis close", slog.Any("error", err))
		}
	}
	if c.pool != nil {
		c.pool.Close()
	}
}
