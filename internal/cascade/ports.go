package cascade

import (
	"context"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/invoicing"
	"github.com/gaia-project/gaia/internal/ledger"
	"github.com/gaia-project/gaia/internal/masterdata/cables"
	"github.com/gaia-project/gaia/internal/masterdata/products"
	"github.com/gaia-project/gaia/internal/masterdata/terminals"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/internal/shared"
)

// BuildReader loads builds and their connections.
type BuildReader interface {
	GetBuild(ctx context.Context, code string) (builds.SystemBuild, error)
	ListConnections(ctx context.Context, buildCode string) ([]builds.Connection, error)
}

// CableReader resolves cables.
type CableReader interface {
	Get(ctx context.Context, id int64) (cables.Cable, error)
}

// TerminalReader resolves terminals.
type TerminalReader interface {
	Get(ctx context.Context, id int64) (terminals.Terminal, error)
}

// ProductReader resolves products.
type ProductReader interface {
	Get(ctx context.Context, code string) (products.Product, error)
}

// OrderStore is the purchase order persistence the cascade writes to.
type OrderStore interface {
	CreateOrder(ctx context.Context, po procurement.PurchaseOrder) (procurement.PurchaseOrder, error)
	GetOrder(ctx context.Context, code string) (procurement.PurchaseOrder, error)
	GetOrderByBuild(ctx context.Context, buildCode string) (procurement.PurchaseOrder, error)
	AddItem(ctx context.Context, item procurement.Item) (procurement.Item, error)
}

// InvoiceStore is the invoice persistence the cascade writes to.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv invoicing.ClientInvoice) (invoicing.ClientInvoice, error)
	GetInvoice(ctx context.Context, code string) (invoicing.ClientInvoice, error)
	GetInvoiceByBuild(ctx context.Context, buildCode string) (invoicing.ClientInvoice, error)
	AddItem(ctx context.Context, item invoicing.Item) (invoicing.Item, error)
}

// LedgerStore is the ledger persistence the cascade writes to.
type LedgerStore interface {
	EnsureAccount(ctx context.Context, name string) (ledger.Account, error)
	HasTransaction(ctx context.Context, kind ledger.Kind, ref ledger.Reference) (bool, error)
	CreateTransaction(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error)
}

// BalanceInvalidator is told about an account once a posting to it commits.
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, accountID int64)
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}
