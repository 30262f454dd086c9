// Package cascade turns a completed build into its purchase order, client
// invoice and ledger postings.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/codes"
	"github.com/gaia-project/gaia/internal/invoicing"
	"github.com/gaia-project/gaia/internal/ledger"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/internal/shared"
)

// DefaultAccountName is used when no ledger account is configured.
const DefaultAccountName = "Operating"

// Step names one cascade operation.
type Step string

const (
	StepPurchaseOrder Step = "purchase_order"
	StepInvoice       Step = "invoice"
	StepLedgerDebit   Step = "ledger_debit"
	StepLedgerCredit  Step = "ledger_credit"
)

// ErrUnknownStep is returned by Run for an unrecognised step.
var ErrUnknownStep = errors.New("cascade: unknown step")

// Deps collects the Engine collaborators.
type Deps struct {
	Tx        shared.Transactor
	Builds    BuildReader
	Cables    CableReader
	Terminals TerminalReader
	Products  ProductReader
	Orders    OrderStore
	Invoices  InvoiceStore
	Ledger    LedgerStore
	Balances  BalanceInvalidator
	Codes     codes.Generator
	Audit     AuditPort
	// Account names the ledger account postings go to.
	Account string
	Now     func() time.Time
}

// Engine runs the cascade steps. Every step is atomic and refuses to run
// when its input is not in the required state or its output already exists.
type Engine struct {
	tx        shared.Transactor
	builds    BuildReader
	cables    CableReader
	terminals TerminalReader
	products  ProductReader
	orders    OrderStore
	invoices  InvoiceStore
	ledger    LedgerStore
	balances  BalanceInvalidator
	codes     codes.Generator
	audit     AuditPort
	account   string
	now       func() time.Time
}

// NewEngine constructs an Engine.
func NewEngine(d Deps) *Engine {
	e := &Engine{
		tx:        d.Tx,
		builds:    d.Builds,
		cables:    d.Cables,
		terminals: d.Terminals,
		products:  d.Products,
		orders:    d.Orders,
		invoices:  d.Invoices,
		ledger:    d.Ledger,
		balances:  d.Balances,
		codes:     d.Codes,
		audit:     d.Audit,
		account:   d.Account,
		now:       d.Now,
	}
	if e.codes == nil {
		e.codes = codes.RandomGenerator{}
	}
	if e.account == "" {
		e.account = DefaultAccountName
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Run executes step for the document identified by ref: a build code for
// StepPurchaseOrder, a purchase order code for StepInvoice and
// StepLedgerDebit, an invoice code for StepLedgerCredit.
func (e *Engine) Run(ctx context.Context, step Step, ref string) error {
	var err error
	switch step {
	case StepPurchaseOrder:
		_, err = e.SynthesizePurchaseOrder(ctx, ref)
	case StepInvoice:
		_, err = e.SynthesizeInvoice(ctx, ref)
	case StepLedgerDebit:
		_, err = e.PostLedgerDebit(ctx, ref)
	case StepLedgerCredit:
		_, err = e.PostLedgerCredit(ctx, ref)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
	return err
}

// SynthesizePurchaseOrder creates the purchase order for a complete build:
// one line for each connection's cable product and one for each of its two
// terminal products.
func (e *Engine) SynthesizePurchaseOrder(ctx context.Context, buildCode string) (procurement.PurchaseOrder, error) {
	var po procurement.PurchaseOrder
	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		build, err := e.builds.GetBuild(ctx, buildCode)
		if err != nil {
			return err
		}
		if !build.IsComplete {
			return shared.Precondition("build %s is not complete", build.Code)
		}
		_, err = e.orders.GetOrderByBuild(ctx, build.Code)
		if err := absent(err, "build %s already has a purchase order", build.Code); err != nil {
			return err
		}

		lines, err := e.orderLines(ctx, build)
		if err != nil {
			return err
		}

		_, err = codes.Assign(ctx, e.codes, func(ctx context.Context, code string) error {
			var err error
			po, err = e.orders.CreateOrder(ctx, procurement.PurchaseOrder{
				Code:      code,
				BuildCode: build.Code,
				CreatedBy: build.DesignerID,
				CreatedAt: e.now(),
			})
			return err
		})
		if err != nil {
			return err
		}
		for _, line := range lines {
			line.OrderCode = po.Code
			item, err := e.orders.AddItem(ctx, line)
			if err != nil {
				return fmt.Errorf("cascade: add item to %s: %w", po.Code, err)
			}
			po.Items = append(po.Items, item)
		}
		return nil
	})
	if err != nil {
		return procurement.PurchaseOrder{}, err
	}
	e.recordAudit(ctx, "PO_SYNTHESIZED", "purchase_order", po.Code, map[string]any{"build": po.BuildCode, "items": len(po.Items)})
	return po, nil
}

func (e *Engine) orderLines(ctx context.Context, build builds.SystemBuild) ([]procurement.Item, error) {
	conns, err := e.builds.ListConnections(ctx, build.Code)
	if err != nil {
		return nil, err
	}
	lines := make([]procurement.Item, 0, len(conns)*3)
	for _, conn := range conns {
		cable, err := e.cables.Get(ctx, conn.CableID)
		if err != nil {
			return nil, fmt.Errorf("cascade: connection %s cable: %w", conn.Code, err)
		}
		line, err := e.productLine(ctx, cable.ProductCode, fmt.Sprintf("%s cable for connection %s", cable.Name, connectionName(conn)))
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)

		for _, end := range []struct {
			side string
			id   int64
		}{{"A", conn.TerminalAID}, {"B", conn.TerminalBID}} {
			terminal, err := e.terminals.Get(ctx, end.id)
			if err != nil {
				return nil, fmt.Errorf("cascade: connection %s terminal %s: %w", conn.Code, end.side, err)
			}
			line, err := e.productLine(ctx, terminal.ProductCode, fmt.Sprintf("%s terminal %s for connection %s", terminal.Name, end.side, connectionName(conn)))
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (e *Engine) productLine(ctx context.Context, productCode, description string) (procurement.Item, error) {
	product, err := e.products.Get(ctx, productCode)
	if err != nil {
		return procurement.Item{}, fmt.Errorf("cascade: product %s: %w", productCode, err)
	}
	return procurement.Item{
		ProductCode:  product.Code,
		SupplierCode: product.SupplierCode,
		Description:  description,
		Amount:       1,
		UnitPrice:    product.Price,
		Unit:         product.Unit,
	}, nil
}

// SynthesizeInvoice copies an ordered purchase order into a client invoice
// for the build's client.
func (e *Engine) SynthesizeInvoice(ctx context.Context, orderCode string) (invoicing.ClientInvoice, error) {
	var inv invoicing.ClientInvoice
	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		po, err := e.orders.GetOrder(ctx, orderCode)
		if err != nil {
			return err
		}
		if !po.IsOrdered {
			return shared.Precondition("purchase order %s is not ordered", po.Code)
		}
		_, err = e.invoices.GetInvoiceByBuild(ctx, po.BuildCode)
		if err := absent(err, "build %s already has an invoice", po.BuildCode); err != nil {
			return err
		}
		build, err := e.builds.GetBuild(ctx, po.BuildCode)
		if err != nil {
			return err
		}

		_, err = codes.Assign(ctx, e.codes, func(ctx context.Context, code string) error {
			var err error
			inv, err = e.invoices.CreateInvoice(ctx, invoicing.ClientInvoice{
				Code:       code,
				ClientCode: build.ClientCode,
				BuildCode:  build.Code,
				OrderCode:  po.Code,
				CreatedAt:  e.now(),
			})
			return err
		})
		if err != nil {
			return err
		}
		for _, src := range po.Items {
			item, err := e.invoices.AddItem(ctx, invoicing.Item{
				InvoiceCode:  inv.Code,
				ProductCode:  src.ProductCode,
				SupplierCode: src.SupplierCode,
				Description:  src.Description,
				Amount:       src.Amount,
				UnitPrice:    src.UnitPrice,
				CableLength:  src.CableLength,
				Unit:         src.Unit,
			})
			if err != nil {
				return fmt.Errorf("cascade: add item to %s: %w", inv.Code, err)
			}
			inv.Items = append(inv.Items, item)
		}
		return nil
	})
	if err != nil {
		return invoicing.ClientInvoice{}, err
	}
	e.recordAudit(ctx, "INVOICE_SYNTHESIZED", "client_invoice", inv.Code, map[string]any{"order": inv.OrderCode, "client": inv.ClientCode})
	return inv, nil
}

// PostLedgerDebit records the payment for an ordered purchase order.
func (e *Engine) PostLedgerDebit(ctx context.Context, orderCode string) (ledger.Transaction, error) {
	var tx ledger.Transaction
	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		po, err := e.orders.GetOrder(ctx, orderCode)
		if err != nil {
			return err
		}
		if !po.IsOrdered {
			return shared.Precondition("purchase order %s is not ordered", po.Code)
		}
		tx, err = e.post(ctx, ledger.KindPurchaseOrderPayment, ledger.Reference{OrderCode: po.Code}, po.Total(),
			fmt.Sprintf("Payment for purchase order %s", po.Code))
		return err
	})
	if err != nil {
		return ledger.Transaction{}, err
	}
	e.afterPost(ctx, tx)
	return tx, nil
}

// PostLedgerCredit records the payment received for a sent invoice.
func (e *Engine) PostLedgerCredit(ctx context.Context, invoiceCode string) (ledger.Transaction, error) {
	var tx ledger.Transaction
	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		inv, err := e.invoices.GetInvoice(ctx, invoiceCode)
		if err != nil {
			return err
		}
		if !inv.IsSent {
			return shared.Precondition("invoice %s is not sent", inv.Code)
		}
		tx, err = e.post(ctx, ledger.KindInvoicePayment, ledger.Reference{InvoiceCode: inv.Code}, inv.Total(),
			fmt.Sprintf("Payment for invoice %s", inv.Code))
		return err
	})
	if err != nil {
		return ledger.Transaction{}, err
	}
	e.afterPost(ctx, tx)
	return tx, nil
}

func (e *Engine) post(ctx context.Context, kind ledger.Kind, ref ledger.Reference, amount decimal.Decimal, description string) (ledger.Transaction, error) {
	exists, err := e.ledger.HasTransaction(ctx, kind, ref)
	if err != nil {
		return ledger.Transaction{}, err
	}
	docCode := ref.OrderCode + ref.InvoiceCode
	if exists {
		return ledger.Transaction{}, shared.Precondition("%s already posted for %s", kind, docCode)
	}
	account, err := e.ledger.EnsureAccount(ctx, e.account)
	if err != nil {
		return ledger.Transaction{}, err
	}
	tx := ledger.Transaction{
		ID:          ledger.DocumentTransactionID(kind, docCode),
		AccountID:   account.ID,
		Kind:        kind,
		Amount:      amount.Round(2),
		OccurredAt:  e.now(),
		Description: description,
	}
	if ref.OrderCode != "" {
		tx.OrderCode = &ref.OrderCode
	}
	if ref.InvoiceCode != "" {
		tx.InvoiceCode = &ref.InvoiceCode
	}
	return e.ledger.CreateTransaction(ctx, tx)
}

func (e *Engine) afterPost(ctx context.Context, tx ledger.Transaction) {
	if e.balances != nil {
		e.balances.Invalidate(ctx, tx.AccountID)
	}
	e.recordAudit(ctx, "LEDGER_POSTED", "account_transaction", tx.ID.String(), map[string]any{"kind": string(tx.Kind), "amount": tx.Amount.StringFixed(2)})
}

func (e *Engine) recordAudit(ctx context.Context, action, entity, id string, meta map[string]any) {
	if e.audit == nil {
		return
	}
	_ = e.audit.Record(ctx, shared.AuditLog{Action: action, Entity: entity, EntityID: id, Meta: meta})
}

// absent maps the error of a lookup that must miss: not found is success,
// a hit is a precondition failure.
func absent(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return shared.Precondition(format, args...)
	case errors.Is(err, shared.ErrNotFound):
		return nil
	default:
		return err
	}
}

func connectionName(conn builds.Connection) string {
	if conn.Label != "" {
		return conn.Label
	}
	return conn.Code
}
