package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/codes"
	"github.com/gaia-project/gaia/internal/invoicing"
	"github.com/gaia-project/gaia/internal/ledger"
	"github.com/gaia-project/gaia/internal/masterdata/cables"
	"github.com/gaia-project/gaia/internal/masterdata/clients"
	"github.com/gaia-project/gaia/internal/masterdata/products"
	"github.com/gaia-project/gaia/internal/masterdata/terminals"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/internal/shared"
	"github.com/gaia-project/gaia/internal/store/memory"
)

const (
	clientCode = "CLI-0000-00001"
	buildCode  = "BLD-0000-00001"
)

type fixture struct {
	store  *memory.Store
	engine *Engine
	deps   Deps
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture(t *testing.T, complete bool) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	for code, p := range map[string]string{"CAB-0000-00001": "5.00", "RJA-0000-00001": "2.00", "RJB-0000-00001": "2.00"} {
		_, err := st.Products().Create(ctx, products.Product{Code: code, Name: code, Price: price(p), Unit: shared.UnitPieces, IsActive: true})
		require.NoError(t, err)
	}
	_, err := st.Clients().Create(ctx, clients.Client{Code: clientCode, Name: "Acme"})
	require.NoError(t, err)

	gbps := 1.0
	cable, err := st.Cables().Create(ctx, cables.Cable{Name: "Patch", Type: cables.TypeCat6, ProductCode: "CAB-0000-00001", Gbps: &gbps})
	require.NoError(t, err)
	termA, err := st.Terminals().Create(ctx, terminals.Terminal{Name: "Jack", ProductCode: "RJA-0000-00001"})
	require.NoError(t, err)
	termB, err := st.Terminals().Create(ctx, terminals.Terminal{Name: "Plug", ProductCode: "RJB-0000-00001"})
	require.NoError(t, err)

	_, err = st.Builds().CreateBuild(ctx, builds.SystemBuild{Code: buildCode, ClientCode: clientCode, IsComplete: complete, IsActive: true})
	require.NoError(t, err)
	_, err = st.Builds().CreateConnection(ctx, builds.Connection{
		BuildCode: buildCode, Code: "123-456", TerminalAID: termA.ID, TerminalBID: termB.ID, CableID: cable.ID, Label: "Desk 1",
	})
	require.NoError(t, err)

	deps := Deps{
		Tx:        st,
		Builds:    st.Builds(),
		Cables:    st.Cables(),
		Terminals: st.Terminals(),
		Products:  st.Products(),
		Orders:    st.Orders(),
		Invoices:  st.Invoices(),
		Ledger:    st.Ledger(),
		Codes:     codes.NewSequenceGenerator(&codes.CounterSequence{}),
		Audit:     st.Audit(),
	}
	return &fixture{store: st, engine: NewEngine(deps), deps: deps}
}

func (f *fixture) markOrdered(t *testing.T, code string) {
	t.Helper()
	po, err := f.store.Orders().GetOrder(context.Background(), code)
	require.NoError(t, err)
	po.IsOrdered = true
	require.NoError(t, f.store.Orders().UpdateOrder(context.Background(), po))
}

func (f *fixture) markSent(t *testing.T, code string) {
	t.Helper()
	inv, err := f.store.Invoices().GetInvoice(context.Background(), code)
	require.NoError(t, err)
	inv.IsSent = true
	require.NoError(t, f.store.Invoices().UpdateInvoice(context.Background(), inv))
}

func TestSynthesizePurchaseOrder(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	po, err := f.engine.SynthesizePurchaseOrder(ctx, buildCode)
	require.NoError(t, err)
	require.True(t, codes.Valid(po.Code))
	require.Equal(t, buildCode, po.BuildCode)
	require.False(t, po.IsOrdered)
	require.Len(t, po.Items, 3)
	require.Equal(t, "9.00", po.Total().StringFixed(2))
	require.Contains(t, po.Items[0].Description, "Desk 1")

	stored, err := f.store.Orders().GetOrderByBuild(ctx, buildCode)
	require.NoError(t, err)
	require.Equal(t, po.Code, stored.Code)
	require.Len(t, stored.Items, 3)

	_, err = f.engine.SynthesizePurchaseOrder(ctx, buildCode)
	require.ErrorIs(t, err, shared.ErrPreconditionNotMet)
}

func TestSynthesizePurchaseOrderRequiresCompleteBuild(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.engine.SynthesizePurchaseOrder(context.Background(), buildCode)
	require.ErrorIs(t, err, shared.ErrPreconditionNotMet)

	_, err = f.store.Orders().GetOrderByBuild(context.Background(), buildCode)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSynthesizePurchaseOrderUnknownBuild(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.engine.SynthesizePurchaseOrder(context.Background(), "ZZZ-9999-99999")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

type failingOrders struct {
	OrderStore
	failAfter int
	added     int
}

func (f *failingOrders) AddItem(ctx context.Context, item procurement.Item) (procurement.Item, error) {
	if f.added == f.failAfter {
		return procurement.Item{}, errors.New("disk full")
	}
	f.added++
	return f.OrderStore.AddItem(ctx, item)
}

func TestSynthesizePurchaseOrderRollsBackOnFailure(t *testing.T) {
	f := newFixture(t, true)
	deps := f.deps
	deps.Orders = &failingOrders{OrderStore: f.store.Orders(), failAfter: 1}
	engine := NewEngine(deps)

	_, err := engine.SynthesizePurchaseOrder(context.Background(), buildCode)
	require.Error(t, err)
	require.NotErrorIs(t, err, shared.ErrPreconditionNotMet)

	_, err = f.store.Orders().GetOrderByBuild(context.Background(), buildCode)
	require.ErrorIs(t, err, shared.ErrNotFound)

	orders, total, err := f.store.Orders().ListOrders(context.Background(), shared.ListFilters{})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, orders)

	// The original store recovers and the step can run again.
	_, err = f.engine.SynthesizePurchaseOrder(context.Background(), buildCode)
	require.NoError(t, err)
}

func TestSynthesizeInvoice(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	po, err := f.engine.SynthesizePurchaseOrder(ctx, buildCode)
	require.NoError(t, err)

	_, err = f.engine.SynthesizeInvoice(ctx, po.Code)
	require.ErrorIs(t, err, shared.ErrPreconditionNotMet)

	f.markOrdered(t, po.Code)
	inv, err := f.engine.SynthesizeInvoice(ctx, po.Code)
	require.NoError(t, err)
	require.Equal(t, clientCode, inv.ClientCode)
	require.Equal(t, buildCode, inv.BuildCode)
	require.Equal(t, po.Code, inv.OrderCode)
	require.NotEqual(t, po.Code, inv.Code)
	require.Len(t, inv.Items, len(po.Items))
	require.True(t, po.Total().Equal(inv.Total()))
	for i := range po.Items {
		require.Equal(t, po.Items[i].ProductCode, inv.Items[i].ProductCode)
		require.Equal(t, po.Items[i].Description, inv.Items[i].Description)
	}

	_, err = f.engine.SynthesizeInvoice(ctx, po.Code)
	require.ErrorIs(t, err, shared.ErrPreconditionNotMet)
}

func TestLedgerPostings(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	po, err := f.engine.SynthesizePurchaseOrder(ctx, buildCode)
	require.NoError(t, err)

	_, err = f.engine.PostLedgerDebit(ctx, po.Code)
	require.ErrorIs(t, err, shared.ErrPreconditionNotMet)

	f.markOrdered(t, po.Code)
	debit, err := f.engine.PostLedgerDebit(ctx, po.Code)
	require.NoError(t, err)
	require.Equal(t, ledger.KindPurchaseOrderPayment, debit.Kind)
	require.Equal(t, "9.00", debit.Amount.StringFixed(2))
	require.Equal(t, ledger.DocumentTransactionID(ledger.KindPurchaseOrderPayment, po.Code), debit.ID)
	require.NotNil(t, debit.OrderCode)
	require.Equal(t, po.Code, *debit.OrderCode)

	_, err = f.engine.PostLedgerDebit(ctx, po.Code)
	require.ErrorIs(t, err, shared.ErrPreconditionNotMet)

	inv, err := f.engine.SynthesizeInvoice(ctx, po.Code)
	require.NoError(t, err)
	_, err = f.engine.PostLedgerCredit(ctx, inv.Code)
	require.ErrorIs(t, err, shared.ErrPreconditionNotMet)

	f.markSent(t, inv.Code)
	credit, err := f.engine.PostLedgerCredit(ctx, inv.Code)
	require.NoError(t, err)
	require.Equal(t, ledger.KindInvoicePayment, credit.Kind)
	require.Equal(t, debit.AccountID, credit.AccountID)

	_, err = f.engine.PostLedgerCredit(ctx, inv.Code)
	require.ErrorIs(t, err, shared.ErrPreconditionNotMet)

	accounts, err := f.store.Ledger().ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, DefaultAccountName, accounts[0].Name)

	balance, err := ledger.NewService(f.store.Ledger()).Balance(ctx, debit.AccountID)
	require.NoError(t, err)
	require.True(t, balance.Balance.IsZero(), balance.Balance.String())
}

type recordingInvalidator struct{ ids []int64 }

func (r *recordingInvalidator) Invalidate(_ context.Context, id int64) { r.ids = append(r.ids, id) }

func TestPostingInvalidatesBalanceAndAudits(t *testing.T) {
	f := newFixture(t, true)
	inv := &recordingInvalidator{}
	deps := f.deps
	deps.Balances = inv
	deps.Account = "Projects"
	engine := NewEngine(deps)
	ctx := context.Background()

	po, err := engine.SynthesizePurchaseOrder(ctx, buildCode)
	require.NoError(t, err)
	f.markOrdered(t, po.Code)
	tx, err := engine.PostLedgerDebit(ctx, po.Code)
	require.NoError(t, err)
	require.Equal(t, []int64{tx.AccountID}, inv.ids)

	acc, err := f.store.Ledger().GetAccount(ctx, tx.AccountID)
	require.NoError(t, err)
	require.Equal(t, "Projects", acc.Name)

	var actions []string
	for _, entry := range f.store.Audit().Entries() {
		actions = append(actions, entry.Action)
	}
	require.Equal(t, []string{"PO_SYNTHESIZED", "LEDGER_POSTED"}, actions)
}

func TestRun(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	require.NoError(t, f.engine.Run(ctx, StepPurchaseOrder, buildCode))
	require.ErrorIs(t, f.engine.Run(ctx, StepPurchaseOrder, buildCode), shared.ErrPreconditionNotMet)
	require.ErrorIs(t, f.engine.Run(ctx, Step("bogus"), buildCode), ErrUnknownStep)

	po, err := f.store.Orders().GetOrderByBuild(ctx, buildCode)
	require.NoError(t, err)
	f.markOrdered(t, po.Code)
	require.NoError(t, f.engine.Run(ctx, StepInvoice, po.Code))
	require.NoError(t, f.engine.Run(ctx, StepLedgerDebit, po.Code))

	var inv invoicing.ClientInvoice
	inv, err = f.store.Invoices().GetInvoiceByBuild(ctx, buildCode)
	require.NoError(t, err)
	f.markSent(t, inv.Code)
	require.NoError(t, f.engine.Run(ctx, StepLedgerCredit, inv.Code))
}
