package invoicing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/invoicing"
	"github.com/gaia-project/gaia/internal/masterdata/clients"
	"github.com/gaia-project/gaia/internal/masterdata/products"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/internal/shared"
	"github.com/gaia-project/gaia/internal/store/memory"
)

const (
	clientCode  = "CLI-0000-00001"
	buildCode   = "BLD-0000-00001"
	invoiceCode = "INV-0000-00001"
)

type recordingObserver struct{ changes []invoicing.Change }

func (o *recordingObserver) OnInvoiceUpdated(_ context.Context, c invoicing.Change) {
	o.changes = append(o.changes, c)
}

func seedInvoice(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	_, err := st.Clients().Create(ctx, clients.Client{Code: clientCode, Name: "Acme"})
	require.NoError(t, err)
	_, err = st.Products().Create(ctx, products.Product{Code: "RJA-0000-00001", Name: "Jack", Price: decimal.RequireFromString("3.10"), Unit: shared.UnitPieces})
	require.NoError(t, err)
	_, err = st.Builds().CreateBuild(ctx, builds.SystemBuild{Code: buildCode, ClientCode: clientCode, IsComplete: true})
	require.NoError(t, err)
	_, err = st.Orders().CreateOrder(ctx, procurement.PurchaseOrder{Code: "POR-0000-00001", BuildCode: buildCode, IsOrdered: true})
	require.NoError(t, err)
	_, err = st.Invoices().CreateInvoice(ctx, invoicing.ClientInvoice{Code: invoiceCode, ClientCode: clientCode, BuildCode: buildCode, OrderCode: "POR-0000-00001"})
	require.NoError(t, err)
	_, err = st.Invoices().AddItem(ctx, invoicing.Item{InvoiceCode: invoiceCode, ProductCode: "RJA-0000-00001", Amount: 4, UnitPrice: decimal.RequireFromString("3.10"), Unit: shared.UnitPieces})
	require.NoError(t, err)
	return st
}

func TestSetSentNotifiesAndAudits(t *testing.T) {
	ctx := context.Background()
	st := seedInvoice(t)
	obs := &recordingObserver{}
	svc := invoicing.NewService(st.Invoices(), obs, st.Audit())

	inv, err := svc.SetSent(ctx, invoiceCode, true)
	require.NoError(t, err)
	require.True(t, inv.IsSent)
	require.Equal(t, "12.40", invoicing.NewView(inv).Total.StringFixed(2))

	require.Len(t, obs.changes, 1)
	require.False(t, obs.changes[0].Previous.IsSent)
	require.True(t, obs.changes[0].Current.IsSent)

	entries := st.Audit().Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "INVOICE_SENT", entries[0].Action)
	require.Equal(t, clientCode, entries[0].Meta["client"])

	// Unsending is allowed and is not audited.
	_, err = svc.SetSent(ctx, invoiceCode, false)
	require.NoError(t, err)
	require.Len(t, st.Audit().Entries(), 1)
}

func TestInvoiceLookups(t *testing.T) {
	ctx := context.Background()
	st := seedInvoice(t)
	svc := invoicing.NewService(st.Invoices(), nil, nil)

	inv, err := svc.GetByBuild(ctx, buildCode)
	require.NoError(t, err)
	require.Equal(t, invoiceCode, inv.Code)
	require.Len(t, inv.Items, 1)

	list, total, err := svc.List(ctx, shared.ListFilters{Search: "inv-0000"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, list, 1)

	_, err = svc.Get(ctx, "INV-9999-99999")
	require.ErrorIs(t, err, shared.ErrNotFound)
	_, err = svc.SetSent(ctx, "INV-9999-99999", true)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOneInvoicePerBuild(t *testing.T) {
	st := seedInvoice(t)
	_, err := st.Invoices().CreateInvoice(context.Background(), invoicing.ClientInvoice{Code: "INV-0000-00002", ClientCode: clientCode, BuildCode: buildCode, OrderCode: "POR-0000-00001"})
	require.ErrorIs(t, err, shared.ErrUniquenessViolation)
}
