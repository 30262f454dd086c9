package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/ledger"
	"github.com/gaia-project/gaia/internal/masterdata/cables"
	"github.com/gaia-project/gaia/internal/masterdata/clients"
	"github.com/gaia-project/gaia/internal/masterdata/colours"
	"github.com/gaia-project/gaia/internal/masterdata/products"
	"github.com/gaia-project/gaia/internal/masterdata/suppliers"
	"github.com/gaia-project/gaia/internal/masterdata/terminals"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/internal/shared"
)

func TestSupplierUniqueness(t *testing.T) {
	st := New()
	ctx := context.Background()
	repo := st.Suppliers()

	_, err := repo.Create(ctx, suppliers.Supplier{Code: "AAA-0000-00001", Name: "Cables Ltd"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, suppliers.Supplier{Code: "AAA-0000-00001", Name: "Other"})
	require.True(t, shared.IsCodeCollision(err))

	_, err = repo.Create(ctx, suppliers.Supplier{Code: "AAA-0000-00002", Name: "Cables Ltd"})
	require.ErrorIs(t, err, shared.ErrUniquenessViolation)
	require.False(t, shared.IsCodeCollision(err))

	require.ErrorIs(t, repo.Update(ctx, suppliers.Supplier{Code: "ZZZ-0000-00001", Name: "x"}), shared.ErrNotFound)
	_, err = repo.Get(ctx, "ZZZ-0000-00001")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSupplierDeleteNullsProductReferences(t *testing.T) {
	st := New()
	ctx := context.Background()
	_, err := st.Suppliers().Create(ctx, suppliers.Supplier{Code: "SUP-0000-00001", Name: "Maker"})
	require.NoError(t, err)

	code := "SUP-0000-00001"
	_, err = st.Products().Create(ctx, products.Product{Code: "PRD-0000-00001", Name: "Jack", SupplierCode: &code, ManufacturerCode: &code})
	require.NoError(t, err)

	missing := "SUP-0000-99999"
	_, err = st.Products().Create(ctx, products.Product{Code: "PRD-0000-00002", Name: "Plug", SupplierCode: &missing})
	require.ErrorIs(t, err, shared.ErrValidation)

	require.NoError(t, st.Suppliers().Delete(ctx, code))
	p, err := st.Products().Get(ctx, "PRD-0000-00001")
	require.NoError(t, err)
	require.Nil(t, p.SupplierCode)
	require.Nil(t, p.ManufacturerCode)
}

func TestListFiltersAndPaginates(t *testing.T) {
	st := New()
	ctx := context.Background()
	for i, name := range []string{"Delta", "alpha", "Charlie", "Bravo"} {
		_, err := st.Clients().Create(ctx, clients.Client{Code: "CLI-0000-0000" + string(rune('1'+i)), Name: name})
		require.NoError(t, err)
	}

	page1, total, err := st.Clients().List(ctx, shared.ListFilters{PerPage: 2, Page: 1})
	require.NoError(t, err)
	require.Equal(t, 4, total)
	require.Equal(t, []string{"Bravo", "Charlie"}, names(page1))

	found, total, err := st.Clients().List(ctx, shared.ListFilters{Search: "ALP"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "alpha", found[0].Name)
}

func names(cs []clients.Client) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func seedBuild(t *testing.T, st *Store) (builds.SystemBuild, cables.Cable, terminals.Terminal) {
	t.Helper()
	ctx := context.Background()
	_, err := st.Products().Create(ctx, products.Product{Code: "PRD-0000-00001", Name: "Cable", Price: decimal.NewFromInt(3)})
	require.NoError(t, err)
	_, err = st.Clients().Create(ctx, clients.Client{Code: "CLI-0000-00001", Name: "Acme"})
	require.NoError(t, err)
	mbps := 100.0
	cable, err := st.Cables().Create(ctx, cables.Cable{Name: "c", Type: cables.TypeCat5, ProductCode: "PRD-0000-00001", Mbps: &mbps})
	require.NoError(t, err)
	term, err := st.Terminals().Create(ctx, terminals.Terminal{Name: "t", ProductCode: "PRD-0000-00001"})
	require.NoError(t, err)
	b, err := st.Builds().CreateBuild(ctx, builds.SystemBuild{Code: "BLD-0000-00001", ClientCode: "CLI-0000-00001"})
	require.NoError(t, err)
	return b, cable, term
}

func TestCableProductIsExclusive(t *testing.T) {
	st := New()
	_, cable, _ := seedBuild(t, st)
	gbps := 1.0
	_, err := st.Cables().Create(context.Background(), cables.Cable{Name: "dup", Type: cables.TypeCat6, ProductCode: cable.ProductCode, Gbps: &gbps})
	var uv *shared.UniquenessViolation
	require.ErrorAs(t, err, &uv)
	require.Equal(t, "product_code", uv.Field)
}

func TestConnectionCodesAreUniquePerBuild(t *testing.T) {
	st := New()
	ctx := context.Background()
	b, cable, term := seedBuild(t, st)

	conn := builds.Connection{BuildCode: b.Code, Code: "111-222", TerminalAID: term.ID, TerminalBID: term.ID, CableID: cable.ID}
	_, err := st.Builds().CreateConnection(ctx, conn)
	require.NoError(t, err)
	_, err = st.Builds().CreateConnection(ctx, conn)
	require.True(t, shared.IsCodeCollision(err))

	conn.TerminalBID = 999
	conn.Code = "333-444"
	_, err = st.Builds().CreateConnection(ctx, conn)
	require.ErrorIs(t, err, shared.ErrValidation)

	require.NoError(t, st.Builds().DeleteBuild(ctx, b.Code))
	conns, err := st.Builds().ListConnections(ctx, b.Code)
	require.NoError(t, err)
	require.Empty(t, conns)
}

func TestOneOrderPerBuild(t *testing.T) {
	st := New()
	ctx := context.Background()
	b, _, _ := seedBuild(t, st)

	_, err := st.Orders().CreateOrder(ctx, procurement.PurchaseOrder{Code: "POA-0000-00001", BuildCode: b.Code})
	require.NoError(t, err)
	_, err = st.Orders().CreateOrder(ctx, procurement.PurchaseOrder{Code: "POA-0000-00002", BuildCode: b.Code})
	var uv *shared.UniquenessViolation
	require.ErrorAs(t, err, &uv)
	require.Equal(t, "build_code", uv.Field)

	require.ErrorIs(t, st.Builds().DeleteBuild(ctx, b.Code), shared.ErrValidation)
}

func TestWithinTxRollsBack(t *testing.T) {
	st := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := st.Suppliers().Create(ctx, suppliers.Supplier{Code: "SUP-0000-00001", Name: "a"}); err != nil {
			return err
		}
		return st.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := st.Suppliers().Create(ctx, suppliers.Supplier{Code: "SUP-0000-00002", Name: "b"}); err != nil {
				return err
			}
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	_, total, err := st.Suppliers().List(ctx, shared.ListFilters{})
	require.NoError(t, err)
	require.Zero(t, total)

	require.NoError(t, st.WithinTx(ctx, func(ctx context.Context) error {
		_, err := st.Suppliers().Create(ctx, suppliers.Supplier{Code: "SUP-0000-00003", Name: "c"})
		return err
	}))
	_, err = st.Suppliers().Get(ctx, "SUP-0000-00003")
	require.NoError(t, err)
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	st := New()
	ctx := context.Background()
	require.Panics(t, func() {
		_ = st.WithinTx(ctx, func(ctx context.Context) error {
			_, _ = st.Suppliers().Create(ctx, suppliers.Supplier{Code: "SUP-0000-00001", Name: "a"})
			panic("kaboom")
		})
	})
	_, err := st.Suppliers().Get(ctx, "SUP-0000-00001")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTransactionUniquenessPerDocument(t *testing.T) {
	st := New()
	ctx := context.Background()
	b, _, _ := seedBuild(t, st)
	_, err := st.Orders().CreateOrder(ctx, procurement.PurchaseOrder{Code: "POA-0000-00001", BuildCode: b.Code})
	require.NoError(t, err)

	acc, err := st.Ledger().EnsureAccount(ctx, "Operating")
	require.NoError(t, err)
	again, err := st.Ledger().EnsureAccount(ctx, "Operating")
	require.NoError(t, err)
	require.Equal(t, acc.ID, again.ID)

	order := "POA-0000-00001"
	tx := ledger.Transaction{ID: uuid.New(), AccountID: acc.ID, Kind: ledger.KindPurchaseOrderPayment, Amount: decimal.NewFromInt(3), OrderCode: &order}
	_, err = st.Ledger().CreateTransaction(ctx, tx)
	require.NoError(t, err)

	has, err := st.Ledger().HasTransaction(ctx, ledger.KindPurchaseOrderPayment, ledger.Reference{OrderCode: order})
	require.NoError(t, err)
	require.True(t, has)
	has, err = st.Ledger().HasTransaction(ctx, ledger.KindBill, ledger.Reference{OrderCode: order})
	require.NoError(t, err)
	require.False(t, has)

	tx.ID = uuid.New()
	_, err = st.Ledger().CreateTransaction(ctx, tx)
	require.ErrorIs(t, err, shared.ErrUniquenessViolation)

	// Manual entries without a document reference never collide.
	for range 2 {
		_, err = st.Ledger().CreateTransaction(ctx, ledger.Transaction{ID: uuid.New(), AccountID: acc.ID, Kind: ledger.KindCredit, Amount: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}
	txs, err := st.Ledger().ListTransactions(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, txs, 3)
}

func TestPinoutConstraints(t *testing.T) {
	st := New()
	ctx := context.Background()
	repo := st.Colours()

	_, err := repo.CreatePin(ctx, colours.Pin{Name: "T568A", PinNumber: 1, Colour: colours.WhiteGreen})
	require.NoError(t, err)
	_, err = repo.CreatePin(ctx, colours.Pin{Name: "T568A", PinNumber: 1, Colour: colours.Green})
	require.ErrorIs(t, err, shared.ErrUniquenessViolation)
	_, err = repo.CreatePin(ctx, colours.Pin{Name: "T568A", PinNumber: 2, Colour: colours.WhiteGreen})
	require.ErrorIs(t, err, shared.ErrUniquenessViolation)
	_, err = repo.CreatePin(ctx, colours.Pin{Name: "T568B", PinNumber: 1, Colour: colours.WhiteGreen})
	require.NoError(t, err)

	n, err := repo.DeletePinout(ctx, "T568A")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestCountryGetOrCreate(t *testing.T) {
	st := New()
	ctx := context.Background()
	c, created, err := st.Countries().GetOrCreate(ctx, "Kenya", "KE")
	require.NoError(t, err)
	require.True(t, created)
	again, created, err := st.Countries().GetOrCreate(ctx, "Kenya", "KE")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, c.ID, again.ID)
}
