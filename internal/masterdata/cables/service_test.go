package cables_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gaia-project/gaia/internal/masterdata/cables"
	"github.com/gaia-project/gaia/internal/masterdata/colours"
	"github.com/gaia-project/gaia/internal/masterdata/products"
	"github.com/gaia-project/gaia/internal/shared"
	"github.com/gaia-project/gaia/internal/store/memory"
)

func ptr(v float64) *float64 { return &v }

func TestNormalizeSpeed(t *testing.T) {
	c := cables.Cable{Gbps: ptr(1), Mbps: ptr(5000)}
	require.NoError(t, c.NormalizeSpeed())
	require.Equal(t, 1000.0, *c.Mbps)

	c = cables.Cable{Mbps: ptr(100)}
	require.NoError(t, c.NormalizeSpeed())
	require.Equal(t, 0.1, *c.Gbps)

	c = cables.Cable{}
	require.ErrorIs(t, c.NormalizeSpeed(), cables.ErrSpeedRequired)
}

func seedProduct(t *testing.T, st *memory.Store, code string) {
	t.Helper()
	_, err := st.Products().Create(context.Background(), products.Product{Code: code, Name: code, Price: decimal.NewFromInt(1), Unit: shared.UnitPieces})
	require.NoError(t, err)
}

func TestCreateDerivesSpeedAndUppercasesType(t *testing.T) {
	st := memory.New()
	seedProduct(t, st, "CAB-0000-00001")
	svc := cables.NewService(st.Cables())

	c, err := svc.Create(context.Background(), cables.Input{Name: "Patch", Type: "cat6a", ProductCode: "CAB-0000-00001", Gbps: ptr(1), Mbps: ptr(5000)})
	require.NoError(t, err)
	require.Equal(t, cables.TypeCat6a, c.Type)
	require.Equal(t, 1000.0, *c.Mbps)
	require.NotZero(t, c.ID)
}

func TestCreateRequiresSpeed(t *testing.T) {
	st := memory.New()
	seedProduct(t, st, "CAB-0000-00001")
	svc := cables.NewService(st.Cables())

	_, err := svc.Create(context.Background(), cables.Input{Name: "Patch", Type: cables.TypeCat6, ProductCode: "CAB-0000-00001"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestProductBindsOneCable(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProduct(t, st, "CAB-0000-00001")
	svc := cables.NewService(st.Cables())

	_, err := svc.Create(ctx, cables.Input{Name: "A", Type: cables.TypeCat6, ProductCode: "CAB-0000-00001", Gbps: ptr(1)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, cables.Input{Name: "B", Type: cables.TypeCat6, ProductCode: "CAB-0000-00001", Gbps: ptr(1)})
	require.ErrorIs(t, err, shared.ErrUniquenessViolation)
}

func TestUpdateRederivesSpeedAndColourDeleteDetaches(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedProduct(t, st, "CAB-0000-00001")
	colour, err := colours.NewService(st.Colours(), st).CreateColour(ctx, colours.ColourInput{Name: "blue", RGB: "0,0,255", Hex: "#0000ff"})
	require.NoError(t, err)

	svc := cables.NewService(st.Cables())
	c, err := svc.Create(ctx, cables.Input{Name: "A", Type: cables.TypeCat6, ProductCode: "CAB-0000-00001", Gbps: ptr(1), ColourID: &colour.ID})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, cables.Input{Name: "A", Type: cables.TypeCat6, ProductCode: "CAB-0000-00001", Mbps: ptr(10000), ColourID: &colour.ID})
	require.NoError(t, err)
	require.Equal(t, 10.0, *updated.Gbps)

	require.NoError(t, st.Colours().DeleteColour(ctx, colour.ID))
	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Nil(t, got.ColourID)

	_, err = svc.Update(ctx, 999, cables.Input{Name: "A", Type: cables.TypeCat6, ProductCode: "CAB-0000-00001", Gbps: ptr(1)})
	require.ErrorIs(t, err, shared.ErrNotFound)
}
