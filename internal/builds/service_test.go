package builds_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/codes"
	"github.com/gaia-project/gaia/internal/masterdata/cables"
	"github.com/gaia-project/gaia/internal/masterdata/clients"
	"github.com/gaia-project/gaia/internal/masterdata/products"
	"github.com/gaia-project/gaia/internal/masterdata/terminals"
	"github.com/gaia-project/gaia/internal/shared"
	"github.com/gaia-project/gaia/internal/store/memory"
)

const clientCode = "CLI-0000-00001"

type recordingObserver struct{ changes []builds.Change }

func (o *recordingObserver) OnSystemBuildUpdated(_ context.Context, c builds.Change) {
	o.changes = append(o.changes, c)
}

type fixture struct {
	store    *memory.Store
	service  *builds.Service
	observer *recordingObserver
	termA    int64
	termB    int64
	cable    int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	_, err := st.Clients().Create(ctx, clients.Client{Code: clientCode, Name: "Acme"})
	require.NoError(t, err)
	for _, code := range []string{"CAB-0000-00001", "RJA-0000-00001"} {
		_, err := st.Products().Create(ctx, products.Product{Code: code, Name: code, Price: decimal.NewFromInt(1), Unit: shared.UnitPieces})
		require.NoError(t, err)
	}
	gbps := 1.0
	cable, err := st.Cables().Create(ctx, cables.Cable{Name: "Patch", Type: cables.TypeCat6, ProductCode: "CAB-0000-00001", Gbps: &gbps})
	require.NoError(t, err)
	termA, err := st.Terminals().Create(ctx, terminals.Terminal{Name: "A", ProductCode: "RJA-0000-00001"})
	require.NoError(t, err)
	termB, err := st.Terminals().Create(ctx, terminals.Terminal{Name: "B", ProductCode: "RJA-0000-00001"})
	require.NoError(t, err)

	obs := &recordingObserver{}
	svc := builds.NewService(st.Builds(), codes.NewSequenceGenerator(&codes.CounterSequence{}), obs, st.Audit())
	return &fixture{store: st, service: svc, observer: obs, termA: termA.ID, termB: termB.ID, cable: cable.ID}
}

func TestCreateNotifiesAndAudits(t *testing.T) {
	f := newFixture(t)
	designer := int64(7)

	b, err := f.service.Create(context.Background(), builds.CreateInput{ClientCode: clientCode, DesignerID: &designer, Description: "Level 2"})
	require.NoError(t, err)
	require.True(t, codes.Valid(b.Code))
	require.True(t, b.IsActive)
	require.False(t, b.IsComplete)

	require.Len(t, f.observer.changes, 1)
	require.True(t, f.observer.changes[0].Created)
	require.Equal(t, b.Code, f.observer.changes[0].Current.Code)

	entries := f.store.Audit().Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "BUILD_CREATE", entries[0].Action)
}

func TestCreateRequiresKnownClient(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), builds.CreateInput{ClientCode: "CLI-9999-99999"})
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = f.service.Create(context.Background(), builds.CreateInput{ClientCode: "short"})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Empty(t, f.observer.changes)
}

func TestCompleteReportsTransition(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.service.Create(ctx, builds.CreateInput{ClientCode: clientCode})
	require.NoError(t, err)

	done, err := f.service.Complete(ctx, b.Code)
	require.NoError(t, err)
	require.True(t, done.IsComplete)

	last := f.observer.changes[len(f.observer.changes)-1]
	require.False(t, last.Created)
	require.False(t, last.Previous.IsComplete)
	require.True(t, last.Current.IsComplete)

	// Completing again is a plain save with no new audit entry.
	_, err = f.service.Complete(ctx, b.Code)
	require.NoError(t, err)
	var completes int
	for _, e := range f.store.Audit().Entries() {
		if e.Action == "BUILD_COMPLETE" {
			completes++
		}
	}
	require.Equal(t, 1, completes)

	_, err = f.service.Complete(ctx, "BLD-9999-99999")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestConnections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.service.Create(ctx, builds.CreateInput{ClientCode: clientCode})
	require.NoError(t, err)

	conn, err := f.service.AddConnection(ctx, b.Code, builds.ConnectionInput{TerminalAID: f.termA, TerminalBID: f.termB, CableID: f.cable, Label: " Desk 1 "})
	require.NoError(t, err)
	require.Regexp(t, codes.ConnectionPattern, conn.Code)
	require.Equal(t, "Desk 1", conn.Label)

	_, err = f.service.AddConnection(ctx, b.Code, builds.ConnectionInput{TerminalAID: f.termA, TerminalBID: f.termB, CableID: 999})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = f.service.AddConnection(ctx, "BLD-9999-99999", builds.ConnectionInput{TerminalAID: f.termA, TerminalBID: f.termB, CableID: f.cable})
	require.ErrorIs(t, err, shared.ErrNotFound)

	conns, err := f.service.ListConnections(ctx, b.Code)
	require.NoError(t, err)
	require.Len(t, conns, 1)

	require.NoError(t, f.service.DeleteConnection(ctx, b.Code, conn.ID))
	conns, err = f.service.ListConnections(ctx, b.Code)
	require.NoError(t, err)
	require.Empty(t, conns)
}

func TestDeleteRemovesConnections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.service.Create(ctx, builds.CreateInput{ClientCode: clientCode})
	require.NoError(t, err)
	_, err = f.service.AddConnection(ctx, b.Code, builds.ConnectionInput{TerminalAID: f.termA, TerminalBID: f.termB, CableID: f.cable})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, b.Code))
	_, err = f.service.ListConnections(ctx, b.Code)
	require.ErrorIs(t, err, shared.ErrNotFound)

	// The cable is free to delete once no connection uses it.
	require.NoError(t, f.store.Cables().Delete(ctx, f.cable))
}

func TestCompletedBuildIsFrozen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.service.Create(ctx, builds.CreateInput{ClientCode: clientCode})
	require.NoError(t, err)
	conn, err := f.service.AddConnection(ctx, b.Code, builds.ConnectionInput{TerminalAID: f.termA, TerminalBID: f.termB, CableID: f.cable})
	require.NoError(t, err)
	_, err = f.service.Complete(ctx, b.Code)
	require.NoError(t, err)
	seen := len(f.observer.changes)

	_, err = f.service.AddConnection(ctx, b.Code, builds.ConnectionInput{TerminalAID: f.termA, TerminalBID: f.termB, CableID: f.cable})
	require.ErrorIs(t, err, shared.ErrPreconditionNotMet)
	require.ErrorIs(t, f.service.DeleteConnection(ctx, b.Code, conn.ID), shared.ErrPreconditionNotMet)

	reopen := false
	_, err = f.service.Update(ctx, b.Code, builds.UpdateInput{IsComplete: &reopen})
	require.ErrorIs(t, err, shared.ErrPreconditionNotMet)
	require.Len(t, f.observer.changes, seen)

	stored, err := f.service.Get(ctx, b.Code)
	require.NoError(t, err)
	require.True(t, stored.IsComplete)
	conns, err := f.service.ListConnections(ctx, b.Code)
	require.NoError(t, err)
	require.Len(t, conns, 1)

	notes := "Rack moved"
	updated, err := f.service.Update(ctx, b.Code, builds.UpdateInput{Notes: &notes})
	require.NoError(t, err)
	require.Equal(t, notes, updated.Notes)
	require.Equal(t, b.Code, updated.Code)
	require.True(t, updated.IsComplete)
}
