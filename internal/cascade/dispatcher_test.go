package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/invoicing"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/internal/shared"
)

type call struct {
	step Step
	ref  string
}

type stubRunner struct {
	err   error
	calls []call
}

func (s *stubRunner) Run(_ context.Context, step Step, ref string) error {
	s.calls = append(s.calls, call{step, ref})
	return s.err
}

type stubQueue struct {
	calls []call
	err   error
}

func (q *stubQueue) EnqueueCascadeRetry(_ context.Context, step Step, ref string) error {
	q.calls = append(q.calls, call{step, ref})
	return q.err
}

type stubRecorder struct{ outcomes []string }

func (r *stubRecorder) ObserveCascade(step, outcome string) {
	r.outcomes = append(r.outcomes, step+"="+outcome)
}

func TestDispatcherRoutesChanges(t *testing.T) {
	runner := &stubRunner{}
	d := NewDispatcher(runner, nil, nil, nil)
	ctx := context.Background()

	d.OnSystemBuildUpdated(ctx, builds.Change{Current: builds.SystemBuild{Code: "B", IsComplete: true}, Created: true})
	d.OnSystemBuildUpdated(ctx, builds.Change{Current: builds.SystemBuild{Code: "B"}})
	require.Empty(t, runner.calls)

	d.OnSystemBuildUpdated(ctx, builds.Change{Current: builds.SystemBuild{Code: "B", IsComplete: true}})
	d.OnPurchaseOrderUpdated(ctx, procurement.Change{Current: procurement.PurchaseOrder{Code: "P"}})
	d.OnPurchaseOrderUpdated(ctx, procurement.Change{Current: procurement.PurchaseOrder{Code: "P", IsOrdered: true}})
	d.OnInvoiceUpdated(ctx, invoicing.Change{Current: invoicing.ClientInvoice{Code: "I"}})
	d.OnInvoiceUpdated(ctx, invoicing.Change{Current: invoicing.ClientInvoice{Code: "I", IsSent: true}})

	require.Equal(t, []call{
		{StepPurchaseOrder, "B"},
		{StepInvoice, "P"},
		{StepLedgerDebit, "P"},
		{StepLedgerCredit, "I"},
	}, runner.calls)
}

func TestDispatcherSwallowsFailuresAndQueuesRetry(t *testing.T) {
	runner := &stubRunner{err: errors.New("db unavailable")}
	queue := &stubQueue{}
	metrics := &stubRecorder{}
	d := NewDispatcher(runner, nil, queue, metrics)

	d.OnSystemBuildUpdated(context.Background(), builds.Change{Current: builds.SystemBuild{Code: "B", IsComplete: true}})

	require.Equal(t, []call{{StepPurchaseOrder, "B"}}, queue.calls)
	require.Equal(t, []string{"purchase_order=failed"}, metrics.outcomes)

	queue.err = errors.New("redis down")
	require.NotPanics(t, func() {
		d.OnInvoiceUpdated(context.Background(), invoicing.Change{Current: invoicing.ClientInvoice{Code: "I", IsSent: true}})
	})
}

func TestDispatcherSkipsCompletedSteps(t *testing.T) {
	for _, err := range []error{
		shared.Precondition("build B already has a purchase order"),
		shared.Duplicate("purchase order", "build_code"),
	} {
		runner := &stubRunner{err: err}
		queue := &stubQueue{}
		metrics := &stubRecorder{}
		d := NewDispatcher(runner, nil, queue, metrics)

		d.OnSystemBuildUpdated(context.Background(), builds.Change{Current: builds.SystemBuild{Code: "B", IsComplete: true}})

		require.Empty(t, queue.calls)
		require.Equal(t, []string{"purchase_order=skipped"}, metrics.outcomes)
	}
}

func TestCascadeThroughServices(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	metrics := &stubRecorder{}
	d := NewDispatcher(f.engine, nil, nil, metrics)

	buildSvc := builds.NewService(f.store.Builds(), f.deps.Codes, d, nil)
	orderSvc := procurement.NewService(f.store.Orders(), d, nil)
	invoiceSvc := invoicing.NewService(f.store.Invoices(), d, nil)

	_, err := buildSvc.Complete(ctx, buildCode)
	require.NoError(t, err)
	po, err := orderSvc.GetByBuild(ctx, buildCode)
	require.NoError(t, err)
	require.Len(t, po.Items, 3)

	// Saving again while complete does not create a second order.
	notes := "re-saved"
	_, err = buildSvc.Update(ctx, buildCode, builds.UpdateInput{Notes: &notes})
	require.NoError(t, err)

	_, err = orderSvc.SetOrdered(ctx, po.Code, true)
	require.NoError(t, err)
	inv, err := invoiceSvc.GetByBuild(ctx, buildCode)
	require.NoError(t, err)
	require.Equal(t, "9.00", inv.Total().StringFixed(2))

	_, err = invoiceSvc.SetSent(ctx, inv.Code, true)
	require.NoError(t, err)

	accounts, err := f.store.Ledger().ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	txs, err := f.store.Ledger().ListTransactions(ctx, accounts[0].ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	require.Equal(t, []string{
		"purchase_order=done",
		"purchase_order=skipped",
		"invoice=done",
		"ledger_debit=done",
		"ledger_credit=done",
	}, metrics.outcomes)
}
