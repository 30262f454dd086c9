package cascade

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/invoicing"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/internal/shared"
)

// Outcomes reported to the Recorder.
const (
	OutcomeDone    = "done"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Runner executes a single cascade step.
type Runner interface {
	Run(ctx context.Context, step Step, ref string) error
}

// RetryQueue schedules a failed step to run again later.
type RetryQueue interface {
	EnqueueCascadeRetry(ctx context.Context, step Step, ref string) error
}

// Recorder counts step outcomes.
type Recorder interface {
	ObserveCascade(step, outcome string)
}

// Dispatcher reacts to document state changes by running the next cascade
// step. It never fails the save that triggered it: errors are logged,
// counted and, when a RetryQueue is set, queued for another attempt.
type Dispatcher struct {
	runner  Runner
	logger  *slog.Logger
	retry   RetryQueue
	metrics Recorder
}

// NewDispatcher constructs a Dispatcher. retry and metrics may be nil.
func NewDispatcher(runner Runner, logger *slog.Logger, retry RetryQueue, metrics Recorder) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{runner: runner, logger: logger, retry: retry, metrics: metrics}
}

var (
	_ builds.Observer      = (*Dispatcher)(nil)
	_ procurement.Observer = (*Dispatcher)(nil)
	_ invoicing.Observer   = (*Dispatcher)(nil)
)

// OnSystemBuildUpdated synthesises the purchase order once a saved build is complete.
func (d *Dispatcher) OnSystemBuildUpdated(ctx context.Context, change builds.Change) {
	if change.Created || !change.Current.IsComplete {
		return
	}
	d.dispatch(ctx, StepPurchaseOrder, change.Current.Code)
}

// OnPurchaseOrderUpdated synthesises the invoice and posts the debit once
// a saved order is ordered. The two steps are independent.
func (d *Dispatcher) OnPurchaseOrderUpdated(ctx context.Context, change procurement.Change) {
	if change.Created || !change.Current.IsOrdered {
		return
	}
	d.dispatch(ctx, StepInvoice, change.Current.Code)
	d.dispatch(ctx, StepLedgerDebit, change.Current.Code)
}

// OnInvoiceUpdated posts the credit once a saved invoice is sent.
func (d *Dispatcher) OnInvoiceUpdated(ctx context.Context, change invoicing.Change) {
	if change.Created || !change.Current.IsSent {
		return
	}
	d.dispatch(ctx, StepLedgerCredit, change.Current.Code)
}

func (d *Dispatcher) dispatch(ctx context.Context, step Step, ref string) {
	err := d.runner.Run(ctx, step, ref)
	switch {
	case err == nil:
		d.observe(step, OutcomeDone)
		d.logger.Info("cascade step completed", slog.String("step", string(step)), slog.String("ref", ref))
	case errors.Is(err, shared.ErrPreconditionNotMet), errors.Is(err, shared.ErrUniquenessViolation):
		d.observe(step, OutcomeSkipped)
		d.logger.Debug("cascade step skipped", slog.String("step", string(step)), slog.String("ref", ref), slog.Any("reason", err))
	default:
		d.observe(step, OutcomeFailed)
		d.logger.Error("cascade step failed", slog.String("step", string(step)), slog.String("ref", ref), slog.Any("error", err))
		if d.retry == nil {
			return
		}
		if qerr := d.retry.EnqueueCascadeRetry(context.WithoutCancel(ctx), step, ref); qerr != nil {
			d.logger.Error("cascade retry enqueue failed", slog.String("step", string(step)), slog.String("ref", ref), slog.Any("error", qerr))
		}
	}
}

func (d *Dispatcher) observe(step Step, outcome string) {
	if d.metrics != nil {
		d.metrics.ObserveCascade(string(step), outcome)
	}
}
