package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/gaia-project/gaia/internal/cascade"
	jobmetrics "github.com/gaia-project/gaia/internal/jobs"
	"github.com/gaia-project/gaia/internal/shared"
)

// CascadeRetryHandler processes TaskCascadeRetry tasks.
type CascadeRetryHandler struct {
	runner  cascade.Runner
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewCascadeRetryHandler constructs the handler. metrics may be nil.
func NewCascadeRetryHandler(runner cascade.Runner, logger *slog.Logger, metrics *jobmetrics.Metrics) *CascadeRetryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CascadeRetryHandler{runner: runner, logger: logger, metrics: metrics}
}

// ProcessTask implements asynq.Handler.
func (h *CascadeRetryHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload CascadeRetryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Step == "" || payload.Ref == "" {
		h.logger.Warn("cascade retry: bad payload", slog.String("payload", string(t.Payload())))
		return asynq.SkipRetry
	}
	tracker := h.metrics.Track(TaskCascadeRetry)
	err := h.runner.Run(ctx, payload.Step, payload.Ref)
	switch {
	case err == nil:
		h.logger.Info("cascade retry completed", slog.String("step", string(payload.Step)), slog.String("ref", payload.Ref))
		return tracker.End(nil)
	case errors.Is(err, cascade.ErrUnknownStep):
		return tracker.End(errors.Join(err, asynq.SkipRetry))
	case errors.Is(err, shared.ErrPreconditionNotMet), errors.Is(err, shared.ErrUniquenessViolation):
		// Another attempt already produced the output.
		h.logger.Debug("cascade retry skipped", slog.String("step", string(payload.Step)), slog.String("ref", payload.Ref), slog.Any("reason", err))
		return tracker.End(nil)
	default:
		return tracker.End(err)
	}
}
