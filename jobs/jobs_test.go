package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/gaia-project/gaia/internal/cascade"
	"github.com/gaia-project/gaia/internal/shared"
)

type stubEnqueuer struct {
	tasks []*asynq.Task
	err   error
	// errs are returned, in order, before err.
	errs []error
}

func (s *stubEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	s.tasks = append(s.tasks, task)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
		return &asynq.TaskInfo{Type: task.Type()}, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type stubTaskStore struct {
	info    *asynq.TaskInfo
	infoErr error
	deleted []string
}

func (s *stubTaskStore) GetTaskInfo(queue, id string) (*asynq.TaskInfo, error) {
	if s.infoErr != nil {
		return nil, s.infoErr
	}
	info := *s.info
	info.Queue, info.ID = queue, id
	return &info, nil
}

func (s *stubTaskStore) DeleteTask(_, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubTaskStore) Close() error { return nil }

func (s *stubEnqueuer) Close() error { return nil }

type stubRunner struct {
	err   error
	calls []CascadeRetryPayload
}

func (s *stubRunner) Run(_ context.Context, step cascade.Step, ref string) error {
	s.calls = append(s.calls, CascadeRetryPayload{Step: step, Ref: ref})
	return s.err
}

func TestNewCascadeRetryTask(t *testing.T) {
	task, err := NewCascadeRetryTask(cascade.StepInvoice, "ABC123456789")
	require.NoError(t, err)
	require.Equal(t, TaskCascadeRetry, task.Type())

	var payload CascadeRetryPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, cascade.StepInvoice, payload.Step)
	require.Equal(t, "ABC123456789", payload.Ref)

	require.Equal(t, cascadeTaskID(cascade.StepInvoice, "ABC123456789"), cascadeTaskID(cascade.StepInvoice, "ABC123456789"))
	require.NotEqual(t, cascadeTaskID(cascade.StepInvoice, "ABC123456789"), cascadeTaskID(cascade.StepLedgerDebit, "ABC123456789"))

	_, err = NewCascadeRetryTask("", "ABC123456789")
	require.Error(t, err)
}

func TestClientEnqueueCascadeRetry(t *testing.T) {
	stub := &stubEnqueuer{}
	client := &Client{client: stub}
	require.NoError(t, client.EnqueueCascadeRetry(context.Background(), cascade.StepPurchaseOrder, "XYZ000000001"))
	require.Len(t, stub.tasks, 1)

	stub.err = asynq.ErrTaskIDConflict
	require.NoError(t, client.EnqueueCascadeRetry(context.Background(), cascade.StepPurchaseOrder, "XYZ000000001"))

	stub.err = errors.New("redis down")
	require.Error(t, client.EnqueueCascadeRetry(context.Background(), cascade.StepPurchaseOrder, "XYZ000000001"))
}

func TestClientKeepsPendingRetry(t *testing.T) {
	stub := &stubEnqueuer{err: asynq.ErrTaskIDConflict}
	store := &stubTaskStore{info: &asynq.TaskInfo{State: asynq.TaskStateScheduled}}
	client := &Client{client: stub, tasks: store}

	require.NoError(t, client.EnqueueCascadeRetry(context.Background(), cascade.StepInvoice, "POR-0000-00001"))
	require.Len(t, stub.tasks, 1)
	require.Empty(t, store.deleted)
}

func TestClientReplacesArchivedRetry(t *testing.T) {
	stub := &stubEnqueuer{errs: []error{asynq.ErrTaskIDConflict, nil}}
	store := &stubTaskStore{info: &asynq.TaskInfo{State: asynq.TaskStateArchived, LastErr: "store offline"}}
	client := &Client{client: stub, tasks: store}

	require.NoError(t, client.EnqueueCascadeRetry(context.Background(), cascade.StepInvoice, "POR-0000-00001"))
	require.Equal(t, []string{cascadeTaskID(cascade.StepInvoice, "POR-0000-00001")}, store.deleted)
	require.Len(t, stub.tasks, 2)
}

func TestClientRequeuesVanishedRetry(t *testing.T) {
	stub := &stubEnqueuer{errs: []error{asynq.ErrTaskIDConflict, nil}}
	store := &stubTaskStore{infoErr: asynq.ErrTaskNotFound}
	client := &Client{client: stub, tasks: store}

	require.NoError(t, client.EnqueueCascadeRetry(context.Background(), cascade.StepLedgerDebit, "POR-0000-00001"))
	require.Len(t, stub.tasks, 2)
	require.Empty(t, store.deleted)

	store.infoErr = errors.New("redis down")
	stub.errs = []error{asynq.ErrTaskIDConflict}
	require.Error(t, client.EnqueueCascadeRetry(context.Background(), cascade.StepLedgerDebit, "POR-0000-00001"))
}

func TestCascadeRetryHandler(t *testing.T) {
	task, err := NewCascadeRetryTask(cascade.StepLedgerCredit, "INV000000001")
	require.NoError(t, err)

	cases := []struct {
		name    string
		runErr  error
		wantErr bool
	}{
		{name: "success", runErr: nil},
		{name: "already posted", runErr: shared.Precondition("invoice already credited")},
		{name: "duplicate", runErr: shared.Duplicate("account_transaction", "invoice_code")},
		{name: "transient", runErr: errors.New("connection reset"), wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &stubRunner{err: tc.runErr}
			h := NewCascadeRetryHandler(runner, nil, nil)
			err := h.ProcessTask(context.Background(), task)
			if tc.wantErr {
				require.Error(t, err)
				require.False(t, errors.Is(err, asynq.SkipRetry))
			} else {
				require.NoError(t, err)
			}
			require.Len(t, runner.calls, 1)
			require.Equal(t, cascade.StepLedgerCredit, runner.calls[0].Step)
		})
	}
}

func TestCascadeRetryHandlerRejectsBadPayload(t *testing.T) {
	runner := &stubRunner{}
	h := NewCascadeRetryHandler(runner, nil, nil)
	err := h.ProcessTask(context.Background(), asynq.NewTask(TaskCascadeRetry, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, runner.calls)

	runner.err = cascade.ErrUnknownStep
	task := asynq.NewTask(TaskCascadeRetry, []byte(`{"step":"bogus","ref":"A"}`))
	require.ErrorIs(t, h.ProcessTask(context.Background(), task), asynq.SkipRetry)
}

type stubInspector struct{}

func (stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return &asynq.QueueInfo{Queue: queue, Pending: 3, Retry: 1}, nil
}

func TestHealthEndpoint(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(stubInspector{}, nil).MountRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body queueHealth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, queueHealth{Queue: QueueDefault, Pending: 3, Retry: 1, Enabled: true}, body)
}
