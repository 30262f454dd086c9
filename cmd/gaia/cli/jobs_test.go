package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/gaia-project/gaia/jobs"
)

type stubInspector struct {
	info   *asynq.QueueInfo
	err    error
	queue  string
	closed bool
}

func (s *stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	s.queue = queue
	return s.info, s.err
}

func (s *stubInspector) ListScheduledTasks(queue string, _ ...asynq.ListOption) ([]*asynq.TaskInfo, error) {
	s.queue = queue
	return []*asynq.TaskInfo{{Queue: queue, Type: jobs.TaskCascadeRetry}}, s.err
}

func (s *stubInspector) Close() error {
	s.closed = true
	return nil
}

func TestRetryRejectsUnknownStep(t *testing.T) {
	c := &JobsCLI{client: &jobs.Client{}}
	require.ErrorContains(t, c.Retry(context.Background(), "refund", "POR-0000-00001"), "unsupported step")
	require.ErrorContains(t, c.Retry(context.Background(), "invoice", ""), "ref is required")
}

func TestRetryWithoutClient(t *testing.T) {
	var c *JobsCLI
	require.Error(t, c.Retry(context.Background(), "invoice", "POR-0000-00001"))
}

func TestInspectQueue(t *testing.T) {
	insp := &stubInspector{info: &asynq.QueueInfo{Queue: jobs.QueueDefault, Pending: 2, Scheduled: 3, Retry: 1, Archived: 4}}
	c := &JobsCLI{inspector: insp}

	stats, err := c.InspectQueue()
	require.NoError(t, err)
	require.Equal(t, QueueStats{Queue: jobs.QueueDefault, Pending: 2, Scheduled: 3, Retry: 1, Archived: 4}, stats)
	require.Equal(t, jobs.QueueDefault, insp.queue)

	insp.err = errors.New("redis down")
	_, err = c.InspectQueue()
	require.Error(t, err)
}

func TestListScheduledAndClose(t *testing.T) {
	insp := &stubInspector{}
	c := &JobsCLI{inspector: insp}

	tasks, err := c.ListScheduled(0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, jobs.TaskCascadeRetry, tasks[0].Type)

	require.NoError(t, c.Close())
	require.True(t, insp.closed)
}
