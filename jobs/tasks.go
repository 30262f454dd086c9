package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/gaia-project/gaia/internal/cascade"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCascadeRetry re-runs a cascade step that failed after its trigger was saved.
	TaskCascadeRetry = "cascade:retry"
	// MaxCascadeRetries bounds redelivery of one step.
	MaxCascadeRetries = 8
)

// CascadeRetryPayload identifies the step to re-run.
type CascadeRetryPayload struct {
	Step cascade.Step `json:"step"`
	Ref  string       `json:"ref"`
}

// NewCascadeRetryTask builds a retry task. Tasks for the same step and
// reference share an id so pending duplicates collapse.
func NewCascadeRetryTask(step cascade.Step, ref string) (*asynq.Task, error) {
	if step == "" || ref == "" {
		return nil, fmt.Errorf("jobs: cascade retry needs step and ref")
	}
	body, err := json.Marshal(CascadeRetryPayload{Step: step, Ref: ref})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCascadeRetry, body,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(MaxCascadeRetries),
		asynq.TaskID(cascadeTaskID(step, ref)),
	), nil
}

func cascadeTaskID(step cascade.Step, ref string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(TaskCascadeRetry+":"+string(step)+":"+ref)).String()
}
