package scheduler

import (
	"github.com/hibiken/asynq"
)

// TaskQuotaCycleReset zeroes lead usage for accounts whose billing cycle has
// elapsed. It carries no payload; the reset query selects its own targets.
const TaskQuotaCycleReset = "quota.cycle.reset"

func NewQuotaCycleResetTask() *asynq.Task {
	return asynq.NewTask(TaskQuotaCycleReset, nil)
}
