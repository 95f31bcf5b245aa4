package tasks

import (
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeInvitationExpireSweep = "invitation:expire_sweep"
)

// NewInvitationExpireSweepTask builds the periodic sweep task. It is never
// retried: the next scheduled tick covers anything a failed run missed.
func NewInvitationExpireSweepTask() *asynq.Task {
	return asynq.NewTask(TypeInvitationExpireSweep, nil, asynq.MaxRetry(0))
}
