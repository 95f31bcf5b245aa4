package tasks

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/hugh/care-package/pkg/util"
)

// RegisterSchedules adds the periodic tasks to the scheduler.
func RegisterSchedules(scheduler *asynq.Scheduler, sweepCron string) error {
	if err := util.ValidateCronExpr(sweepCron); err != nil {
		return fmt.Errorf("invitation sweep: %w", err)
	}
	if _, err := scheduler.Register(sweepCron, NewInvitationExpireSweepTask()); err != nil {
		return fmt.Errorf("registering invitation sweep: %w", err)
	}
	return nil
}
