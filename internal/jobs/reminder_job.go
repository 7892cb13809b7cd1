package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/buildmart-as/inventory-api/internal/store"
)

// ReminderJobName is the name of the overdue reminder scan job
const ReminderJobName = "reminder_scan"

// ReminderJob scans for pending reminders past their due time and records
// them in the audit trail so they show up for the operations team.
type ReminderJob struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReminderJob creates a new overdue reminder scan job.
func NewReminderJob(st *store.Store, logger *zap.Logger) *ReminderJob {
	return &ReminderJob{
		store:  st,
		logger: logger,
	}
}

// Run executes the overdue scan. This is called by the scheduler.
func (j *ReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	overdue := j.store.OverdueReminders(time.Now().UTC())
	if len(overdue) == 0 {
		return
	}

	j.store.RecordOverdueReminders(ctx, overdue)
	j.logger.Info("recorded overdue reminders", zap.Int("count", len(overdue)))
}

// RegisterReminderJob registers the overdue reminder scan with the scheduler.
func RegisterReminderJob(scheduler *Scheduler, job *ReminderJob, cronExpr string) error {
	return scheduler.AddJob(ReminderJobName, cronExpr, job.Run)
}
