package observer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/scheduler"
	"github.com/tasknest/tasknest-api/internal/store"
)

// OverdueNotifier keeps exactly one live overdue-reminder job per task.
// On creation it schedules a reminder ahead of the due date and records
// the job handle in the task's notifier_id. On an update that changes the
// due date it cancels the previous job first, then schedules a fresh one,
// so the reminder always tracks the current due date and no stale job is
// left outstanding.
type OverdueNotifier struct {
	sched  scheduler.ReminderScheduler
	tasks  store.TaskStore
	lead   time.Duration
	logger *slog.Logger
}

// Ensure OverdueNotifier implements the TaskObserver interface
var _ TaskObserver = (*OverdueNotifier)(nil)

// NewOverdueNotifier creates an OverdueNotifier. lead is how long before
// the due date the reminder fires. If log is nil, a default logger is used.
func NewOverdueNotifier(
	sched scheduler.ReminderScheduler,
	tasks store.TaskStore,
	lead time.Duration,
	log *slog.Logger,
) *OverdueNotifier {
	if log == nil {
		log = slog.Default()
	}

	return &OverdueNotifier{
		sched:  sched,
		tasks:  tasks,
		lead:   lead,
		logger: log.With("component", "overdue_notifier"),
	}
}

// Update implements TaskObserver.
func (o *OverdueNotifier) Update(ctx context.Context, action domain.Action, task, oldTask *domain.Task) error {
	switch {
	case action == domain.ActionTaskCreated:
		return o.schedule(ctx, task)

	case action == domain.ActionTaskUpdated && oldTask != nil && !task.DueDate.Equal(oldTask.DueDate):
		if oldTask.NotifierID != "" {
			if err := o.sched.Cancel(ctx, oldTask.NotifierID); err != nil {
				return fmt.Errorf("failed to cancel stale reminder: %w", err)
			}
			o.log(ctx).Debug("cancelled stale reminder",
				"task_id", task.ID,
				"job_id", oldTask.NotifierID)
		}
		return o.schedule(ctx, task)
	}

	return nil
}

// schedule registers a reminder at due date minus lead, carrying the task
// snapshot, and stores the job handle in notifier_id.
func (o *OverdueNotifier) schedule(ctx context.Context, task *domain.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to serialize task snapshot: %w", err)
	}

	jobID, err := o.sched.Schedule(ctx, payload, task.DueDate.Add(-o.lead))
	if err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}

	if err := o.tasks.Update(ctx, task.ID, store.FieldUpdate{NotifierID: &jobID}); err != nil {
		return fmt.Errorf("failed to record reminder handle: %w", err)
	}

	o.log(ctx).Info("reminder scheduled",
		"task_id", task.ID,
		"job_id", jobID,
		"due_date", task.DueDate)
	return nil
}

func (o *OverdueNotifier) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, o.logger)
}
