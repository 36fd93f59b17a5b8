package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
)

// ReminderExecutor turns a fired reminder job back into an overdue email.
// The payload is the task snapshot serialized at schedule time; a task
// edited after scheduling (other than its due date, which reschedules)
// is reported with the stale snapshot.
type ReminderExecutor struct {
	email  EmailSender
	logger *slog.Logger
}

// NewReminderExecutor creates a ReminderExecutor.
// If log is nil, a default logger is used.
func NewReminderExecutor(email EmailSender, log *slog.Logger) *ReminderExecutor {
	if log == nil {
		log = slog.Default()
	}

	return &ReminderExecutor{
		email:  email,
		logger: log.With("component", "reminder_executor"),
	}
}

// Execute is the scheduler JobFunc: it decodes the task snapshot and sends
// the overdue email to the owner. Delivery failures are logged, never
// propagated; there is no retry.
func (e *ReminderExecutor) Execute(ctx context.Context, payload []byte) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	var task domain.Task
	if err := json.Unmarshal(payload, &task); err != nil {
		log.Error("failed to decode reminder payload", "error", err)
		return
	}

	msg := OverdueEmail(&task)
	if err := e.email.Send(ctx, msg); err != nil {
		log.Error("failed to send overdue email",
			"error", err,
			"task_id", task.ID,
			"owner_email", task.OwnerEmail)
		return
	}

	log.Info("overdue reminder delivered",
		"task_id", task.ID,
		"owner_email", task.OwnerEmail)
}

// OverdueEmail builds the overdue-reminder email for a task snapshot.
func OverdueEmail(task *domain.Task) EmailMessage {
	return EmailMessage{
		Subject: fmt.Sprintf("Task %s is overdue!", task.Title),
		Body:    fmt.Sprintf("Task %s is overdue! Please take action!", task.Title),
		Recipients: []EmailRecipient{
			{Name: task.OwnerEmail, Email: task.OwnerEmail},
		},
	}
}
