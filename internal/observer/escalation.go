package observer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
)

// maxPriority is the highest task priority; reaching it triggers an alert.
const maxPriority = 5

// PriorityEscalationNotifier raises a Slack alert when a task's priority
// crosses into the maximum. A task already at the maximum does not alert
// again, and neither does any transition below it. A freshly created task
// counts as coming from priority 1.
type PriorityEscalationNotifier struct {
	slack  *SlackNotifier
	logger *slog.Logger
}

// Ensure PriorityEscalationNotifier implements the TaskObserver interface
var _ TaskObserver = (*PriorityEscalationNotifier)(nil)

// NewPriorityEscalationNotifier creates a PriorityEscalationNotifier that
// alerts through slack. If log is nil, a default logger is used.
func NewPriorityEscalationNotifier(slack *SlackNotifier, log *slog.Logger) *PriorityEscalationNotifier {
	if log == nil {
		log = slog.Default()
	}

	return &PriorityEscalationNotifier{
		slack:  slack,
		logger: log.With("component", "priority_escalation"),
	}
}

// Update implements TaskObserver.
func (o *PriorityEscalationNotifier) Update(ctx context.Context, action domain.Action, task, oldTask *domain.Task) error {
	oldPriority := 1
	if oldTask != nil {
		oldPriority = oldTask.Priority
	}

	if task.Priority != maxPriority || oldPriority >= maxPriority {
		return nil
	}

	message := fmt.Sprintf(
		"Task %s priority escalated to %d! Immediate attention required!",
		task.Title, maxPriority,
	)
	logger.FromContextOrDefault(ctx, o.logger).Warn(message,
		"task_id", task.ID,
		"old_priority", oldPriority)
	return o.slack.Send(ctx, message)
}
