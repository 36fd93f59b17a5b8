package observer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/notify"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
)

// SlackNotifier congratulates the owner when a task is completed. It also
// exposes Send so sibling observers can raise a Slack alert without going
// through the observer protocol.
type SlackNotifier struct {
	sender notify.SlackSender
	logger *slog.Logger
}

// Ensure SlackNotifier implements the TaskObserver interface
var _ TaskObserver = (*SlackNotifier)(nil)

// NewSlackNotifier creates a SlackNotifier.
// If log is nil, a default logger is used.
func NewSlackNotifier(sender notify.SlackSender, log *slog.Logger) *SlackNotifier {
	if log == nil {
		log = slog.Default()
	}

	return &SlackNotifier{
		sender: sender,
		logger: log.With("component", "slack_notifier"),
	}
}

// Update implements TaskObserver. Only completion triggers a message.
func (o *SlackNotifier) Update(ctx context.Context, action domain.Action, task, oldTask *domain.Task) error {
	if action != domain.ActionMarkTaskCompleted {
		return nil
	}
	return o.Send(ctx, fmt.Sprintf("Task %s completed! Good job!", task.ID))
}

// Send delivers a message to the configured channel.
func (o *SlackNotifier) Send(ctx context.Context, message string) error {
	if err := o.sender.Send(ctx, message); err != nil {
		logger.FromContextOrDefault(ctx, o.logger).Error("failed to send slack message",
			"error", err,
			"message", message)
		return err
	}
	return nil
}
