package observer

import (
	"context"
	"log/slog"
	"time"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
)

// ChangeRecord is an immutable audit entry for one task mutation.
type ChangeRecord struct {
	TaskID    string        `json:"task_id"`
	Action    domain.Action `json:"action"`
	OldTask   *domain.Task  `json:"old_task,omitempty"`
	NewTask   *domain.Task  `json:"new_task"`
	Timestamp time.Time     `json:"timestamp"`
}

// ChangeSink receives audit records. Implementations decide where the
// history lands (structured log, Kafka topic, ...).
type ChangeSink interface {
	Record(ctx context.Context, rec ChangeRecord) error
}

// ChangeHistoryObserver builds an audit record for every notification it
// receives, regardless of action kind, and hands it to the injected sink.
type ChangeHistoryObserver struct {
	sink ChangeSink
	now  func() time.Time
}

// Ensure ChangeHistoryObserver implements the TaskObserver interface
var _ TaskObserver = (*ChangeHistoryObserver)(nil)

// NewChangeHistoryObserver creates a ChangeHistoryObserver writing to sink.
// now supplies record timestamps; if nil, time.Now is used.
func NewChangeHistoryObserver(sink ChangeSink, now func() time.Time) *ChangeHistoryObserver {
	if now == nil {
		now = time.Now
	}

	return &ChangeHistoryObserver{
		sink: sink,
		now:  now,
	}
}

// Update implements TaskObserver.
func (o *ChangeHistoryObserver) Update(ctx context.Context, action domain.Action, task, oldTask *domain.Task) error {
	rec := ChangeRecord{
		TaskID:    task.ID,
		Action:    action,
		OldTask:   oldTask.Clone(),
		NewTask:   task.Clone(),
		Timestamp: o.now(),
	}
	return o.sink.Record(ctx, rec)
}

// SlogChangeSink logs audit records through the structured logger. It is
// the default sink when no durable history backend is configured.
type SlogChangeSink struct {
	logger *slog.Logger
}

// Ensure SlogChangeSink implements the ChangeSink interface
var _ ChangeSink = (*SlogChangeSink)(nil)

// NewSlogChangeSink creates a SlogChangeSink.
// If log is nil, a default logger is used.
func NewSlogChangeSink(log *slog.Logger) *SlogChangeSink {
	if log == nil {
		log = slog.Default()
	}

	return &SlogChangeSink{
		logger: log.With("component", "change_history"),
	}
}

// Record implements ChangeSink.
func (s *SlogChangeSink) Record(ctx context.Context, rec ChangeRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("history updated",
		"task_id", rec.TaskID,
		"action", rec.Action,
		"timestamp", rec.Timestamp,
		"has_old_task", rec.OldTask != nil)
	return nil
}
