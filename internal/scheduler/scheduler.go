// Package scheduler provides deferred job scheduling for overdue reminders.
package scheduler

import (
	"context"
	"errors"
	"time"
)

// Common errors returned by scheduler implementations.
var (
	// ErrSchedulerClosed is returned when scheduling after Stop.
	ErrSchedulerClosed = errors.New("scheduler is closed")
)

// SchedulingError wraps a failure to schedule or cancel a job.
type SchedulingError struct {
	Operation string
	Err       error
}

// Error implements the error interface for SchedulingError.
func (e *SchedulingError) Error() string {
	return "scheduler " + e.Operation + " failed: " + e.Err.Error()
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// JobFunc is the callback invoked when a scheduled job fires. The payload
// is the snapshot serialized at schedule time; if the underlying data
// changed in between, the job still sees the stale snapshot.
type JobFunc func(ctx context.Context, payload []byte)

// ReminderScheduler accepts a payload and a fire time and returns an
// opaque job handle that can later be cancelled. There is no delivery
// guarantee: if the process dies before the fire time, the job is lost.
type ReminderScheduler interface {
	// Schedule registers a job carrying payload to fire at fireAt.
	// Returns the job handle.
	Schedule(ctx context.Context, payload []byte, fireAt time.Time) (string, error)

	// Cancel revokes the job with the given handle. Cancelling an unknown
	// or already-fired handle is not an error.
	Cancel(ctx context.Context, jobID string) error
}
