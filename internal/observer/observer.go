// Package observer contains the reactions to task lifecycle events.
// Observers sit outside the mutation path: the task service persists a
// change and then hands the action kind plus the new and previous task
// state to each registered observer in turn.
package observer

import (
	"context"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// TaskObserver reacts to a task lifecycle event. oldTask is nil for newly
// created tasks; when present it lets an observer diff the two states
// (due-date changes, priority escalation).
//
// Observers are invoked synchronously in registration order. An error
// aborts the remaining observers and propagates to the service caller;
// there is no per-observer isolation.
type TaskObserver interface {
	Update(ctx context.Context, action domain.Action, task, oldTask *domain.Task) error
}
