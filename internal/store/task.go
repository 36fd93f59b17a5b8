// Package store provides abstractions for task persistence.
package store

import (
	"context"
	"time"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// FieldUpdate describes a targeted partial update against a stored task.
// Nil fields are left untouched. This mirrors the narrow update expression
// the service and observers need: completing a task and recording the
// reminder job handle.
type FieldUpdate struct {
	Status     *domain.TaskStatus
	NotifierID *string
	UpdatedAt  *time.Time
}

// IsEmpty reports whether the update carries no field at all.
func (u FieldUpdate) IsEmpty() bool {
	return u.Status == nil && u.NotifierID == nil && u.UpdatedAt == nil
}

// TaskStore defines the interface for task data persistence.
// Tasks are keyed by their derived ID; the owner email is the partition
// key for listing.
type TaskStore interface {
	// Get retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Get(ctx context.Context, id string) (*domain.Task, error)

	// Put saves the full task record, replacing any existing record with
	// the same ID. Returns validation errors if the task data is invalid.
	Put(ctx context.Context, task *domain.Task) error

	// Update applies a targeted partial update to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id string, update FieldUpdate) error

	// Delete removes a task from the store by its ID.
	// Deleting a missing task is not an error.
	Delete(ctx context.Context, id string) error

	// ListByOwner retrieves all tasks owned by the given email.
	// There is no pagination contract; the full result is materialized.
	ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Task, error)
}
