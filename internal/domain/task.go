package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty.
	ErrTaskIDEmpty = NewValidationError("task_id", "cannot be empty", ErrValidation)

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = NewValidationError("title", "cannot be empty", ErrValidation)

	// ErrTaskOwnerEmpty is returned when a task's owner email is empty.
	ErrTaskOwnerEmpty = NewValidationError("owner_email", "cannot be empty", ErrValidation)

	// ErrTaskDueDateZero is returned when a task's due date is unset.
	ErrTaskDueDateZero = NewValidationError("due_date", "cannot be zero", ErrValidation)
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// Action identifies why observers are being notified about a task.
type Action string

// Action kinds emitted by the task service.
const (
	ActionTaskCreated       Action = "task_created"
	ActionTaskUpdated       Action = "task_updated"
	ActionTaskDeleted       Action = "task_deleted"
	ActionMarkTaskCompleted Action = "mark_task_completed"
)

// Task represents a user-owned unit of work with a due date, priority,
// and status. The ID is deterministically derived from the title and the
// owner's email at creation time and is never regenerated, so renaming a
// task does not change its identity.
type Task struct {
	ID          string     `json:"task_id"`
	OwnerEmail  string     `json:"owner_email"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    int        `json:"priority"`
	// NotifierID holds the handle of the currently scheduled overdue
	// reminder job, or empty when none is outstanding. It is mutated only
	// by the overdue notifier.
	NotifierID string    `json:"notifier_id,omitempty"`
	DueDate    time.Time `json:"due_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewTaskID derives the stable task identifier from the title and owner
// email. Two tasks with the same (title, owner) pair share the same ID;
// the store treats that pair as unique.
func NewTaskID(title, ownerEmail string) string {
	sum := sha256.Sum256([]byte(title + "_" + ownerEmail))
	return hex.EncodeToString(sum[:])
}

// NewTask creates a new Task owned by ownerEmail with the given attributes.
// Status defaults to pending and priority to 1 when unset. The now argument
// supplies both creation and update timestamps so callers control the clock.
// Returns an error if validation fails.
func NewTask(title, description, ownerEmail string, priority int, dueDate, now time.Time) (*Task, error) {
	if priority == 0 {
		priority = 1
	}

	task := &Task{
		ID:          NewTaskID(title, ownerEmail),
		OwnerEmail:  ownerEmail,
		Title:       title,
		Description: description,
		Status:      TaskStatusPending,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrTaskIDEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTaskTitleEmpty
	}

	if t.OwnerEmail == "" {
		return ErrTaskOwnerEmpty
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	if t.Priority < 1 || t.Priority > 5 {
		return ErrInvalidPriority
	}

	if t.DueDate.IsZero() {
		return ErrTaskDueDateZero
	}

	return nil
}

// Clone returns a deep copy of the task. Observers receive clones of the
// pre-mutation state so later changes cannot alias into their view.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

// TaskPatch carries the optional fields of a partial update. Nil fields
// are left untouched on the task being patched.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Priority    *int        `json:"priority,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
}

// IsEmpty reports whether the patch carries no field at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil
}

// Apply builds a new Task from old with the patch's present fields applied
// and UpdatedAt refreshed to now. The original task is not mutated, which
// keeps updates atomic: callers persist the returned value or nothing.
// Returns an error if the patched task fails validation.
func (p TaskPatch) Apply(old *Task, now time.Time) (*Task, error) {
	task := old.Clone()

	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	if p.DueDate != nil {
		task.DueDate = *p.DueDate
	}
	task.UpdatedAt = now

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}
