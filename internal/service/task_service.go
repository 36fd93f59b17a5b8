package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/observer"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
	"github.com/tasknest/tasknest-api/internal/strategy"
)

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// It returns known sentinel errors directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, ErrNotOwned) {
		return err
	}

	if errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// CreateTaskRequest carries the attributes of a new task. The due date is
// validated against the clock at the request boundary; the service assumes
// pre-validated input.
type CreateTaskRequest struct {
	Title       string
	Description string
	Priority    int
	DueDate     time.Time
}

// TaskService provides task lifecycle operations.
type TaskService interface {
	// CreateTask creates a task owned by user and notifies observers.
	CreateTask(ctx context.Context, req CreateTaskRequest, user domain.User) (*domain.Task, error)

	// UpdateTask applies a partial update to an existing task owned by user.
	// Returns ErrTaskNotFound if the task does not exist and ErrNotOwned if
	// it belongs to someone else.
	UpdateTask(ctx context.Context, taskID string, patch domain.TaskPatch, user domain.User) (*domain.Task, error)

	// GetTask retrieves a task by ID. Pure read-through; no observer calls.
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)

	// DeleteTask removes a task. Observers are deliberately not notified.
	DeleteTask(ctx context.Context, taskID string) error

	// ListTasks returns the user's tasks after applying the optional filter
	// and sorter. Never mutates state.
	ListTasks(ctx context.Context, user domain.User, filter strategy.TaskFilter, sorter strategy.TaskSorter) ([]*domain.Task, error)

	// MarkTaskCompleted sets the task's status to completed. A missing task
	// yields (nil, nil) without any observer call.
	MarkTaskCompleted(ctx context.Context, taskID string) (*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks     store.TaskStore
	observers []observer.TaskObserver
	now       func() time.Time
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService with the given store and the
// ordered observer list. now supplies all timestamps; if nil, time.Now is
// used. It returns an error if the store is nil.
func NewTaskService(
	tasks store.TaskStore,
	observers []observer.TaskObserver,
	now func() time.Time,
	log *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}

	return &taskServiceImpl{
		tasks:     tasks,
		observers: observers,
		now:       now,
		logger:    log.With("component", "task_service"),
	}, nil
}

// CreateTask implements TaskService.CreateTask.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	req CreateTaskRequest,
	user domain.User,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(req.Title, req.Description, user.Email, req.Priority, req.DueDate, s.now())
	if err != nil {
		log.Warn("task validation failed during create",
			"error", err,
			"owner_email", user.Email)
		return nil, NewTaskServiceError("create_task", "failed to build task", err)
	}

	if err := s.tasks.Put(ctx, task); err != nil {
		log.Error("failed to persist task",
			"error", err,
			"task_id", task.ID)
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"owner_email", task.OwnerEmail,
		"due_date", task.DueDate)

	if err := s.notifyObservers(ctx, domain.ActionTaskCreated, task, nil); err != nil {
		return nil, NewTaskServiceError("create_task", "observer notification failed", err)
	}

	return task, nil
}

// UpdateTask implements TaskService.UpdateTask.
// Only fields present in the patch are applied; the merged record is
// re-persisted in full. Observers receive both new and old state so they
// can diff.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	taskID string,
	patch domain.TaskPatch,
	user domain.User,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oldTask, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		log.Error("failed to load task for update",
			"error", err,
			"task_id", taskID)
		return nil, NewTaskServiceError("update_task", "failed to load task", err)
	}

	if oldTask.OwnerEmail != user.Email {
		log.Warn("update denied, caller does not own task",
			"task_id", taskID,
			"owner_email", oldTask.OwnerEmail,
			"caller_email", user.Email)
		return nil, ErrNotOwned
	}

	task, err := patch.Apply(oldTask, s.now())
	if err != nil {
		log.Warn("task validation failed during update",
			"error", err,
			"task_id", taskID)
		return nil, NewTaskServiceError("update_task", "failed to apply patch", err)
	}

	if err := s.tasks.Put(ctx, task); err != nil {
		log.Error("failed to persist updated task",
			"error", err,
			"task_id", taskID)
		return nil, NewTaskServiceError("update_task", "failed to save task", err)
	}

	log.Info("task updated", "task_id", taskID)

	if err := s.notifyObservers(ctx, domain.ActionTaskUpdated, task, oldTask); err != nil {
		return nil, NewTaskServiceError("update_task", "observer notification failed", err)
	}

	return task, nil
}

// GetTask implements TaskService.GetTask.
func (s *taskServiceImpl) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, NewTaskServiceError("get_task", "failed to load task", err)
	}
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask.
// Deletion deliberately has no observer fan-out; see the task_deleted
// action kind, which is reserved but never emitted here.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		log.Error("failed to delete task",
			"error", err,
			"task_id", taskID)
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", "task_id", taskID)
	return nil
}

// ListTasks implements TaskService.ListTasks.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	user domain.User,
	filter strategy.TaskFilter,
	sorter strategy.TaskSorter,
) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByOwner(ctx, user.Email)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	if filter != nil {
		tasks = filter.Filter(tasks)
	}
	if sorter != nil {
		tasks = sorter.Sort(tasks)
	}
	return tasks, nil
}

// MarkTaskCompleted implements TaskService.MarkTaskCompleted.
// The status change is a targeted field update rather than a full
// re-persist; the stored result is re-read before observers run.
func (s *taskServiceImpl) MarkTaskCompleted(ctx context.Context, taskID string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oldTask, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Missing task is not an error for completion.
			return nil, nil
		}
		return nil, NewTaskServiceError("mark_task_completed", "failed to load task", err)
	}

	completed := domain.TaskStatusCompleted
	updatedAt := s.now()
	update := store.FieldUpdate{
		Status:    &completed,
		UpdatedAt: &updatedAt,
	}
	if err := s.tasks.Update(ctx, taskID, update); err != nil {
		log.Error("failed to mark task completed",
			"error", err,
			"task_id", taskID)
		return nil, NewTaskServiceError("mark_task_completed", "failed to update task", err)
	}

	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, NewTaskServiceError("mark_task_completed", "failed to reload task", err)
	}

	log.Info("task marked completed", "task_id", taskID)

	if err := s.notifyObservers(ctx, domain.ActionMarkTaskCompleted, task, oldTask); err != nil {
		return nil, NewTaskServiceError("mark_task_completed", "observer notification failed", err)
	}

	return task, nil
}

// notifyObservers invokes each registered observer sequentially in
// registration order. The first failure aborts the remaining observers
// and propagates; later observers can rely on the store reflecting the
// just-persisted state and on earlier observers having already run.
func (s *taskServiceImpl) notifyObservers(
	ctx context.Context,
	action domain.Action,
	task, oldTask *domain.Task,
) error {
	for _, obs := range s.observers {
		if err := obs.Update(ctx, action, task, oldTask); err != nil {
			return fmt.Errorf("observer %T failed on %s: %w", obs, action, err)
		}
	}
	return nil
}
