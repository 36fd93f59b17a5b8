// Package postgres implements the store interfaces on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

const taskColumns = `task_id, owner_email, title, description, status, priority, notifier_id, due_date, created_at, updated_at`

// Get implements store.TaskStore.Get.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE task_id = $1
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id))
		return nil, store.NewStoreError("task", "get", "query failed", err)
	}

	return task, nil
}

// Put implements store.TaskStore.Put.
// The record is fully replaced on conflict, so updates re-persist the
// whole merged task.
func (s *PostgresTaskStore) Put(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during put",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (task_id) DO UPDATE SET
			owner_email = EXCLUDED.owner_email,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			notifier_id = EXCLUDED.notifier_id,
			due_date = EXCLUDED.due_date,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerEmail,
		task.Title,
		nullableString(task.Description),
		string(task.Status),
		task.Priority,
		nullableString(task.NotifierID),
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to put task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID))
		return store.NewStoreError("task", "put", "exec failed", err)
	}

	log.Debug("task saved", slog.String("task_id", task.ID))
	return nil
}

// Update implements store.TaskStore.Update.
// Only the fields present in the FieldUpdate are touched.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, id string, update store.FieldUpdate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if update.IsEmpty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	if update.Status != nil {
		args = append(args, string(*update.Status))
		sets = append(sets, "status = $"+strconv.Itoa(len(args)))
	}
	if update.NotifierID != nil {
		args = append(args, nullableString(*update.NotifierID))
		sets = append(sets, "notifier_id = $"+strconv.Itoa(len(args)))
	}
	if update.UpdatedAt != nil {
		args = append(args, *update.UpdatedAt)
		sets = append(sets, "updated_at = $"+strconv.Itoa(len(args)))
	}
	args = append(args, id)

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") +
		" WHERE task_id = $" + strconv.Itoa(len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id))
		return store.NewStoreError("task", "update", "exec failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", "update", "rows affected unavailable", err)
	}
	if rows == 0 {
		log.Debug("task not found for update", slog.String("task_id", id))
		return store.ErrTaskNotFound
	}

	log.Debug("task updated", slog.String("task_id", id))
	return nil
}

// Delete implements store.TaskStore.Delete.
// Deleting a missing task is not an error.
func (s *PostgresTaskStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE task_id = $1`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id))
		return store.NewStoreError("task", "delete", "exec failed", err)
	}

	log.Debug("task deleted", slog.String("task_id", id))
	return nil
}

// ListByOwner implements store.TaskStore.ListByOwner.
// Results come back in no particular order; ordering is the caller's
// concern (the strategy layer).
func (s *PostgresTaskStore) ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner_email = $1
	`

	rows, err := s.db.QueryContext(ctx, query, ownerEmail)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("owner_email", ownerEmail))
		return nil, store.NewStoreError("task", "list", "query failed", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "iteration failed", err)
	}

	log.Debug("tasks listed",
		slog.String("owner_email", ownerEmail),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		status      string
		description sql.NullString
		notifierID  sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.OwnerEmail,
		&task.Title,
		&description,
		&status,
		&task.Priority,
		&notifierID,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Description = description.String
	task.NotifierID = notifierID.String
	return &task, nil
}

// nullableString maps "" to SQL NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
