// Package api contains the HTTP handlers for the task API.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/strategy"
)

// CreateTaskRequest represents the request body for creating a new task.
type CreateTaskRequest struct {
	Title       string    `json:"title"       validate:"required,min=1"`
	Description string    `json:"description"`
	Priority    int       `json:"priority"    validate:"omitempty,gte=1,lte=5"`
	DueDate     time.Time `json:"due_date"    validate:"required"`
}

// UpdateTaskRequest represents the request body for a partial task update.
// Omitted fields leave the stored values untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"       validate:"omitempty,min=1"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"      validate:"omitempty,oneof=pending completed cancelled"`
	Priority    *int       `json:"priority,omitempty"    validate:"omitempty,gte=1,lte=5"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	TaskID      string    `json:"task_id"`
	OwnerEmail  string    `json:"owner_email"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    int       `json:"priority"`
	NotifierID  string    `json:"notifier_id,omitempty"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	now         func() time.Time
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler. now is used to validate that
// due dates lie in the future; if nil, time.Now is used.
func NewTaskHandler(taskService service.TaskService, now func() time.Time, log *slog.Logger) *TaskHandler {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		now:         now,
		logger:      log.With("component", "task_handler"),
	}
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if !req.DueDate.After(h.now()) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "due_date must be in the future")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), service.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}, user)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /api/tasks/{id} requests. A task owned by another
// user is reported as not found rather than forbidden.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		h.respondServiceError(w, r, err, "Failed to retrieve task")
		return
	}
	if task.OwnerEmail != user.Email {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.DueDate != nil && !req.DueDate.After(h.now()) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "due_date must be in the future")
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}

	task, err := h.taskService.UpdateTask(r.Context(), chi.URLParam(r, "id"), patch, user)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerFromContext(w, r); !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"detail": "Task deleted"})
}

// ListTasks handles GET /api/tasks requests. Supported query parameters:
// status, due_before (RFC3339), sort_by (comma-separated criterion names).
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var status *domain.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.TaskStatus(raw)
		if !s.IsValid() {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown status")
			return
		}
		status = &s
	}

	var dueBefore *time.Time
	if raw := r.URL.Query().Get("due_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "due_before must be RFC3339")
			return
		}
		dueBefore = &t
	}

	var sortBy []string
	if raw := r.URL.Query().Get("sort_by"); raw != "" {
		sortBy = strings.Split(raw, ",")
	}

	tasks, err := h.taskService.ListTasks(
		r.Context(),
		user,
		strategy.NewFilter(status, dueBefore),
		strategy.NewSorter(sortBy),
	)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to list tasks")
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// CompleteTask handles POST /api/tasks/{id}/complete requests.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerFromContext(w, r); !ok {
		return
	}

	task, err := h.taskService.MarkTaskCompleted(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to complete task")
		return
	}
	if task == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// respondServiceError maps service errors onto HTTP status codes.
func (h *TaskHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
	case errors.Is(err, service.ErrNotOwned):
		shared.RespondWithError(w, r, http.StatusForbidden, "Task is owned by another user")
	case errors.Is(err, domain.ErrValidation):
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, "error", err, "path", r.URL.Path)
		shared.RespondWithError(w, r, http.StatusInternalServerError, fallback)
	}
}

// callerFromContext extracts the authenticated caller set by the auth
// middleware, answering 401 when absent.
func callerFromContext(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	email, ok := shared.GetUserEmail(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User identity not found")
		return domain.User{}, false
	}
	return domain.User{Email: email}, true
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:      task.ID,
		OwnerEmail:  task.OwnerEmail,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    task.Priority,
		NotifierID:  task.NotifierID,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
