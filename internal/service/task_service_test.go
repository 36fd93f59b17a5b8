package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/observer"
	"github.com/tasknest/tasknest-api/internal/store"
	"github.com/tasknest/tasknest-api/internal/strategy"
)

var (
	testNow  = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testUser = domain.User{Email: "alice@example.com", Name: "Alice"}
)

func fixedClock() time.Time { return testNow }

func newTestService(t *testing.T, tasks store.TaskStore, observers ...observer.TaskObserver) TaskService {
	t.Helper()
	svc, err := NewTaskService(tasks, observers, fixedClock, nil)
	require.NoError(t, err)
	return svc
}

func testTask(t *testing.T, title string, priority int) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(title, "", testUser.Email, priority, testNow.Add(48*time.Hour), testNow)
	require.NoError(t, err)
	return task
}

func TestNewTaskService(t *testing.T) {
	svc, err := NewTaskService(nil, nil, nil, nil)
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "task store cannot be nil")

	svc, err = NewTaskService(new(MockTaskStore), nil, nil, nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()
	req := CreateTaskRequest{
		Title:    "Buy milk",
		Priority: 3,
		DueDate:  testNow.Add(48 * time.Hour),
	}

	t.Run("successful creation notifies observers", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Put", ctx, mock.AnythingOfType("*domain.Task")).Return(nil)
		obs := &recordingObserver{}

		task, err := newTestService(t, tasks, obs).CreateTask(ctx, req, testUser)

		require.NoError(t, err)
		assert.Equal(t, domain.NewTaskID("Buy milk", testUser.Email), task.ID)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.True(t, task.CreatedAt.Equal(testNow))

		require.Len(t, obs.calls, 1)
		assert.Equal(t, domain.ActionTaskCreated, obs.calls[0].action)
		assert.Equal(t, task, obs.calls[0].task)
		assert.Nil(t, obs.calls[0].oldTask)
		tasks.AssertExpectations(t)
	})

	t.Run("invalid attributes rejected before store", func(t *testing.T) {
		tasks := new(MockTaskStore)
		bad := req
		bad.Title = ""

		task, err := newTestService(t, tasks).CreateTask(ctx, bad, testUser)

		assert.Nil(t, task)
		assert.ErrorIs(t, err, domain.ErrValidation)
		tasks.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Put", ctx, mock.AnythingOfType("*domain.Task")).Return(errors.New("database error"))
		obs := &recordingObserver{}

		task, err := newTestService(t, tasks, obs).CreateTask(ctx, req, testUser)

		assert.Nil(t, task)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save task")
		assert.Empty(t, obs.calls)
	})

	t.Run("observer failure aborts remaining observers", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Put", ctx, mock.AnythingOfType("*domain.Task")).Return(nil)
		failing := &recordingObserver{err: errors.New("webhook down")}
		after := &recordingObserver{}

		task, err := newTestService(t, tasks, failing, after).CreateTask(ctx, req, testUser)

		assert.Nil(t, task)
		assert.Error(t, err)
		assert.Len(t, failing.calls, 1)
		assert.Empty(t, after.calls)
	})
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	existing := testTask(t, "Buy milk", 2)
	priority := 4

	t.Run("partial patch persists the merged task", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Get", ctx, existing.ID).Return(existing, nil)
		tasks.On("Put", ctx, mock.AnythingOfType("*domain.Task")).Return(nil)
		obs := &recordingObserver{}

		task, err := newTestService(t, tasks, obs).
			UpdateTask(ctx, existing.ID, domain.TaskPatch{Priority: &priority}, testUser)

		require.NoError(t, err)
		assert.Equal(t, 4, task.Priority)
		assert.Equal(t, existing.Title, task.Title)
		assert.True(t, task.UpdatedAt.Equal(testNow))

		require.Len(t, obs.calls, 1)
		assert.Equal(t, domain.ActionTaskUpdated, obs.calls[0].action)
		assert.Equal(t, task, obs.calls[0].task)
		assert.Equal(t, existing, obs.calls[0].oldTask)
	})

	t.Run("missing task returns ErrTaskNotFound", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Get", ctx, "missing").Return(nil, store.ErrTaskNotFound)

		task, err := newTestService(t, tasks).
			UpdateTask(ctx, "missing", domain.TaskPatch{Priority: &priority}, testUser)

		assert.Nil(t, task)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("other owner returns ErrNotOwned", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Get", ctx, existing.ID).Return(existing, nil)
		obs := &recordingObserver{}

		task, err := newTestService(t, tasks, obs).
			UpdateTask(ctx, existing.ID, domain.TaskPatch{Priority: &priority},
				domain.User{Email: "mallory@example.com"})

		assert.Nil(t, task)
		assert.ErrorIs(t, err, ErrNotOwned)
		assert.Empty(t, obs.calls)
		tasks.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("invalid patch result is rejected", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Get", ctx, existing.ID).Return(existing, nil)
		bad := 9

		task, err := newTestService(t, tasks).
			UpdateTask(ctx, existing.ID, domain.TaskPatch{Priority: &bad}, testUser)

		assert.Nil(t, task)
		assert.ErrorIs(t, err, domain.ErrInvalidPriority)
		tasks.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})
}

func TestTaskService_GetTask(t *testing.T) {
	ctx := context.Background()
	existing := testTask(t, "Buy milk", 2)

	t.Run("found", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Get", ctx, existing.ID).Return(existing, nil)

		task, err := newTestService(t, tasks).GetTask(ctx, existing.ID)

		require.NoError(t, err)
		assert.Equal(t, existing, task)
	})

	t.Run("missing", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Get", ctx, "missing").Return(nil, store.ErrTaskNotFound)

		task, err := newTestService(t, tasks).GetTask(ctx, "missing")

		assert.Nil(t, task)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()

	t.Run("delete does not notify observers", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Delete", ctx, "some-id").Return(nil)
		obs := &recordingObserver{}

		err := newTestService(t, tasks, obs).DeleteTask(ctx, "some-id")

		assert.NoError(t, err)
		assert.Empty(t, obs.calls)
		tasks.AssertExpectations(t)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Delete", ctx, "some-id").Return(errors.New("database error"))

		err := newTestService(t, tasks).DeleteTask(ctx, "some-id")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete task")
	})
}

func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()
	pending := testTask(t, "pending task", 1)
	done := testTask(t, "done task", 5)
	done.Status = domain.TaskStatusCompleted
	all := []*domain.Task{done, pending}

	t.Run("no filter or sorter returns store order", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("ListByOwner", ctx, testUser.Email).Return(all, nil)

		got, err := newTestService(t, tasks).ListTasks(ctx, testUser, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, all, got)
	})

	t.Run("filter and sorter both applied", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("ListByOwner", ctx, testUser.Email).Return(all, nil)
		status := domain.TaskStatusPending

		got, err := newTestService(t, tasks).ListTasks(ctx, testUser,
			strategy.NewFilter(&status, nil),
			strategy.NewSorter([]string{strategy.SortByPriority}))

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, pending, got[0])
	})

	t.Run("store failure propagates", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("ListByOwner", ctx, testUser.Email).Return(nil, errors.New("database error"))

		got, err := newTestService(t, tasks).ListTasks(ctx, testUser, nil, nil)

		assert.Nil(t, got)
		assert.Error(t, err)
	})
}

func TestTaskService_MarkTaskCompleted(t *testing.T) {
	ctx := context.Background()
	existing := testTask(t, "Buy milk", 2)

	t.Run("marks completed and notifies with old state", func(t *testing.T) {
		completed := existing.Clone()
		completed.Status = domain.TaskStatusCompleted
		completed.UpdatedAt = testNow

		tasks := new(MockTaskStore)
		tasks.On("Get", ctx, existing.ID).Return(existing, nil).Once()
		tasks.On("Update", ctx, existing.ID, mock.MatchedBy(func(u store.FieldUpdate) bool {
			return u.Status != nil && *u.Status == domain.TaskStatusCompleted && u.UpdatedAt != nil
		})).Return(nil)
		tasks.On("Get", ctx, existing.ID).Return(completed, nil).Once()
		obs := &recordingObserver{}

		task, err := newTestService(t, tasks, obs).MarkTaskCompleted(ctx, existing.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, task.Status)

		require.Len(t, obs.calls, 1)
		assert.Equal(t, domain.ActionMarkTaskCompleted, obs.calls[0].action)
		assert.Equal(t, completed, obs.calls[0].task)
		assert.Equal(t, existing, obs.calls[0].oldTask)
		tasks.AssertExpectations(t)
	})

	t.Run("missing task yields nil, nil without observers", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Get", ctx, "missing").Return(nil, store.ErrTaskNotFound)
		obs := &recordingObserver{}

		task, err := newTestService(t, tasks, obs).MarkTaskCompleted(ctx, "missing")

		assert.NoError(t, err)
		assert.Nil(t, task)
		assert.Empty(t, obs.calls)
		tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("update failure propagates", func(t *testing.T) {
		tasks := new(MockTaskStore)
		tasks.On("Get", ctx, existing.ID).Return(existing, nil)
		tasks.On("Update", ctx, existing.ID, mock.AnythingOfType("store.FieldUpdate")).
			Return(errors.New("database error"))
		obs := &recordingObserver{}

		task, err := newTestService(t, tasks, obs).MarkTaskCompleted(ctx, existing.ID)

		assert.Nil(t, task)
		assert.Error(t, err)
		assert.Empty(t, obs.calls)
	})
}

func TestNewTaskServiceError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewTaskServiceError("op", "msg", nil))

	// Sentinels pass through unwrapped.
	assert.Equal(t, ErrTaskNotFound, NewTaskServiceError("op", "msg", ErrTaskNotFound))
	assert.Equal(t, ErrNotOwned, NewTaskServiceError("op", "msg", ErrNotOwned))
	assert.Equal(t, ErrTaskNotFound, NewTaskServiceError("op", "msg", store.ErrTaskNotFound))

	// Everything else is wrapped with operation context.
	wrapped := NewTaskServiceError("create_task", "failed to save task", errors.New("database error"))
	assert.Contains(t, wrapped.Error(), "create_task")
	assert.Contains(t, wrapped.Error(), "database error")

	var svcErr *TaskServiceError
	assert.ErrorAs(t, wrapped, &svcErr)
}
