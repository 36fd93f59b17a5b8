package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/strategy"
)

// MockTaskService mocks the service.TaskService interface
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(
	ctx context.Context,
	req service.CreateTaskRequest,
	user domain.User,
) (*domain.Task, error) {
	args := m.Called(ctx, req, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	taskID string,
	patch domain.TaskPatch,
	user domain.User,
) (*domain.Task, error) {
	args := m.Called(ctx, taskID, patch, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockTaskService) ListTasks(
	ctx context.Context,
	user domain.User,
	filter strategy.TaskFilter,
	sorter strategy.TaskSorter,
) ([]*domain.Task, error) {
	args := m.Called(ctx, user, filter, sorter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskService) MarkTaskCompleted(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
