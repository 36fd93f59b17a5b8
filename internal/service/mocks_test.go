package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// MockTaskStore mocks the store.TaskStore interface
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) Put(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskStore) Update(ctx context.Context, id string, update store.FieldUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskStore) ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Task, error) {
	args := m.Called(ctx, ownerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

// notification records a single observer invocation.
type notification struct {
	action  domain.Action
	task    *domain.Task
	oldTask *domain.Task
}

// recordingObserver captures every Update call and can be primed to fail.
type recordingObserver struct {
	calls []notification
	err   error
}

func (o *recordingObserver) Update(ctx context.Context, action domain.Action, task, oldTask *domain.Task) error {
	o.calls = append(o.calls, notification{action: action, task: task, oldTask: oldTask})
	return o.err
}
