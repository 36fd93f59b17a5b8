package observer

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// MockScheduler mocks the scheduler.ReminderScheduler interface
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(ctx context.Context, payload []byte, fireAt time.Time) (string, error) {
	args := m.Called(ctx, payload, fireAt)
	return args.String(0), args.Error(1)
}

func (m *MockScheduler) Cancel(ctx context.Context, jobID string) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

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

// fakeSlackSender records sent messages and can be primed to fail.
type fakeSlackSender struct {
	messages []string
	err      error
}

func (f *fakeSlackSender) Send(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, text)
	return nil
}

// fakeChangeSink collects audit records and can be primed to fail.
type fakeChangeSink struct {
	records []ChangeRecord
	err     error
}

func (f *fakeChangeSink) Record(ctx context.Context, rec ChangeRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}
