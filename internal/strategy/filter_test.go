package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/domain"
)

func makeTask(t *testing.T, title string, status domain.TaskStatus, priority int, due, created time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(title, "", "owner@example.com", priority, due, created)
	require.NoError(t, err)
	task.Status = status
	return task
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func TestStatusFilter(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tasks := []*domain.Task{
		makeTask(t, "a", domain.TaskStatusPending, 1, base.Add(time.Hour), base),
		makeTask(t, "b", domain.TaskStatusCompleted, 1, base.Add(time.Hour), base),
		makeTask(t, "c", domain.TaskStatusPending, 1, base.Add(time.Hour), base),
	}

	got := StatusFilter{Status: domain.TaskStatusPending}.Filter(tasks)
	assert.Equal(t, []string{"a", "c"}, titles(got))

	got = StatusFilter{Status: domain.TaskStatusCancelled}.Filter(tasks)
	assert.Empty(t, got)

	// Input slice untouched.
	assert.Len(t, tasks, 3)
}

func TestDueBeforeFilter(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := base.Add(24 * time.Hour)
	tasks := []*domain.Task{
		makeTask(t, "early", domain.TaskStatusPending, 1, base.Add(time.Hour), base),
		makeTask(t, "exact", domain.TaskStatusPending, 1, cutoff, base),
		makeTask(t, "late", domain.TaskStatusPending, 1, cutoff.Add(time.Minute), base),
	}

	got := DueBeforeFilter{DueBefore: cutoff}.Filter(tasks)

	// The threshold is inclusive.
	assert.Equal(t, []string{"early", "exact"}, titles(got))
}

func TestCompositeFilter(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := base.Add(24 * time.Hour)
	tasks := []*domain.Task{
		makeTask(t, "pending-early", domain.TaskStatusPending, 1, base.Add(time.Hour), base),
		makeTask(t, "done-early", domain.TaskStatusCompleted, 1, base.Add(time.Hour), base),
		makeTask(t, "pending-late", domain.TaskStatusPending, 1, cutoff.Add(time.Hour), base),
	}

	statusFirst := CompositeFilter{Filters: []TaskFilter{
		StatusFilter{Status: domain.TaskStatusPending},
		DueBeforeFilter{DueBefore: cutoff},
	}}
	dueFirst := CompositeFilter{Filters: []TaskFilter{
		DueBeforeFilter{DueBefore: cutoff},
		StatusFilter{Status: domain.TaskStatusPending},
	}}

	// AND semantics: composition order does not change the result.
	assert.Equal(t, []string{"pending-early"}, titles(statusFirst.Filter(tasks)))
	assert.Equal(t, []string{"pending-early"}, titles(dueFirst.Filter(tasks)))
}

func TestNewFilter(t *testing.T) {
	t.Parallel()

	status := domain.TaskStatusPending
	cutoff := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, NewFilter(nil, nil))
	assert.IsType(t, StatusFilter{}, NewFilter(&status, nil))
	assert.IsType(t, DueBeforeFilter{}, NewFilter(nil, &cutoff))
	assert.IsType(t, CompositeFilter{}, NewFilter(&status, &cutoff))
}
