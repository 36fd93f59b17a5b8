// Package strategy provides composable, side-effect-free filter and sort
// transformations over in-memory task lists.
package strategy

import (
	"time"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// TaskFilter narrows a task list to the tasks matching some predicate.
// Implementations never mutate the input slice.
type TaskFilter interface {
	Filter(tasks []*domain.Task) []*domain.Task
}

// StatusFilter keeps tasks whose status matches exactly.
type StatusFilter struct {
	Status domain.TaskStatus
}

// Filter implements TaskFilter.
func (f StatusFilter) Filter(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == f.Status {
			out = append(out, t)
		}
	}
	return out
}

// DueBeforeFilter keeps tasks due at or before the threshold (inclusive).
type DueBeforeFilter struct {
	DueBefore time.Time
}

// Filter implements TaskFilter.
func (f DueBeforeFilter) Filter(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.DueDate.After(f.DueBefore) {
			out = append(out, t)
		}
	}
	return out
}

// CompositeFilter applies each sub-filter in sequence, intersecting their
// results (AND semantics).
type CompositeFilter struct {
	Filters []TaskFilter
}

// Filter implements TaskFilter.
func (f CompositeFilter) Filter(tasks []*domain.Task) []*domain.Task {
	for _, sub := range f.Filters {
		tasks = sub.Filter(tasks)
	}
	return tasks
}

// NewFilter composes a filter from the optional listing parameters.
// Returns nil when neither parameter is set, the single filter when one
// is set, and a composite when both are.
func NewFilter(status *domain.TaskStatus, dueBefore *time.Time) TaskFilter {
	var filters []TaskFilter
	if status != nil {
		filters = append(filters, StatusFilter{Status: *status})
	}
	if dueBefore != nil {
		filters = append(filters, DueBeforeFilter{DueBefore: *dueBefore})
	}

	switch len(filters) {
	case 0:
		return nil
	case 1:
		return filters[0]
	default:
		return CompositeFilter{Filters: filters}
	}
}
