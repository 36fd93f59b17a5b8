package strategy

import (
	"sort"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// Sort criterion names accepted by NewSorter.
const (
	SortByCreatedAt = "created_at"
	SortByPriority  = "priority"
)

// TaskSorter orders a task list by some criterion. Implementations return
// a new slice and use a stable sort so composed criteria do not destroy
// each other's ordering.
type TaskSorter interface {
	Sort(tasks []*domain.Task) []*domain.Task
}

// CreatedAtSorter orders tasks by creation time, ascending.
type CreatedAtSorter struct{}

// Sort implements TaskSorter.
func (CreatedAtSorter) Sort(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// PrioritySorter orders tasks by priority, ascending.
type PrioritySorter struct{}

// Sort implements TaskSorter.
func (PrioritySorter) Sort(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// CompositeSorter applies its sub-sorters in reverse registration order.
// Because every sorter is stable, sorting by the last criterion first and
// the first criterion last makes the first-listed criterion the dominant
// sort key and later criteria tie-breakers within it.
type CompositeSorter struct {
	Sorters []TaskSorter
}

// Sort implements TaskSorter.
func (s CompositeSorter) Sort(tasks []*domain.Task) []*domain.Task {
	for i := len(s.Sorters) - 1; i >= 0; i-- {
		tasks = s.Sorters[i].Sort(tasks)
	}
	return tasks
}

// NewSorter maps a list of criterion names to a sorter, silently dropping
// unrecognized names. Returns nil when no known name remains, the single
// sorter for one, and a composite for several.
func NewSorter(names []string) TaskSorter {
	var sorters []TaskSorter
	for _, name := range names {
		switch name {
		case SortByCreatedAt:
			sorters = append(sorters, CreatedAtSorter{})
		case SortByPriority:
			sorters = append(sorters, PrioritySorter{})
		}
	}

	switch len(sorters) {
	case 0:
		return nil
	case 1:
		return sorters[0]
	default:
		return CompositeSorter{Sorters: sorters}
	}
}
