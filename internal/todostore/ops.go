package todostore

import (
	"sort"
	"time"

	"github.com/tickdone/tickdone/internal/domain"
)

// All operations in this package are pure: they take the current sequence
// plus a 1-based display index and return a new sequence, never mutating
// their input. Indices outside [1, len] make the operation a no-op at this
// layer; surfacing an out-of-range error to the user is the dispatcher's job.

// Insert splices item at the given 1-based position, clamped to
// [1, len+1]. Position 0 (or negative) appends.
func Insert(todos []domain.TodoItem, item domain.TodoItem, position int) []domain.TodoItem {
	out := cloneAll(todos)
	if position >= 1 {
		idx := position - 1
		if idx > len(out) {
			idx = len(out)
		}
		out = append(out[:idx], append([]domain.TodoItem{item}, out[idx:]...)...)
		return out
	}
	return append(out, item)
}

// Delete removes the item at the given 1-based index
func Delete(todos []domain.TodoItem, index int) []domain.TodoItem {
	if index < 1 || index > len(todos) {
		return todos
	}
	out := cloneAll(todos)
	return append(out[:index-1], out[index:]...)
}

// DeleteRange removes the contiguous span [from, to]. The bounds may
// arrive in either order; out-of-bound ends are clamped, not rejected.
func DeleteRange(todos []domain.TodoItem, from, to int) []domain.TodoItem {
	start, end := normalizeRange(from, to, len(todos))
	if start == 0 {
		return todos
	}
	out := cloneAll(todos)
	return append(out[:start-1], out[end:]...)
}

// Edit replaces the content of the item at index
func Edit(todos []domain.TodoItem, index int, content string) []domain.TodoItem {
	return update(todos, index, func(t *domain.TodoItem) {
		t.Content = content
	})
}

// Move removes the item at from and reinserts it at to. No-op when
// from == to or either index is invalid.
func Move(todos []domain.TodoItem, from, to int) []domain.TodoItem {
	n := len(todos)
	if from < 1 || from > n || to < 1 || to > n || from == to {
		return todos
	}
	out := cloneAll(todos)
	item := out[from-1]
	out = append(out[:from-1], out[from:]...)
	out = append(out[:to-1], append([]domain.TodoItem{item}, out[to-1:]...)...)
	return out
}

// SetDuration replaces the estimated minutes of the item at index
func SetDuration(todos []domain.TodoItem, index, minutes int) []domain.TodoItem {
	return update(todos, index, func(t *domain.TodoItem) {
		t.Duration = minutes
	})
}

// SetTag adds a tag to the item at index; duplicates are suppressed
func SetTag(todos []domain.TodoItem, index int, tag string) []domain.TodoItem {
	return update(todos, index, func(t *domain.TodoItem) {
		for _, existing := range t.Tags {
			if existing == tag {
				return
			}
		}
		t.Tags = append(t.Tags, tag)
	})
}

// SetPriority replaces the priority of the item at index
func SetPriority(todos []domain.TodoItem, index int, p domain.Priority) []domain.TodoItem {
	return update(todos, index, func(t *domain.TodoItem) {
		t.Priority = p
	})
}

// SetStatus replaces the status of the item at index without touching
// the completion timestamp. Used by the session engine for in_progress.
func SetStatus(todos []domain.TodoItem, index int, s domain.Status) []domain.TodoItem {
	return update(todos, index, func(t *domain.TodoItem) {
		t.Status = s
	})
}

// MarkDone sets the item at index to done and stamps CompletedAt
func MarkDone(todos []domain.TodoItem, index int, now time.Time) []domain.TodoItem {
	return update(todos, index, func(t *domain.TodoItem) {
		t.Status = domain.StatusDone
		at := now
		t.CompletedAt = &at
	})
}

// MarkUndone reverts the item at index to pending and clears CompletedAt
func MarkUndone(todos []domain.TodoItem, index int) []domain.TodoItem {
	return update(todos, index, func(t *domain.TodoItem) {
		t.Status = domain.StatusPending
		t.CompletedAt = nil
	})
}

// Sort keys accepted by Sort
const (
	SortByPriority = "priority"
	SortByStatus   = "status"
	SortByCreated  = "created"
)

// Sort reorders the sequence by the given key using a stable sort.
// Unknown keys are a no-op.
func Sort(todos []domain.TodoItem, key string) []domain.TodoItem {
	out := cloneAll(todos)
	switch key {
	case SortByPriority, "p":
		sort.SliceStable(out, func(i, j int) bool {
			return domain.PriorityRank(out[i].Priority) < domain.PriorityRank(out[j].Priority)
		})
	case SortByStatus, "s":
		sort.SliceStable(out, func(i, j int) bool {
			return domain.StatusRank(out[i].Status) < domain.StatusRank(out[j].Status)
		})
	case SortByCreated, "c":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	default:
		return todos
	}
	return out
}

// ClearDone removes every done item from the sequence
func ClearDone(todos []domain.TodoItem) []domain.TodoItem {
	out := make([]domain.TodoItem, 0, len(todos))
	for _, t := range todos {
		if t.Status != domain.StatusDone {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ResetAll forces every item back to pending, abandoning all progress:
// actual time and completion timestamps are cleared.
func ResetAll(todos []domain.TodoItem) []domain.TodoItem {
	out := cloneAll(todos)
	for i := range out {
		out[i].Status = domain.StatusPending
		out[i].ActualTime = 0
		out[i].CompletedAt = nil
	}
	return out
}

// SetActualTime replaces the accumulated focused seconds of the item
// with the given id. Items are addressed by id here (not index) because
// the session engine calls this while the display order may have shifted.
func SetActualTime(todos []domain.TodoItem, id string, seconds int) []domain.TodoItem {
	out := cloneAll(todos)
	for i := range out {
		if out[i].ID == id {
			out[i].ActualTime = seconds
		}
	}
	return out
}

// FindByID returns the item with the given id, or false
func FindByID(todos []domain.TodoItem, id string) (domain.TodoItem, bool) {
	for _, t := range todos {
		if t.ID == id {
			return t, true
		}
	}
	return domain.TodoItem{}, false
}

// IndexByID returns the 1-based display index of the item with the
// given id, or 0 when absent
func IndexByID(todos []domain.TodoItem, id string) int {
	for i, t := range todos {
		if t.ID == id {
			return i + 1
		}
	}
	return 0
}

func update(todos []domain.TodoItem, index int, fn func(*domain.TodoItem)) []domain.TodoItem {
	if index < 1 || index > len(todos) {
		return todos
	}
	out := cloneAll(todos)
	fn(&out[index-1])
	return out
}

func cloneAll(todos []domain.TodoItem) []domain.TodoItem {
	out := make([]domain.TodoItem, len(todos))
	for i, t := range todos {
		out[i] = t.Clone()
	}
	return out
}

// normalizeRange maps an arbitrary from/to pair onto valid 1-based
// bounds within a sequence of length n. Returns (0, 0) when the span
// misses the sequence entirely.
func normalizeRange(from, to, n int) (start, end int) {
	start = from
	end = to
	if start > end {
		start, end = end, start
	}
	if start < 1 {
		start = 1
	}
	if end > n {
		end = n
	}
	if start > n || end < 1 {
		return 0, 0
	}
	return start, end
}
