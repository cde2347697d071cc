package history

import (
	"time"

	"github.com/tickdone/tickdone/internal/domain"
)

// The ledger is an append-style store of completed-task snapshots with
// its own lifecycle: deleting or resetting a live todo never touches
// the record taken when it completed.

// Append snapshots a todo into the ledger. It is idempotent by id: a
// second append for the same todo is silently skipped, which guards
// against double-recording one completion (e.g. a session advance and
// a bulk operation touching the same task).
func Append(records []domain.DoneRecord, todo domain.TodoItem, now time.Time) []domain.DoneRecord {
	for _, r := range records {
		if r.ID == todo.ID {
			return records
		}
	}
	completedAt := now
	if todo.CompletedAt != nil {
		completedAt = *todo.CompletedAt
	}
	out := append([]domain.DoneRecord(nil), records...)
	return append(out, domain.DoneRecord{
		ID:          todo.ID,
		Content:     todo.Content,
		ActualTime:  todo.ActualTime,
		Duration:    todo.Duration,
		Tags:        append([]string(nil), todo.Tags...),
		CompletedAt: completedAt,
	})
}

// DeleteAt removes the record at the given 1-based index; out-of-range
// indices are a no-op, matching the todo sequence conventions.
func DeleteAt(records []domain.DoneRecord, index int) []domain.DoneRecord {
	if index < 1 || index > len(records) {
		return records
	}
	out := append([]domain.DoneRecord(nil), records...)
	return append(out[:index-1], out[index:]...)
}

// DeleteRange removes the span [from, to] with the same normalization
// as todo range deletion: bounds in either order, ends clamped.
func DeleteRange(records []domain.DoneRecord, from, to int) []domain.DoneRecord {
	start, end := from, to
	if start > end {
		start, end = end, start
	}
	if start < 1 {
		start = 1
	}
	if end > len(records) {
		end = len(records)
	}
	if start > len(records) || end < 1 {
		return records
	}
	out := append([]domain.DoneRecord(nil), records...)
	return append(out[:start-1], out[end:]...)
}
