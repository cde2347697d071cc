package todostore

import (
	"time"

	"github.com/google/uuid"

	"github.com/tickdone/tickdone/internal/domain"
)

// IDGenerator produces unique, never-reused todo ids. Injected into
// creation calls so tests can pin deterministic ids.
type IDGenerator func() string

// NewIDGenerator returns the default collision-resistant generator
func NewIDGenerator() IDGenerator {
	return func() string {
		return uuid.NewString()
	}
}

// New builds a fresh pending TodoItem
func New(content string, duration int, now time.Time, gen IDGenerator) domain.TodoItem {
	if duration < 1 {
		duration = domain.DefaultDuration
	}
	return domain.TodoItem{
		ID:        gen(),
		Content:   content,
		Status:    domain.StatusPending,
		Priority:  domain.PriorityNone,
		Tags:      []string{},
		Duration:  duration,
		CreatedAt: now,
	}
}
