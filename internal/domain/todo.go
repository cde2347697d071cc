package domain

import "time"

// TodoItem is a single actionable item in the live todo sequence.
// Order in the sequence is the only source of display order; the
// 1-based display index is position+1.
type TodoItem struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Status   Status   `json:"status"`
	Priority Priority `json:"priority"`
	Tags     []string `json:"tags"`
	// Duration is the estimated minutes (>= 1, default 60)
	Duration int `json:"duration"`
	// ActualTime is accumulated focused seconds; 0 means untracked
	ActualTime  int        `json:"actualTime,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Clone returns a deep copy of the item
func (t TodoItem) Clone() TodoItem {
	c := t
	c.Tags = append([]string(nil), t.Tags...)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return c
}

// DoneRecord is an immutable snapshot taken when a task completes.
// Its lifecycle is independent of the source TodoItem: deleting or
// resetting the item never touches its record.
type DoneRecord struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	// ActualTime is focused seconds spent (0 if the task was never timed)
	ActualTime int `json:"actualTime"`
	// Duration is the original estimate in minutes
	Duration    int       `json:"duration"`
	Tags        []string  `json:"tags"`
	CompletedAt time.Time `json:"completedAt"`
}
