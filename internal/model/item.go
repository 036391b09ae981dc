package model

import "time"

// ID identifies a task for as long as the process lives.
// IDs are handed out in creation order and never reused.
type ID int

// Task is the domain model for a checklist entry.
type Task struct {
	ID          ID         `json:"id"`
	Text        string     `json:"text"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Selected marks the task as a target of the next batch operation.
	Selected bool `json:"-"`
}

const (
	StatusPending = "pending"
	StatusDone    = "done"
)

func (t Task) Status() string {
	if t.Done {
		return StatusDone
	}
	return StatusPending
}

// Stats is a summary of the list used by headers and progress bars.
type Stats struct {
	Done, Pending, Selected, Total int
}
