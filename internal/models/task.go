// internal/models/task.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
)

// Statuses lists every status in declaration order. The digest loop reports
// every status except the last one, so the order here is load-bearing.
var Statuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Label returns the human-readable form used in digest emails,
// e.g. "Pending", "In Progress".
func (s TaskStatus) Label() string {
	words := strings.Split(strings.ToLower(string(s)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Task represents a user's task.
// CreatedAt is fixed at creation; UpdatedAt is refreshed on every save.
type Task struct {
	ID          int64      `json:"id"`
	UserID      *int64     `json:"user_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Deleted     bool       `json:"-"`
	Priority    int        `json:"priority"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// String is the representation used in digest email task listings.
func (t *Task) String() string {
	return fmt.Sprintf("%s [Priority: %d]", t.Title, t.Priority)
}

// TaskFilter defines the available parameters for filtering tasks.
// Soft-deleted tasks are always excluded.
type TaskFilter struct {
	UserID    *int64
	Title     *string // case-insensitive substring
	Status    *TaskStatus
	Completed *bool
}

// TaskUpdate carries a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *int
	Status      *TaskStatus
}
