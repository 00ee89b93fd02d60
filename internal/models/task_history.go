// internal/models/task_history.go
package models

import "time"

// TaskHistory records one status transition of a task. Rows are immutable
// once inserted; UpdatedDate is set at insert time and never touched again.
// Insertion order is the implicit chronological order.
type TaskHistory struct {
	ID          int64      `json:"id"`
	TaskID      *int64     `json:"task_id,omitempty"`
	OldStatus   TaskStatus `json:"old_status"`
	NewStatus   TaskStatus `json:"new_status"`
	UpdatedDate time.Time  `json:"updated_date"`
}

// TaskHistoryFilter defines the available parameters for filtering history.
// UpdatedDate matches on the calendar day of the stored timestamp, not a range.
type TaskHistoryFilter struct {
	OldStatus   *TaskStatus
	NewStatus   *TaskStatus
	UpdatedDate *time.Time
}
