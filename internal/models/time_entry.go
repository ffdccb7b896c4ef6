package models

import "time"

type TaskRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// TimeEntry is one tracked session. A nil StoppedAt means the timer is still running.
type TimeEntry struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	TaskID      *int64     `json:"task_id,omitempty"`
	Task        *TaskRef   `json:"task,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	StoppedAt   *time.Time `json:"stopped_at,omitempty"`
	Duration    int64      `json:"duration"` // seconds
	Description string     `json:"description,omitempty"`
}

func (e TimeEntry) Running() bool {
	return e.StoppedAt == nil || e.StoppedAt.IsZero()
}
