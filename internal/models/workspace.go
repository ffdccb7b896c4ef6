package models

import "time"

type Workspace struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Color         string    `json:"color"`
	OwnerID       int64     `json:"owner_id"`
	ProjectsCount int       `json:"projects_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// WorkspaceStat is recomputed from the current task list on every request.
type WorkspaceStat struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Color               string `json:"color"`
	ProjectsCount       int    `json:"projects_count"`
	AssignedTasksCount  int    `json:"assigned_tasks_count"`
	InProgressCount     int    `json:"in_progress_count"`
	CompletedTasksCount int    `json:"completed_tasks_count"`
	CompletionRate      *int   `json:"completion_rate,omitempty"`
}
