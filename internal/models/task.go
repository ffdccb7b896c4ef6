package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusOnHold     TaskStatus = "on_hold"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type WorkspaceRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type ProjectRef struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Workspace *WorkspaceRef `json:"workspace,omitempty"`
}

// Task represents the structure of a task in the system.
type Task struct {
	ID            int64        `json:"id"`
	CreatorID     int64        `json:"creator_id"`
	AssigneeID    int64        `json:"assignee_id"`
	ProjectID     *int64       `json:"project_id,omitempty"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	DueDate       *time.Time   `json:"due_date,omitempty"`
	Priority      TaskPriority `json:"priority"`
	Status        TaskStatus   `json:"status"`
	Project       *ProjectRef  `json:"project,omitempty"`
	Labels        []Label      `json:"labels"`
	CommentsCount int          `json:"comments_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// WorkspaceID returns the id of the workspace owning the task's project.
func (t Task) WorkspaceID() (int64, bool) {
	if t.Project == nil || t.Project.Workspace == nil {
		return 0, false
	}
	return t.Project.Workspace.ID, true
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	AssigneeID  *int64
	CreatorID   *int64
	ProjectID   *int64
	WorkspaceID *int64
	Status      *TaskStatus
}

func IsValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusOnHold, StatusDone:
		return true
	}
	return false
}

func IsValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
