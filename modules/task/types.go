package task

import (
	"time"

	domain "github.com/taskflow/taskflow-api/domain/task"
)

// CreateTaskRequest is the request for creating a task in a project.
type CreateTaskRequest struct {
	ProjectID   string       `json:"project_id"`
	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     *domain.Date `json:"due_date,omitempty"`
}

// ListTasksRequest is the request for listing a project's tasks.
type ListTasksRequest struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
}

// ListTasksResponse is the response containing a project's tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// ToggleTaskRequest is the request for flipping a task's completion flag.
type ToggleTaskRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// UpdateTaskRequest is the request for a partial task patch. Nil fields are
// left untouched.
type UpdateTaskRequest struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// DeleteTaskResponse is the response after deleting a task.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// TaskResponse represents a task in responses.
type TaskResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     *domain.Date `json:"due_date,omitempty"`
	IsCompleted bool         `json:"is_completed"`
	ProjectID   string       `json:"project_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
