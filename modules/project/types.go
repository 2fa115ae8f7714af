package project

import "time"

// CreateProjectRequest is the request for creating a project.
type CreateProjectRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GetProjectRequest is the request for getting a single project.
type GetProjectRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// ListProjectsRequest is the request for listing the caller's projects.
type ListProjectsRequest struct {
	UserID string `json:"user_id"`
}

// ListProjectsResponse is the response containing the caller's projects.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
}

// UpdateProjectRequest is the request for updating a project. Title and
// description fully replace the stored values.
type UpdateProjectRequest struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DeleteProjectRequest is the request for deleting a project.
type DeleteProjectRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// DeleteProjectResponse is the response after deleting a project.
type DeleteProjectResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// ProjectResponse represents a project in responses.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetProgressRequest is the request for a project's completion aggregate.
type GetProgressRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// ProgressResponse is the completion aggregate for a project.
type ProgressResponse struct {
	ProjectID          string  `json:"project_id"`
	ProjectTitle       string  `json:"project_title"`
	TotalTasks         int64   `json:"total_tasks"`
	CompletedTasks     int64   `json:"completed_tasks"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// ValidateOwnershipRequest is the request for the cross-module ownership guard.
type ValidateOwnershipRequest struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
}

// ValidateOwnershipResponse carries the guard result as data so the caller
// gets a typed outcome back rather than a stringly error.
type ValidateOwnershipResponse struct {
	Authorized bool   `json:"authorized"`
	Error      string `json:"error,omitempty"`
}

// InvalidateProgressRequest asks the project module to drop a cached
// progress aggregate after a task mutation.
type InvalidateProgressRequest struct {
	ProjectID string `json:"project_id"`
}

// InvalidateProgressResponse acknowledges an invalidation request.
type InvalidateProgressResponse struct {
	Invalidated bool `json:"invalidated"`
}
