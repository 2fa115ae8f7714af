package task

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	domain "github.com/taskflow/taskflow-api/domain/task"
)

var (
	// ErrNotFound is returned when a task does not exist for the caller,
	// whether it is missing or owned by someone else.
	ErrNotFound = errors.New("task not found")
	// ErrProjectNotFound is returned when a task's project vanished between
	// the ownership check and the insert.
	ErrProjectNotFound = errors.New("project not found")
	// ErrBlankTitle is returned when a patch supplies a title that trims to
	// nothing.
	ErrBlankTitle = errors.New("title, if provided, must not be blank")
)

// ProjectGuard is the project module's contract as seen by the task service.
// Ownership decisions are never duplicated here; they are delegated so the
// rule lives in exactly one place.
type ProjectGuard interface {
	ValidateOwnership(ctx context.Context, projectID, userID string) error
	InvalidateProgress(ctx context.Context, projectID string) error
}

// Service manages tasks within projects the caller owns.
type Service struct {
	repo     *Repository
	projects ProjectGuard
}

// NewService creates a new task Service.
func NewService(repo *Repository, projects ProjectGuard) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
	}
}

// Create adds a task to a project the caller owns. New tasks always start
// incomplete.
func (s *Service) Create(ctx context.Context, projectID, userID, title, description string, dueDate *domain.Date) (*domain.Task, error) {
	if err := s.projects.ValidateOwnership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		IsCompleted: false,
		ProjectID:   projectID,
	}

	if err := s.repo.CreateInProject(task); err != nil {
		return nil, err
	}

	s.invalidateProgress(ctx, projectID)
	return task, nil
}

// ListForProject returns all tasks in a project the caller owns.
func (s *Service) ListForProject(ctx context.Context, projectID, userID string) ([]*domain.Task, error) {
	if err := s.projects.ValidateOwnership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	return s.repo.FindByProject(projectID)
}

// ToggleCompletion flips the task's completion flag. There is no explicit
// "set" operation; applying the toggle twice restores the original state.
func (s *Service) ToggleCompletion(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	task, err := s.repo.FindByIDAndOwner(taskID, userID)
	if err != nil {
		return nil, err
	}

	task.IsCompleted = !task.IsCompleted
	if err := s.repo.Save(task); err != nil {
		return nil, err
	}

	s.invalidateProgress(ctx, task.ProjectID)
	return task, nil
}

// Delete removes a task. An absent task is treated as already deleted.
func (s *Service) Delete(ctx context.Context, taskID, userID string) error {
	task, err := s.repo.FindByIDAndOwner(taskID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Delete(task); err != nil {
		return err
	}

	s.invalidateProgress(ctx, task.ProjectID)
	return nil
}

// Update applies a partial patch. Nil fields are left untouched. A supplied
// title is trimmed and must not end up blank; if it does, nothing is
// persisted, including a description supplied in the same request. A supplied
// description is stored verbatim, empty string included. A patch with no
// fields at all writes nothing, so it does not touch UpdatedAt.
func (s *Service) Update(ctx context.Context, taskID, userID string, title, description *string) (*domain.Task, error) {
	task, err := s.repo.FindByIDAndOwner(taskID, userID)
	if err != nil {
		return nil, err
	}

	if title == nil && description == nil {
		return task, nil
	}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return nil, ErrBlankTitle
		}
		task.Title = trimmed
	}

	if description != nil {
		task.Description = *description
	}

	if err := s.repo.Save(task); err != nil {
		return nil, err
	}

	return task, nil
}

// invalidateProgress tells the project module a completion aggregate is
// stale. Best effort: a failed invalidation only delays a cache refresh.
func (s *Service) invalidateProgress(ctx context.Context, projectID string) {
	if err := s.projects.InvalidateProgress(ctx, projectID); err != nil {
		log.Printf("[task] Progress invalidation failed for project %s: %v", projectID, err)
	}
}
