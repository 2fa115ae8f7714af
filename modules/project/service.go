package project

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"
	domain "github.com/taskflow/taskflow-api/domain/project"
	"github.com/taskflow/taskflow-api/modules/cache"
)

var (
	// ErrNotFound is returned when a project does not exist for the caller.
	// A project owned by someone else is reported identically, so callers
	// cannot probe for other users' project ids.
	ErrNotFound = errors.New("project not found")
	// ErrUserNotFound is returned when the owner id resolves to no user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized is returned by the ownership guard when the caller has
	// no access to a project whose existence is already implied by context.
	ErrUnauthorized = errors.New("you don't have access to this project")
)

// Service enforces per-user project ownership and computes progress
// aggregates. It holds no mutable state; all state lives in the repository.
type Service struct {
	repo  *Repository
	cache *cache.Cache
}

// NewService creates a new project Service. cache may be nil, in which case
// progress is always computed from the database.
func NewService(repo *Repository, c *cache.Cache) *Service {
	return &Service{
		repo:  repo,
		cache: c,
	}
}

// Create persists a new project owned by the caller. The caller must resolve
// to an existing user.
func (s *Service) Create(_ context.Context, userID, title, description string) (*domain.Project, error) {
	user, err := s.repo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		OwnerID:     user.ID,
	}

	if err := s.repo.Create(project); err != nil {
		return nil, err
	}

	return project, nil
}

// ListForUser returns all projects owned by the caller.
func (s *Service) ListForUser(_ context.Context, userID string) ([]*domain.Project, error) {
	return s.repo.FindByOwner(userID)
}

// GetByID returns a project scoped by both id and owner in a single lookup.
func (s *Service) GetByID(_ context.Context, projectID, userID string) (*domain.Project, error) {
	return s.repo.FindByIDAndOwner(projectID, userID)
}

// Update replaces the project's title and description. This is a full
// replace, not a patch: omitted fields are overwritten with their zero value.
func (s *Service) Update(ctx context.Context, projectID, userID, title, description string) (*domain.Project, error) {
	project, err := s.repo.FindByIDAndOwner(projectID, userID)
	if err != nil {
		return nil, err
	}

	project.Title = title
	project.Description = description

	if err := s.repo.Save(project); err != nil {
		return nil, err
	}

	s.InvalidateProgress(ctx, project.ID)
	return project, nil
}

// Delete removes the project and all of its tasks. Deleting a project that
// does not exist for this caller is a success, not an error, so retries are
// harmless.
func (s *Service) Delete(ctx context.Context, projectID, userID string) error {
	project, err := s.repo.FindByIDAndOwner(projectID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Delete(project); err != nil {
		return err
	}

	s.InvalidateProgress(ctx, projectID)
	return nil
}

// GetProgress returns the completion aggregate for a project. The ownership
// check always hits the database; only the counted aggregate is cached.
func (s *Service) GetProgress(ctx context.Context, projectID, userID string) (*ProgressResponse, error) {
	project, err := s.repo.FindByIDAndOwner(projectID, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached ProgressResponse
		hit, err := s.cache.Get(ctx, progressKey(projectID), &cached)
		if err != nil {
			log.Printf("[project] Progress cache read failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	total, err := s.repo.CountTasksByProject(projectID)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.CountCompletedTasksByProject(projectID)
	if err != nil {
		return nil, err
	}

	progress := &ProgressResponse{
		ProjectID:          project.ID,
		ProjectTitle:       project.Title,
		TotalTasks:         total,
		CompletedTasks:     completed,
		ProgressPercentage: progressPercentage(completed, total),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, progressKey(projectID), progress); err != nil {
			log.Printf("[project] Progress cache write failed: %v", err)
		}
	}

	return progress, nil
}

// ValidateOwnership checks that the caller owns the project. Unlike GetByID,
// a miss is reported as an access error: this guard runs at call sites where
// the project id is already known to be in play.
func (s *Service) ValidateOwnership(_ context.Context, projectID, userID string) error {
	if _, err := s.repo.FindByIDAndOwner(projectID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	return nil
}

// InvalidateProgress drops the cached progress aggregate for a project.
// Failures are logged, never surfaced: the cache holds derived data only.
func (s *Service) InvalidateProgress(ctx context.Context, projectID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, progressKey(projectID)); err != nil {
		log.Printf("[project] Progress cache invalidation failed: %v", err)
	}
}

// progressPercentage computes completed/total as a percentage rounded
// half-up to two decimals. Zero tasks is exactly 0.0, not NaN.
func progressPercentage(completed, total int64) float64 {
	if total == 0 {
		return 0.0
	}
	pct := float64(completed) * 100.0 / float64(total)
	return math.Round(pct*100) / 100
}

func progressKey(projectID string) string {
	return fmt.Sprintf("progress:%s", projectID)
}
