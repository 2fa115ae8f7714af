package project

import (
	"errors"
	"fmt"

	domain "github.com/taskflow/taskflow-api/domain/project"
	taskdomain "github.com/taskflow/taskflow-api/domain/task"
	userdomain "github.com/taskflow/taskflow-api/domain/user"
	"gorm.io/gorm"
)

// Repository provides access to project storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new project repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindUserByID resolves a user id to a user record.
func (r *Repository) FindUserByID(id string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Create saves a new project to the database.
func (r *Repository) Create(project *domain.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// FindByOwner retrieves all projects owned by the given user.
func (r *Repository) FindByOwner(ownerID string) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := r.db.Find(&projects, "owner_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}
	return projects, nil
}

// FindByIDAndOwner retrieves a project only if it matches both the id and the
// owner. A miss is reported the same way whether the project does not exist
// or belongs to someone else.
func (r *Repository) FindByIDAndOwner(id, ownerID string) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.First(&project, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &project, nil
}

// Save persists changes to an existing project. The write is scoped to the
// project's id and never inserts, so a save racing a delete cannot undo the
// delete; it reports ErrNotFound instead. Select("*") keeps zero-valued
// fields, like a cleared description, in the update.
func (r *Repository) Save(project *domain.Project) error {
	result := r.db.Model(&domain.Project{}).Where("id = ?", project.ID).Select("*").Updates(project)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project and all of its tasks in one transaction. SQLite
// has no cascade configured here, so the two deletes are explicit.
func (r *Repository) Delete(project *domain.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&taskdomain.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete project tasks: %w", err)
		}
		if err := tx.Delete(project).Error; err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
}

// CountTasksByProject counts all tasks in a project.
func (r *Repository) CountTasksByProject(projectID string) (int64, error) {
	var count int64
	if err := r.db.Model(&taskdomain.Task{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// CountCompletedTasksByProject counts completed tasks in a project.
func (r *Repository) CountCompletedTasksByProject(projectID string) (int64, error) {
	var count int64
	if err := r.db.Model(&taskdomain.Task{}).
		Where("project_id = ? AND is_completed = ?", projectID, true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return count, nil
}
