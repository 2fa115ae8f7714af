package task

import (
	"errors"
	"fmt"

	projectdomain "github.com/taskflow/taskflow-api/domain/project"
	domain "github.com/taskflow/taskflow-api/domain/task"
	"gorm.io/gorm"
)

// Repository provides access to task storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateInProject inserts a task after confirming, in the same transaction,
// that its project still exists. The ownership guard runs before this call;
// the project can still vanish between the two steps, and in that case the
// insert must not happen.
func (r *Repository) CreateInProject(task *domain.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var project projectdomain.Project
		if err := tx.Select("id").First(&project, "id = ?", task.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return fmt.Errorf("failed to find project: %w", err)
		}
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
}

// FindByProject retrieves all tasks for a project.
func (r *Repository) FindByProject(projectID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.Find(&tasks, "project_id = ?", projectID).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// FindByIDAndOwner retrieves a task only if its project belongs to the given
// user. Ownership is resolved in one query by joining through the project,
// never by loading the task first and comparing in memory.
func (r *Repository) FindByIDAndOwner(taskID, userID string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("tasks.id = ? AND projects.owner_id = ?", taskID, userID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// Save persists changes to an existing task. The write is scoped to the
// task's id and never inserts: a task deleted by a concurrent request stays
// deleted and the save reports ErrNotFound. Select("*") keeps zero-valued
// fields, an untoggled flag or a cleared description, in the update.
func (r *Repository) Save(task *domain.Task) error {
	result := r.db.Model(&domain.Task{}).Where("id = ?", task.ID).Select("*").Updates(task)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task.
func (r *Repository) Delete(task *domain.Task) error {
	if err := r.db.Delete(task).Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
