package task

import (
	"time"
)

// Task belongs to exactly one project and, transitively, to that project's
// owner. A task never outlives its project.
type Task struct {
	ID          string `gorm:"primaryKey;type:text"`
	Title       string `gorm:"not null;size:255"`
	Description string `gorm:"size:5000"`
	DueDate     *Date  `gorm:"type:date"`
	IsCompleted bool   `gorm:"not null;default:false"`
	ProjectID   string `gorm:"index;not null;type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
