package project

import (
	"time"
)

// Project is a collection of tasks owned by exactly one user. Ownership is
// fixed at creation and never transferred.
type Project struct {
	ID          string `gorm:"primaryKey;type:text"`
	Title       string `gorm:"not null;size:255"`
	Description string `gorm:"size:5000"`
	OwnerID     string `gorm:"index;not null;type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Project entity.
func (Project) TableName() string {
	return "projects"
}
