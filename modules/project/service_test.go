package project

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/taskflow/taskflow-api/domain/project"
	taskdomain "github.com/taskflow/taskflow-api/domain/task"
	userdomain "github.com/taskflow/taskflow-api/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupService creates a service backed by an in-memory SQLite database.
// The cache is nil so progress is always computed from the database.
func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(&userdomain.User{}, &domain.Project{}, &taskdomain.Task{})
	require.NoError(t, err, "failed to migrate test database")

	return NewService(NewRepository(db), nil), db
}

func createUser(t *testing.T, db *gorm.DB, email string) *userdomain.User {
	t.Helper()

	user := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Name:         "Test User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProject(t *testing.T, db *gorm.DB, ownerID, title string) *domain.Project {
	t.Helper()

	project := &domain.Project{
		ID:      uuid.New().String(),
		Title:   title,
		OwnerID: ownerID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createTask(t *testing.T, db *gorm.DB, projectID string, completed bool) *taskdomain.Task {
	t.Helper()

	task := &taskdomain.Task{
		ID:          uuid.New().String(),
		Title:       "Task",
		IsCompleted: completed,
		ProjectID:   projectID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestService_Create(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	user := createUser(t, db, "owner@example.com")

	t.Run("valid project", func(t *testing.T) {
		project, err := svc.Create(ctx, user.ID, "Home Renovation", "Kitchen first")
		require.NoError(t, err)

		assert.NotEmpty(t, project.ID)
		assert.Equal(t, "Home Renovation", project.Title)
		assert.Equal(t, "Kitchen first", project.Description)
		assert.Equal(t, user.ID, project.OwnerID)

		var found domain.Project
		require.NoError(t, db.First(&found, "id = ?", project.ID).Error)
		assert.Equal(t, user.ID, found.OwnerID)
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := svc.Create(ctx, "no-such-user", "Ghost", "")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestService_ListForUser(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	t.Run("no projects", func(t *testing.T) {
		projects, err := svc.ListForUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, projects)
	})

	createProject(t, db, alice.ID, "Alice One")
	createProject(t, db, alice.ID, "Alice Two")
	createProject(t, db, bob.ID, "Bob Only")

	t.Run("only own projects", func(t *testing.T) {
		projects, err := svc.ListForUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, projects, 2)
		for _, p := range projects {
			assert.Equal(t, alice.ID, p.OwnerID)
		}
	})
}

func TestService_GetByID_OwnershipScoped(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	project := createProject(t, db, alice.ID, "Secret Plans")

	t.Run("owner can read", func(t *testing.T) {
		found, err := svc.GetByID(ctx, project.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ID, found.ID)
	})

	t.Run("other user gets not found, not forbidden", func(t *testing.T) {
		// Someone else's project is indistinguishable from a missing one.
		_, err := svc.GetByID(ctx, project.ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing project", func(t *testing.T) {
		_, err := svc.GetByID(ctx, "no-such-project", alice.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Update_FullReplace(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	project := createProject(t, db, alice.ID, "Original")
	require.NoError(t, db.Model(project).Update("description", "original description").Error)

	t.Run("replaces both fields", func(t *testing.T) {
		updated, err := svc.Update(ctx, project.ID, alice.ID, "New Title", "")
		require.NoError(t, err)

		// Omitting the description clears it; this is a replace, not a patch.
		assert.Equal(t, "New Title", updated.Title)
		assert.Equal(t, "", updated.Description)

		var found domain.Project
		require.NoError(t, db.First(&found, "id = ?", project.ID).Error)
		assert.Equal(t, "New Title", found.Title)
		assert.Equal(t, "", found.Description)
	})

	t.Run("other user cannot update", func(t *testing.T) {
		_, err := svc.Update(ctx, project.ID, bob.ID, "Hijacked", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	t.Run("cascades to tasks", func(t *testing.T) {
		project := createProject(t, db, alice.ID, "Doomed")
		createTask(t, db, project.ID, false)
		createTask(t, db, project.ID, true)

		require.NoError(t, svc.Delete(ctx, project.ID, alice.ID))

		var projectCount, taskCount int64
		db.Model(&domain.Project{}).Where("id = ?", project.ID).Count(&projectCount)
		db.Model(&taskdomain.Task{}).Where("project_id = ?", project.ID).Count(&taskCount)
		assert.Zero(t, projectCount)
		assert.Zero(t, taskCount)
	})

	t.Run("idempotent for missing project", func(t *testing.T) {
		assert.NoError(t, svc.Delete(ctx, "no-such-project", alice.ID))
	})

	t.Run("other user's delete is a no-op", func(t *testing.T) {
		project := createProject(t, db, alice.ID, "Still Here")

		require.NoError(t, svc.Delete(ctx, project.ID, bob.ID))

		var count int64
		db.Model(&domain.Project{}).Where("id = ?", project.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})
}

func TestService_GetProgress(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	t.Run("no tasks is zero percent", func(t *testing.T) {
		project := createProject(t, db, alice.ID, "Empty")

		progress, err := svc.GetProgress(ctx, project.ID, alice.ID)
		require.NoError(t, err)

		assert.Equal(t, project.ID, progress.ProjectID)
		assert.Equal(t, "Empty", progress.ProjectTitle)
		assert.EqualValues(t, 0, progress.TotalTasks)
		assert.EqualValues(t, 0, progress.CompletedTasks)
		assert.Equal(t, 0.0, progress.ProgressPercentage)
	})

	t.Run("counts and percentage", func(t *testing.T) {
		project := createProject(t, db, alice.ID, "Busy")
		for i := 0; i < 7; i++ {
			createTask(t, db, project.ID, true)
		}
		for i := 0; i < 3; i++ {
			createTask(t, db, project.ID, false)
		}

		progress, err := svc.GetProgress(ctx, project.ID, alice.ID)
		require.NoError(t, err)

		assert.EqualValues(t, 10, progress.TotalTasks)
		assert.EqualValues(t, 7, progress.CompletedTasks)
		assert.Equal(t, 70.0, progress.ProgressPercentage)
	})

	t.Run("scoped like any other read", func(t *testing.T) {
		project := createProject(t, db, alice.ID, "Private")

		_, err := svc.GetProgress(ctx, project.ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		total     int64
		want      float64
	}{
		{name: "no tasks", completed: 0, total: 0, want: 0.0},
		{name: "none done", completed: 0, total: 4, want: 0.0},
		{name: "all done", completed: 5, total: 5, want: 100.0},
		{name: "rounds down", completed: 1, total: 3, want: 33.33},
		{name: "rounds up", completed: 2, total: 3, want: 66.67},
		{name: "exact", completed: 7, total: 10, want: 70.0},
		{name: "repeating", completed: 1, total: 6, want: 16.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progressPercentage(tt.completed, tt.total)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_ValidateOwnership(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")
	project := createProject(t, db, alice.ID, "Guarded")

	t.Run("owner passes", func(t *testing.T) {
		assert.NoError(t, svc.ValidateOwnership(ctx, project.ID, alice.ID))
	})

	t.Run("other user is unauthorized", func(t *testing.T) {
		err := svc.ValidateOwnership(ctx, project.ID, bob.ID)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing project is unauthorized", func(t *testing.T) {
		err := svc.ValidateOwnership(ctx, "no-such-project", alice.ID)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
