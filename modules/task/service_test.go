package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	projectdomain "github.com/taskflow/taskflow-api/domain/project"
	domain "github.com/taskflow/taskflow-api/domain/task"
	"github.com/taskflow/taskflow-api/modules/project"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubGuard implements ProjectGuard against the projects table directly and
// records which projects had their progress invalidated.
type stubGuard struct {
	db          *gorm.DB
	invalidated []string
}

func (g *stubGuard) ValidateOwnership(_ context.Context, projectID, userID string) error {
	var count int64
	g.db.Model(&projectdomain.Project{}).
		Where("id = ? AND owner_id = ?", projectID, userID).
		Count(&count)
	if count == 0 {
		return project.ErrUnauthorized
	}
	return nil
}

func (g *stubGuard) InvalidateProgress(_ context.Context, projectID string) error {
	g.invalidated = append(g.invalidated, projectID)
	return nil
}

func setupService(t *testing.T) (*Service, *stubGuard, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(&projectdomain.Project{}, &domain.Task{})
	require.NoError(t, err, "failed to migrate test database")

	guard := &stubGuard{db: db}
	return NewService(NewRepository(db), guard), guard, db
}

func createProject(t *testing.T, db *gorm.DB, ownerID string) *projectdomain.Project {
	t.Helper()

	p := &projectdomain.Project{
		ID:      uuid.New().String(),
		Title:   "Project",
		OwnerID: ownerID,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createTask(t *testing.T, db *gorm.DB, projectID, title string, completed bool) *domain.Task {
	t.Helper()

	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		IsCompleted: completed,
		ProjectID:   projectID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestService_Create(t *testing.T) {
	svc, guard, db := setupService(t)
	ctx := context.Background()
	proj := createProject(t, db, "alice")

	t.Run("new task starts incomplete", func(t *testing.T) {
		due, err := domain.ParseDate("2026-09-15")
		require.NoError(t, err)

		task, err := svc.Create(ctx, proj.ID, "alice", "Buy paint", "Two cans", &due)
		require.NoError(t, err)

		assert.NotEmpty(t, task.ID)
		assert.Equal(t, "Buy paint", task.Title)
		assert.False(t, task.IsCompleted)
		assert.Equal(t, proj.ID, task.ProjectID)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, "2026-09-15", task.DueDate.String())

		assert.Contains(t, guard.invalidated, proj.ID)
	})

	t.Run("unauthorized caller", func(t *testing.T) {
		_, err := svc.Create(ctx, proj.ID, "mallory", "Sneaky", "", nil)
		assert.ErrorIs(t, err, project.ErrUnauthorized)

		var count int64
		db.Model(&domain.Task{}).Where("title = ?", "Sneaky").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("project vanished after guard", func(t *testing.T) {
		gone := createProject(t, db, "alice")
		require.NoError(t, db.Delete(&projectdomain.Project{}, "id = ?", gone.ID).Error)

		// The guard still says yes; the insert-time check must catch it.
		svc2 := NewService(NewRepository(db), &alwaysAllowGuard{})

		_, err := svc2.Create(ctx, gone.ID, "alice", "Orphan", "", nil)
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})
}

// alwaysAllowGuard approves every ownership check, simulating a project
// deleted between the check and the insert.
type alwaysAllowGuard struct{}

func (alwaysAllowGuard) ValidateOwnership(context.Context, string, string) error { return nil }
func (alwaysAllowGuard) InvalidateProgress(context.Context, string) error        { return nil }

func TestService_ListForProject(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	proj := createProject(t, db, "alice")
	other := createProject(t, db, "alice")

	createTask(t, db, proj.ID, "One", false)
	createTask(t, db, proj.ID, "Two", true)
	createTask(t, db, other.ID, "Elsewhere", false)

	t.Run("only project tasks", func(t *testing.T) {
		tasks, err := svc.ListForProject(ctx, proj.ID, "alice")
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("unauthorized caller", func(t *testing.T) {
		_, err := svc.ListForProject(ctx, proj.ID, "mallory")
		assert.ErrorIs(t, err, project.ErrUnauthorized)
	})
}

func TestService_ToggleCompletion(t *testing.T) {
	svc, guard, db := setupService(t)
	ctx := context.Background()
	proj := createProject(t, db, "alice")
	task := createTask(t, db, proj.ID, "Flip me", false)

	t.Run("toggle twice restores original state", func(t *testing.T) {
		toggled, err := svc.ToggleCompletion(ctx, task.ID, "alice")
		require.NoError(t, err)
		assert.True(t, toggled.IsCompleted)

		toggled, err = svc.ToggleCompletion(ctx, task.ID, "alice")
		require.NoError(t, err)
		assert.False(t, toggled.IsCompleted)

		assert.Contains(t, guard.invalidated, proj.ID)
	})

	t.Run("other user sees not found", func(t *testing.T) {
		_, err := svc.ToggleCompletion(ctx, task.ID, "mallory")
		assert.ErrorIs(t, err, ErrNotFound)

		var found domain.Task
		require.NoError(t, db.First(&found, "id = ?", task.ID).Error)
		assert.False(t, found.IsCompleted)
	})
}

func TestService_Delete(t *testing.T) {
	svc, guard, db := setupService(t)
	ctx := context.Background()
	proj := createProject(t, db, "alice")

	t.Run("deletes and invalidates", func(t *testing.T) {
		task := createTask(t, db, proj.ID, "Short-lived", false)

		require.NoError(t, svc.Delete(ctx, task.ID, "alice"))

		var count int64
		db.Model(&domain.Task{}).Where("id = ?", task.ID).Count(&count)
		assert.Zero(t, count)
		assert.Contains(t, guard.invalidated, proj.ID)
	})

	t.Run("idempotent for missing task", func(t *testing.T) {
		assert.NoError(t, svc.Delete(ctx, "no-such-task", "alice"))
	})

	t.Run("other user's delete is a no-op", func(t *testing.T) {
		task := createTask(t, db, proj.ID, "Still here", false)

		require.NoError(t, svc.Delete(ctx, task.ID, "mallory"))

		var count int64
		db.Model(&domain.Task{}).Where("id = ?", task.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})
}

func strPtr(s string) *string {
	return &s
}

func TestService_Update(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()
	proj := createProject(t, db, "alice")

	t.Run("title only leaves description", func(t *testing.T) {
		task := createTask(t, db, proj.ID, "Old title", false)
		require.NoError(t, db.Model(task).Update("description", "keep me").Error)

		updated, err := svc.Update(ctx, task.ID, "alice", strPtr("New title"), nil)
		require.NoError(t, err)

		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, "keep me", updated.Description)
	})

	t.Run("description only leaves title", func(t *testing.T) {
		task := createTask(t, db, proj.ID, "Keep title", false)

		updated, err := svc.Update(ctx, task.ID, "alice", nil, strPtr("new description"))
		require.NoError(t, err)

		assert.Equal(t, "Keep title", updated.Title)
		assert.Equal(t, "new description", updated.Description)
	})

	t.Run("title is trimmed", func(t *testing.T) {
		task := createTask(t, db, proj.ID, "Before", false)

		updated, err := svc.Update(ctx, task.ID, "alice", strPtr("  Padded  "), nil)
		require.NoError(t, err)
		assert.Equal(t, "Padded", updated.Title)
	})

	t.Run("empty description is stored verbatim", func(t *testing.T) {
		task := createTask(t, db, proj.ID, "Title", false)
		require.NoError(t, db.Model(task).Update("description", "about to vanish").Error)

		updated, err := svc.Update(ctx, task.ID, "alice", nil, strPtr(""))
		require.NoError(t, err)
		assert.Equal(t, "", updated.Description)
	})

	t.Run("blank title rejects the whole patch", func(t *testing.T) {
		task := createTask(t, db, proj.ID, "Survivor", false)
		require.NoError(t, db.Model(task).Update("description", "also survives").Error)

		_, err := svc.Update(ctx, task.ID, "alice", strPtr("   "), strPtr("must not land"))
		assert.ErrorIs(t, err, ErrBlankTitle)

		// Nothing from the rejected patch may be persisted.
		var found domain.Task
		require.NoError(t, db.First(&found, "id = ?", task.ID).Error)
		assert.Equal(t, "Survivor", found.Title)
		assert.Equal(t, "also survives", found.Description)
	})

	t.Run("other user sees not found", func(t *testing.T) {
		task := createTask(t, db, proj.ID, "Private", false)

		_, err := svc.Update(ctx, task.ID, "mallory", strPtr("Taken"), nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty patch writes nothing", func(t *testing.T) {
		task := createTask(t, db, proj.ID, "Untouched", false)

		var before domain.Task
		require.NoError(t, db.First(&before, "id = ?", task.ID).Error)

		updated, err := svc.Update(ctx, task.ID, "alice", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Untouched", updated.Title)

		var after domain.Task
		require.NoError(t, db.First(&after, "id = ?", task.ID).Error)
		assert.True(t, after.UpdatedAt.Equal(before.UpdatedAt),
			"no-op patch must not touch UpdatedAt")
	})
}
