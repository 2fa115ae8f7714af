package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	domain "github.com/taskflow/taskflow-api/domain/task"
	"github.com/taskflow/taskflow-api/modules/project"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule provides task services scoped to project ownership.
type TaskModule struct {
	db               *gorm.DB
	service          *Service
	dbPath           string
	projectContainer mono.ServiceContainer
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.DependentModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule.
func NewModule() *TaskModule {
	dbPath := os.Getenv("TASKFLOW_DB_PATH")
	if dbPath == "" {
		dbPath = "taskflow.db"
	}
	return &TaskModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// Dependencies returns the list of module dependencies.
func (m *TaskModule) Dependencies() []string {
	return []string{"project"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *TaskModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "project" {
		m.projectContainer = container
	}
}

// Start initializes the task module.
func (m *TaskModule) Start(_ context.Context) error {
	if m.projectContainer == nil {
		return fmt.Errorf("project dependency not set")
	}

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	guard := project.NewAdapter(m.projectContainer)
	m.service = NewService(NewRepository(db), guard)

	log.Printf("[task] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(mono.ServiceContainer) error{
		"create": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "create", json.Unmarshal, json.Marshal, m.handleCreate)
		},
		"list-for-project": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "list-for-project", json.Unmarshal, json.Marshal, m.handleListForProject)
		},
		"toggle": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "toggle", json.Unmarshal, json.Marshal, m.handleToggle)
		},
		"update": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "update", json.Unmarshal, json.Marshal, m.handleUpdate)
		},
		"delete": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "delete", json.Unmarshal, json.Marshal, m.handleDelete)
		},
	}

	for name, register := range services {
		if err := register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[task] Registered services: create, list-for-project, toggle, update, delete")
	return nil
}

func (m *TaskModule) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.ProjectID == "" || req.UserID == "" {
		return TaskResponse{}, fmt.Errorf("project_id and user_id are required")
	}

	task, err := m.service.Create(ctx, req.ProjectID, req.UserID, req.Title, req.Description, req.DueDate)
	if err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(task), nil
}

func (m *TaskModule) handleListForProject(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if req.ProjectID == "" || req.UserID == "" {
		return ListTasksResponse{}, fmt.Errorf("project_id and user_id are required")
	}

	tasks, err := m.service.ListForProject(ctx, req.ProjectID, req.UserID)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(task))
	}

	return resp, nil
}

func (m *TaskModule) handleToggle(ctx context.Context, req ToggleTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.ID == "" || req.UserID == "" {
		return TaskResponse{}, fmt.Errorf("id and user_id are required")
	}

	task, err := m.service.ToggleCompletion(ctx, req.ID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(task), nil
}

func (m *TaskModule) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.ID == "" || req.UserID == "" {
		return TaskResponse{}, fmt.Errorf("id and user_id are required")
	}

	task, err := m.service.Update(ctx, req.ID, req.UserID, req.Title, req.Description)
	if err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(task), nil
}

func (m *TaskModule) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if req.ID == "" || req.UserID == "" {
		return DeleteTaskResponse{}, fmt.Errorf("id and user_id are required")
	}

	if err := m.service.Delete(ctx, req.ID, req.UserID); err != nil {
		return DeleteTaskResponse{ID: req.ID}, err
	}

	return DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}

// toTaskResponse converts a Task entity to a TaskResponse.
func toTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		IsCompleted: task.IsCompleted,
		ProjectID:   task.ProjectID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
