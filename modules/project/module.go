package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/redis/go-redis/v9"
	domain "github.com/taskflow/taskflow-api/domain/project"
	"github.com/taskflow/taskflow-api/modules/cache"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ProjectModule provides ownership-scoped project services.
type ProjectModule struct {
	db      *gorm.DB
	service *Service
	cache   *cache.Cache
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*ProjectModule)(nil)
var _ mono.ServiceProviderModule = (*ProjectModule)(nil)
var _ mono.HealthCheckableModule = (*ProjectModule)(nil)

// NewModule creates a new ProjectModule.
func NewModule() *ProjectModule {
	dbPath := os.Getenv("TASKFLOW_DB_PATH")
	if dbPath == "" {
		dbPath = "taskflow.db"
	}
	return &ProjectModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *ProjectModule) Name() string {
	return "project"
}

// Start initializes the project module.
func (m *ProjectModule) Start(ctx context.Context) error {
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

	if err := db.AutoMigrate(&domain.Project{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Progress caching is opt-in; without Redis every request computes the
	// aggregate from the database.
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
		}
		cfg := cache.DefaultConfig()
		m.cache = cache.New(client, cfg.Prefix, cfg.TTL)
		log.Printf("[project] Progress cache enabled (redis: %s)", addr)
	}

	m.service = NewService(NewRepository(db), m.cache)

	log.Printf("[project] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *ProjectModule) Stop(_ context.Context) error {
	if m.cache != nil {
		m.cache.Close()
	}
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[project] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *ProjectModule) Health(ctx context.Context) mono.HealthStatus {
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

	details := map[string]any{
		"database": m.dbPath,
		"cache":    m.cache != nil,
	}

	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("redis ping failed: %v", err),
				Details: details,
			}
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *ProjectModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(mono.ServiceContainer) error{
		"create": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "create", json.Unmarshal, json.Marshal, m.handleCreate)
		},
		"list": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "list", json.Unmarshal, json.Marshal, m.handleList)
		},
		"get": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get", json.Unmarshal, json.Marshal, m.handleGet)
		},
		"update": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "update", json.Unmarshal, json.Marshal, m.handleUpdate)
		},
		"delete": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "delete", json.Unmarshal, json.Marshal, m.handleDelete)
		},
		"progress": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "progress", json.Unmarshal, json.Marshal, m.handleProgress)
		},
		"validate-ownership": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "validate-ownership", json.Unmarshal, json.Marshal, m.handleValidateOwnership)
		},
		"invalidate-progress": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "invalidate-progress", json.Unmarshal, json.Marshal, m.handleInvalidateProgress)
		},
	}

	for name, register := range services {
		if err := register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[project] Registered services: create, list, get, update, delete, progress, validate-ownership, invalidate-progress")
	return nil
}

func (m *ProjectModule) handleCreate(ctx context.Context, req CreateProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	if req.UserID == "" {
		return ProjectResponse{}, fmt.Errorf("user_id is required")
	}

	project, err := m.service.Create(ctx, req.UserID, req.Title, req.Description)
	if err != nil {
		return ProjectResponse{}, err
	}

	return toProjectResponse(project), nil
}

func (m *ProjectModule) handleList(ctx context.Context, req ListProjectsRequest, _ *mono.Msg) (ListProjectsResponse, error) {
	if req.UserID == "" {
		return ListProjectsResponse{}, fmt.Errorf("user_id is required")
	}

	projects, err := m.service.ListForUser(ctx, req.UserID)
	if err != nil {
		return ListProjectsResponse{}, err
	}

	resp := ListProjectsResponse{
		Projects: make([]ProjectResponse, 0, len(projects)),
		Total:    len(projects),
	}
	for _, project := range projects {
		resp.Projects = append(resp.Projects, toProjectResponse(project))
	}

	return resp, nil
}

func (m *ProjectModule) handleGet(ctx context.Context, req GetProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	if req.ID == "" || req.UserID == "" {
		return ProjectResponse{}, fmt.Errorf("id and user_id are required")
	}

	project, err := m.service.GetByID(ctx, req.ID, req.UserID)
	if err != nil {
		return ProjectResponse{}, err
	}

	return toProjectResponse(project), nil
}

func (m *ProjectModule) handleUpdate(ctx context.Context, req UpdateProjectRequest, _ *mono.Msg) (ProjectResponse, error) {
	if req.ID == "" || req.UserID == "" {
		return ProjectResponse{}, fmt.Errorf("id and user_id are required")
	}

	project, err := m.service.Update(ctx, req.ID, req.UserID, req.Title, req.Description)
	if err != nil {
		return ProjectResponse{}, err
	}

	return toProjectResponse(project), nil
}

func (m *ProjectModule) handleDelete(ctx context.Context, req DeleteProjectRequest, _ *mono.Msg) (DeleteProjectResponse, error) {
	if req.ID == "" || req.UserID == "" {
		return DeleteProjectResponse{}, fmt.Errorf("id and user_id are required")
	}

	if err := m.service.Delete(ctx, req.ID, req.UserID); err != nil {
		return DeleteProjectResponse{ID: req.ID}, err
	}

	return DeleteProjectResponse{Deleted: true, ID: req.ID}, nil
}

func (m *ProjectModule) handleProgress(ctx context.Context, req GetProgressRequest, _ *mono.Msg) (ProgressResponse, error) {
	if req.ID == "" || req.UserID == "" {
		return ProgressResponse{}, fmt.Errorf("id and user_id are required")
	}

	progress, err := m.service.GetProgress(ctx, req.ID, req.UserID)
	if err != nil {
		return ProgressResponse{}, err
	}

	return *progress, nil
}

// handleValidateOwnership reports the guard outcome as data, not as a
// service error, so the calling module can distinguish "denied" from
// transport failures.
func (m *ProjectModule) handleValidateOwnership(ctx context.Context, req ValidateOwnershipRequest, _ *mono.Msg) (ValidateOwnershipResponse, error) {
	if req.ProjectID == "" || req.UserID == "" {
		return ValidateOwnershipResponse{}, fmt.Errorf("project_id and user_id are required")
	}

	if err := m.service.ValidateOwnership(ctx, req.ProjectID, req.UserID); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return ValidateOwnershipResponse{Authorized: false, Error: err.Error()}, nil
		}
		return ValidateOwnershipResponse{}, err
	}

	return ValidateOwnershipResponse{Authorized: true}, nil
}

func (m *ProjectModule) handleInvalidateProgress(ctx context.Context, req InvalidateProgressRequest, _ *mono.Msg) (InvalidateProgressResponse, error) {
	if req.ProjectID == "" {
		return InvalidateProgressResponse{}, fmt.Errorf("project_id is required")
	}

	m.service.InvalidateProgress(ctx, req.ProjectID)
	return InvalidateProgressResponse{Invalidated: true}, nil
}

// toProjectResponse converts a Project entity to a ProjectResponse.
func toProjectResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}
