package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/taskflow/taskflow-api/modules/api"
	"github.com/taskflow/taskflow-api/modules/auth"
	"github.com/taskflow/taskflow-api/modules/project"
	"github.com/taskflow/taskflow-api/modules/task"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== TaskFlow API ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule())    // Independent module (users + tokens)
	app.Register(project.NewModule()) // Independent module (projects + progress)
	app.Register(task.NewModule())    // Depends on project module
	app.Register(api.NewModule())     // Depends on auth, project and task modules

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/auth/register              - Register a new user")
	log.Println("  POST   /api/auth/login                 - Login and get a token")
	log.Println("  GET    /health                         - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  POST   /api/projects                   - Create a project")
	log.Println("  GET    /api/projects                   - List your projects")
	log.Println("  GET    /api/projects/:id               - Get a project")
	log.Println("  PUT    /api/projects/:id               - Update a project")
	log.Println("  DELETE /api/projects/:id               - Delete a project and its tasks")
	log.Println("  GET    /api/projects/:id/progress      - Project progress summary")
	log.Println("  POST   /api/projects/:id/tasks         - Create a task in a project")
	log.Println("  GET    /api/projects/:id/tasks         - List tasks in a project")
	log.Println("  PATCH  /api/tasks/:id                  - Update a task (partial)")
	log.Println("  PATCH  /api/tasks/:id/complete         - Toggle task completion")
	log.Println("  DELETE /api/tasks/:id                  - Delete a task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
