package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/task-tracker-demo/modules/api"
	"github.com/example/task-tracker-demo/modules/auth"
	"github.com/example/task-tracker-demo/modules/stats"
	"github.com/example/task-tracker-demo/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Task Tracker Demo ===")

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
	app.Register(auth.NewModule())  // Independent module (credentials + tokens)
	app.Register(task.NewModule())  // Independent module (task storage)
	app.Register(stats.NewModule()) // Depends on task module
	app.Register(api.NewModule())   // Depends on auth, task and stats modules

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
	log.Println("  POST   /auth/register       - Register a new user")
	log.Println("  POST   /auth/login          - Login and get an access token")
	log.Println("  GET    /health              - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /auth/me             - Current user info")
	log.Println("  POST   /tasks               - Create a task")
	log.Println("  GET    /tasks               - List tasks (optional ?status_filter=)")
	log.Println("  GET    /tasks/:id           - Get a task")
	log.Println("  PUT    /tasks/:id           - Update a task")
	log.Println("  DELETE /tasks/:id           - Delete a task")
	log.Println("  GET    /tasks/weekly-stats  - Weekly completion statistics")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
