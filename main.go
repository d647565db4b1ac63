package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/taskmanager/modules/api"
	"github.com/example/taskmanager/modules/auth"
	"github.com/example/taskmanager/modules/tasks"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Task Manager ===")

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
	// Order: independent modules first, then dependent modules.
	// The auth module migrates the users table the tasks table references,
	// so it must start before the tasks module.
	app.Register(auth.NewModule())
	app.Register(tasks.NewModule())
	app.Register(api.NewModule()) // Depends on auth and tasks modules

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
	log.Println("  POST   /users/registration  - Create a user account")
	log.Println("  POST   /users/login         - Log in (sets session cookie)")
	log.Println("  POST   /users/logout        - Log out")
	log.Println("  GET    /health              - Health check")
	log.Println("")
	log.Println("  Session Endpoints (require sessionid cookie):")
	log.Println("  GET    /tasks                       - List upcoming tasks")
	log.Println("  POST   /tasks                       - Create a task")
	log.Println("  GET    /tasks/:id                   - Get a task")
	log.Println("  PUT    /tasks/:id                   - Update a task")
	log.Println("  PATCH  /tasks/:id                   - Partially update a task")
	log.Println("  DELETE /tasks/:id                   - Delete a task")
	log.Println("  POST   /tasks/:id/mark_to_do        - Move a task back to to do")
	log.Println("  POST   /tasks/:id/mark_in_progress  - Mark a task in progress")
	log.Println("  POST   /tasks/:id/mark_done         - Mark a task done")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
