package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	domain "github.com/example/taskmanager/domain/task"
	"github.com/example/taskmanager/domain/validation"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TasksModule provides task services.
type TasksModule struct {
	db      *gorm.DB
	service *TaskService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*TasksModule)(nil)
var _ mono.ServiceProviderModule = (*TasksModule)(nil)
var _ mono.HealthCheckableModule = (*TasksModule)(nil)

// NewModule creates a new TasksModule.
func NewModule() *TasksModule {
	dbPath := os.Getenv("TASKMANAGER_DB_PATH")
	if dbPath == "" {
		dbPath = "taskmanager.db"
	}
	return &TasksModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TasksModule) Name() string {
	return "tasks"
}

// Start initializes the tasks module. The auth module has already
// migrated the users table the task owner constraint references.
func (m *TasksModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewTaskRepository(db)
	m.service = NewTaskService(repo)

	log.Printf("[tasks] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TasksModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[tasks] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TasksModule) Health(_ context.Context) mono.HealthStatus {
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

	if err := sqlDB.Ping(); err != nil {
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
func (m *TasksModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func(mono.ServiceContainer) error{
		"create-task": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "create-task", json.Unmarshal, json.Marshal, m.handleCreate)
		},
		"get-task": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "get-task", json.Unmarshal, json.Marshal, m.handleGet)
		},
		"list-tasks": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "list-tasks", json.Unmarshal, json.Marshal, m.handleList)
		},
		"update-task": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "update-task", json.Unmarshal, json.Marshal, m.handleUpdate)
		},
		"delete-task": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "delete-task", json.Unmarshal, json.Marshal, m.handleDelete)
		},
		"mark-task": func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "mark-task", json.Unmarshal, json.Marshal, m.handleMark)
		},
	}

	for name, register := range services {
		if err := register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[tasks] Registered services: create-task, get-task, list-tasks, update-task, delete-task, mark-task")
	return nil
}

// handleCreate handles task creation.
func (m *TasksModule) handleCreate(_ context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, fieldErrs, err := m.service.Create(req.UserID, req.TaskInput)
	return taskOutcome(task, fieldErrs, err)
}

// handleGet handles a single task lookup.
func (m *TasksModule) handleGet(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.Get(req.UserID, req.TaskID)
	return taskOutcome(task, nil, err)
}

// handleList handles task listing.
func (m *TasksModule) handleList(_ context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(req.UserID, req.DueDate)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return ListTasksResponse{Forbidden: true}, nil
		}
		return ListTasksResponse{}, err
	}

	payloads := make([]TaskPayload, 0, len(tasks))
	for i := range tasks {
		payloads = append(payloads, *toTaskPayload(&tasks[i]))
	}
	return ListTasksResponse{Tasks: payloads}, nil
}

// handleUpdate handles full and partial task updates.
func (m *TasksModule) handleUpdate(_ context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, fieldErrs, err := m.service.Update(req.UserID, req.TaskID, req.TaskInput, req.Partial)
	return taskOutcome(task, fieldErrs, err)
}

// handleDelete handles task deletion.
func (m *TasksModule) handleDelete(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	err := m.service.Delete(req.UserID, req.TaskID)
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return DeleteTaskResponse{NotFound: true}, nil
	case errors.Is(err, ErrForbidden):
		return DeleteTaskResponse{Forbidden: true}, nil
	case err != nil:
		return DeleteTaskResponse{}, err
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

// handleMark handles lifecycle transitions.
func (m *TasksModule) handleMark(_ context.Context, req MarkTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, fieldErrs, err := m.service.Mark(req.UserID, req.TaskID, req.Target)
	return taskOutcome(task, fieldErrs, err)
}

// taskOutcome maps a service result onto the wire response. Validation
// failures and authorization outcomes ride in the response; only
// infrastructure failures surface as errors.
func taskOutcome(task *domain.Task, fieldErrs validation.FieldErrors, err error) (TaskResponse, error) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return TaskResponse{NotFound: true}, nil
	case errors.Is(err, ErrForbidden):
		return TaskResponse{Forbidden: true}, nil
	case err != nil:
		return TaskResponse{}, err
	}

	if fieldErrs != nil {
		return TaskResponse{Errors: fieldErrs}, nil
	}
	return TaskResponse{Task: toTaskPayload(task)}, nil
}
