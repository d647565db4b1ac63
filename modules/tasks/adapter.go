package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TasksPort defines the interface for task operations. This is the port
// other modules use to access task functionality.
type TasksPort interface {
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	Get(ctx context.Context, req GetTaskRequest) (TaskResponse, error)
	List(ctx context.Context, req ListTasksRequest) (ListTasksResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, req DeleteTaskRequest) (DeleteTaskResponse, error)
	Mark(ctx context.Context, req MarkTaskRequest) (TaskResponse, error)
}

// TasksAdapter implements TasksPort using the service container.
type TasksAdapter struct {
	container mono.ServiceContainer
}

// NewTasksAdapter creates a new TasksAdapter.
func NewTasksAdapter(container mono.ServiceContainer) *TasksAdapter {
	return &TasksAdapter{
		container: container,
	}
}

// Create creates a task.
func (a *TasksAdapter) Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	if err := a.call(ctx, "create-task", &req, &resp); err != nil {
		return TaskResponse{}, err
	}
	return resp, nil
}

// Get retrieves a single task.
func (a *TasksAdapter) Get(ctx context.Context, req GetTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	if err := a.call(ctx, "get-task", &req, &resp); err != nil {
		return TaskResponse{}, err
	}
	return resp, nil
}

// List retrieves the caller's visible tasks.
func (a *TasksAdapter) List(ctx context.Context, req ListTasksRequest) (ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := a.call(ctx, "list-tasks", &req, &resp); err != nil {
		return ListTasksResponse{}, err
	}
	return resp, nil
}

// Update applies a full or partial task update.
func (a *TasksAdapter) Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	if err := a.call(ctx, "update-task", &req, &resp); err != nil {
		return TaskResponse{}, err
	}
	return resp, nil
}

// Delete removes a task.
func (a *TasksAdapter) Delete(ctx context.Context, req DeleteTaskRequest) (DeleteTaskResponse, error) {
	var resp DeleteTaskResponse
	if err := a.call(ctx, "delete-task", &req, &resp); err != nil {
		return DeleteTaskResponse{}, err
	}
	return resp, nil
}

// Mark applies a lifecycle transition.
func (a *TasksAdapter) Mark(ctx context.Context, req MarkTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	if err := a.call(ctx, "mark-task", &req, &resp); err != nil {
		return TaskResponse{}, err
	}
	return resp, nil
}

func (a *TasksAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}
