package tasks

import (
	domain "github.com/example/taskmanager/domain/task"
	"github.com/example/taskmanager/domain/validation"
)

// TaskInput carries the client-writable task fields. Pointers distinguish
// absent fields from blank ones for partial updates. There is deliberately
// no state field: state changes only through the mark operations.
type TaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

// TaskPayload is the client-facing representation of a task. The owner is
// never serialized.
type TaskPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	State       string `json:"state"`
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	UserID string `json:"user_id"`
	TaskInput
}

// GetTaskRequest represents a single task lookup.
type GetTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// ListTasksRequest represents a task listing request. DueDate optionally
// narrows the visible set to an exact due date.
type ListTasksRequest struct {
	UserID  string `json:"user_id"`
	DueDate string `json:"due_date,omitempty"`
}

// ListTasksResponse represents a task listing response, ordered by due date.
type ListTasksResponse struct {
	Tasks     []TaskPayload `json:"tasks"`
	Forbidden bool          `json:"forbidden,omitempty"`
}

// UpdateTaskRequest represents a full or partial task update.
type UpdateTaskRequest struct {
	UserID  string `json:"user_id"`
	TaskID  string `json:"task_id"`
	Partial bool   `json:"partial"`
	TaskInput
}

// DeleteTaskRequest represents a task deletion request.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse represents a task deletion response.
type DeleteTaskResponse struct {
	Deleted   bool `json:"deleted"`
	NotFound  bool `json:"not_found,omitempty"`
	Forbidden bool `json:"forbidden,omitempty"`
}

// MarkTaskRequest represents a lifecycle transition request.
type MarkTaskRequest struct {
	UserID string       `json:"user_id"`
	TaskID string       `json:"task_id"`
	Target domain.State `json:"target"`
}

// TaskResponse represents the outcome of a single-task operation. Exactly
// one of Task, NotFound, Forbidden or Errors is set.
type TaskResponse struct {
	Task      *TaskPayload           `json:"task,omitempty"`
	NotFound  bool                   `json:"not_found,omitempty"`
	Forbidden bool                   `json:"forbidden,omitempty"`
	Errors    validation.FieldErrors `json:"errors,omitempty"`
}

func toTaskPayload(t *domain.Task) *TaskPayload {
	return &TaskPayload{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		State:       string(t.State),
	}
}
