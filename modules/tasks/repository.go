package tasks

import (
	"errors"
	"fmt"

	domain "github.com/example/taskmanager/domain/task"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when a task is missing or not visible.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository handles task persistence using GORM. Every read goes
// through the visibility window: tasks whose due date has passed stay in
// storage but are excluded from all lookups.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create saves a new task.
func (r *TaskRepository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindVisible retrieves a task by id if its due date has not passed.
// Ownership is not part of the lookup; the service checks it afterwards so
// that a visible task owned by someone else reads as forbidden, not missing.
func (r *TaskRepository) FindVisible(id, today string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.First(&task, "id = ? AND due_date >= ?", id, today).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindUpcoming retrieves the owner's visible tasks ascending by due date.
// A non-empty dueDate narrows the set to that exact date.
func (r *TaskRepository) FindUpcoming(ownerID, today, dueDate string) ([]domain.Task, error) {
	query := r.db.Where("owner_id = ? AND due_date >= ?", ownerID, today)
	if dueDate != "" {
		query = query.Where("due_date = ?", dueDate)
	}

	var tasks []domain.Task
	if err := query.Order("due_date ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// Save persists all fields of an existing task. Last write wins; there is
// no version check.
func (r *TaskRepository) Save(task *domain.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete removes a task by id.
func (r *TaskRepository) Delete(id string) error {
	result := r.db.Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
