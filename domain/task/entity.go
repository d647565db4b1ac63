package task

import (
	"errors"
	"time"

	"github.com/example/taskmanager/domain/user"
)

// State is the lifecycle state of a task.
type State string

const (
	StateToDo       State = "TO_DO"
	StateInProgress State = "IN_PROGRESS"
	StateDone       State = "DONE"
)

// DateLayout is the calendar-date format used for due dates.
// ISO dates compare correctly as strings, which the repository relies on.
const DateLayout = "2006-01-02"

// ErrTaskDone is returned when a transition is attempted on a done task.
var ErrTaskDone = errors.New("task is already done")

// Valid reports whether s is one of the three known states.
func (s State) Valid() bool {
	switch s {
	case StateToDo, StateInProgress, StateDone:
		return true
	}
	return false
}

// Task represents a single task owned by exactly one user.
type Task struct {
	ID          string    `gorm:"primaryKey;type:text"`
	OwnerID     string    `gorm:"index;not null;type:text"`
	Owner       user.User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Title       string    `gorm:"not null;type:text"`
	Description string    `gorm:"type:text"`
	DueDate     string    `gorm:"index;not null;type:text"`
	State       State     `gorm:"not null;type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Mark applies a lifecycle transition. DONE is absorbing: once a task is
// done no further transition succeeds, whatever the target. Any other
// transition is allowed, including marking a task with its current state.
func (t *Task) Mark(target State) error {
	if t.State == StateDone {
		return ErrTaskDone
	}
	t.State = target
	return nil
}
