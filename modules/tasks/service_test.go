package tasks

import (
	"testing"
	"time"

	domain "github.com/example/taskmanager/domain/task"
	"github.com/example/taskmanager/domain/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestService wires a TaskService against an in-memory database with a
// frozen clock so "today" is stable.
func newTestService(t *testing.T) (*TaskService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	service := NewTaskService(NewTaskRepository(db))
	service.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return service, db
}

func strPtr(s string) *string {
	return &s
}

func validInput() TaskInput {
	return TaskInput{
		Title:       strPtr("Task title"),
		Description: strPtr("Task description"),
		DueDate:     strPtr("2025-06-20"),
	}
}

func TestTaskService_Create(t *testing.T) {
	t.Run("creates a task in state TO_DO", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)

		task, fieldErrs, err := service.Create(owner, validInput())
		require.NoError(t, err)
		require.Nil(t, fieldErrs)

		assert.NotEmpty(t, task.ID)
		assert.Equal(t, owner, task.OwnerID)
		assert.Equal(t, domain.StateToDo, task.State)
		assert.Equal(t, "2025-06-20", task.DueDate)
	})

	t.Run("due today is accepted", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)

		input := validInput()
		input.DueDate = strPtr("2025-06-15")

		_, fieldErrs, err := service.Create(owner, input)
		require.NoError(t, err)
		assert.Nil(t, fieldErrs)
	})

	t.Run("rejects a past due date without mutation", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)

		input := validInput()
		input.DueDate = strPtr("2025-06-14")

		task, fieldErrs, err := service.Create(owner, input)
		require.NoError(t, err)
		assert.Nil(t, task)
		assert.Equal(t, []string{MsgDueDatePast}, fieldErrs["due_date"])

		var count int64
		db.Model(&domain.Task{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("rejects a malformed due date", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)

		input := validInput()
		input.DueDate = strPtr("20-06-2025")

		_, fieldErrs, err := service.Create(owner, input)
		require.NoError(t, err)
		assert.Equal(t, []string{MsgDueDateFormat}, fieldErrs["due_date"])
	})

	t.Run("rejects missing and blank fields", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)

		_, fieldErrs, err := service.Create(owner, TaskInput{Title: strPtr("  ")})
		require.NoError(t, err)
		assert.Equal(t, []string{validation.MsgBlank}, fieldErrs["title"])
		assert.Equal(t, []string{validation.MsgRequired}, fieldErrs["description"])
		assert.Equal(t, []string{validation.MsgRequired}, fieldErrs["due_date"])
	})

	t.Run("rejects an overlong title", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)

		long := make([]byte, MaxTitleLength+1)
		for i := range long {
			long[i] = 'a'
		}
		input := validInput()
		input.Title = strPtr(string(long))

		_, fieldErrs, err := service.Create(owner, input)
		require.NoError(t, err)
		assert.Equal(t, []string{MsgTitleTooLong}, fieldErrs["title"])
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		service, _ := newTestService(t)

		_, _, err := service.Create("", validInput())
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestTaskService_GetAndList(t *testing.T) {
	service, db := newTestService(t)
	owner := newOwner(t, db)
	stranger := newOwner(t, db)

	upcoming := newTask(t, db, owner, "2025-06-20", domain.StateToDo)
	pastDue := newTask(t, db, owner, "2025-06-10", domain.StateToDo)

	t.Run("owner reads a visible task", func(t *testing.T) {
		task, err := service.Get(owner, upcoming.ID)
		require.NoError(t, err)
		assert.Equal(t, upcoming.ID, task.ID)
	})

	t.Run("past-due task is hidden from its own owner", func(t *testing.T) {
		_, err := service.Get(owner, pastDue.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("visible task owned by someone else is forbidden", func(t *testing.T) {
		_, err := service.Get(stranger, upcoming.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("anonymous caller is forbidden before any lookup", func(t *testing.T) {
		_, err := service.Get("", upcoming.ID)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = service.List("", "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("listing excludes past-due and foreign tasks", func(t *testing.T) {
		tasks, err := service.List(owner, "")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, upcoming.ID, tasks[0].ID)
	})
}

func TestTaskService_Update(t *testing.T) {
	t.Run("full update replaces every writable field", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)
		task := newTask(t, db, owner, "2025-06-20", domain.StateInProgress)

		updated, fieldErrs, err := service.Update(owner, task.ID, TaskInput{
			Title:       strPtr("New Task title"),
			Description: strPtr("New Task description"),
			DueDate:     strPtr("2025-06-25"),
		}, false)
		require.NoError(t, err)
		require.Nil(t, fieldErrs)

		assert.Equal(t, "New Task title", updated.Title)
		assert.Equal(t, "2025-06-25", updated.DueDate)
		// State is untouched by updates.
		assert.Equal(t, domain.StateInProgress, updated.State)
	})

	t.Run("full update requires every field", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)
		task := newTask(t, db, owner, "2025-06-20", domain.StateToDo)

		_, fieldErrs, err := service.Update(owner, task.ID, TaskInput{
			Title: strPtr("New Task title"),
		}, false)
		require.NoError(t, err)
		assert.Equal(t, []string{validation.MsgRequired}, fieldErrs["description"])
		assert.Equal(t, []string{validation.MsgRequired}, fieldErrs["due_date"])
	})

	t.Run("partial update touches only supplied fields", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)
		task := newTask(t, db, owner, "2025-06-20", domain.StateToDo)

		updated, fieldErrs, err := service.Update(owner, task.ID, TaskInput{
			DueDate: strPtr("2025-06-16"),
		}, true)
		require.NoError(t, err)
		require.Nil(t, fieldErrs)

		assert.Equal(t, task.Title, updated.Title)
		assert.Equal(t, "2025-06-16", updated.DueDate)
	})

	t.Run("validation failure aborts the whole write", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)
		task := newTask(t, db, owner, "2025-06-20", domain.StateToDo)

		_, fieldErrs, err := service.Update(owner, task.ID, TaskInput{
			Title:   strPtr("New Task title"),
			DueDate: strPtr("2025-06-01"),
		}, true)
		require.NoError(t, err)
		assert.Equal(t, []string{MsgDueDatePast}, fieldErrs["due_date"])

		unchanged, err := service.Get(owner, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Title, unchanged.Title)
		assert.Equal(t, task.DueDate, unchanged.DueDate)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)
		stranger := newOwner(t, db)
		task := newTask(t, db, owner, "2025-06-20", domain.StateToDo)

		_, _, err := service.Update(stranger, task.ID, validInput(), false)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestTaskService_Delete(t *testing.T) {
	service, db := newTestService(t)
	owner := newOwner(t, db)
	stranger := newOwner(t, db)
	task := newTask(t, db, owner, "2025-06-20", domain.StateToDo)

	require.ErrorIs(t, service.Delete(stranger, task.ID), ErrForbidden)
	require.ErrorIs(t, service.Delete("", task.ID), ErrForbidden)

	require.NoError(t, service.Delete(owner, task.ID))

	var count int64
	db.Model(&domain.Task{}).Where("id = ?", task.ID).Count(&count)
	assert.Zero(t, count)

	require.ErrorIs(t, service.Delete(owner, task.ID), ErrTaskNotFound)
}

func TestTaskService_Mark(t *testing.T) {
	t.Run("marks through the whole lifecycle", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)
		task := newTask(t, db, owner, "2025-06-20", domain.StateToDo)

		for _, target := range []domain.State{
			domain.StateInProgress,
			domain.StateToDo,
			domain.StateInProgress,
			domain.StateInProgress, // self transition
			domain.StateDone,
		} {
			marked, fieldErrs, err := service.Mark(owner, task.ID, target)
			require.NoError(t, err)
			require.Nil(t, fieldErrs)
			assert.Equal(t, target, marked.State)
		}
	})

	t.Run("done is absorbing", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)
		task := newTask(t, db, owner, "2025-06-20", domain.StateDone)

		for _, target := range []domain.State{
			domain.StateToDo,
			domain.StateInProgress,
			domain.StateDone,
		} {
			_, fieldErrs, err := service.Mark(owner, task.ID, target)
			require.NoError(t, err)
			assert.Equal(t, []string{MsgTaskAlreadyDone}, fieldErrs["state"])
		}

		unchanged, err := service.Get(owner, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateDone, unchanged.State)
	})

	t.Run("past-due task cannot be transitioned even by its owner", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)
		task := newTask(t, db, owner, "2025-06-10", domain.StateToDo)

		_, _, err := service.Mark(owner, task.ID, domain.StateDone)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("rejects an unknown target state", func(t *testing.T) {
		service, db := newTestService(t)
		owner := newOwner(t, db)
		task := newTask(t, db, owner, "2025-06-20", domain.StateToDo)

		_, _, err := service.Mark(owner, task.ID, domain.State("CANCELLED"))
		assert.Error(t, err)
	})
}
