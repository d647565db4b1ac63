package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/taskmanager/domain/task"
	"github.com/example/taskmanager/domain/validation"
	"github.com/google/uuid"
)

// ErrForbidden is returned for any access a caller is not entitled to:
// both a missing identity and an identity that is not the task's owner.
// The two are intentionally indistinguishable to the caller.
var ErrForbidden = errors.New("forbidden")

// Task validation messages, surfaced verbatim to clients.
const (
	MsgDueDatePast     = "This date cannot be in the past."
	MsgDueDateFormat   = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgTitleTooLong    = "Ensure this field has no more than 128 characters."
	MsgTaskAlreadyDone = "This task is already done."
)

// MaxTitleLength bounds the task title.
const MaxTitleLength = 128

// TaskService orchestrates task operations. Every call runs the same
// pipeline: authenticate (identity handed in explicitly), narrow to the
// visible window, authorize ownership, validate, then mutate.
type TaskService struct {
	repo *TaskRepository
	now  func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  time.Now,
	}
}

// today returns the current server date in due-date format.
func (s *TaskService) today() string {
	return s.now().Format(domain.DateLayout)
}

// authorize is the ownership guard: an empty identity and a non-owner
// identity are both denied.
func authorize(identity, ownerID string) bool {
	return identity != "" && identity == ownerID
}

// visibleOwned resolves a task through the visibility window and the
// ownership guard. Past-due or missing tasks read as ErrTaskNotFound for
// everyone, including the owner; visible tasks owned by someone else read
// as ErrForbidden.
func (s *TaskService) visibleOwned(identity, taskID string) (*domain.Task, error) {
	if identity == "" {
		return nil, ErrForbidden
	}

	task, err := s.repo.FindVisible(taskID, s.today())
	if err != nil {
		return nil, err
	}
	if !authorize(identity, task.OwnerID) {
		return nil, ErrForbidden
	}
	return task, nil
}

// Create validates the input and persists a new task owned by identity.
// The initial state is always TO_DO, whatever the client sent.
func (s *TaskService) Create(identity string, in TaskInput) (*domain.Task, validation.FieldErrors, error) {
	if identity == "" {
		return nil, nil, ErrForbidden
	}

	errs := validation.FieldErrors{}
	title := s.validateTitle(in.Title, errs)
	description := s.validateDescription(in.Description, errs)
	dueDate := s.validateDueDate(in.DueDate, errs)
	if len(errs) > 0 {
		return nil, errs, nil
	}

	task := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     identity,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		State:       domain.StateToDo,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, nil, err
	}
	return task, nil, nil
}

// Get returns a single visible task owned by identity.
func (s *TaskService) Get(identity, taskID string) (*domain.Task, error) {
	return s.visibleOwned(identity, taskID)
}

// List returns the identity's visible tasks ascending by due date,
// optionally narrowed to an exact due date.
func (s *TaskService) List(identity, dueDate string) ([]domain.Task, error) {
	if identity == "" {
		return nil, ErrForbidden
	}
	return s.repo.FindUpcoming(identity, s.today(), dueDate)
}

// Update applies a full (PUT) or partial (PATCH) update. State is not
// writable through this path. Validation failures abort the whole write.
func (s *TaskService) Update(identity, taskID string, in TaskInput, partial bool) (*domain.Task, validation.FieldErrors, error) {
	task, err := s.visibleOwned(identity, taskID)
	if err != nil {
		return nil, nil, err
	}

	errs := validation.FieldErrors{}
	var title, description, dueDate string
	if !partial || in.Title != nil {
		title = s.validateTitle(in.Title, errs)
	}
	if !partial || in.Description != nil {
		description = s.validateDescription(in.Description, errs)
	}
	if !partial || in.DueDate != nil {
		dueDate = s.validateDueDate(in.DueDate, errs)
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}

	if !partial || in.Title != nil {
		task.Title = title
	}
	if !partial || in.Description != nil {
		task.Description = description
	}
	if !partial || in.DueDate != nil {
		task.DueDate = dueDate
	}

	if err := s.repo.Save(task); err != nil {
		return nil, nil, err
	}
	return task, nil, nil
}

// Delete removes a visible task owned by identity.
func (s *TaskService) Delete(identity, taskID string) error {
	task, err := s.visibleOwned(identity, taskID)
	if err != nil {
		return err
	}
	return s.repo.Delete(task.ID)
}

// Mark applies a lifecycle transition on a visible task owned by identity.
// A done task rejects every transition and stays unchanged.
func (s *TaskService) Mark(identity, taskID string, target domain.State) (*domain.Task, validation.FieldErrors, error) {
	task, err := s.visibleOwned(identity, taskID)
	if err != nil {
		return nil, nil, err
	}

	if !target.Valid() {
		return nil, nil, fmt.Errorf("invalid target state: %q", target)
	}

	if err := task.Mark(target); err != nil {
		if errors.Is(err, domain.ErrTaskDone) {
			return nil, validation.FieldErrors{"state": {MsgTaskAlreadyDone}}, nil
		}
		return nil, nil, err
	}

	if err := s.repo.Save(task); err != nil {
		return nil, nil, err
	}
	return task, nil, nil
}

func (s *TaskService) validateTitle(title *string, errs validation.FieldErrors) string {
	if title == nil {
		errs.Add("title", validation.MsgRequired)
		return ""
	}
	trimmed := strings.TrimSpace(*title)
	if trimmed == "" {
		errs.Add("title", validation.MsgBlank)
		return ""
	}
	if len([]rune(trimmed)) > MaxTitleLength {
		errs.Add("title", MsgTitleTooLong)
		return ""
	}
	return trimmed
}

func (s *TaskService) validateDescription(description *string, errs validation.FieldErrors) string {
	if description == nil {
		errs.Add("description", validation.MsgRequired)
		return ""
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		errs.Add("description", validation.MsgBlank)
		return ""
	}
	return trimmed
}

func (s *TaskService) validateDueDate(dueDate *string, errs validation.FieldErrors) string {
	if dueDate == nil {
		errs.Add("due_date", validation.MsgRequired)
		return ""
	}
	parsed, err := time.Parse(domain.DateLayout, *dueDate)
	if err != nil {
		errs.Add("due_date", MsgDueDateFormat)
		return ""
	}
	normalized := parsed.Format(domain.DateLayout)
	if normalized < s.today() {
		errs.Add("due_date", MsgDueDatePast)
		return ""
	}
	return normalized
}
