package api

import (
	"fmt"
	"log"
	"strconv"

	domain "github.com/example/taskmanager/domain/task"
	"github.com/example/taskmanager/modules/auth"
	"github.com/example/taskmanager/modules/tasks"
	"github.com/gofiber/fiber/v2"
)

// pageSize is the fixed page size for task listings.
const pageSize = 30

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth  auth.AuthPort
	tasks tasks.TasksPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authAdapter auth.AuthPort, tasksAdapter tasks.TasksPort) *Handlers {
	return &Handlers{
		auth:  authAdapter,
		tasks: tasksAdapter,
	}
}

// Register handles user registration. It never sets a session cookie.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	resp, err := h.auth.Register(c.UserContext(), auth.RegisterRequest{
		Email:         req.Email,
		Password:      req.Password,
		TermsAccepted: req.TermsAccepted,
	})
	if err != nil {
		return internalError(c, err)
	}
	if resp.Errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp.Errors)
	}

	return c.Status(fiber.StatusCreated).JSON(RegistrationResponse{
		Email:         resp.Email,
		TermsAccepted: resp.TermsAccepted,
	})
}

// Login handles user login and establishes the session cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	resp, err := h.auth.Login(c.UserContext(), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return internalError(c, err)
	}
	if resp.Errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp.Errors)
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    resp.SessionID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Email: resp.Email,
		ID:    resp.ID,
	})
}

// Logout destroys the session, if any, and clears the cookie. Logging out
// twice, or without a session, succeeds the same way.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := c.Cookies(SessionCookieName)
	if sessionID != "" {
		if err := h.auth.Logout(c.UserContext(), sessionID); err != nil {
			return internalError(c, err)
		}
	}

	c.ClearCookie(SessionCookieName)
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTasks returns the caller's upcoming tasks, paginated, ascending by
// due date, optionally narrowed by ?due_date=YYYY-MM-DD.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	identity := currentIdentity(c)

	resp, err := h.tasks.List(c.UserContext(), tasks.ListTasksRequest{
		UserID:  identity.UserID,
		DueDate: c.Query("due_date"),
	})
	if err != nil {
		return internalError(c, err)
	}
	if resp.Forbidden {
		return forbidden(c)
	}

	return h.paginate(c, resp.Tasks)
}

// CreateTask creates a task owned by the caller, always in state TO_DO.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	input, ok := parseTaskInput(c)
	if !ok {
		return badRequestBody(c)
	}

	resp, err := h.tasks.Create(c.UserContext(), tasks.CreateTaskRequest{
		UserID:    currentIdentity(c).UserID,
		TaskInput: input,
	})
	if err != nil {
		return internalError(c, err)
	}
	return taskOutcome(c, resp, fiber.StatusCreated)
}

// GetTask returns a single visible task owned by the caller.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	resp, err := h.tasks.Get(c.UserContext(), tasks.GetTaskRequest{
		UserID: currentIdentity(c).UserID,
		TaskID: c.Params("id"),
	})
	if err != nil {
		return internalError(c, err)
	}
	return taskOutcome(c, resp, fiber.StatusOK)
}

// UpdateTask handles PUT: every writable field is required.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	return h.update(c, false)
}

// PartialUpdateTask handles PATCH: only supplied fields change.
func (h *Handlers) PartialUpdateTask(c *fiber.Ctx) error {
	return h.update(c, true)
}

func (h *Handlers) update(c *fiber.Ctx, partial bool) error {
	input, ok := parseTaskInput(c)
	if !ok {
		return badRequestBody(c)
	}

	resp, err := h.tasks.Update(c.UserContext(), tasks.UpdateTaskRequest{
		UserID:    currentIdentity(c).UserID,
		TaskID:    c.Params("id"),
		Partial:   partial,
		TaskInput: input,
	})
	if err != nil {
		return internalError(c, err)
	}
	return taskOutcome(c, resp, fiber.StatusOK)
}

// DeleteTask removes a visible task owned by the caller.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	resp, err := h.tasks.Delete(c.UserContext(), tasks.DeleteTaskRequest{
		UserID: currentIdentity(c).UserID,
		TaskID: c.Params("id"),
	})
	if err != nil {
		return internalError(c, err)
	}

	switch {
	case resp.NotFound:
		return notFound(c)
	case resp.Forbidden:
		return forbidden(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkToDo moves a task back to TO_DO.
func (h *Handlers) MarkToDo(c *fiber.Ctx) error {
	return h.mark(c, domain.StateToDo)
}

// MarkInProgress marks a task IN_PROGRESS.
func (h *Handlers) MarkInProgress(c *fiber.Ctx) error {
	return h.mark(c, domain.StateInProgress)
}

// MarkDone marks a task DONE. Done is terminal: no later mark call on the
// task will succeed.
func (h *Handlers) MarkDone(c *fiber.Ctx) error {
	return h.mark(c, domain.StateDone)
}

func (h *Handlers) mark(c *fiber.Ctx, target domain.State) error {
	resp, err := h.tasks.Mark(c.UserContext(), tasks.MarkTaskRequest{
		UserID: currentIdentity(c).UserID,
		TaskID: c.Params("id"),
		Target: target,
	})
	if err != nil {
		return internalError(c, err)
	}
	return taskOutcome(c, resp, fiber.StatusOK)
}

// paginate renders the DRF-style envelope over the full visible set.
func (h *Handlers) paginate(c *fiber.Ctx, all []tasks.TaskPayload) error {
	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.Status(fiber.StatusNotFound).JSON(DetailResponse{Detail: detailInvalidPage})
		}
		page = parsed
	}

	count := len(all)
	start := (page - 1) * pageSize
	if start >= count && page > 1 {
		return c.Status(fiber.StatusNotFound).JSON(DetailResponse{Detail: detailInvalidPage})
	}

	end := start + pageSize
	if end > count {
		end = count
	}

	results := all[start:end]
	if results == nil {
		results = []tasks.TaskPayload{}
	}

	var next, previous *string
	if end < count {
		next = pageURL(c, page+1)
	}
	if page > 1 {
		previous = pageURL(c, page-1)
	}

	return c.Status(fiber.StatusOK).JSON(Page{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  results,
	})
}

// pageURL builds an absolute listing URL for the given page. Page one is
// the bare URL, without a page parameter.
func pageURL(c *fiber.Ctx, page int) *string {
	url := c.BaseURL() + c.Path()

	query := ""
	if dueDate := c.Query("due_date"); dueDate != "" {
		query = "due_date=" + dueDate
	}
	if page > 1 {
		if query != "" {
			query += "&"
		}
		query += fmt.Sprintf("page=%d", page)
	}
	if query != "" {
		url += "?" + query
	}
	return &url
}

// parseTaskInput decodes the task fields from the request body. An empty
// body is a valid request whose fields are all absent; the tasks module
// reports the missing ones.
func parseTaskInput(c *fiber.Ctx) (tasks.TaskInput, bool) {
	var input tasks.TaskInput
	if len(c.Body()) == 0 {
		return input, true
	}
	if err := c.BodyParser(&input); err != nil {
		return input, false
	}
	return input, true
}

// taskOutcome maps a task operation response onto HTTP.
func taskOutcome(c *fiber.Ctx, resp tasks.TaskResponse, successStatus int) error {
	switch {
	case resp.NotFound:
		return notFound(c)
	case resp.Forbidden:
		return forbidden(c)
	case resp.Errors != nil:
		return c.Status(fiber.StatusBadRequest).JSON(resp.Errors)
	}
	return c.Status(successStatus).JSON(resp.Task)
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(DetailResponse{Detail: detailForbidden})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(DetailResponse{Detail: detailNotFound})
}

func badRequestBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(DetailResponse{Detail: detailInvalidBody})
}

func internalError(c *fiber.Ctx, err error) error {
	// Log the actual error but don't expose it to the client.
	log.Printf("[api] Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(DetailResponse{Detail: detailInternal})
}
