package api

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	domaintask "github.com/example/task-tracker-demo/domain/task"
	domainuser "github.com/example/task-tracker-demo/domain/user"
	"github.com/example/task-tracker-demo/modules/auth"
	"github.com/example/task-tracker-demo/modules/stats"
	"github.com/example/task-tracker-demo/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth  auth.AuthPort
	tasks task.TaskPort
	stats stats.StatsPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, statsPort stats.StatsPort) *Handlers {
	return &Handlers{
		auth:  authPort,
		tasks: taskPort,
		stats: statsPort,
	}
}

// Welcome handles the public root endpoint.
func (h *Handlers) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to the Task Tracker API",
		"auth_endpoints": fiber.Map{
			"register": "POST /auth/register",
			"login":    "POST /auth/login",
		},
	})
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username and password are required",
		})
	}

	user, err := h.auth.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		Username: user.Username,
		Message:  "User created successfully",
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username and password are required",
		})
	}

	token, expiresIn, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		// Unknown user and wrong password produce the same response
		return unauthorized(c, "Incorrect username or password")
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
	})
}

// Me handles getting the current user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	claims, ok := c.Locals(UserContextKey).(*domainuser.Claims)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	return c.Status(fiber.StatusOK).JSON(MeResponse{
		Username: claims.Username,
		Message:  "Token is valid!",
	})
}

// CreateTask handles task creation.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
	}

	created, err := h.tasks.Create(c.UserContext(), req.Title, req.Description, domaintask.Status(req.Status))
	if err != nil {
		return h.handleTaskError(c, err, 0)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListTasks handles listing tasks with an optional status filter.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	var filter *domaintask.Status
	if raw := c.Query("status_filter"); raw != "" {
		status := domaintask.Status(raw)
		if !status.Valid() {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
				Error:   "validation_error",
				Message: "status_filter must be Pending or Completed",
				Field:   "status_filter",
			})
		}
		filter = &status
	}

	tasks, err := h.tasks.List(c.UserContext(), filter)
	if err != nil {
		return h.handleTaskError(c, err, 0)
	}

	return c.Status(fiber.StatusOK).JSON(tasks)
}

// GetTask handles getting a single task by id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	id, err := parseTaskID(c)
	if err != nil {
		return invalidTaskID(c)
	}

	found, err := h.tasks.Get(c.UserContext(), id)
	if err != nil {
		return h.handleTaskError(c, err, id)
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

// UpdateTask handles a partial task update.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	id, err := parseTaskID(c)
	if err != nil {
		return invalidTaskID(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
	}

	var status *domaintask.Status
	if req.Status != nil {
		s := domaintask.Status(*req.Status)
		status = &s
	}

	updated, err := h.tasks.Update(c.UserContext(), id, req.Title, req.Description, status)
	if err != nil {
		return h.handleTaskError(c, err, id)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteTask handles task deletion.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	id, err := parseTaskID(c)
	if err != nil {
		return invalidTaskID(c)
	}

	if err := h.tasks.Delete(c.UserContext(), id); err != nil {
		return h.handleTaskError(c, err, id)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// WeeklyStats handles weekly completion statistics.
func (h *Handlers) WeeklyStats(c *fiber.Ctx) error {
	resp, err := h.stats.Weekly(c.UserContext())
	if err != nil {
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to calculate weekly stats",
		})
	}

	body := WeeklyStatsResponse{
		Message:     resp.Message,
		TotalWeeks:  resp.TotalWeeks,
		WeeklyStats: resp.WeeklyStats,
	}
	if claims, ok := c.Locals(UserContextKey).(*domainuser.Claims); ok {
		body.User = claims.Username
	}

	return c.Status(fiber.StatusOK).JSON(body)
}

// parseTaskID parses the :id path parameter.
func parseTaskID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", c.Params("id"))
	}
	return uint(id), nil
}

// invalidTaskID responds to a malformed :id path parameter.
func invalidTaskID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
		Error:   "validation_error",
		Message: "Task id must be a positive integer",
		Field:   "task_id",
	})
}

// handleAuthError maps auth service errors to responses without exposing
// internals. Errors crossing the service container arrive flattened to
// strings, so known errors are matched by message.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "already registered"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Username already registered",
		})
	case strings.Contains(errStr, "username must be"):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
			Error:   "validation_error",
			Message: "Username must be between 3 and 50 characters",
			Field:   "username",
		})
	case strings.Contains(errStr, "password must be at least"):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
			Error:   "validation_error",
			Message: "Password must be at least 8 characters",
			Field:   "password",
		})
	case strings.Contains(errStr, "password must be at most"):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
			Error:   "validation_error",
			Message: "Password must be at most 72 characters",
			Field:   "password",
		})
	case strings.Contains(errStr, "incorrect username or password"):
		return unauthorized(c, "Incorrect username or password")
	default:
		// Log the actual error but don't expose it to the client
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// handleTaskError maps task service errors to responses. id is used for the
// not-found message and may be 0 when no id is in play.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error, id uint) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("Task with ID %d not found", id),
		})
	case strings.Contains(errStr, "title must be"):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
			Error:   "validation_error",
			Message: "Title must be between 1 and 200 characters",
			Field:   "title",
		})
	case strings.Contains(errStr, "description must be"):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
			Error:   "validation_error",
			Message: "Description must be at most 1000 characters",
			Field:   "description",
		})
	case strings.Contains(errStr, "status must be"):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
			Error:   "validation_error",
			Message: "Status must be Pending or Completed",
			Field:   "status",
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
