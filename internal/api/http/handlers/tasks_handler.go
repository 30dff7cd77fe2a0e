package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-tasks/internal/api/dto"
	"github.com/spec-kit/workforce-tasks/internal/auth"
	"github.com/spec-kit/workforce-tasks/internal/service"
	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

// TasksHandler exposes the task lifecycle endpoints.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: taskService}
}

// Create handles POST /api/tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TaskCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Context(), principal.Identity, req.Title, req.Description, req.EmployeeID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.FromTask(task),
	})
}

// Edit handles PUT /api/tasks/:id. Success answers 205 Reset Content; that
// quirk is part of the documented contract.
func (h *TasksHandler) Edit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TaskEditRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	task, err := h.tasks.Edit(c.Context(), principal.Identity, c.Params("id"), service.EditTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		EmployeeID:  req.EmployeeID,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusResetContent).JSON(fiber.Map{
		"data": dto.FromTask(task),
	})
}

// Delete handles DELETE /api/tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.tasks.Delete(c.Context(), principal.Identity, c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "task deleted successfully"})
}

// UpdateStatus handles PATCH /api/tasks/:id/status.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.TaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	task, err := h.tasks.UpdateStatus(c.Context(), principal.Identity, c.Params("id"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.FromTask(task),
	})
}

// ListOwned handles GET /api/tasks (employer view).
func (h *TasksHandler) ListOwned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	tasks, err := h.tasks.ListForEmployer(c.Context(), principal.Identity)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.FromTasks(tasks)})
}

// ListAssigned handles GET /api/tasks/assigned (employee view).
func (h *TasksHandler) ListAssigned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	tasks, err := h.tasks.ListForEmployee(c.Context(), principal.Identity)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.FromTasks(tasks)})
}
