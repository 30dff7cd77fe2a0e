package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-tasks/internal/api/dto"
	"github.com/spec-kit/workforce-tasks/internal/auth"
	"github.com/spec-kit/workforce-tasks/internal/service"
	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

// EmployeesHandler exposes workforce management endpoints.
type EmployeesHandler struct {
	workforce *service.WorkforceService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(workforceService *service.WorkforceService) *EmployeesHandler {
	return &EmployeesHandler{workforce: workforceService}
}

// Create handles POST /api/employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.EmployeeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateBody(&req); err != nil {
		return err
	}

	employee, err := h.workforce.AddEmployee(c.Context(), principal.Identity, req.PhoneNumber, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.FromIdentity(employee),
	})
}

// Edit handles PATCH /api/employees/:id.
func (h *EmployeesHandler) Edit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.EmployeeEditRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	employee, err := h.workforce.EditEmployee(c.Context(), principal.Identity, c.Params("id"), req.PhoneNumber, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.FromIdentity(employee),
	})
}

// Delete handles DELETE /api/employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.workforce.DeleteEmployee(c.Context(), principal.Identity, c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "employee deleted successfully"})
}

// List handles GET /api/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	employees, err := h.workforce.ListEmployees(c.Context(), principal.Identity)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.FromEmployees(employees)})
}
