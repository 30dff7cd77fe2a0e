package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-tasks/internal/domain"
	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

// RequireEmployer ensures the principal holds the employer role.
func RequireEmployer() fiber.Handler {
	return requireRole(domain.RoleEmployer)
}

// RequireEmployee ensures the principal holds the employee role.
func RequireEmployee() fiber.Handler {
	return requireRole(domain.RoleEmployee)
}

func requireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Identity.Role != role {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
