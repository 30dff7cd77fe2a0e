package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-tasks/internal/domain"
	"github.com/spec-kit/workforce-tasks/internal/repository"
	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Identity *domain.Identity
}

// Middleware validates bearer tokens and loads principals. A token is
// accepted only when its signature verifies and the exact value is still
// present in the token store for the identity it names.
type Middleware struct {
	tokens     *TokenManager
	tokenRepo  repository.TokenRepository
	identities repository.IdentityRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, tokenRepo repository.TokenRepository, identities repository.IdentityRepository) *Middleware {
	return &Middleware{tokens: tokens, tokenRepo: tokenRepo, identities: identities}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	record, err := m.tokenRepo.GetByValue(c.Context(), parts[1])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("token not recognized")
		}
		return apperrors.MapError(err)
	}
	if record.IdentityID != claims.IdentityID {
		return apperrors.NewUnauthorized("token not recognized")
	}

	identity, err := m.identities.GetByID(c.Context(), record.IdentityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("account no longer exists")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Identity: identity})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
