package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-tasks/internal/auth"
	"github.com/spec-kit/workforce-tasks/internal/config"
	"github.com/spec-kit/workforce-tasks/internal/domain"
	"github.com/spec-kit/workforce-tasks/internal/observability"
	"github.com/spec-kit/workforce-tasks/internal/repository"
	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

// AuthService coordinates employer registration and login flows.
type AuthService struct {
	identities repository.IdentityRepository
	tokens     repository.TokenRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	IdentityRepo repository.IdentityRepository
	TokenRepo    repository.TokenRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		identities: deps.IdentityRepo,
		tokens:     deps.TokenRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.TokenSecret),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterEmployer bootstraps a new top-level employer account.
func (s *AuthService) RegisterEmployer(ctx context.Context, phoneNumber, password string) (*domain.Identity, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" || password == "" {
		return nil, apperrors.NewValidationError("phone_number and password are required", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		ID:           uuid.NewString(),
		PhoneNumber:  phoneNumber,
		PasswordHash: hash,
		Role:         domain.RoleEmployer,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("phone number already exists", nil)
		}
		return nil, err
	}
	return identity, nil
}

// Login authenticates by phone number and returns the identity together
// with its bearer token. Issuance is lazy and idempotent: the first
// successful login mints and stores the token, every later one returns the
// stored value. Unknown numbers and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, phoneNumber, password string) (*domain.Identity, string, error) {
	identity, err := s.identities.GetByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observability.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, "", apperrors.NewInvalidCredentials()
		}
		return nil, "", err
	}
	if err := auth.ComparePassword(identity.PasswordHash, password); err != nil {
		observability.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", apperrors.NewInvalidCredentials()
	}

	candidate, err := s.tokenMgr.Mint(identity.ID)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.GetOrCreate(ctx, identity.ID, candidate)
	if err != nil {
		return nil, "", err
	}

	observability.LoginsTotal.WithLabelValues("success").Inc()
	return identity, token, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
