package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-tasks/internal/auth"
	"github.com/spec-kit/workforce-tasks/internal/domain"
	"github.com/spec-kit/workforce-tasks/internal/events"
	"github.com/spec-kit/workforce-tasks/internal/observability"
	"github.com/spec-kit/workforce-tasks/internal/repository"
	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

// WorkforceService manages the employee identities owned by an employer.
// Every operation is double-gated: the role policy first, then the
// ownership scope baked into the repository lookups.
type WorkforceService struct {
	identities repository.IdentityRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// WorkforceDependencies bundles requirements for the workforce service.
type WorkforceDependencies struct {
	IdentityRepo repository.IdentityRepository
	Dispatcher   events.Dispatcher
	BcryptCost   int
}

// NewWorkforceService constructs the service.
func NewWorkforceService(deps WorkforceDependencies) *WorkforceService {
	return &WorkforceService{
		identities: deps.IdentityRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
	}
}

// AddEmployee creates a subordinate identity under the employer. The new
// identity always gets role employee and the caller as its employer, which
// keeps the hierarchy a single level deep by construction.
func (s *WorkforceService) AddEmployee(ctx context.Context, employer *domain.Identity, phoneNumber, password string) (*domain.Identity, error) {
	if err := auth.Check(employer.Role, auth.OpManageEmployees); err != nil {
		return nil, err
	}
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" || password == "" {
		return nil, apperrors.NewValidationError("phone_number and password are required", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	employerID := employer.ID
	employee := &domain.Identity{
		ID:           uuid.NewString(),
		PhoneNumber:  phoneNumber,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
		EmployerID:   &employerID,
	}
	if err := s.identities.Create(ctx, employee); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("phone number already exists", nil)
		}
		return nil, err
	}

	observability.EmployeesAddedTotal.Inc()
	s.publishEvent(ctx, events.Event{
		Type:  events.EventEmployeeAdded,
		Actor: employerActor(employer),
		Payload: events.EmployeePayload{
			EmployeeID:  employee.ID,
			PhoneNumber: employee.PhoneNumber,
		},
	})
	return employee, nil
}

// EditEmployee updates the credentials of an owned employee. Either field
// may be omitted; a supplied phone number must stay unique among all other
// identities and a supplied password is rehashed before storage.
func (s *WorkforceService) EditEmployee(ctx context.Context, employer *domain.Identity, employeeID, phoneNumber, password string) (*domain.Identity, error) {
	if err := auth.Check(employer.Role, auth.OpManageEmployees); err != nil {
		return nil, err
	}

	employee, err := s.identities.GetEmployee(ctx, employer.ID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", nil)
		}
		return nil, err
	}

	if phoneNumber = strings.TrimSpace(phoneNumber); phoneNumber != "" {
		employee.PhoneNumber = phoneNumber
	}
	if password != "" {
		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		employee.PasswordHash = hash
	}

	if err := s.identities.Update(ctx, employee); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("phone number already in use", nil)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventEmployeeUpdated,
		Actor: employerActor(employer),
		Payload: events.EmployeePayload{
			EmployeeID:  employee.ID,
			PhoneNumber: employee.PhoneNumber,
		},
	})
	return employee, nil
}

// DeleteEmployee removes an owned employee; the store cascades the
// employee's token and assigned tasks.
func (s *WorkforceService) DeleteEmployee(ctx context.Context, employer *domain.Identity, employeeID string) error {
	if err := auth.Check(employer.Role, auth.OpManageEmployees); err != nil {
		return err
	}

	employee, err := s.identities.GetEmployee(ctx, employer.ID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", nil)
		}
		return err
	}
	if err := s.identities.Delete(ctx, employee.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", nil)
		}
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventEmployeeRemoved,
		Actor:   employerActor(employer),
		Payload: events.EmployeePayload{EmployeeID: employee.ID},
	})
	return nil
}

// ListEmployees returns the employer's own workforce.
func (s *WorkforceService) ListEmployees(ctx context.Context, employer *domain.Identity) ([]domain.Identity, error) {
	if err := auth.Check(employer.Role, auth.OpManageEmployees); err != nil {
		return nil, err
	}
	return s.identities.ListEmployees(ctx, employer.ID)
}

func (s *WorkforceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func employerActor(employer *domain.Identity) events.Actor {
	return events.Actor{Role: employer.Role, IdentityID: employer.ID}
}
