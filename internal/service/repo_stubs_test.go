package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/workforce-tasks/internal/domain"
	apperrors "github.com/spec-kit/workforce-tasks/pkg/util"
)

// stubIdentityRepo is an in-memory IdentityRepository enforcing the same
// phone-number uniqueness the real store guarantees by constraint.
type stubIdentityRepo struct {
	identities map[string]*domain.Identity
	order      []string
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{identities: make(map[string]*domain.Identity)}
}

func cloneIdentity(i *domain.Identity) *domain.Identity {
	if i == nil {
		return nil
	}
	clone := *i
	if i.EmployerID != nil {
		employerID := *i.EmployerID
		clone.EmployerID = &employerID
	}
	return &clone
}

func (r *stubIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	for _, existing := range r.identities {
		if existing.PhoneNumber == identity.PhoneNumber {
			return apperrors.NewConflict("phone number already exists", nil)
		}
	}
	r.identities[identity.ID] = cloneIdentity(identity)
	r.order = append(r.order, identity.ID)
	return nil
}

func (r *stubIdentityRepo) Update(_ context.Context, identity *domain.Identity) error {
	existing, ok := r.identities[identity.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, other := range r.identities {
		if other.ID != identity.ID && other.PhoneNumber == identity.PhoneNumber {
			return apperrors.NewConflict("phone number already in use", nil)
		}
	}
	existing.PhoneNumber = identity.PhoneNumber
	existing.PasswordHash = identity.PasswordHash
	return nil
}

func (r *stubIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneIdentity(identity), nil
}

func (r *stubIdentityRepo) GetByPhone(_ context.Context, phoneNumber string) (*domain.Identity, error) {
	for _, identity := range r.identities {
		if identity.PhoneNumber == phoneNumber {
			return cloneIdentity(identity), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubIdentityRepo) GetEmployee(_ context.Context, employerID, employeeID string) (*domain.Identity, error) {
	identity, ok := r.identities[employeeID]
	if !ok || identity.Role != domain.RoleEmployee || identity.EmployerID == nil || *identity.EmployerID != employerID {
		return nil, pgx.ErrNoRows
	}
	return cloneIdentity(identity), nil
}

func (r *stubIdentityRepo) ListEmployees(_ context.Context, employerID string) ([]domain.Identity, error) {
	employees := []domain.Identity{}
	for _, id := range r.order {
		identity := r.identities[id]
		if identity == nil || identity.Role != domain.RoleEmployee {
			continue
		}
		if identity.EmployerID != nil && *identity.EmployerID == employerID {
			employees = append(employees, *cloneIdentity(identity))
		}
	}
	return employees, nil
}

func (r *stubIdentityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.identities[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.identities, id)
	return nil
}

// stubTaskRepo is an in-memory TaskRepository with the same scoped-lookup
// behavior as the Postgres implementation.
type stubTaskRepo struct {
	tasks map[string]*domain.Task
	order []string
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	return &clone
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.tasks[task.ID] = cloneTask(task)
	r.order = append(r.order, task.ID)
	return nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *domain.Task) error {
	existing, ok := r.tasks[task.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.Status = task.Status
	existing.EmployeeID = task.EmployeeID
	return nil
}

func (r *stubTaskRepo) GetOwned(_ context.Context, employerID, taskID string) (*domain.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok || task.EmployerID != employerID {
		return nil, pgx.ErrNoRows
	}
	return cloneTask(task), nil
}

func (r *stubTaskRepo) GetAssigned(_ context.Context, employeeID, taskID string) (*domain.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok || task.EmployeeID != employeeID {
		return nil, pgx.ErrNoRows
	}
	return cloneTask(task), nil
}

func (r *stubTaskRepo) ListByEmployer(_ context.Context, employerID string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	for _, id := range r.order {
		if task, ok := r.tasks[id]; ok && task.EmployerID == employerID {
			tasks = append(tasks, *cloneTask(task))
		}
	}
	return tasks, nil
}

func (r *stubTaskRepo) ListByEmployee(_ context.Context, employeeID string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	for _, id := range r.order {
		if task, ok := r.tasks[id]; ok && task.EmployeeID == employeeID {
			tasks = append(tasks, *cloneTask(task))
		}
	}
	return tasks, nil
}

func (r *stubTaskRepo) DeleteOwned(_ context.Context, employerID, taskID string) error {
	task, ok := r.tasks[taskID]
	if !ok || task.EmployerID != employerID {
		return pgx.ErrNoRows
	}
	delete(r.tasks, taskID)
	return nil
}

// stubTokenRepo is an in-memory TokenRepository with get-or-create
// semantics keyed by identity.
type stubTokenRepo struct {
	byIdentity map[string]*domain.Token
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{byIdentity: make(map[string]*domain.Token)}
}

func (r *stubTokenRepo) GetOrCreate(_ context.Context, identityID, candidate string) (string, error) {
	if existing, ok := r.byIdentity[identityID]; ok {
		return existing.Value, nil
	}
	r.byIdentity[identityID] = &domain.Token{Value: candidate, IdentityID: identityID}
	return candidate, nil
}

func (r *stubTokenRepo) GetByValue(_ context.Context, value string) (*domain.Token, error) {
	for _, token := range r.byIdentity {
		if token.Value == value {
			clone := *token
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if de.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, de.Code, de)
	}
}
