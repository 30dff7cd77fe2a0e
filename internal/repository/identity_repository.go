package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/workforce-tasks/internal/domain"
)

// IdentityRepository defines persistence access for identities. Phone-number
// uniqueness is enforced by the store's unique constraint, so concurrent
// creates cannot both commit.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	Update(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.Identity, error)
	GetEmployee(ctx context.Context, employerID, employeeID string) (*domain.Identity, error)
	ListEmployees(ctx context.Context, employerID string) ([]domain.Identity, error)
	Delete(ctx context.Context, id string) error
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (id, phone_number, password_hash, role, employer_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		identity.ID,
		identity.PhoneNumber,
		identity.PasswordHash,
		identity.Role,
		identity.EmployerID,
	).Scan(&identity.CreatedAt, &identity.UpdatedAt)
}

func (r *identityRepository) Update(ctx context.Context, identity *domain.Identity) error {
	const query = `
        UPDATE identities SET phone_number=$1, password_hash=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query,
		identity.PhoneNumber,
		identity.PasswordHash,
		identity.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	const query = `
        SELECT id, phone_number, password_hash, role, employer_id, created_at, updated_at
        FROM identities WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *identityRepository) GetByPhone(ctx context.Context, phoneNumber string) (*domain.Identity, error) {
	const query = `
        SELECT id, phone_number, password_hash, role, employer_id, created_at, updated_at
        FROM identities WHERE phone_number=$1`
	return r.fetchSingle(ctx, query, phoneNumber)
}

// GetEmployee resolves an employee scoped to its owning employer. A row for
// another employer, or a non-employee row, reads as pgx.ErrNoRows.
func (r *identityRepository) GetEmployee(ctx context.Context, employerID, employeeID string) (*domain.Identity, error) {
	const query = `
        SELECT id, phone_number, password_hash, role, employer_id, created_at, updated_at
        FROM identities WHERE id=$1 AND employer_id=$2 AND role=$3`

	var identity domain.Identity
	if err := r.pool.QueryRow(ctx, query, employeeID, employerID, domain.RoleEmployee).Scan(
		&identity.ID,
		&identity.PhoneNumber,
		&identity.PasswordHash,
		&identity.Role,
		&identity.EmployerID,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) ListEmployees(ctx context.Context, employerID string) ([]domain.Identity, error) {
	const query = `
        SELECT id, phone_number, password_hash, role, employer_id, created_at, updated_at
        FROM identities WHERE employer_id=$1 AND role=$2
        ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, employerID, domain.RoleEmployee)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	identities := []domain.Identity{}
	for rows.Next() {
		var identity domain.Identity
		if err := rows.Scan(
			&identity.ID,
			&identity.PhoneNumber,
			&identity.PasswordHash,
			&identity.Role,
			&identity.EmployerID,
			&identity.CreatedAt,
			&identity.UpdatedAt,
		); err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	return identities, rows.Err()
}

func (r *identityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM identities WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Identity, error) {
	var identity domain.Identity
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&identity.ID,
		&identity.PhoneNumber,
		&identity.PasswordHash,
		&identity.Role,
		&identity.EmployerID,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}
