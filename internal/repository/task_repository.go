package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/workforce-tasks/internal/domain"
)

// TaskRepository encapsulates task persistence. Ownership-scoped lookups
// fold "absent" and "owned by someone else" into the same pgx.ErrNoRows so
// callers never learn which it was.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	GetOwned(ctx context.Context, employerID, taskID string) (*domain.Task, error)
	GetAssigned(ctx context.Context, employeeID, taskID string) (*domain.Task, error)
	ListByEmployer(ctx context.Context, employerID string) ([]domain.Task, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.Task, error)
	DeleteOwned(ctx context.Context, employerID, taskID string) error
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (id, title, description, status, employer_id, employee_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.EmployerID,
		task.EmployeeID,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, status=$3, employee_id=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.EmployeeID,
		task.ID,
	).Scan(&task.UpdatedAt)
}

func (r *taskRepository) GetOwned(ctx context.Context, employerID, taskID string) (*domain.Task, error) {
	const query = `
        SELECT id, title, description, status, employer_id, employee_id, created_at, updated_at
        FROM tasks WHERE id=$1 AND employer_id=$2`
	return r.fetchSingle(ctx, query, taskID, employerID)
}

func (r *taskRepository) GetAssigned(ctx context.Context, employeeID, taskID string) (*domain.Task, error) {
	const query = `
        SELECT id, title, description, status, employer_id, employee_id, created_at, updated_at
        FROM tasks WHERE id=$1 AND employee_id=$2`
	return r.fetchSingle(ctx, query, taskID, employeeID)
}

func (r *taskRepository) ListByEmployer(ctx context.Context, employerID string) ([]domain.Task, error) {
	const query = `
        SELECT id, title, description, status, employer_id, employee_id, created_at, updated_at
        FROM tasks WHERE employer_id=$1
        ORDER BY created_at`
	return r.list(ctx, query, employerID)
}

func (r *taskRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Task, error) {
	const query = `
        SELECT id, title, description, status, employer_id, employee_id, created_at, updated_at
        FROM tasks WHERE employee_id=$1
        ORDER BY created_at`
	return r.list(ctx, query, employeeID)
}

func (r *taskRepository) DeleteOwned(ctx context.Context, employerID, taskID string) error {
	const query = `DELETE FROM tasks WHERE id=$1 AND employer_id=$2`

	cmd, err := r.pool.Exec(ctx, query, taskID, employerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Task, error) {
	var task domain.Task
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.EmployerID,
		&task.EmployeeID,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) list(ctx context.Context, query string, arg any) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.EmployerID,
			&task.EmployeeID,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
