package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/workforce-tasks/internal/domain"
)

// TokenRepository persists the 1:1 identity-to-token binding.
type TokenRepository interface {
	// GetOrCreate stores candidate as the identity's token unless one
	// already exists, and returns whichever value won. The insert relies
	// on the unique constraint on identity_id, so two concurrent logins
	// always converge on a single value.
	GetOrCreate(ctx context.Context, identityID, candidate string) (string, error)
	GetByValue(ctx context.Context, value string) (*domain.Token, error)
}

type tokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a Postgres-backed implementation.
func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepository{pool: pool}
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, identityID, candidate string) (string, error) {
	const insert = `
        INSERT INTO tokens (value, identity_id)
        VALUES ($1, $2)
        ON CONFLICT (identity_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, insert, candidate, identityID); err != nil {
		return "", err
	}

	const query = `SELECT value FROM tokens WHERE identity_id=$1`

	var value string
	if err := r.pool.QueryRow(ctx, query, identityID).Scan(&value); err != nil {
		return "", err
	}
	return value, nil
}

func (r *tokenRepository) GetByValue(ctx context.Context, value string) (*domain.Token, error) {
	const query = `SELECT value, identity_id, issued_at FROM tokens WHERE value=$1`

	var token domain.Token
	if err := r.pool.QueryRow(ctx, query, value).Scan(
		&token.Value,
		&token.IdentityID,
		&token.IssuedAt,
	); err != nil {
		return nil, err
	}
	return &token, nil
}
