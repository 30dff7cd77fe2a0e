package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToDomainError_Passthrough(t *testing.T) {
	original := NewConflict("phone number already exists", nil)
	mapped := ToDomainError(original)
	if mapped.Code != "CONFLICT" || mapped.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}

func TestToDomainError_NoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	if mapped.Code != "NOT_FOUND" || mapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}

func TestToDomainError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	if !IsUniqueViolation(pgErr) {
		t.Fatalf("23505 not recognized as unique violation")
	}
	mapped := ToDomainError(pgErr)
	if mapped.Code != "CONFLICT" {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
}

func TestToDomainError_Unknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	if mapped.Code != "INTERNAL_ERROR" || mapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}
	if !errors.Is(mapped, mapped.Err) {
		t.Fatalf("wrapped error lost")
	}
}
