package domain

import "time"

// Role enumerates the two actor kinds in the hierarchy.
type Role string

const (
	RoleEmployer Role = "EMPLOYER"
	RoleEmployee Role = "EMPLOYEE"
)

// Identity is the domain model for an authenticated account. The phone
// number doubles as the login handle and is unique across all identities.
// EmployerID is set for employees only and points at the owning employer;
// the hierarchy is a single level deep.
type Identity struct {
	ID           string
	PhoneNumber  string
	PasswordHash string
	Role         Role
	EmployerID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsEmployer reports whether the identity may own employees and tasks.
func (i *Identity) IsEmployer() bool {
	return i.Role == RoleEmployer
}

// IsEmployee reports whether the identity is a subordinate account.
func (i *Identity) IsEmployee() bool {
	return i.Role == RoleEmployee
}
