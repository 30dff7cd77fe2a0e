package dto

import "github.com/spec-kit/workforce-tasks/internal/domain"

// EmployeeCreateRequest payload for adding an employee.
type EmployeeCreateRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// EmployeeEditRequest payload for updating an employee's credentials.
// Both fields are optional; omitted fields stay as they are.
type EmployeeEditRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// FromEmployees maps a slice of employee identities.
func FromEmployees(identities []domain.Identity) []IdentityResponse {
	out := make([]IdentityResponse, 0, len(identities))
	for i := range identities {
		out = append(out, FromIdentity(&identities[i]))
	}
	return out
}
