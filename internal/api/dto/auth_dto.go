package dto

import "github.com/spec-kit/workforce-tasks/internal/domain"

// RegisterRequest payload for employer bootstrap.
type RegisterRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// LoginResponse mirrors the original API shape: token plus the caller's
// identity id and role.
type LoginResponse struct {
	Token  string      `json:"token"`
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// IdentityResponse is the safe projection of an identity; the password
// hash never leaves the service.
type IdentityResponse struct {
	ID          string      `json:"id"`
	PhoneNumber string      `json:"phone_number"`
	Role        domain.Role `json:"role"`
}

// FromIdentity builds an IdentityResponse.
func FromIdentity(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:          identity.ID,
		PhoneNumber: identity.PhoneNumber,
		Role:        identity.Role,
	}
}
