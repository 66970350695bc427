package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/auth-service/internal/auth"
)

// CredentialsRequest is the payload for register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks presence only; format and strength are not enforced.
func (r CredentialsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// ProtectedResponse is returned by the protected route.
type ProtectedResponse struct {
	Message string       `json:"message"`
	Usuario *auth.Claims `json:"usuario"`
}
