// Package dto provides data transfer objects for the handoff HTTP endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/handoff/internal/validation"
)

// SignInRequest carries credentials. The tenant is always derived from the verified
// identity, so the request has no tenant, role or user id fields.
type SignInRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// Validate checks if the sign-in request is valid.
func (r *SignInRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Email,
			validation.Length(3, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(1, 1024),
		),
	)
}
