// Package models defines the client-side data models of the Plant Disease
// Detector: form payloads sent to the API and the records it returns.
//
// Struct tags carry two schemas: `json` for the wire and `validate` for the
// checks applied by package forms before anything is sent. `form` names the
// field in user-facing validation messages.
package models

// Credentials is the sign-in payload. It is never persisted.
type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 7

// RegistrationRequest is the sign-up payload. ConfirmPassword is checked
// locally and never serialized.
type RegistrationRequest struct {
	Name            string `json:"name" form:"name" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=7"`
	ConfirmPassword string `json:"-" form:"confirmPassword" validate:"required,eqfield=Password"`
}

// TokenResponse is the body of a successful sign-in.
type TokenResponse struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type,omitempty"`
}
