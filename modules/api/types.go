package api

import (
	"github.com/example/taskmanager/modules/tasks"
)

// RegistrationRequest represents a registration request body.
type RegistrationRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// RegistrationResponse represents a successful registration. No id and no
// session: registering does not log the user in.
type RegistrationResponse struct {
	Email         string `json:"email"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// LoginRequest represents a login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Email string `json:"email"`
	ID    string `json:"id"`
}

// DetailResponse is the single-message error body used for non-validation
// failures (forbidden, not found, malformed input).
type DetailResponse struct {
	Detail string `json:"detail"`
}

// Page is the paginated task listing envelope.
type Page struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []tasks.TaskPayload `json:"results"`
}
