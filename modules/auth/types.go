package auth

import (
	"github.com/example/taskmanager/domain/validation"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// RegisterResponse represents a user registration response. Errors is set
// when validation failed and the user was not created.
type RegisterResponse struct {
	Email         string                 `json:"email,omitempty"`
	TermsAccepted bool                   `json:"terms_accepted,omitempty"`
	Errors        validation.FieldErrors `json:"errors,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a user login response. On success SessionID
// holds the newly created session.
type LoginResponse struct {
	ID        string                 `json:"id,omitempty"`
	Email     string                 `json:"email,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Errors    validation.FieldErrors `json:"errors,omitempty"`
}

// LogoutRequest represents a logout request.
type LogoutRequest struct {
	SessionID string `json:"session_id"`
}

// LogoutResponse represents a logout response.
type LogoutResponse struct{}

// ResolveSessionRequest represents a session resolution request.
type ResolveSessionRequest struct {
	SessionID string `json:"session_id"`
}

// ResolveSessionResponse represents a session resolution response.
// Authenticated is false for unknown or destroyed sessions.
type ResolveSessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	Email         string `json:"email,omitempty"`
}
