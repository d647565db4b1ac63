package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/taskmanager/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
	ResolveSession(ctx context.Context, sessionID string) (*domain.Identity, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Register creates a user account.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	var resp RegisterResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"register",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return RegisterResponse{}, fmt.Errorf("register request failed: %w", err)
	}
	return resp, nil
}

// Login verifies credentials and establishes a session.
func (a *AuthAdapter) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return LoginResponse{}, fmt.Errorf("login request failed: %w", err)
	}
	return resp, nil
}

// Logout destroys the session.
func (a *AuthAdapter) Logout(ctx context.Context, sessionID string) error {
	req := LogoutRequest{SessionID: sessionID}
	var resp LogoutResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"logout",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// ResolveSession maps a session id to an identity, or nil for anonymous.
func (a *AuthAdapter) ResolveSession(ctx context.Context, sessionID string) (*domain.Identity, error) {
	req := ResolveSessionRequest{SessionID: sessionID}
	var resp ResolveSessionResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"resolve-session",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("resolve-session request failed: %w", err)
	}

	if !resp.Authenticated {
		return nil, nil
	}
	return &domain.Identity{UserID: resp.UserID, Email: resp.Email}, nil
}
