package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	domain "github.com/example/taskmanager/domain/user"
	"github.com/example/taskmanager/domain/validation"
	"github.com/google/uuid"
)

// Registration and login messages, surfaced verbatim to clients.
const (
	MsgInvalidEmail     = "Enter a valid email address."
	MsgEmailExists      = "user with this email address already exists."
	MsgTermsNotAccepted = "You must accept terms and conditions."
	MsgWrongCredentials = "Wrong e-mail or password."
)

// AuthService handles registration, login and logout.
type AuthService struct {
	repo      *UserRepository
	hasher    *PasswordHasher
	validator *CredentialValidator
	sessions  SessionStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, validator *CredentialValidator, sessions SessionStore) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		validator: validator,
		sessions:  sessions,
	}
}

// Register creates a new user account. It never creates a session;
// registration and login are deliberately decoupled. Validation failures
// are returned as field errors, infrastructure failures as an error.
func (s *AuthService) Register(_ context.Context, email, password string, termsAccepted bool) (*domain.User, validation.FieldErrors, error) {
	errs := validation.FieldErrors{}

	email = strings.TrimSpace(email)
	switch {
	case email == "":
		errs.Add("email", validation.MsgBlank)
	default:
		if _, err := mail.ParseAddress(email); err != nil {
			errs.Add("email", MsgInvalidEmail)
		}
	}
	if password == "" {
		errs.Add("password", validation.MsgBlank)
	}
	if !termsAccepted {
		errs.Add("terms_accepted", MsgTermsNotAccepted)
	}

	normalized := normalizeEmail(email)
	if _, ok := errs["email"]; !ok {
		exists, err := s.repo.EmailExists(normalized)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			errs.Add("email", MsgEmailExists)
		}
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}

	// Field checks passed; now the credential rules.
	if messages := s.validator.Validate(password, normalized); len(messages) > 0 {
		errs[validation.NonFieldErrors] = messages
		return nil, errs, nil
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:            uuid.New().String(),
		Email:         normalized,
		PasswordHash:  passwordHash,
		Active:        true,
		Staff:         false,
		TermsAccepted: true,
	}

	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, ErrUserExists) {
			errs.Add("email", MsgEmailExists)
			return nil, errs, nil
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil, nil
}

// Login verifies the credentials and establishes a session. Unknown email,
// wrong password and inactive account all fail with the same message so a
// caller cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, validation.FieldErrors, error) {
	wrongCredentials := validation.FieldErrors{
		validation.NonFieldErrors: {MsgWrongCredentials},
	}

	user, err := s.repo.FindByEmail(normalizeEmail(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", wrongCredentials, nil
		}
		return nil, "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.Active || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", wrongCredentials, nil
	}

	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	return user, sessionID, nil, nil
}

// Logout destroys the session unconditionally. Destroying an unknown or
// already-destroyed session succeeds.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sessionID)
}

// ResolveSession maps a session id to the identity it was bound to at
// login. A missing session, or a session whose user has since been removed
// or deactivated, resolves to no identity.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*domain.Identity, error) {
	if sessionID == "" {
		return nil, nil
	}

	userID, err := s.sessions.Resolve(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	user, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.Active {
		return nil, nil
	}

	return &domain.Identity{UserID: user.ID, Email: user.Email}, nil
}

// normalizeEmail lowercases the domain part of the address.
func normalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
