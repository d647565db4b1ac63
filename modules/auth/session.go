package auth

import (
	"context"
	"errors"
	"sync"

	nanoid "github.com/jaevor/go-nanoid"
)

// ErrSessionNotFound is returned when a session id is unknown or destroyed.
var ErrSessionNotFound = errors.New("session not found")

// sessionKeyLength is the length of generated session identifiers.
const sessionKeyLength = 32

// SessionStore binds opaque session identifiers to user identities.
// Resolve of a destroyed or unknown session returns ErrSessionNotFound;
// Destroy is idempotent.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, sessionID string) (string, error)
	Destroy(ctx context.Context, sessionID string) error
}

// MemorySessionStore keeps sessions in process memory. Suitable for a
// single-process deployment and for tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
	newID    func() string
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() (*MemorySessionStore, error) {
	newID, err := nanoid.Standard(sessionKeyLength)
	if err != nil {
		return nil, err
	}
	return &MemorySessionStore{
		sessions: make(map[string]string),
		newID:    newID,
	}, nil
}

// Create allocates a new session bound to userID.
func (s *MemorySessionStore) Create(_ context.Context, userID string) (string, error) {
	sessionID := s.newID()
	s.mu.Lock()
	s.sessions[sessionID] = userID
	s.mu.Unlock()
	return sessionID, nil
}

// Resolve returns the user id bound to sessionID.
func (s *MemorySessionStore) Resolve(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	userID, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", ErrSessionNotFound
	}
	return userID, nil
}

// Destroy removes the session. Removing an unknown session is not an error.
func (s *MemorySessionStore) Destroy(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
