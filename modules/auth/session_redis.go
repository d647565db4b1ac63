package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
)

const (
	// sessionKeyPrefix namespaces session keys in Redis.
	sessionKeyPrefix = "session:"

	// sessionTTL bounds how long an idle session survives. Resolve
	// refreshes it, so active sessions do not expire under the user.
	sessionTTL = 14 * 24 * time.Hour
)

// RedisSessionStore keeps sessions in Redis so every request-handling
// process shares the same session state.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	newID  func() string
}

// NewRedisSessionStore creates a session store backed by the given client.
func NewRedisSessionStore(client *redis.Client) (*RedisSessionStore, error) {
	newID, err := nanoid.Standard(sessionKeyLength)
	if err != nil {
		return nil, err
	}
	return &RedisSessionStore{
		client: client,
		ttl:    sessionTTL,
		newID:  newID,
	}, nil
}

// Create allocates a new session bound to userID.
func (s *RedisSessionStore) Create(ctx context.Context, userID string) (string, error) {
	sessionID := s.newID()
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return sessionID, nil
}

// Resolve returns the user id bound to sessionID and refreshes its TTL.
func (s *RedisSessionStore) Resolve(ctx context.Context, sessionID string) (string, error) {
	key := sessionKeyPrefix + sessionID
	userID, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}

	// Best effort; an expired refresh only shortens the session.
	s.client.Expire(ctx, key, s.ttl)

	return userID, nil
}

// Destroy removes the session. Removing an unknown session is not an error.
func (s *RedisSessionStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
