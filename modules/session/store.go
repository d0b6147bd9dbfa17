// Package session provides a Redis-backed session store for the cookie-based
// account flows.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// CookieName is the cookie carrying the session id.
const CookieName = "todo_session"

// Store maps opaque session ids to user ids in Redis with a bounded TTL.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore creates a new session store.
func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Create opens a new session for the user and returns its id.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.New().String()

	if err := s.client.Set(ctx, s.prefix+sessionID, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return sessionID, nil
}

// Get resolves a session id to the user it belongs to and refreshes its TTL.
func (s *Store) Get(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.Get(ctx, s.prefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to read session: %w", err)
	}

	// Sliding expiry: active sessions stay alive.
	s.client.Expire(ctx, s.prefix+sessionID, s.ttl)

	return userID, nil
}

// Delete invalidates a session. Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.prefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping checks if the Redis connection is healthy.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
