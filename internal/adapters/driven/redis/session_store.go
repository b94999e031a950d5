package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

const (
	// Key prefixes for Redis
	sessionPrefix      = "session:"
	sessionTokenPrefix = "session:token:"
)

// SessionStore implements driven.SessionStore using Redis.
// Sessions use Redis TTL for automatic expiration.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis-backed SessionStore
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save stores a session with TTL based on ExpiresAt
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		// Session already expired, don't save
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Use pipeline for atomic operations
	pipe := s.client.Pipeline()

	// Store session by ID
	pipe.Set(ctx, sessionPrefix+session.ID, data, ttl)

	// Index by token
	pipe.Set(ctx, sessionTokenPrefix+session.Token, session.ID, ttl)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetByToken retrieves a session by token value
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	sessionID, err := s.client.Get(ctx, sessionTokenPrefix+token).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}

	data, err := s.client.Get(ctx, sessionPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes a session and its token index
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	data, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get session for delete: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to unmarshal session for delete: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionPrefix+id)
	pipe.Del(ctx, sessionTokenPrefix+session.Token)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
