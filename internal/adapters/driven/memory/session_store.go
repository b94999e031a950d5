package memory

import (
	"context"
	"sync"
	"time"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory driven.SessionStore used when no Redis
// instance is configured. Sessions do not survive a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	byToken  map[string]string
}

// NewSessionStore creates an empty in-memory SessionStore
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
		byToken:  make(map[string]string),
	}
}

// Save stores a session until its expiry
func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	if time.Until(session.ExpiresAt) <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[session.ID] = &copied
	s.byToken[session.Token] = session.ID
	return nil
}

// GetByToken retrieves a session by its token
func (s *SessionStore) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	id, ok := s.byToken[token]
	if !ok {
		s.mu.RUnlock()
		return nil, domain.ErrSessionNotFound
	}
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		delete(s.byToken, token)
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}

	copied := *session
	return &copied, nil
}

// Delete removes a session by ID
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil
	}
	delete(s.byToken, session.Token)
	delete(s.sessions, id)
	return nil
}
