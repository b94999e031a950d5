package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// MockSessionStore is an in-memory SessionStore for testing
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	byToken  map[string]string
}

// NewMockSessionStore creates a new MockSessionStore
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]*domain.Session),
		byToken:  make(map[string]string),
	}
}

func (m *MockSessionStore) Save(ctx context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	m.byToken[session.Token] = session.ID
	return nil
}

func (m *MockSessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byToken[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	session, ok := m.sessions[id]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[id]; ok {
		delete(m.byToken, session.Token)
		delete(m.sessions, id)
	}
	return nil
}
