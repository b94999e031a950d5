package mocks

import (
	"context"
	"sync"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
)

// Ensure MockJournalMirror implements JournalMirror
var _ driven.JournalMirror = (*MockJournalMirror)(nil)

// MockJournalMirror records mirrored entries in memory. Set Err to make
// every call fail, for tests that assert mirror failures never block
// appends.
type MockJournalMirror struct {
	mu       sync.Mutex
	Recorded []*domain.JournalEntry
	Err      error
}

// NewMockJournalMirror creates a new MockJournalMirror
func NewMockJournalMirror() *MockJournalMirror {
	return &MockJournalMirror{}
}

func (m *MockJournalMirror) InitSchema(ctx context.Context) error {
	return m.Err
}

func (m *MockJournalMirror) Record(ctx context.Context, entry *domain.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Recorded = append(m.Recorded, entry)
	return nil
}
