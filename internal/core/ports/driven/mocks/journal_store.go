package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// MockJournalStore is an in-memory JournalStore for testing. It runs the
// real sequencing and chain-sealing logic so replay and verification tests
// exercise the same hashes a file-backed store would produce.
type MockJournalStore struct {
	mu       sync.Mutex
	entries  []*domain.JournalEntry
	lastHash string

	// FailNextAppend makes the next Append return an error without
	// advancing the sequence, simulating a failed durable write.
	FailNextAppend bool

	// Corrupt counts lines ScanAll should report as skipped.
	Corrupt int
}

// NewMockJournalStore creates an empty MockJournalStore
func NewMockJournalStore() *MockJournalStore {
	return &MockJournalStore{}
}

func (m *MockJournalStore) Append(ctx context.Context, entry *domain.JournalEntry) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNextAppend {
		m.FailNextAppend = false
		return 0, fmt.Errorf("append failed: %w", domain.ErrCorrupt)
	}

	if err := entry.Validate(); err != nil {
		return 0, err
	}

	entry.Sequence = uint64(len(m.entries)) + 1
	entry.Seal(m.lastHash)

	m.entries = append(m.entries, entry)
	m.lastHash = entry.ContentHash()
	return entry.Sequence, nil
}

func (m *MockJournalStore) ScanAll(ctx context.Context) ([]*domain.JournalEntry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.JournalEntry, len(m.entries))
	copy(out, m.entries)
	return out, m.Corrupt, nil
}

func (m *MockJournalStore) Verify(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prevContent := ""
	for i, entry := range m.entries {
		if entry.PrevHash != prevContent {
			return fmt.Errorf("entry %d: %w", entry.Sequence, domain.ErrCorrupt)
		}
		content := entry.ContentHash()
		if entry.Hash != domain.ChainHash(entry.PrevHash, content) {
			return fmt.Errorf("entry %d: %w", entry.Sequence, domain.ErrCorrupt)
		}
		if entry.Sequence != uint64(i)+1 {
			return fmt.Errorf("entry %d: sequence gap: %w", entry.Sequence, domain.ErrCorrupt)
		}
		prevContent = content
	}
	return nil
}

func (m *MockJournalStore) LastSequence() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.entries))
}

// Entries returns a copy of everything appended so far
func (m *MockJournalStore) Entries() []*domain.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.JournalEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// TamperPayload rewrites the payload of the entry at the given sequence
// without resealing, for chain-verification tests.
func (m *MockJournalStore) TamperPayload(sequence uint64, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.entries {
		if entry.Sequence == sequence {
			entry.Payload = payload
			return
		}
	}
}

// MockJournalLookup is an in-memory JournalLookup for testing
type MockJournalLookup struct {
	mu      sync.Mutex
	Entries map[string]uint64
	Flushes int
}

// NewMockJournalLookup creates an empty MockJournalLookup
func NewMockJournalLookup() *MockJournalLookup {
	return &MockJournalLookup{Entries: make(map[string]uint64)}
}

func (m *MockJournalLookup) Set(collection, key string, sequence uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries[collection+"/"+key] = sequence
}

func (m *MockJournalLookup) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushes++
	return nil
}
