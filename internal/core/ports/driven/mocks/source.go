package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// MockSourceReader is a canned SourceReader for import tests
type MockSourceReader struct {
	Snap *domain.Snapshot
	Err  error
}

// NewMockSourceReader creates a MockSourceReader serving the given snapshot
func NewMockSourceReader(snap *domain.Snapshot) *MockSourceReader {
	return &MockSourceReader{Snap: snap}
}

func (m *MockSourceReader) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Snap, nil
}

// MockLiveSource pages canned collections and items for reconciler tests.
// PageSize controls how many entries each fetch returns; FailAfterPages
// makes fetches fail once that many item pages have been served.
type MockLiveSource struct {
	mu          sync.Mutex
	Collections []*domain.SourceCollection
	Items       []*domain.SourceItem
	PageSize    int

	FailAfterPages int
	itemPages      int
}

// NewMockLiveSource creates a MockLiveSource serving the given data
func NewMockLiveSource(collections []*domain.SourceCollection, items []*domain.SourceItem) *MockLiveSource {
	return &MockLiveSource{
		Collections:    collections,
		Items:          items,
		PageSize:       50,
		FailAfterPages: -1,
	}
}

func (m *MockLiveSource) FetchCollections(ctx context.Context, cursor string) ([]*domain.SourceCollection, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := parseCursor(cursor)
	if start >= len(m.Collections) {
		return nil, "", nil
	}
	end := start + m.pageSize()
	if end > len(m.Collections) {
		end = len(m.Collections)
	}
	next := ""
	if end < len(m.Collections) {
		next = fmt.Sprintf("%d", end)
	}
	return m.Collections[start:end], next, nil
}

func (m *MockLiveSource) FetchItems(ctx context.Context, cursor string) ([]*domain.SourceItem, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAfterPages >= 0 && m.itemPages >= m.FailAfterPages {
		return nil, "", fmt.Errorf("fetch items: %w", domain.ErrSourceUnreachable)
	}
	m.itemPages++

	start := parseCursor(cursor)
	if start >= len(m.Items) {
		return nil, "", nil
	}
	end := start + m.pageSize()
	if end > len(m.Items) {
		end = len(m.Items)
	}
	next := ""
	if end < len(m.Items) {
		next = fmt.Sprintf("%d", end)
	}
	return m.Items[start:end], next, nil
}

func (m *MockLiveSource) pageSize() int {
	if m.PageSize <= 0 {
		return 50
	}
	return m.PageSize
}

func parseCursor(cursor string) int {
	if cursor == "" {
		return 0
	}
	var n int
	fmt.Sscanf(cursor, "%d", &n)
	return n
}
