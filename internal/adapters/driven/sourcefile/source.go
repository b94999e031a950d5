package sourcefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SourceReader = (*Source)(nil)
var _ driven.LiveSource = (*Source)(nil)

const defaultPageSize = 50

// Source serves a normalized JSON export file as both a full snapshot for
// bulk import and a paginated live source for the reconciler. The file is
// re-read on every snapshot and on every first page, so a refreshed export
// is picked up without a restart.
type Source struct {
	path     string
	pageSize int

	mu   sync.Mutex
	snap *domain.Snapshot
}

// New creates a Source reading from the given export file
func New(path string) *Source {
	return &Source{path: path, pageSize: defaultPageSize}
}

// NewWithPageSize creates a Source with a custom live-source page size
func NewWithPageSize(path string, pageSize int) *Source {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Source{path: path, pageSize: pageSize}
}

// Snapshot reads and decodes the full export file
func (s *Source) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source export %s: %w", s.path, domain.ErrSourceUnreachable)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse source export %s: %w", s.path, err)
	}

	return &snap, nil
}

// FetchCollections returns one page of collections. An empty cursor reloads
// the export file so a sync pass always sees its current contents.
func (s *Source) FetchCollections(ctx context.Context, cursor string) ([]*domain.SourceCollection, string, error) {
	snap, err := s.load(ctx, cursor == "")
	if err != nil {
		return nil, "", err
	}

	start, err := parseCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	if start >= len(snap.Collections) {
		return nil, "", nil
	}

	end := start + s.pageSize
	if end > len(snap.Collections) {
		end = len(snap.Collections)
	}
	next := ""
	if end < len(snap.Collections) {
		next = strconv.Itoa(end)
	}
	return snap.Collections[start:end], next, nil
}

// FetchItems returns one page of items
func (s *Source) FetchItems(ctx context.Context, cursor string) ([]*domain.SourceItem, string, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return nil, "", err
	}

	start, err := parseCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	if start >= len(snap.Items) {
		return nil, "", nil
	}

	end := start + s.pageSize
	if end > len(snap.Items) {
		end = len(snap.Items)
	}
	next := ""
	if end < len(snap.Items) {
		next = strconv.Itoa(end)
	}
	return snap.Items[start:end], next, nil
}

// load returns the cached decode, re-reading the file when refresh is set
// or nothing is cached yet. The cache keeps one sync pass internally
// consistent even if the file changes mid-pass.
func (s *Source) load(ctx context.Context, refresh bool) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap != nil && !refresh {
		return s.snap, nil
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	s.snap = snap
	return snap, nil
}

func parseCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cursor)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid cursor %q: %w", cursor, domain.ErrInvalidInput)
	}
	return n, nil
}
