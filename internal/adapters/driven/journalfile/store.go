package journalfile

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.JournalStore = (*Store)(nil)

// maxLineBytes bounds a single journal line during scans.
const maxLineBytes = 4 * 1024 * 1024

// Store implements driven.JournalStore over a line-delimited file. One
// JSON object per line; the chain fields are assigned here and nowhere
// else.
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	file     *os.File
	lastSeq  uint64
	lastHash string // content hash of the last durably written entry
}

// Open opens (or creates) the journal file and recovers the last sequence
// and chain position from a full scan.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	s := &Store{path: path, file: f, logger: logger}

	entries, corrupt, err := s.scan()
	if err != nil {
		f.Close()
		return nil, err
	}
	if corrupt > 0 {
		logger.Warn("journal contains unparseable lines", "path", path, "count", corrupt)
	}
	if n := len(entries); n > 0 {
		last := entries[n-1]
		s.lastSeq = last.Sequence
		s.lastHash = last.ContentHash()
	}
	return s, nil
}

// Close closes the underlying file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// LastSequence returns the highest assigned sequence (0 if empty).
func (s *Store) LastSequence() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeq
}

// Append assigns the next sequence, seals the chain fields, and durably
// writes the entry as one line. The sequence counter and chain position
// advance only after the write and sync return, so a failed append leaves
// the next append unaffected.
func (s *Store) Append(ctx context.Context, entry *domain.JournalEntry) (uint64, error) {
	if err := entry.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Sequence = s.lastSeq + 1
	entry.Seal(s.lastHash)

	line, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal entry: %w", err)
	}

	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return 0, fmt.Errorf("failed to write entry %d: %w", entry.Sequence, err)
	}
	if err := s.file.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync journal: %w", err)
	}

	s.lastSeq = entry.Sequence
	s.lastHash = entry.ContentHash()
	return entry.Sequence, nil
}

// ScanAll reads every line in file order. Malformed lines are skipped and
// counted, never fatal: a corrupt trailing entry must not block replay of
// valid earlier entries.
func (s *Store) ScanAll(ctx context.Context) ([]*domain.JournalEntry, int, error) {
	return s.scan()
}

func (s *Store) scan() ([]*domain.JournalEntry, int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to open journal for scan: %w", err)
	}
	defer f.Close()

	var entries []*domain.JournalEntry
	corrupt := 0
	lineNo := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry domain.JournalEntry
		if err := json.Unmarshal(line, &entry); err != nil || entry.Sequence == 0 {
			s.logger.Warn("skipping corrupt journal line",
				"path", s.path,
				"line", lineNo,
				"error", err,
			)
			corrupt++
			continue
		}
		entries = append(entries, &entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, corrupt, fmt.Errorf("journal scan failed: %w", err)
	}
	return entries, corrupt, nil
}

// Verify re-reads the journal and checks the chain: each entry's prev_hash
// must equal the previous entry's content hash, and each hash must equal
// the chain hash of the two.
func (s *Store) Verify(ctx context.Context) error {
	entries, corrupt, err := s.scan()
	if err != nil {
		return err
	}
	if corrupt > 0 {
		return fmt.Errorf("%w: %d unparseable lines", domain.ErrCorrupt, corrupt)
	}

	prevContent := ""
	for i, e := range entries {
		if e.PrevHash != prevContent {
			return fmt.Errorf("%w: entry %d prev_hash mismatch", domain.ErrCorrupt, e.Sequence)
		}
		content := e.ContentHash()
		if e.Hash != domain.ChainHash(e.PrevHash, content) {
			return fmt.Errorf("%w: entry %d hash mismatch", domain.ErrCorrupt, e.Sequence)
		}
		if i > 0 && e.Sequence != entries[i-1].Sequence+1 {
			return fmt.Errorf("%w: sequence gap at entry %d", domain.ErrCorrupt, e.Sequence)
		}
		prevContent = content
	}
	return nil
}
