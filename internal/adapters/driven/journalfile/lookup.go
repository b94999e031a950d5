package journalfile

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/refledger/refledger-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.JournalLookup = (*Lookup)(nil)

// Lookup maintains the side index file mapping "collection/key" to the
// sequence of the latest entry that touched it. Rebuildable, not
// authoritative: losing it costs nothing but a rescan.
type Lookup struct {
	path string

	mu      sync.Mutex
	entries map[string]uint64
}

// OpenLookup loads an existing lookup file or starts an empty one.
func OpenLookup(path string) (*Lookup, error) {
	l := &Lookup{path: path, entries: make(map[string]uint64)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read lookup file: %w", err)
	}
	if err := json.Unmarshal(data, &l.entries); err != nil {
		// Rebuildable: a damaged lookup file is discarded, not fatal.
		l.entries = make(map[string]uint64)
	}
	return l, nil
}

// Set records the latest sequence for a (collection, key) pair.
func (l *Lookup) Set(collection, key string, sequence uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[collection+"/"+key] = sequence
}

// Get returns the recorded sequence for a (collection, key) pair.
func (l *Lookup) Get(collection, key string) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	seq, ok := l.entries[collection+"/"+key]
	return seq, ok
}

// Flush writes the lookup map to disk.
func (l *Lookup) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0o644)
}
