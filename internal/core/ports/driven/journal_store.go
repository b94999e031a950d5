package driven

import (
	"context"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// JournalStore owns the on-disk append-only log and its hash chain.
type JournalStore interface {
	// Append assigns the next sequence, seals the chain fields, and
	// durably writes the entry as one line. At most one append is in
	// flight; the in-memory last-sequence counter advances only after the
	// durable write returns.
	Append(ctx context.Context, entry *domain.JournalEntry) (uint64, error)

	// ScanAll reads every line in sequence order. Malformed lines are
	// skipped and counted, never fatal: a corrupt trailing entry must not
	// block replay of valid earlier entries.
	ScanAll(ctx context.Context) ([]*domain.JournalEntry, int, error)

	// Verify re-reads the journal and checks the chain: every entry's
	// prev_hash must equal the previous entry's content hash, and every
	// hash must equal the chain hash of the two.
	Verify(ctx context.Context) error

	// LastSequence returns the highest assigned sequence (0 if empty).
	LastSequence() uint64
}

// JournalLookup maintains the rebuildable side index mapping
// (collection, key) to sequence. Not authoritative.
type JournalLookup interface {
	Set(collection, key string, sequence uint64)
	Flush() error
}
