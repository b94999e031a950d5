package driven

import (
	"context"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// JournalMirror keeps a non-authoritative write-behind copy of appended
// entries in an external database for SQL inspection. Mirror failures are
// logged, never surfaced: the journal file stays the system of record and
// mirror errors must not affect append durability or sequence state.
type JournalMirror interface {
	// InitSchema creates the mirror table if missing (idempotent)
	InitSchema(ctx context.Context) error

	// Record copies one appended entry
	Record(ctx context.Context, entry *domain.JournalEntry) error
}
