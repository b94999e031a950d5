package postgres

import (
	"context"
	"fmt"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.JournalMirror = (*Mirror)(nil)

const mirrorSchema = `
CREATE TABLE IF NOT EXISTS journal_entries (
	sequence   BIGINT PRIMARY KEY,
	ts         TIMESTAMPTZ NOT NULL,
	entry_type TEXT NOT NULL,
	collection TEXT NOT NULL,
	payload    JSONB NOT NULL,
	actor      TEXT NOT NULL,
	rationale  TEXT NOT NULL DEFAULT '',
	prev_hash  TEXT NOT NULL,
	hash       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_entries_type ON journal_entries(entry_type);
CREATE INDEX IF NOT EXISTS idx_journal_entries_collection ON journal_entries(collection);
`

// Mirror is a write-behind copy of the journal kept in Postgres for SQL
// inspection. The journal file remains the system of record: callers log
// and ignore Mirror errors.
type Mirror struct {
	db *DB
}

// NewMirror creates a Mirror on top of an open connection pool
func NewMirror(db *DB) *Mirror {
	return &Mirror{db: db}
}

// InitSchema creates the mirror table if missing (idempotent)
func (m *Mirror) InitSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, mirrorSchema); err != nil {
		return fmt.Errorf("failed to initialize mirror schema: %w", err)
	}
	return nil
}

// Record copies one appended entry. Replays upsert on sequence so that
// re-mirroring an existing journal is safe.
func (m *Mirror) Record(ctx context.Context, entry *domain.JournalEntry) error {
	const q = `
		INSERT INTO journal_entries (sequence, ts, entry_type, collection, payload, actor, rationale, prev_hash, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (sequence) DO UPDATE SET
			ts = EXCLUDED.ts,
			entry_type = EXCLUDED.entry_type,
			collection = EXCLUDED.collection,
			payload = EXCLUDED.payload,
			actor = EXCLUDED.actor,
			rationale = EXCLUDED.rationale,
			prev_hash = EXCLUDED.prev_hash,
			hash = EXCLUDED.hash`

	_, err := m.db.ExecContext(ctx, q,
		int64(entry.Sequence),
		entry.Timestamp,
		string(entry.Type),
		string(entry.Collection),
		[]byte(entry.Payload),
		entry.Actor,
		entry.Rationale,
		entry.PrevHash,
		entry.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to mirror entry %d: %w", entry.Sequence, err)
	}
	return nil
}
