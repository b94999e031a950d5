package driving

import (
	"context"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// SyncReconciler diffs the live external source against the index and
// appends only changed or new entries, continuing the existing chain.
type SyncReconciler interface {
	// Run performs one full reconciliation pass. Re-running with an
	// unchanged source appends zero entries.
	Run(ctx context.Context) (*domain.SyncResult, error)
}

// BulkImporter produces a complete, freshly chained journal from a full
// external snapshot. Used once, at migration time.
type BulkImporter interface {
	Run(ctx context.Context) (*domain.ImportStats, error)
}
