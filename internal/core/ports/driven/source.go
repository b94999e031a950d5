package driven

import (
	"context"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// SourceReader supplies a full normalized snapshot of the external source
// for bulk import. It never computes hashes or sequences.
type SourceReader interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}

// LiveSource supplies paginated listings from the live external source for
// the sync reconciler. A fetch failure must be distinguishable from "no
// more data": implementations return domain.ErrSourceUnreachable (wrapped)
// on transport failure and an empty batch with cursor "" when drained.
type LiveSource interface {
	// FetchCollections returns one page of collections plus the cursor for
	// the next page ("" when there are no more).
	FetchCollections(ctx context.Context, cursor string) ([]*domain.SourceCollection, string, error)

	// FetchItems returns one page of items plus the next cursor.
	FetchItems(ctx context.Context, cursor string) ([]*domain.SourceItem, string, error)
}
