package driving

import (
	"context"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// CreateItemRequest carries a new record plus its provenance block
type CreateItemRequest struct {
	Record    *domain.Record `json:"record"`
	Actor     string         `json:"actor"`
	Rationale string         `json:"rationale"`
}

// UpdateItemRequest carries edited fields for an existing record
type UpdateItemRequest struct {
	Title     *string           `json:"title,omitempty"`
	ItemType  *string           `json:"item_type,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Actor     string            `json:"actor"`
	Rationale string            `json:"rationale"`
}

// VariantRequest asks for an editable variant of a canonical record
type VariantRequest struct {
	Label     string `json:"label,omitempty"`
	Actor     string `json:"actor"`
	Rationale string `json:"rationale"`
}

// ScoreRequest carries a single-scorer score for an item
type ScoreRequest struct {
	Dimensions map[domain.ScoreDimension]float64 `json:"dimensions"`
	Actor      string                            `json:"actor"`
	Rationale  string                            `json:"rationale"`
}

// MultiScoreRequest carries one scorer's contribution
type MultiScoreRequest struct {
	Scorer     string                            `json:"scorer"`
	Dimensions map[domain.ScoreDimension]float64 `json:"dimensions"`
	Actor      string                            `json:"actor"`
	Rationale  string                            `json:"rationale"`
}

// PublisherRequest upserts a publisher registry entry
type PublisherRequest struct {
	Publisher *domain.Publisher `json:"publisher"`
	Actor     string            `json:"actor"`
	Rationale string            `json:"rationale"`
}

// ItemPublisherRequest annotates an item with its publisher
type ItemPublisherRequest struct {
	Publisher string `json:"publisher"`
	Actor     string `json:"actor"`
	Rationale string `json:"rationale"`
}

// ItemFundingRequest annotates an item with its funding category
type ItemFundingRequest struct {
	Category  domain.FundingCategory `json:"category"`
	Actor     string                 `json:"actor"`
	Rationale string                 `json:"rationale"`
}

// DeleteRequest carries provenance for a logical deletion
type DeleteRequest struct {
	Actor     string `json:"actor"`
	Rationale string `json:"rationale"`
}

// ScoreReport combines an item's single score, its multi-scorer scores, and
// their aggregate.
type ScoreReport struct {
	Key       string                 `json:"key"`
	Score     *domain.ScoreSet       `json:"score,omitempty"`
	Scorers   []*domain.ScorerScore  `json:"scorers,omitempty"`
	Aggregate *domain.ScoreAggregate `json:"aggregate,omitempty"`
	Version   uint64                 `json:"version"`
}

// LibraryService is the read/write API over the materialized index and the
// journal. Every write's only durable effect is one or more journal
// appends.
type LibraryService interface {
	// Reads
	ListItems(ctx context.Context, opts domain.ListOptions) (*domain.ItemList, error)
	GetItem(ctx context.Context, key string) (*domain.Record, uint64, error)
	Children(ctx context.Context, key string) ([]*domain.Record, uint64, error)
	DOIStatus(ctx context.Context, key string) (*domain.DOIStatus, uint64, error)
	GetScores(ctx context.Context, key string) (*ScoreReport, error)
	ListCollections(ctx context.Context) ([]*domain.Collection, uint64, error)
	GetCollection(ctx context.Context, key string) (*domain.Collection, uint64, error)
	CollectionItems(ctx context.Context, key string) ([]*domain.Record, uint64, error)
	ListPublishers(ctx context.Context) ([]*domain.Publisher, uint64, error)
	Blindspots(ctx context.Context) (*domain.BlindspotReport, error)
	Version(ctx context.Context) uint64

	// Writes
	CreateItem(ctx context.Context, req CreateItemRequest) (*domain.Record, error)
	UpdateItem(ctx context.Context, key string, req UpdateItemRequest) (*domain.Record, error)
	DeleteItem(ctx context.Context, key string, req DeleteRequest) error
	CreateVariant(ctx context.Context, key string, req VariantRequest) (*domain.Record, error)
	SetScore(ctx context.Context, key string, req ScoreRequest) (*domain.ScoreSet, error)
	AddScorerScore(ctx context.Context, key string, req MultiScoreRequest) (*ScoreReport, error)
	UpsertPublisher(ctx context.Context, req PublisherRequest) (*domain.Publisher, error)
	SetPublisherScore(ctx context.Context, name string, req ScoreRequest) (*domain.ScoreSet, error)
	SetItemPublisher(ctx context.Context, key string, req ItemPublisherRequest) error
	SetItemFunding(ctx context.Context, key string, req ItemFundingRequest) error

	// VerifyChain re-checks the journal's hash chain
	VerifyChain(ctx context.Context) error
}
