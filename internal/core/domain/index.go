package domain

// Index is the in-memory materialized view derived by replaying the journal.
// It holds no state that is not derivable from the journal: the index at
// version N is always obtainable by replaying entries 1..N in order.
//
// All mutation goes through the projector fold under the owning service's
// exclusive lock; readers see a consistent snapshot under the shared lock.
type Index struct {
	Records     map[string]*Record
	Collections map[string]*Collection

	// Children maps a parent item key to its attachment/note keys.
	Children map[string][]string

	// Members maps a collection key to its member item keys.
	Members map[string][]string

	Scores      map[string]*ScoreSet
	MultiScores map[string][]*ScorerScore

	// ByIdentifier maps an external identifier (DOI) to the canonical
	// record's key; VariantParents maps a variant key to its parent
	// identifier.
	ByIdentifier   map[string]string
	VariantParents map[string]string

	Publishers      map[string]*Publisher
	PublisherScores map[string]*ScoreSet
	ItemPublisher   map[string]string
	ItemFunding     map[string]FundingCategory

	// LastVersion is the highest journal sequence folded in.
	LastVersion uint64
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		Records:         make(map[string]*Record),
		Collections:     make(map[string]*Collection),
		Children:        make(map[string][]string),
		Members:         make(map[string][]string),
		Scores:          make(map[string]*ScoreSet),
		MultiScores:     make(map[string][]*ScorerScore),
		ByIdentifier:    make(map[string]string),
		VariantParents:  make(map[string]string),
		Publishers:      make(map[string]*Publisher),
		PublisherScores: make(map[string]*ScoreSet),
		ItemPublisher:   make(map[string]string),
		ItemFunding:     make(map[string]FundingCategory),
	}
}

// Record returns the record for key, or ErrNotFound.
func (ix *Index) Record(key string) (*Record, error) {
	r, ok := ix.Records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// Collection returns the collection for key, or ErrNotFound.
func (ix *Index) Collection(key string) (*Collection, error) {
	c, ok := ix.Collections[key]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}
