package domain

// ListOptions is the filtering/pagination contract for item listing queries.
// Filters apply in a fixed order: ItemType, Query, MinScore, HasScore,
// HasIdentifier, IsVariant; then sort by DateModified descending; then the
// [Start, Start+Limit) slice.
type ListOptions struct {
	ItemType      string
	Query         string // case-insensitive substring on title
	MinScore      *float64
	HasScore      *bool
	HasIdentifier *bool
	IsVariant     *bool
	Start         int
	Limit         int // capped at MaxListLimit; 0 means MaxListLimit
}

// MaxListLimit caps listing page size.
const MaxListLimit = 100

// ItemList is a listing page plus the index version it was computed at.
type ItemList struct {
	Items   []*Record `json:"items"`
	Total   int       `json:"total"`
	Start   int       `json:"start"`
	Version uint64    `json:"version"`
}
