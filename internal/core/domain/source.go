package domain

import "time"

// SourceCollection is a collection as reported by the external source,
// already normalized by the source reader.
type SourceCollection struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	ParentKey string `json:"parent_key,omitempty"`
}

// SourceItem is a record as reported by the external source. The source
// reader normalizes the foreign schema; it never computes hashes or
// sequences.
type SourceItem struct {
	Key          string            `json:"key"`
	Kind         RecordKind        `json:"kind"`
	ItemType     string            `json:"item_type,omitempty"`
	Title        string            `json:"title,omitempty"`
	ParentKey    string            `json:"parent_key,omitempty"`
	Identifier   string            `json:"identifier,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	Collections  []string          `json:"collections,omitempty"`
	DateAdded    time.Time         `json:"date_added"`
	DateModified time.Time         `json:"date_modified"`
}

// Record converts the normalized source item into a domain record.
func (it *SourceItem) Record() *Record {
	return &Record{
		Key:          it.Key,
		Kind:         it.Kind,
		ItemType:     it.ItemType,
		Title:        it.Title,
		ParentKey:    it.ParentKey,
		Identifier:   it.Identifier,
		Fields:       it.Fields,
		DateAdded:    it.DateAdded,
		DateModified: it.DateModified,
	}
}

// Snapshot is a full normalized export of the external source's library.
type Snapshot struct {
	Collections []*SourceCollection `json:"collections"`
	Items       []*SourceItem       `json:"items"`
}

// SyncStats counts the outcome of one reconciliation run.
type SyncStats struct {
	CollectionsAdded int `json:"collections_added"`
	ItemsAdded       int `json:"items_added"`
	ItemsUpdated     int `json:"items_updated"`
	Memberships      int `json:"memberships"`
	Skipped          int `json:"skipped"`
	TypeConflicts    int `json:"type_conflicts"`
	Errors           int `json:"errors"`
}

// Appended reports how many journal entries the run produced.
func (s SyncStats) Appended() int {
	return s.CollectionsAdded + s.ItemsAdded + s.ItemsUpdated + s.Memberships
}

// SyncResult summarizes one reconciliation run.
type SyncResult struct {
	Success     bool      `json:"success"`
	Stats       SyncStats `json:"stats"`
	Duration    float64   `json:"duration_seconds"`
	LastVersion uint64    `json:"last_version"`
	Error       string    `json:"error,omitempty"`
}

// ImportStats counts the outcome of one bulk import.
type ImportStats struct {
	Collections int `json:"collections"`
	Items       int `json:"items"`
	Attachments int `json:"attachments"`
	Notes       int `json:"notes"`
	Memberships int `json:"memberships"`
	Entries     int `json:"entries"`
}
