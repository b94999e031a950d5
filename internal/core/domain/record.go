package domain

import "time"

// RecordKind distinguishes top-level items from their children
type RecordKind string

const (
	KindItem       RecordKind = "item"
	KindAttachment RecordKind = "attachment"
	KindNote       RecordKind = "note"
)

// Record is a bibliographic item, attachment, or note.
type Record struct {
	Key      string     `json:"key"`
	Kind     RecordKind `json:"kind"`
	ItemType string     `json:"item_type,omitempty"` // journalArticle, book, report, ...
	Title    string     `json:"title,omitempty"`

	// ParentKey links attachments and notes to their parent item
	ParentKey string `json:"parent_key,omitempty"`

	// Identifier is the external identifier (DOI). A record with an
	// identifier and no ParentIdentifier is canonical and immutable.
	Identifier string `json:"identifier,omitempty"`

	// ParentIdentifier marks this record as an editable variant of the
	// canonical record bearing that identifier.
	ParentIdentifier string `json:"parent_identifier,omitempty"`

	// Fields holds free-form bibliographic fields (creators, publication,
	// volume, url, ...)
	Fields map[string]string `json:"fields,omitempty"`

	DateAdded    time.Time `json:"date_added"`
	DateModified time.Time `json:"date_modified"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	if r.Fields != nil {
		c.Fields = make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			c.Fields[k] = v
		}
	}
	return &c
}

// Collection groups items under a key, optionally nested under a parent.
type Collection struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	ParentKey string    `json:"parent_key,omitempty"`
	DateAdded time.Time `json:"date_added"`
}
