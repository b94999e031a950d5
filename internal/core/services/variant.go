package services

import (
	"time"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// BuildVariant copies a canonical record into an editable variant. The
// canonical record is not mutated: the variant is a new record whose
// parent identifier points back at the canonical identifier and whose own
// identifier field is cleared. Multiple variants of one canonical record
// are allowed.
func BuildVariant(canonical *domain.Record, newKey, label string) (*domain.Record, error) {
	if canonical.ParentIdentifier != "" {
		return nil, domain.ErrAlreadyVariant
	}
	if canonical.Identifier == "" {
		return nil, domain.ErrNoIdentifier
	}

	v := canonical.Clone()
	v.Key = newKey
	v.ParentIdentifier = canonical.Identifier
	v.Identifier = ""
	if label != "" {
		v.Title = v.Title + " " + label
	}
	now := time.Now().UTC()
	v.DateAdded = now
	v.DateModified = now
	return v, nil
}
