package domain

// Classification is the closed record-mutability classification.
// Every record falls into exactly one class; call sites branch on this
// instead of checking identifier fields ad hoc.
type Classification string

const (
	// Canonical records carry an external identifier and no parent
	// identifier. They are immutable except via variant creation.
	Canonical Classification = "canonical"

	// Variant records carry a parent identifier. They are editable copies
	// of a canonical record.
	Variant Classification = "variant"

	// Unconstrained records carry neither and have no mutation gates.
	Unconstrained Classification = "unconstrained"
)

// Classify returns the record's mutability class. Total: every record maps
// to one of the three classes.
func Classify(r *Record) Classification {
	switch {
	case r.ParentIdentifier != "":
		return Variant
	case r.Identifier != "":
		return Canonical
	default:
		return Unconstrained
	}
}

// CanEdit reports whether the record's fields may be edited in place.
func CanEdit(r *Record) bool {
	return Classify(r) != Canonical
}

// CanAttachChild reports whether notes and attachments may be attached.
// Children may only be attached to variant or unconstrained records.
func CanAttachChild(r *Record) bool {
	return Classify(r) != Canonical
}

// DOIStatus is the API projection of a record's classification.
type DOIStatus struct {
	Key              string         `json:"key"`
	Classification   Classification `json:"classification"`
	Identifier       string         `json:"identifier,omitempty"`
	ParentIdentifier string         `json:"parent_identifier,omitempty"`
	Editable         bool           `json:"editable"`
}
