package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// EntryType identifies how a journal entry's payload is interpreted
type EntryType string

const (
	EntryRecordInsert   EntryType = "record-insert"
	EntryRecordUpdate   EntryType = "record-update"
	EntryDeletion       EntryType = "deletion"
	EntryCollection     EntryType = "collection"
	EntryMembership     EntryType = "collection-membership"
	EntryScore          EntryType = "score"
	EntryScoreMulti     EntryType = "score-multi"
	EntryPublisher      EntryType = "publisher"
	EntryPublisherScore EntryType = "publisher-score"
	EntryItemPublisher  EntryType = "item-publisher"
	EntryItemFunding    EntryType = "item-funding"
)

// Collection discriminators recorded on each entry
const (
	CollectionItems       = "items"
	CollectionCollections = "collections"
	CollectionScores      = "scores"
	CollectionPublishers  = "publishers"
	CollectionFunding     = "funding"
)

// JournalEntry is the immutable append-only unit of the journal.
// Created only by JournalStore.Append; never mutated, never deleted.
// Logical deletion is itself an appended entry.
type JournalEntry struct {
	Sequence   uint64          `json:"sequence"`
	Timestamp  time.Time       `json:"timestamp"`
	Type       EntryType       `json:"type"`
	Collection string          `json:"collection"`
	Payload    json.RawMessage `json:"payload"`
	Actor      string          `json:"actor"`
	Rationale  string          `json:"rationale"`
	PrevHash   string          `json:"prev_hash"`
	Hash       string          `json:"hash"`
}

// Validate checks the provenance contract: every entry carries a non-empty
// actor and rationale.
func (e *JournalEntry) Validate() error {
	if e.Type == "" || e.Actor == "" || e.Rationale == "" {
		return ErrInvalidInput
	}
	return nil
}

// canonicalEntry is the hashed projection of an entry. Timestamp and the
// hash fields themselves are excluded so that the same logical entry
// produces the same content hash across runs.
type canonicalEntry struct {
	Sequence   uint64          `json:"sequence"`
	Type       EntryType       `json:"type"`
	Collection string          `json:"collection"`
	Payload    json.RawMessage `json:"payload"`
	Actor      string          `json:"actor"`
	Rationale  string          `json:"rationale"`
}

// CanonicalBytes returns the deterministic serialization used for hashing.
func (e *JournalEntry) CanonicalBytes() []byte {
	b, _ := json.Marshal(canonicalEntry{
		Sequence:   e.Sequence,
		Type:       e.Type,
		Collection: e.Collection,
		Payload:    e.Payload,
		Actor:      e.Actor,
		Rationale:  e.Rationale,
	})
	return b
}

// ContentHash returns the sha256 hex digest of the canonical serialization.
func (e *JournalEntry) ContentHash() string {
	sum := sha256.Sum256(e.CanonicalBytes())
	return hex.EncodeToString(sum[:])
}

// ChainHash combines the previous entry's content hash with this entry's.
func ChainHash(prevHash, contentHash string) string {
	sum := sha256.Sum256([]byte(prevHash + contentHash))
	return hex.EncodeToString(sum[:])
}

// Seal assigns the chain fields for an entry whose sequence and payload are
// already set. prevHash is the previous entry's content hash, or "" for the
// first entry of a journal.
func (e *JournalEntry) Seal(prevHash string) {
	e.PrevHash = prevHash
	e.Hash = ChainHash(prevHash, e.ContentHash())
}

// Payload variants, one per EntryType. Decoded once at replay time.

// MembershipPayload links an item into a collection.
type MembershipPayload struct {
	CollectionKey string `json:"collection_key"`
	ItemKey       string `json:"item_key"`
}

// DeletionPayload marks a record as logically deleted.
type DeletionPayload struct {
	Key string `json:"key"`
}

// ScorePayload carries a single-scorer quality score for an item.
type ScorePayload struct {
	ItemKey    string                     `json:"item_key"`
	Dimensions map[ScoreDimension]float64 `json:"dimensions"`
}

// MultiScorePayload carries one scorer's score in a multi-scorer set.
type MultiScorePayload struct {
	ItemKey    string                     `json:"item_key"`
	Scorer     string                     `json:"scorer"`
	Dimensions map[ScoreDimension]float64 `json:"dimensions"`
}

// PublisherScorePayload carries a quality score for a publisher.
type PublisherScorePayload struct {
	Publisher  string                     `json:"publisher"`
	Dimensions map[ScoreDimension]float64 `json:"dimensions"`
}

// ItemPublisherPayload annotates an item with its publisher.
type ItemPublisherPayload struct {
	ItemKey   string `json:"item_key"`
	Publisher string `json:"publisher"`
}

// ItemFundingPayload annotates an item with its funding category.
type ItemFundingPayload struct {
	ItemKey  string          `json:"item_key"`
	Category FundingCategory `json:"category"`
}

// NewEntry builds an unsealed entry for the given payload. The payload is
// marshalled once here; the same bytes feed both the content hash and the
// persisted line.
func NewEntry(t EntryType, collection string, payload any, actor, rationale string) (*JournalEntry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	e := &JournalEntry{
		Timestamp:  time.Now().UTC(),
		Type:       t,
		Collection: collection,
		Payload:    raw,
		Actor:      actor,
		Rationale:  rationale,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}
