package services

import (
	"encoding/json"
	"log/slog"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// Projector folds journal entries into the in-memory index. The same Apply
// step serves full replay at startup and incremental updates after a live
// append, so "replay from empty" and "replay then apply one more" always
// agree.
type Projector struct {
	logger *slog.Logger
}

// NewProjector creates a projector.
func NewProjector(logger *slog.Logger) *Projector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projector{logger: logger}
}

// Replay folds entries in ascending sequence order into a fresh index.
func (p *Projector) Replay(entries []*domain.JournalEntry) *domain.Index {
	ix := domain.NewIndex()
	for _, e := range entries {
		p.Apply(ix, e)
	}
	return ix
}

// Apply folds one entry into the index. Unknown entry types and malformed
// payloads are ignored for that entry only; the version still advances,
// since the index at sequence N reflects replaying entries 1..N whether or
// not entry N carried usable data.
func (p *Projector) Apply(ix *domain.Index, e *domain.JournalEntry) {
	switch e.Type {
	case domain.EntryRecordInsert, domain.EntryRecordUpdate:
		var rec domain.Record
		if err := json.Unmarshal(e.Payload, &rec); err != nil || rec.Key == "" {
			p.skip(e, err)
		} else {
			p.applyRecord(ix, &rec)
		}

	case domain.EntryDeletion:
		var del domain.DeletionPayload
		if err := json.Unmarshal(e.Payload, &del); err != nil || del.Key == "" {
			p.skip(e, err)
		} else {
			p.applyDeletion(ix, del.Key)
		}

	case domain.EntryCollection:
		var col domain.Collection
		if err := json.Unmarshal(e.Payload, &col); err != nil || col.Key == "" {
			p.skip(e, err)
		} else {
			ix.Collections[col.Key] = &col
		}

	case domain.EntryMembership:
		var m domain.MembershipPayload
		if err := json.Unmarshal(e.Payload, &m); err != nil || m.CollectionKey == "" || m.ItemKey == "" {
			p.skip(e, err)
		} else if !contains(ix.Members[m.CollectionKey], m.ItemKey) {
			ix.Members[m.CollectionKey] = append(ix.Members[m.CollectionKey], m.ItemKey)
		}

	case domain.EntryScore:
		var sp domain.ScorePayload
		if err := json.Unmarshal(e.Payload, &sp); err != nil || sp.ItemKey == "" {
			p.skip(e, err)
		} else if set, err := domain.NewScoreSet(sp.Dimensions); err != nil {
			p.skip(e, err)
		} else {
			ix.Scores[sp.ItemKey] = set
		}

	case domain.EntryScoreMulti:
		var sp domain.MultiScorePayload
		if err := json.Unmarshal(e.Payload, &sp); err != nil || sp.ItemKey == "" || sp.Scorer == "" {
			p.skip(e, err)
		} else if set, err := domain.NewScoreSet(sp.Dimensions); err != nil {
			p.skip(e, err)
		} else {
			p.applyScorerScore(ix, sp.ItemKey, sp.Scorer, set)
		}

	case domain.EntryPublisher:
		var pub domain.Publisher
		if err := json.Unmarshal(e.Payload, &pub); err != nil || pub.Name == "" {
			p.skip(e, err)
		} else {
			ix.Publishers[pub.Name] = &pub
		}

	case domain.EntryPublisherScore:
		var sp domain.PublisherScorePayload
		if err := json.Unmarshal(e.Payload, &sp); err != nil || sp.Publisher == "" {
			p.skip(e, err)
		} else if set, err := domain.NewScoreSet(sp.Dimensions); err != nil {
			p.skip(e, err)
		} else {
			ix.PublisherScores[sp.Publisher] = set
		}

	case domain.EntryItemPublisher:
		var ip domain.ItemPublisherPayload
		if err := json.Unmarshal(e.Payload, &ip); err != nil || ip.ItemKey == "" || ip.Publisher == "" {
			p.skip(e, err)
		} else {
			ix.ItemPublisher[ip.ItemKey] = ip.Publisher
		}

	case domain.EntryItemFunding:
		var f domain.ItemFundingPayload
		if err := json.Unmarshal(e.Payload, &f); err != nil || f.ItemKey == "" || f.Category == "" {
			p.skip(e, err)
		} else {
			ix.ItemFunding[f.ItemKey] = f.Category
		}

	default:
		p.skip(e, nil)
	}

	if e.Sequence > ix.LastVersion {
		ix.LastVersion = e.Sequence
	}
}

func (p *Projector) applyRecord(ix *domain.Index, rec *domain.Record) {
	prev := ix.Records[rec.Key]
	ix.Records[rec.Key] = rec

	// Containment edge to the parent item
	if rec.ParentKey != "" && !contains(ix.Children[rec.ParentKey], rec.Key) {
		ix.Children[rec.ParentKey] = append(ix.Children[rec.ParentKey], rec.Key)
	}
	if prev != nil && prev.ParentKey != "" && prev.ParentKey != rec.ParentKey {
		ix.Children[prev.ParentKey] = remove(ix.Children[prev.ParentKey], rec.Key)
	}

	// Canonical / variant maps
	if prev != nil && prev.Identifier != "" && prev.Identifier != rec.Identifier {
		delete(ix.ByIdentifier, prev.Identifier)
	}
	if rec.Identifier != "" && rec.ParentIdentifier == "" {
		ix.ByIdentifier[rec.Identifier] = rec.Key
	}
	if rec.ParentIdentifier != "" {
		ix.VariantParents[rec.Key] = rec.ParentIdentifier
	} else {
		delete(ix.VariantParents, rec.Key)
	}
}

func (p *Projector) applyDeletion(ix *domain.Index, key string) {
	rec := ix.Records[key]
	delete(ix.Records, key)
	delete(ix.Children, key)
	delete(ix.Scores, key)
	delete(ix.MultiScores, key)
	delete(ix.ItemPublisher, key)
	delete(ix.ItemFunding, key)
	delete(ix.VariantParents, key)

	if rec != nil {
		if rec.Identifier != "" && ix.ByIdentifier[rec.Identifier] == key {
			delete(ix.ByIdentifier, rec.Identifier)
		}
		if rec.ParentKey != "" {
			ix.Children[rec.ParentKey] = remove(ix.Children[rec.ParentKey], key)
		}
	}
	for ck, members := range ix.Members {
		ix.Members[ck] = remove(members, key)
	}
}

func (p *Projector) applyScorerScore(ix *domain.Index, itemKey, scorer string, set *domain.ScoreSet) {
	ss := &domain.ScorerScore{Scorer: scorer, ScoreSet: *set}
	for i, existing := range ix.MultiScores[itemKey] {
		if existing.Scorer == scorer {
			ix.MultiScores[itemKey][i] = ss
			return
		}
	}
	ix.MultiScores[itemKey] = append(ix.MultiScores[itemKey], ss)
}

func (p *Projector) skip(e *domain.JournalEntry, err error) {
	p.logger.Warn("skipping unusable journal entry",
		"sequence", e.Sequence,
		"type", e.Type,
		"error", err,
	)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
