package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
	"github.com/refledger/refledger-core/internal/core/ports/driving"
)

// Ensure Importer implements BulkImporter
var _ driving.BulkImporter = (*Importer)(nil)

// Importer turns a full external snapshot into a complete, freshly chained
// journal plus the side lookup file. One-shot migration path: it refuses a
// non-empty journal rather than silently appending.
type Importer struct {
	reader    driven.SourceReader
	journal   driven.JournalStore
	lookup    driven.JournalLookup
	actor     string
	rationale string
	logger    *slog.Logger
}

// ImporterConfig holds dependencies for Importer.
type ImporterConfig struct {
	Reader    driven.SourceReader
	Journal   driven.JournalStore
	Lookup    driven.JournalLookup // optional
	Actor     string
	Rationale string
	Logger    *slog.Logger
}

// NewImporter creates a bulk importer.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	actor := cfg.Actor
	if actor == "" {
		actor = "bulk-import"
	}
	rationale := cfg.Rationale
	if rationale == "" {
		rationale = "initial migration"
	}
	return &Importer{
		reader:    cfg.Reader,
		journal:   cfg.Journal,
		lookup:    cfg.Lookup,
		actor:     actor,
		rationale: rationale,
		logger:    logger,
	}
}

// Run writes the snapshot in a fixed order: collections first so parent
// references resolve, then items, then attachments, then notes, then
// membership edges.
func (im *Importer) Run(ctx context.Context) (*domain.ImportStats, error) {
	if im.journal.LastSequence() > 0 {
		return nil, domain.ErrJournalNotEmpty
	}

	snap, err := im.reader.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read source snapshot: %w", err)
	}

	stats := &domain.ImportStats{}

	for _, sc := range snap.Collections {
		col := &domain.Collection{Key: sc.Key, Name: sc.Name, ParentKey: sc.ParentKey}
		if err := im.append(ctx, domain.EntryCollection, domain.CollectionCollections, col.Key, col, stats); err != nil {
			return stats, err
		}
		stats.Collections++
	}

	for _, kind := range []domain.RecordKind{domain.KindItem, domain.KindAttachment, domain.KindNote} {
		for _, it := range snap.Items {
			if it.Kind != kind {
				continue
			}
			if err := im.append(ctx, domain.EntryRecordInsert, domain.CollectionItems, it.Key, it.Record(), stats); err != nil {
				return stats, err
			}
			switch kind {
			case domain.KindItem:
				stats.Items++
			case domain.KindAttachment:
				stats.Attachments++
			case domain.KindNote:
				stats.Notes++
			}
		}
	}

	for _, it := range snap.Items {
		for _, ck := range it.Collections {
			m := domain.MembershipPayload{CollectionKey: ck, ItemKey: it.Key}
			if err := im.append(ctx, domain.EntryMembership, domain.CollectionCollections, it.Key, m, stats); err != nil {
				return stats, err
			}
			stats.Memberships++
		}
	}

	if im.lookup != nil {
		if err := im.lookup.Flush(); err != nil {
			return stats, fmt.Errorf("failed to write lookup file: %w", err)
		}
	}

	im.logger.Info("bulk import completed",
		"collections", stats.Collections,
		"items", stats.Items,
		"attachments", stats.Attachments,
		"notes", stats.Notes,
		"memberships", stats.Memberships,
		"entries", stats.Entries,
	)
	return stats, nil
}

func (im *Importer) append(ctx context.Context, t domain.EntryType, collection, key string, payload any, stats *domain.ImportStats) error {
	entry, err := domain.NewEntry(t, collection, payload, im.actor, im.rationale)
	if err != nil {
		return err
	}
	seq, err := im.journal.Append(ctx, entry)
	if err != nil {
		return fmt.Errorf("append failed at entry %d: %w", stats.Entries+1, err)
	}
	if im.lookup != nil {
		im.lookup.Set(collection, key, seq)
	}
	stats.Entries++
	return nil
}
