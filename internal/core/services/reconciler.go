package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
	"github.com/refledger/refledger-core/internal/core/ports/driving"
)

// Ensure Reconciler implements SyncReconciler
var _ driving.SyncReconciler = (*Reconciler)(nil)

// Reconciler performs incremental sync: it drains the live source fully,
// then diffs the snapshot against the index and appends only changed or
// new entries, continuing the existing chain. A fetch failure aborts
// before any append, leaving the journal untouched.
type Reconciler struct {
	source  driven.LiveSource
	library *Library
	actor   string
	logger  *slog.Logger
}

// ReconcilerConfig holds dependencies for Reconciler.
type ReconcilerConfig struct {
	Source  driven.LiveSource
	Library *Library
	Actor   string // provenance actor for sync entries
	Logger  *slog.Logger
}

// NewReconciler creates a sync reconciler.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	actor := cfg.Actor
	if actor == "" {
		actor = "sync"
	}
	return &Reconciler{
		source:  cfg.Source,
		library: cfg.Library,
		actor:   actor,
		logger:  logger,
	}
}

// Run performs one full reconciliation pass. Safe to re-run: an unchanged
// source produces zero new entries.
func (r *Reconciler) Run(ctx context.Context) (*domain.SyncResult, error) {
	startTime := time.Now()
	r.logger.Info("starting sync")

	snap, err := r.fetchSnapshot(ctx)
	if err != nil {
		r.logger.Error("sync aborted before any append", "error", err)
		return &domain.SyncResult{
			Success:  false,
			Error:    err.Error(),
			Duration: time.Since(startTime).Seconds(),
		}, err
	}

	stats, version, err := r.library.Reconcile(ctx, snap, r.actor)
	duration := time.Since(startTime).Seconds()
	if err != nil {
		r.logger.Error("sync failed", "duration_seconds", duration, "error", err)
		return &domain.SyncResult{
			Success:  false,
			Stats:    stats,
			Error:    err.Error(),
			Duration: duration,
		}, err
	}

	r.logger.Info("sync completed",
		"duration_seconds", duration,
		"collections_added", stats.CollectionsAdded,
		"items_added", stats.ItemsAdded,
		"items_updated", stats.ItemsUpdated,
		"skipped", stats.Skipped,
		"type_conflicts", stats.TypeConflicts,
		"errors", stats.Errors,
	)

	return &domain.SyncResult{
		Success:     true,
		Stats:       stats,
		Duration:    duration,
		LastVersion: version,
	}, nil
}

// fetchSnapshot drains both paginated listings before any diffing.
func (r *Reconciler) fetchSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}

	cursor := ""
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		batch, next, err := r.source.FetchCollections(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch collections: %w", err)
		}
		snap.Collections = append(snap.Collections, batch...)
		if next == "" || next == cursor {
			break
		}
		cursor = next
	}

	cursor = ""
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		batch, next, err := r.source.FetchItems(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch items: %w", err)
		}
		snap.Items = append(snap.Items, batch...)
		if next == "" || next == cursor {
			break
		}
		cursor = next
	}

	return snap, nil
}

// Reconcile diffs a fully fetched snapshot against the index and appends
// the minimal set of entries, all under one exclusive hold so readers
// never see a partially applied sync.
func (s *Library) Reconcile(ctx context.Context, snap *domain.Snapshot, actor string) (domain.SyncStats, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats domain.SyncStats

	for _, sc := range snap.Collections {
		if sc.Key == "" {
			stats.Errors++
			continue
		}
		existing, ok := s.ix.Collections[sc.Key]
		if ok && existing.Name == sc.Name && existing.ParentKey == sc.ParentKey {
			stats.Skipped++
			continue
		}
		col := &domain.Collection{
			Key:       sc.Key,
			Name:      sc.Name,
			ParentKey: sc.ParentKey,
			DateAdded: time.Now().UTC(),
		}
		if ok {
			col.DateAdded = existing.DateAdded
		}
		if err := s.commit(ctx, domain.EntryCollection, domain.CollectionCollections, col.Key, col, actor, "incremental sync"); err != nil {
			return stats, s.ix.LastVersion, err
		}
		stats.CollectionsAdded++
	}

	for _, it := range snap.Items {
		if it.Key == "" {
			stats.Errors++
			continue
		}
		existing, ok := s.ix.Records[it.Key]

		switch {
		case !ok:
			if err := s.commit(ctx, domain.EntryRecordInsert, domain.CollectionItems, it.Key, it.Record(), actor, "incremental sync"); err != nil {
				return stats, s.ix.LastVersion, err
			}
			stats.ItemsAdded++

		case existing.Kind != it.Kind:
			// A kind flip between runs (note became a top-level item) is
			// reported, never guessed at.
			s.logger.Warn("sync: record kind changed between runs",
				"key", it.Key,
				"stored", existing.Kind,
				"source", it.Kind,
				"error", domain.ErrInvalidInput,
			)
			stats.TypeConflicts++
			stats.Errors++
			continue

		case existing.DateModified.Equal(it.DateModified):
			stats.Skipped++

		default:
			rec := it.Record()
			rec.DateAdded = existing.DateAdded
			if err := s.commit(ctx, domain.EntryRecordUpdate, domain.CollectionItems, rec.Key, rec, actor, "incremental sync"); err != nil {
				return stats, s.ix.LastVersion, err
			}
			stats.ItemsUpdated++
		}

		// Containment edges for collections the index doesn't know yet.
		for _, ck := range it.Collections {
			if contains(s.ix.Members[ck], it.Key) {
				continue
			}
			m := domain.MembershipPayload{CollectionKey: ck, ItemKey: it.Key}
			if err := s.commit(ctx, domain.EntryMembership, domain.CollectionCollections, it.Key, m, actor, "incremental sync"); err != nil {
				return stats, s.ix.LastVersion, err
			}
			stats.Memberships++
		}
	}

	return stats, s.ix.LastVersion, nil
}
