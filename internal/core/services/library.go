package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/refledger/refledger-core/internal/core/domain"
	"github.com/refledger/refledger-core/internal/core/ports/driven"
	"github.com/refledger/refledger-core/internal/core/ports/driving"
)

// Ensure Library implements LibraryService
var _ driving.LibraryService = (*Library)(nil)

// Library is the API projection layer: it translates reads into index
// lookups and writes into journal appends folded back into the index.
//
// One RW lock guards the index and the append path together. Writers hold
// it exclusively across "append to journal, then fold into index" so a
// reader never observes a journal entry that has not been folded in, nor
// an index update without the durable append preceding it.
type Library struct {
	journal   driven.JournalStore
	lookup    driven.JournalLookup
	mirror    driven.JournalMirror
	projector *Projector
	logger    *slog.Logger

	mu sync.RWMutex
	ix *domain.Index
}

// LibraryConfig holds dependencies for Library.
type LibraryConfig struct {
	Journal driven.JournalStore
	Lookup  driven.JournalLookup // optional
	Mirror  driven.JournalMirror // optional
	Logger  *slog.Logger
}

// NewLibrary creates the library service with an empty index. Call Load
// before serving requests.
func NewLibrary(cfg LibraryConfig) *Library {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		journal:   cfg.Journal,
		lookup:    cfg.Lookup,
		mirror:    cfg.Mirror,
		projector: NewProjector(logger),
		logger:    logger,
		ix:        domain.NewIndex(),
	}
}

// Load replays the full journal into the index. Runs once at startup,
// before any reader exists.
func (s *Library) Load(ctx context.Context) error {
	entries, corrupt, err := s.journal.ScanAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan journal: %w", err)
	}
	if corrupt > 0 {
		s.logger.Warn("journal scan skipped corrupt lines", "count", corrupt)
	}

	ix := s.projector.Replay(entries)

	s.mu.Lock()
	s.ix = ix
	s.mu.Unlock()

	s.logger.Info("index loaded",
		"entries", len(entries),
		"records", len(ix.Records),
		"collections", len(ix.Collections),
		"version", ix.LastVersion,
	)
	return nil
}

// commit appends one entry and folds it into the index. Callers must hold
// the write lock. key feeds the side lookup file.
func (s *Library) commit(ctx context.Context, t domain.EntryType, collection, key string, payload any, actor, rationale string) error {
	entry, err := domain.NewEntry(t, collection, payload, actor, rationale)
	if err != nil {
		return err
	}

	if _, err := s.journal.Append(ctx, entry); err != nil {
		return fmt.Errorf("journal append failed: %w", err)
	}

	// Mirror is write-behind and best effort; the file is the system of
	// record.
	if s.mirror != nil {
		if err := s.mirror.Record(ctx, entry); err != nil {
			s.logger.Warn("journal mirror failed", "sequence", entry.Sequence, "error", err)
		}
	}

	s.projector.Apply(s.ix, entry)

	if s.lookup != nil && key != "" {
		s.lookup.Set(collection, key, entry.Sequence)
		if err := s.lookup.Flush(); err != nil {
			s.logger.Warn("lookup flush failed", "error", err)
		}
	}
	return nil
}

// Reads

// ListItems applies the filter chain in fixed order, sorts by modification
// time descending, and slices the requested page.
func (s *Library) ListItems(ctx context.Context, opts domain.ListOptions) (*domain.ItemList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.Record
	for _, rec := range s.ix.Records {
		if rec.Kind != domain.KindItem {
			continue
		}
		if !matchItem(s.ix, rec, opts) {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].DateModified.Equal(matched[j].DateModified) {
			return matched[i].DateModified.After(matched[j].DateModified)
		}
		return matched[i].Key < matched[j].Key
	})

	limit := opts.Limit
	if limit <= 0 || limit > domain.MaxListLimit {
		limit = domain.MaxListLimit
	}
	start := opts.Start
	if start < 0 {
		start = 0
	}

	page := []*domain.Record{}
	for i := start; i < len(matched) && i < start+limit; i++ {
		page = append(page, matched[i].Clone())
	}

	return &domain.ItemList{
		Items:   page,
		Total:   len(matched),
		Start:   start,
		Version: s.ix.LastVersion,
	}, nil
}

// matchItem applies the filters in the contract order: type, text search,
// minimum score, has-score, has-identifier, is-variant.
func matchItem(ix *domain.Index, rec *domain.Record, opts domain.ListOptions) bool {
	if opts.ItemType != "" && rec.ItemType != opts.ItemType {
		return false
	}
	if opts.Query != "" && !strings.Contains(strings.ToLower(rec.Title), strings.ToLower(opts.Query)) {
		return false
	}
	score, scored := ix.Scores[rec.Key]
	if opts.MinScore != nil {
		// An unscored record fails a minimum-score filter.
		if !scored || score.Overall < *opts.MinScore {
			return false
		}
	}
	if opts.HasScore != nil && scored != *opts.HasScore {
		return false
	}
	if opts.HasIdentifier != nil && (rec.Identifier != "") != *opts.HasIdentifier {
		return false
	}
	if opts.IsVariant != nil && (rec.ParentIdentifier != "") != *opts.IsVariant {
		return false
	}
	return true
}

// GetItem returns the record and the index version it was read at.
func (s *Library) GetItem(ctx context.Context, key string) (*domain.Record, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, err := s.ix.Record(key)
	if err != nil {
		return nil, s.ix.LastVersion, err
	}
	return rec.Clone(), s.ix.LastVersion, nil
}

// Children returns the attachments and notes of an item.
func (s *Library) Children(ctx context.Context, key string) ([]*domain.Record, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.ix.Record(key); err != nil {
		return nil, s.ix.LastVersion, err
	}
	children := []*domain.Record{}
	for _, ck := range s.ix.Children[key] {
		if c, ok := s.ix.Records[ck]; ok {
			children = append(children, c.Clone())
		}
	}
	return children, s.ix.LastVersion, nil
}

// DOIStatus reports the record's mutability classification.
func (s *Library) DOIStatus(ctx context.Context, key string) (*domain.DOIStatus, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, err := s.ix.Record(key)
	if err != nil {
		return nil, s.ix.LastVersion, err
	}
	return &domain.DOIStatus{
		Key:              rec.Key,
		Classification:   domain.Classify(rec),
		Identifier:       rec.Identifier,
		ParentIdentifier: rec.ParentIdentifier,
		Editable:         domain.CanEdit(rec),
	}, s.ix.LastVersion, nil
}

// GetScores returns an item's scores plus the multi-scorer aggregate.
func (s *Library) GetScores(ctx context.Context, key string) (*driving.ScoreReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.ix.Record(key); err != nil {
		return nil, err
	}
	return s.scoreReport(key), nil
}

// scoreReport builds the report under a held lock.
func (s *Library) scoreReport(key string) *driving.ScoreReport {
	report := &driving.ScoreReport{
		Key:     key,
		Score:   s.ix.Scores[key],
		Version: s.ix.LastVersion,
	}
	if scorers := s.ix.MultiScores[key]; len(scorers) > 0 {
		report.Scorers = scorers
		report.Aggregate = Aggregate(scorers)
	}
	return report
}

// ListCollections returns all collections sorted by name.
func (s *Library) ListCollections(ctx context.Context) ([]*domain.Collection, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cols := make([]*domain.Collection, 0, len(s.ix.Collections))
	for _, c := range s.ix.Collections {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	return cols, s.ix.LastVersion, nil
}

// GetCollection returns one collection.
func (s *Library) GetCollection(ctx context.Context, key string) (*domain.Collection, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.ix.Collection(key)
	return c, s.ix.LastVersion, err
}

// CollectionItems returns the member records of a collection.
func (s *Library) CollectionItems(ctx context.Context, key string) ([]*domain.Record, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.ix.Collection(key); err != nil {
		return nil, s.ix.LastVersion, err
	}
	items := []*domain.Record{}
	for _, mk := range s.ix.Members[key] {
		if rec, ok := s.ix.Records[mk]; ok {
			items = append(items, rec.Clone())
		}
	}
	return items, s.ix.LastVersion, nil
}

// ListPublishers returns the publisher registry sorted by name.
func (s *Library) ListPublishers(ctx context.Context) ([]*domain.Publisher, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pubs := make([]*domain.Publisher, 0, len(s.ix.Publishers))
	for _, p := range s.ix.Publishers {
		pubs = append(pubs, p)
	}
	sort.Slice(pubs, func(i, j int) bool { return pubs[i].Name < pubs[j].Name })
	return pubs, s.ix.LastVersion, nil
}

// Blindspots runs the statistical analysis over the current index.
func (s *Library) Blindspots(ctx context.Context) (*domain.BlindspotReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AnalyzeBlindspots(s.ix), nil
}

// Version returns the index's last replayed sequence.
func (s *Library) Version(ctx context.Context) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ix.LastVersion
}

// VerifyChain re-checks the journal hash chain.
func (s *Library) VerifyChain(ctx context.Context) error {
	return s.journal.Verify(ctx)
}

// Writes

// CreateItem appends a record-insert entry for a new item, attachment, or
// note. Children may only be attached to non-canonical parents.
func (s *Library) CreateItem(ctx context.Context, req driving.CreateItemRequest) (*domain.Record, error) {
	rec := req.Record
	if rec == nil {
		return nil, domain.ErrInvalidInput
	}
	rec = rec.Clone()
	if rec.Kind == "" {
		rec.Kind = domain.KindItem
	}
	if rec.Key == "" {
		rec.Key = newKey()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ix.Records[rec.Key]; ok {
		return nil, domain.ErrAlreadyExists
	}
	if rec.ParentKey != "" {
		parent, err := s.ix.Record(rec.ParentKey)
		if err != nil {
			return nil, err
		}
		if !domain.CanAttachChild(parent) {
			return nil, &domain.ImmutableError{Key: parent.Key, Identifier: parent.Identifier, Operation: "attach"}
		}
	}
	if rec.Identifier != "" && rec.ParentIdentifier == "" {
		if existing, ok := s.ix.ByIdentifier[rec.Identifier]; ok && existing != rec.Key {
			return nil, domain.ErrAlreadyExists
		}
	}

	now := time.Now().UTC()
	if rec.DateAdded.IsZero() {
		rec.DateAdded = now
	}
	rec.DateModified = now

	if err := s.commit(ctx, domain.EntryRecordInsert, domain.CollectionItems, rec.Key, rec, req.Actor, req.Rationale); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// UpdateItem appends a record-update entry. Canonical records reject edits
// with an error naming the blocking identifier.
func (s *Library) UpdateItem(ctx context.Context, key string, req driving.UpdateItemRequest) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.ix.Record(key)
	if err != nil {
		return nil, err
	}
	if !domain.CanEdit(current) {
		return nil, &domain.ImmutableError{Key: current.Key, Identifier: current.Identifier, Operation: "edit"}
	}

	rec := current.Clone()
	if req.Title != nil {
		rec.Title = *req.Title
	}
	if req.ItemType != nil {
		rec.ItemType = *req.ItemType
	}
	if len(req.Fields) > 0 {
		if rec.Fields == nil {
			rec.Fields = make(map[string]string, len(req.Fields))
		}
		for k, v := range req.Fields {
			if v == "" {
				delete(rec.Fields, k)
			} else {
				rec.Fields[k] = v
			}
		}
	}
	rec.DateModified = time.Now().UTC()

	if err := s.commit(ctx, domain.EntryRecordUpdate, domain.CollectionItems, rec.Key, rec, req.Actor, req.Rationale); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// DeleteItem appends a deletion entry. Logical only: earlier entries stay
// in the journal. Canonical records are retained like their edits are.
func (s *Library) DeleteItem(ctx context.Context, key string, req driving.DeleteRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.ix.Record(key)
	if err != nil {
		return err
	}
	if !domain.CanEdit(rec) {
		return &domain.ImmutableError{Key: rec.Key, Identifier: rec.Identifier, Operation: "delete"}
	}

	payload := domain.DeletionPayload{Key: key}
	return s.commit(ctx, domain.EntryDeletion, domain.CollectionItems, key, payload, req.Actor, req.Rationale)
}

// CreateVariant appends a record-insert for an editable copy of a
// canonical record.
func (s *Library) CreateVariant(ctx context.Context, key string, req driving.VariantRequest) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	canonical, err := s.ix.Record(key)
	if err != nil {
		return nil, err
	}

	variant, err := BuildVariant(canonical, newKey(), req.Label)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, domain.EntryRecordInsert, domain.CollectionItems, variant.Key, variant, req.Actor, req.Rationale); err != nil {
		return nil, err
	}
	return variant.Clone(), nil
}

// SetScore appends a single-scorer score entry.
func (s *Library) SetScore(ctx context.Context, key string, req driving.ScoreRequest) (*domain.ScoreSet, error) {
	set, err := SingleScore(req.Dimensions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ix.Record(key); err != nil {
		return nil, err
	}
	payload := domain.ScorePayload{ItemKey: key, Dimensions: set.Dimensions}
	if err := s.commit(ctx, domain.EntryScore, domain.CollectionScores, key, payload, req.Actor, req.Rationale); err != nil {
		return nil, err
	}
	return set, nil
}

// AddScorerScore appends one scorer's contribution to an item's
// multi-scorer set.
func (s *Library) AddScorerScore(ctx context.Context, key string, req driving.MultiScoreRequest) (*driving.ScoreReport, error) {
	if req.Scorer == "" {
		return nil, domain.ErrInvalidInput
	}
	set, err := SingleScore(req.Dimensions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ix.Record(key); err != nil {
		return nil, err
	}
	payload := domain.MultiScorePayload{ItemKey: key, Scorer: req.Scorer, Dimensions: set.Dimensions}
	if err := s.commit(ctx, domain.EntryScoreMulti, domain.CollectionScores, key, payload, req.Actor, req.Rationale); err != nil {
		return nil, err
	}
	return s.scoreReport(key), nil
}

// UpsertPublisher appends a publisher registry entry.
func (s *Library) UpsertPublisher(ctx context.Context, req driving.PublisherRequest) (*domain.Publisher, error) {
	pub := req.Publisher
	if pub == nil || pub.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := *pub
	if existing, ok := s.ix.Publishers[p.Name]; ok {
		p.DateAdded = existing.DateAdded
	} else if p.DateAdded.IsZero() {
		p.DateAdded = time.Now().UTC()
	}

	if err := s.commit(ctx, domain.EntryPublisher, domain.CollectionPublishers, p.Name, &p, req.Actor, req.Rationale); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPublisherScore appends a quality score for a registered publisher.
func (s *Library) SetPublisherScore(ctx context.Context, name string, req driving.ScoreRequest) (*domain.ScoreSet, error) {
	set, err := SingleScore(req.Dimensions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ix.Publishers[name]; !ok {
		return nil, domain.ErrNotFound
	}
	payload := domain.PublisherScorePayload{Publisher: name, Dimensions: set.Dimensions}
	if err := s.commit(ctx, domain.EntryPublisherScore, domain.CollectionPublishers, name, payload, req.Actor, req.Rationale); err != nil {
		return nil, err
	}
	return set, nil
}

// SetItemPublisher annotates an item with a registered publisher.
func (s *Library) SetItemPublisher(ctx context.Context, key string, req driving.ItemPublisherRequest) error {
	if req.Publisher == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ix.Record(key); err != nil {
		return err
	}
	if _, ok := s.ix.Publishers[req.Publisher]; !ok {
		return domain.ErrNotFound
	}
	payload := domain.ItemPublisherPayload{ItemKey: key, Publisher: req.Publisher}
	return s.commit(ctx, domain.EntryItemPublisher, domain.CollectionPublishers, key, payload, req.Actor, req.Rationale)
}

// SetItemFunding annotates an item with a funding category from the fixed
// vocabulary.
func (s *Library) SetItemFunding(ctx context.Context, key string, req driving.ItemFundingRequest) error {
	if !domain.KnownFundingCategory(req.Category) {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ix.Record(key); err != nil {
		return err
	}
	payload := domain.ItemFundingPayload{ItemKey: key, Category: req.Category}
	return s.commit(ctx, domain.EntryItemFunding, domain.CollectionFunding, key, payload, req.Actor, req.Rationale)
}

// newKey generates a record key.
func newKey() string {
	return uuid.NewString()
}
