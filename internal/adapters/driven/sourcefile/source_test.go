package sourcefile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refledger/refledger-core/internal/core/domain"
)

func writeExport(t *testing.T, snap *domain.Snapshot) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func exportFixture() *domain.Snapshot {
	return &domain.Snapshot{
		Collections: []*domain.SourceCollection{
			{Key: "c1", Name: "Physics"},
			{Key: "c2", Name: "Optics", ParentKey: "c1"},
			{Key: "c3", Name: "Acoustics", ParentKey: "c1"},
		},
		Items: []*domain.SourceItem{
			{Key: "k1", Kind: domain.KindItem, Title: "Diffraction"},
			{Key: "k2", Kind: domain.KindItem, Title: "Interference"},
			{Key: "k3", Kind: domain.KindItem, Title: "Resonance"},
			{Key: "k4", Kind: domain.KindItem, Title: "Echoes"},
			{Key: "k5", Kind: domain.KindItem, Title: "Harmonics"},
		},
	}
}

func TestSnapshot(t *testing.T) {
	path := writeExport(t, exportFixture())
	src := New(path)

	snap, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Collections, 3)
	assert.Len(t, snap.Items, 5)
}

func TestSnapshot_MissingFile(t *testing.T) {
	src := New(filepath.Join(t.TempDir(), "absent.json"))

	_, err := src.Snapshot(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnreachable)
}

func TestSnapshot_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := New(path).Snapshot(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSourceUnreachable)
}

func TestFetchPagination(t *testing.T) {
	path := writeExport(t, exportFixture())
	src := NewWithPageSize(path, 2)
	ctx := context.Background()

	var all []*domain.SourceItem
	cursor := ""
	pages := 0
	for {
		batch, next, err := src.FetchItems(ctx, cursor)
		require.NoError(t, err)
		all = append(all, batch...)
		pages++
		if next == "" {
			break
		}
		cursor = next
	}

	assert.Equal(t, 3, pages)
	require.Len(t, all, 5)
	assert.Equal(t, "k1", all[0].Key)
	assert.Equal(t, "k5", all[4].Key)
}

func TestFetchCollections_Pagination(t *testing.T) {
	path := writeExport(t, exportFixture())
	src := NewWithPageSize(path, 2)
	ctx := context.Background()

	batch, next, err := src.FetchCollections(ctx, "")
	require.NoError(t, err)
	assert.Len(t, batch, 2)
	require.Equal(t, "2", next)

	batch, next, err = src.FetchCollections(ctx, next)
	require.NoError(t, err)
	assert.Len(t, batch, 1)
	assert.Empty(t, next)
}

func TestFetch_InvalidCursor(t *testing.T) {
	path := writeExport(t, exportFixture())
	src := New(path)

	_, _, err := src.FetchItems(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = src.FetchItems(context.Background(), "-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetch_EmptyCursorRefreshesFile(t *testing.T) {
	snap := exportFixture()
	path := writeExport(t, snap)
	src := NewWithPageSize(path, 10)
	ctx := context.Background()

	batch, _, err := src.FetchCollections(ctx, "")
	require.NoError(t, err)
	require.Len(t, batch, 3)

	// Rewrite the export with one more collection; the next pass sees it
	snap.Collections = append(snap.Collections, &domain.SourceCollection{Key: "c4", Name: "Thermo"})
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	batch, _, err = src.FetchCollections(ctx, "")
	require.NoError(t, err)
	assert.Len(t, batch, 4)
}
