package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/db/dbtest"
	"github.com/stwalsh4118/diymedia/internal/fixtures"
	"github.com/stwalsh4118/diymedia/internal/models"
)

func TestFixtureSource(t *testing.T) {
	set, err := fixtures.Default()
	require.NoError(t, err)

	source := NewFixtureSource(set)
	items, err := source.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, items, len(set.Catalog))
	assert.Equal(t, set.Catalog[0].Title, items[0].Title)

	// Callers may reorder the returned slice without affecting the source
	items[0], items[1] = items[1], items[0]
	again, err := source.FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, set.Catalog[0].Title, again[0].Title)
}

func TestFixtureSourceCancelledContext(t *testing.T) {
	set, err := fixtures.Default()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewFixtureSource(set).FetchCatalog(ctx)
	require.Error(t, err)
	assert.True(t, apperr.IsTransient(err))
}

func TestDBSource(t *testing.T) {
	_, repos := dbtest.New(t)
	ctx := context.Background()

	set, err := fixtures.Default()
	require.NoError(t, err)
	_, err = repos.Catalog.Seed(ctx, set.MediaItems())
	require.NoError(t, err)

	source := NewDBSource(repos.Catalog)
	items, err := source.FetchCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(set.Catalog))

	for i, entry := range set.Catalog {
		assert.Equal(t, entry.Title, items[i].Title)
		assert.Equal(t, fixtures.StableID(i, entry.Title), items[i].ID)
	}

	// Both sources agree on the movie listing
	svc := NewService(source)
	fromDB, err := svc.Library(ctx, models.FilterMovie, SortDateAdded)
	require.NoError(t, err)
	fromFixtures, err := NewService(NewFixtureSource(set)).Library(ctx, models.FilterMovie, SortDateAdded)
	require.NoError(t, err)
	assert.Equal(t, titles(fromFixtures.Items), titles(fromDB.Items))
}
