package db_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/diymedia/internal/db"
	"github.com/stwalsh4118/diymedia/internal/db/dbtest"
	"github.com/stwalsh4118/diymedia/internal/models"
)

func newItem(title string, year, position int, mediaType models.MediaType) *models.MediaItem {
	item := models.NewMediaItem(title, year, mediaType)
	item.Position = position
	item.Quality = "1080p"
	return item
}

func TestCatalogRepository_CreateAndGet(t *testing.T) {
	_, repos := dbtest.New(t)
	ctx := context.Background()

	original := "Le Titre"
	item := newItem("The Title", 2020, 0, models.MediaTypeMovie)
	item.OriginalTitle = &original

	require.NoError(t, repos.Catalog.Create(ctx, item))

	got, err := repos.Catalog.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Title", got.Title)
	require.NotNil(t, got.OriginalTitle)
	assert.Equal(t, "Le Titre", *got.OriginalTitle)
	assert.Equal(t, models.MediaTypeMovie, got.Type)
	assert.Nil(t, got.StreamURL)
}

func TestCatalogRepository_GetByIDNotFound(t *testing.T) {
	_, repos := dbtest.New(t)

	_, err := repos.Catalog.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.True(t, db.IsNotFound(err))
}

func TestCatalogRepository_DuplicateID(t *testing.T) {
	_, repos := dbtest.New(t)
	ctx := context.Background()

	item := newItem("Dup", 2000, 0, models.MediaTypeTV)
	require.NoError(t, repos.Catalog.Create(ctx, item))

	clone := *item
	err := repos.Catalog.Create(ctx, &clone)
	assert.True(t, db.IsDuplicate(err), "expected duplicate error, got %v", err)
}

func TestCatalogRepository_ListOrdersByPosition(t *testing.T) {
	_, repos := dbtest.New(t)
	ctx := context.Background()

	// Insert out of order
	require.NoError(t, repos.Catalog.Create(ctx, newItem("Third", 2001, 2, models.MediaTypeMovie)))
	require.NoError(t, repos.Catalog.Create(ctx, newItem("First", 2003, 0, models.MediaTypeTV)))
	require.NoError(t, repos.Catalog.Create(ctx, newItem("Second", 2002, 1, models.MediaTypeMovie)))

	items, err := repos.Catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, "Second", items[1].Title)
	assert.Equal(t, "Third", items[2].Title)

	count, err := repos.Catalog.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestCatalogRepository_SeedOnlyWhenEmpty(t *testing.T) {
	_, repos := dbtest.New(t)
	ctx := context.Background()

	items := []*models.MediaItem{
		newItem("A", 2000, 0, models.MediaTypeMovie),
		newItem("B", 2001, 1, models.MediaTypeTV),
	}

	inserted, err := repos.Catalog.Seed(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = repos.Catalog.Seed(ctx, []*models.MediaItem{newItem("C", 2002, 2, models.MediaTypeMovie)})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	count, err := repos.Catalog.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCatalogRepository_SeedRollsBackOnError(t *testing.T) {
	_, repos := dbtest.New(t)
	ctx := context.Background()

	a := newItem("A", 2000, 0, models.MediaTypeMovie)
	dup := *a

	_, err := repos.Catalog.Seed(ctx, []*models.MediaItem{a, &dup})
	require.Error(t, err)

	count, err := repos.Catalog.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
