// Package catalog serves the media library: catalog sources, filtered and
// sorted listings, and playback source resolution.
package catalog

import (
	"context"
	"errors"

	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/db"
	"github.com/stwalsh4118/diymedia/internal/fixtures"
	"github.com/stwalsh4118/diymedia/internal/models"
)

// ErrMediaNotFound is returned when a media id is not in the catalog
var ErrMediaNotFound = errors.New("media not found")

// Source fetches the full media catalog
type Source interface {
	FetchCatalog(ctx context.Context) ([]*models.MediaItem, error)
}

// DBSource reads the catalog from the media_items table
type DBSource struct {
	repo *db.CatalogRepository
}

// NewDBSource creates a catalog source backed by the repository
func NewDBSource(repo *db.CatalogRepository) *DBSource {
	return &DBSource{repo: repo}
}

// FetchCatalog returns every stored item in catalog order
func (s *DBSource) FetchCatalog(ctx context.Context) ([]*models.MediaItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Transient("catalog.fetch", err)
	}
	return items, nil
}

// FixtureSource serves the catalog straight from a fixture set
type FixtureSource struct {
	items []*models.MediaItem
}

// NewFixtureSource creates a catalog source over the fixture catalog
func NewFixtureSource(set *fixtures.Set) *FixtureSource {
	return &FixtureSource{items: set.MediaItems()}
}

// FetchCatalog returns a copy of the fixture catalog
func (s *FixtureSource) FetchCatalog(ctx context.Context) ([]*models.MediaItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Transient("catalog.fetch", err)
	}
	items := make([]*models.MediaItem, len(s.items))
	copy(items, s.items)
	return items, nil
}
