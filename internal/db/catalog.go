package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/diymedia/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository handles database operations for catalog media items
type CatalogRepository struct {
	db *DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Create inserts a new media item into the catalog
func (r *CatalogRepository) Create(ctx context.Context, item *models.MediaItem) error {
	result := r.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return fmt.Errorf("failed to create media item: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a media item by its UUID
func (r *CatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaItem, error) {
	var item models.MediaItem
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&item)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &item, nil
}

// List retrieves the whole catalog in catalog order
func (r *CatalogRepository) List(ctx context.Context) ([]*models.MediaItem, error) {
	var items []*models.MediaItem
	result := r.db.WithContext(ctx).Order("position ASC").Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list media items: %w", MapGormError(result.Error))
	}
	return items, nil
}

// Count returns the total number of catalog items
func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.MediaItem{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count media items: %w", MapGormError(result.Error))
	}
	return count, nil
}

// Seed inserts items when the catalog is empty. It returns the number of
// inserted rows; an already populated catalog is left untouched.
func (r *CatalogRepository) Seed(ctx context.Context, items []*models.MediaItem) (int, error) {
	inserted := 0
	err := r.db.WithTransaction(ctx, "seed catalog", func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.MediaItem{}).Count(&count).Error; err != nil {
			return MapGormError(err)
		}
		if count > 0 {
			return nil
		}
		for _, item := range items {
			if err := tx.Create(item).Error; err != nil {
				return fmt.Errorf("failed to seed %q: %w", item.Title, MapGormError(err))
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
