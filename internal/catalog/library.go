package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/models"
)

// SortOrder is a library sort key
type SortOrder string

// Sort orders offered by the library panel
const (
	SortDateAdded    SortOrder = "date_added"
	SortYear         SortOrder = "year"
	SortAlphabetical SortOrder = "alphabetical"
)

// ParseSort converts a query value to a SortOrder. Empty means date added.
func ParseSort(value string) (SortOrder, error) {
	switch SortOrder(value) {
	case "":
		return SortDateAdded, nil
	case SortDateAdded, SortYear, SortAlphabetical:
		return SortOrder(value), nil
	default:
		return "", fmt.Errorf("unknown sort order %q", value)
	}
}

// List returns the items whose type matches filter, preserving input order
func List(items []*models.MediaItem, filter models.Filter) []*models.MediaItem {
	result := make([]*models.MediaItem, 0, len(items))
	for _, item := range items {
		if filter.Matches(item.Type) {
			result = append(result, item)
		}
	}
	return result
}

// Sort orders items in place. Date added keeps the input order; the other
// orders are stable so ties keep it too.
func Sort(items []*models.MediaItem, order SortOrder) {
	switch order {
	case SortYear:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Year > items[j].Year
		})
	case SortAlphabetical:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		})
	}
}

// Listing is one rendering of the library panel
type Listing struct {
	Title      string              `json:"title"`
	Filter     models.Filter       `json:"filter"`
	Sort       SortOrder           `json:"sort"`
	Count      int                 `json:"count"`
	CountLabel string              `json:"count_label"`
	Items      []*models.MediaItem `json:"items"`
}

// Service answers library queries against a catalog source
type Service struct {
	source Source
}

// NewService creates a library service
func NewService(source Source) *Service {
	return &Service{source: source}
}

// Library fetches the catalog and returns the filtered, sorted listing
func (s *Service) Library(ctx context.Context, filter models.Filter, order SortOrder) (*Listing, error) {
	items, err := s.source.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	visible := List(items, filter)
	Sort(visible, order)

	return &Listing{
		Title:      filter.Title(),
		Filter:     filter,
		Sort:       order,
		Count:      len(visible),
		CountLabel: fmt.Sprintf("%d titles available", len(visible)),
		Items:      visible,
	}, nil
}

// Get returns the catalog item with the given id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.MediaItem, error) {
	items, err := s.source.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, apperr.Permanent("catalog.get", fmt.Errorf("%w: %s", ErrMediaNotFound, id))
}
