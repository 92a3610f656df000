// Package fixtures provides the static sample data standing in for a real
// backend: the media catalog, dashboard log templates, bandwidth series and
// stat tiles. The default set is embedded; a JSON file can replace it.
package fixtures

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/stwalsh4118/diymedia/internal/models"
)

//go:embed fixtures.json
var embedded []byte

// ErrInvalidFixtures is returned when fixture data fails validation
var ErrInvalidFixtures = errors.New("invalid fixtures")

// LogTemplate is a log message bound to a single source tag
type LogTemplate struct {
	Message string           `json:"message"`
	Source  models.LogSource `json:"source"`
}

// InitialLog is a log line present before the generator starts
type InitialLog struct {
	Level   models.LogLevel  `json:"level"`
	Message string           `json:"message"`
	Source  models.LogSource `json:"source"`
}

// CatalogEntry is the fixture form of a MediaItem
type CatalogEntry struct {
	Title         string           `json:"title"`
	OriginalTitle *string          `json:"original_title,omitempty"`
	Year          int              `json:"year"`
	Type          models.MediaType `json:"type"`
	PosterURL     string           `json:"poster_url"`
	BackdropURL   string           `json:"backdrop_url"`
	Plot          string           `json:"plot"`
	Duration      string           `json:"duration"`
	Rating        string           `json:"rating"`
	Quality       string           `json:"quality"`
	StreamURL     *string          `json:"stream_url,omitempty"`
}

// Set is a complete fixture data set
type Set struct {
	Catalog      []CatalogEntry           `json:"catalog"`
	LogTemplates []LogTemplate            `json:"log_templates"`
	InitialLogs  []InitialLog             `json:"initial_logs"`
	Bandwidth    []models.BandwidthSample `json:"bandwidth"`
	Stats        models.ServerStats       `json:"stats"`
}

// Default returns the embedded fixture set
func Default() (*Set, error) {
	return Parse(embedded)
}

// Load reads fixtures from path, falling back to the embedded set when path is empty
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON fixture set
func Parse(data []byte) (*Set, error) {
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Validate checks the invariants the panels rely on
func (s *Set) Validate() error {
	if len(s.LogTemplates) == 0 {
		return fmt.Errorf("%w: at least one log template is required", ErrInvalidFixtures)
	}
	for i, tmpl := range s.LogTemplates {
		if !tmpl.Source.IsValid() {
			return fmt.Errorf("%w: log template %d has unknown source %q", ErrInvalidFixtures, i, tmpl.Source)
		}
	}
	for i, entry := range s.Catalog {
		if entry.Title == "" {
			return fmt.Errorf("%w: catalog entry %d has no title", ErrInvalidFixtures, i)
		}
		if !entry.Type.IsValid() {
			return fmt.Errorf("%w: catalog entry %q has unknown type %q", ErrInvalidFixtures, entry.Title, entry.Type)
		}
	}
	return nil
}

// MediaItems converts the catalog to MediaItems, preserving fixture order
func (s *Set) MediaItems() []*models.MediaItem {
	items := make([]*models.MediaItem, 0, len(s.Catalog))
	for i, entry := range s.Catalog {
		item := models.NewMediaItem(entry.Title, entry.Year, entry.Type)
		item.ID = StableID(i, entry.Title)
		item.OriginalTitle = entry.OriginalTitle
		item.PosterURL = entry.PosterURL
		item.BackdropURL = entry.BackdropURL
		item.Plot = entry.Plot
		item.Duration = entry.Duration
		item.Rating = entry.Rating
		item.Quality = entry.Quality
		item.StreamURL = entry.StreamURL
		item.Position = i
		items = append(items, item)
	}
	return items
}

// StableID derives a deterministic id for the catalog entry at index i,
// so fixture-backed catalogs keep ids across restarts
func StableID(i int, title string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("diymedia:catalog:%d:%s", i, title)))
}
