package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MediaType distinguishes movies from TV shows in the catalog
type MediaType string

// Media type constants
const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// IsValid reports whether t is a known media type
func (t MediaType) IsValid() bool {
	return t == MediaTypeMovie || t == MediaTypeTV
}

// MediaItem represents a catalog entry shown in the library grid
type MediaItem struct {
	ID            uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Title         string    `json:"title" gorm:"type:text;not null;column:title"`
	OriginalTitle *string   `json:"original_title,omitempty" gorm:"type:text;column:original_title"`
	Year          int       `json:"year" gorm:"type:integer;not null;column:year"`
	Type          MediaType `json:"type" gorm:"type:text;not null;column:type"`
	PosterURL     string    `json:"poster_url" gorm:"type:text;not null;column:poster_url"`
	BackdropURL   string    `json:"backdrop_url" gorm:"type:text;not null;column:backdrop_url"`
	Plot          string    `json:"plot" gorm:"type:text;not null;column:plot"`
	Duration      string    `json:"duration" gorm:"type:text;not null;column:duration"` // display label, e.g. "1h 45m"
	Rating        string    `json:"rating" gorm:"type:text;not null;column:rating"`     // content rating, e.g. "PG-13"
	Quality       string    `json:"quality" gorm:"type:text;not null;column:quality"`   // e.g. "1080p", "4K"
	StreamURL     *string   `json:"stream_url,omitempty" gorm:"type:text;column:stream_url"`
	Position      int       `json:"position" gorm:"type:integer;not null;column:position"` // catalog order ("date added")
	CreatedAt     time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// TableName pins the gorm table name
func (MediaItem) TableName() string {
	return "media_items"
}

// NewMediaItem creates a new MediaItem with generated UUID and timestamp
func NewMediaItem(title string, year int, mediaType MediaType) *MediaItem {
	return &MediaItem{
		ID:        uuid.New(),
		Title:     title,
		Year:      year,
		Type:      mediaType,
		CreatedAt: time.Now().UTC(),
	}
}

// InfoLine returns the "title • year • quality" line shown by the player
func (m *MediaItem) InfoLine() string {
	return fmt.Sprintf("%s • %d • %s", m.Title, m.Year, m.Quality)
}
