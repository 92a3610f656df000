package catalog

import (
	"errors"
	"fmt"

	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/models"
)

// ErrNoPlaybackSource is returned when an item has no playable source
var ErrNoPlaybackSource = errors.New("no playback source")

// PlaybackSource is the resolved stream location of a media item
type PlaybackSource struct {
	URL string `json:"url"`
	// Sample marks the shared placeholder stream used for items without
	// their own stream
	Sample bool `json:"sample"`
}

// SourceResolver resolves the stream to play for a media item
type SourceResolver interface {
	ResolvePlaybackSource(item *models.MediaItem) (PlaybackSource, error)
}

// URLResolver prefers the item's own stream url and falls back to a sample stream
type URLResolver struct {
	sampleURL string
}

// NewURLResolver creates a resolver. An empty sampleURL disables the fallback.
func NewURLResolver(sampleURL string) *URLResolver {
	return &URLResolver{sampleURL: sampleURL}
}

// ResolvePlaybackSource returns the item's stream or the sample stream
func (r *URLResolver) ResolvePlaybackSource(item *models.MediaItem) (PlaybackSource, error) {
	if item.StreamURL != nil && *item.StreamURL != "" {
		return PlaybackSource{URL: *item.StreamURL}, nil
	}
	if r.sampleURL != "" {
		return PlaybackSource{URL: r.sampleURL, Sample: true}, nil
	}
	return PlaybackSource{}, apperr.Permanent("catalog.resolve", fmt.Errorf("%w for %q", ErrNoPlaybackSource, item.Title))
}
