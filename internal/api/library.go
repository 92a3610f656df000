package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/catalog"
	"github.com/stwalsh4118/diymedia/internal/models"
	"github.com/stwalsh4118/diymedia/internal/shell"
)

const catalogTimeout = 10 * time.Second

// MediaSourceResponse is the resolved playback source of a media item
type MediaSourceResponse struct {
	MediaID string `json:"media_id"`
	catalog.PlaybackSource
}

// LibraryHandler handles library and media lookup requests
type LibraryHandler struct {
	catalog  *catalog.Service
	resolver catalog.SourceResolver
	registry *shell.Registry
}

// NewLibraryHandler creates a new library handler instance
func NewLibraryHandler(catalogService *catalog.Service, resolver catalog.SourceResolver, registry *shell.Registry) *LibraryHandler {
	return &LibraryHandler{
		catalog:  catalogService,
		resolver: resolver,
		registry: registry,
	}
}

// ListLibrary handles GET /api/library
func (h *LibraryHandler) ListLibrary(c *gin.Context) {
	filter := models.Filter(c.DefaultQuery("filter", string(models.FilterAll)))
	if !filter.IsValid() {
		respondError(c, http.StatusBadRequest, "invalid_filter", "Filter must be one of: all, movie, tv")
		return
	}
	h.respondListing(c, filter)
}

// ListSessionLibrary handles GET /api/sessions/:id/library using the session's filter
func (h *LibraryHandler) ListSessionLibrary(c *gin.Context) {
	s, ok := lookupSession(c, h.registry)
	if !ok {
		return
	}
	_, filter := s.View()
	h.respondListing(c, filter)
}

func (h *LibraryHandler) respondListing(c *gin.Context, filter models.Filter) {
	order, err := catalog.ParseSort(c.Query("sort"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_sort", "Sort must be one of: date_added, year, alphabetical")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	listing, err := h.catalog.Library(ctx, filter, order)
	if err != nil {
		respondAppError(c, err, "catalog_unavailable", "Failed to retrieve media library")
		return
	}

	c.JSON(http.StatusOK, listing)
}

// GetMedia handles GET /api/media/:id
func (h *LibraryHandler) GetMedia(c *gin.Context) {
	item, ok := h.lookupMedia(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetMediaSource handles GET /api/media/:id/source
func (h *LibraryHandler) GetMediaSource(c *gin.Context) {
	item, ok := h.lookupMedia(c)
	if !ok {
		return
	}

	source, err := h.resolver.ResolvePlaybackSource(item)
	if err != nil {
		respondAppError(c, err, "no_playback_source", "No playable source for this media")
		return
	}

	c.JSON(http.StatusOK, MediaSourceResponse{
		MediaID:        item.ID.String(),
		PlaybackSource: source,
	})
}

func (h *LibraryHandler) lookupMedia(c *gin.Context) (*models.MediaItem, bool) {
	id, ok := parseUUIDParam(c, "id", "media")
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	item, err := h.catalog.Get(ctx, id)
	if err != nil {
		if apperr.IsPermanent(err) {
			respondError(c, http.StatusNotFound, "not_found", "Media not found")
			return nil, false
		}
		respondAppError(c, err, "catalog_unavailable", "Failed to retrieve media")
		return nil, false
	}
	return item, true
}

// SetupLibraryRoutes registers library and media routes
func SetupLibraryRoutes(apiGroup *gin.RouterGroup, catalogService *catalog.Service, resolver catalog.SourceResolver, registry *shell.Registry) {
	handler := NewLibraryHandler(catalogService, resolver, registry)

	apiGroup.GET("/library", handler.ListLibrary)
	apiGroup.GET("/sessions/:id/library", handler.ListSessionLibrary)
	apiGroup.GET("/media/:id", handler.GetMedia)
	apiGroup.GET("/media/:id/source", handler.GetMediaSource)
}
