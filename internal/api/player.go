package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/catalog"
	"github.com/stwalsh4118/diymedia/internal/player"
	"github.com/stwalsh4118/diymedia/internal/shell"
)

// OpenPlayerRequest represents a request to play a media item
type OpenPlayerRequest struct {
	MediaID string `json:"media_id" binding:"required"`
}

// PositionRequest reports the media element's current time and duration in seconds
type PositionRequest struct {
	Position *float64 `json:"position" binding:"required"`
	Duration *float64 `json:"duration" binding:"required"`
}

// PlaybackErrorRequest reports a media element failure
type PlaybackErrorRequest struct {
	Message string `json:"message"`
}

// PlayerHandler handles playback overlay requests
type PlayerHandler struct {
	registry *shell.Registry
	catalog  *catalog.Service
	resolver catalog.SourceResolver
}

// NewPlayerHandler creates a new player handler instance
func NewPlayerHandler(registry *shell.Registry, catalogService *catalog.Service, resolver catalog.SourceResolver) *PlayerHandler {
	return &PlayerHandler{
		registry: registry,
		catalog:  catalogService,
		resolver: resolver,
	}
}

// OpenPlayer handles POST /api/sessions/:id/player
func (h *PlayerHandler) OpenPlayer(c *gin.Context) {
	s, ok := lookupSession(c, h.registry)
	if !ok {
		return
	}

	var req OpenPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Request body must contain a media_id")
		return
	}

	mediaID, err := uuid.Parse(req.MediaID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_id", "Invalid media ID format")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	item, err := h.catalog.Get(ctx, mediaID)
	if err != nil {
		if apperr.IsPermanent(err) {
			respondError(c, http.StatusNotFound, "not_found", "Media not found")
			return
		}
		respondAppError(c, err, "catalog_unavailable", "Failed to retrieve media")
		return
	}

	source, err := h.resolver.ResolvePlaybackSource(item)
	if err != nil {
		respondAppError(c, err, "no_playback_source", "No playable source for this media")
		return
	}

	overlay, err := s.OpenPlayer(item, source)
	if err != nil {
		respondPlayerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, overlay.Snapshot())
}

// GetPlayer handles GET /api/sessions/:id/player
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	overlay, ok := h.overlay(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, overlay.Snapshot())
}

// ClosePlayer handles DELETE /api/sessions/:id/player
func (h *PlayerHandler) ClosePlayer(c *gin.Context) {
	s, ok := lookupSession(c, h.registry)
	if !ok {
		return
	}

	if err := s.ClosePlayer(); err != nil {
		respondPlayerError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// TogglePlay handles POST /api/sessions/:id/player/toggle
func (h *PlayerHandler) TogglePlay(c *gin.Context) {
	h.apply(c, func(o *player.Overlay) error {
		_, err := o.TogglePlay()
		return err
	})
}

// ToggleMute handles POST /api/sessions/:id/player/mute
func (h *PlayerHandler) ToggleMute(c *gin.Context) {
	h.apply(c, func(o *player.Overlay) error {
		_, err := o.ToggleMute()
		return err
	})
}

// PointerMoved handles POST /api/sessions/:id/player/motion
func (h *PlayerHandler) PointerMoved(c *gin.Context) {
	h.apply(c, func(o *player.Overlay) error {
		return o.PointerMoved()
	})
}

// ReportError handles POST /api/sessions/:id/player/error
func (h *PlayerHandler) ReportError(c *gin.Context) {
	var req PlaybackErrorRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
			return
		}
	}

	cause := errors.New("playback failed")
	if req.Message != "" {
		cause = errors.New(req.Message)
	}

	h.apply(c, func(o *player.Overlay) error {
		_, err := o.Error(cause)
		return err
	})
}

// UpdatePosition handles PUT /api/sessions/:id/player/position
func (h *PlayerHandler) UpdatePosition(c *gin.Context) {
	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Request body must contain position and duration")
		return
	}

	h.apply(c, func(o *player.Overlay) error {
		return o.UpdatePosition(*req.Position, *req.Duration)
	})
}

// apply runs op against the session's overlay and responds with its view
func (h *PlayerHandler) apply(c *gin.Context, op func(*player.Overlay) error) {
	overlay, ok := h.overlay(c)
	if !ok {
		return
	}

	if err := op(overlay); err != nil {
		respondPlayerError(c, err)
		return
	}
	c.JSON(http.StatusOK, overlay.Snapshot())
}

func (h *PlayerHandler) overlay(c *gin.Context) (*player.Overlay, bool) {
	s, ok := lookupSession(c, h.registry)
	if !ok {
		return nil, false
	}

	overlay, err := s.Player()
	if err != nil {
		respondPlayerError(c, err)
		return nil, false
	}
	return overlay, true
}

func respondPlayerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shell.ErrNoPlayer):
		respondError(c, http.StatusNotFound, "no_player", "No media is playing")
	case errors.Is(err, player.ErrClosed):
		respondError(c, http.StatusConflict, "player_closed", "The player was closed")
	case errors.Is(err, shell.ErrShellClosed):
		respondError(c, http.StatusNotFound, "session_not_found", "UI session not found")
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "Player operation failed")
	}
}

// SetupPlayerRoutes registers playback overlay routes
func SetupPlayerRoutes(apiGroup *gin.RouterGroup, registry *shell.Registry, catalogService *catalog.Service, resolver catalog.SourceResolver) {
	handler := NewPlayerHandler(registry, catalogService, resolver)

	apiGroup.POST("/sessions/:id/player", handler.OpenPlayer)
	apiGroup.GET("/sessions/:id/player", handler.GetPlayer)
	apiGroup.DELETE("/sessions/:id/player", handler.ClosePlayer)
	apiGroup.POST("/sessions/:id/player/toggle", handler.TogglePlay)
	apiGroup.POST("/sessions/:id/player/mute", handler.ToggleMute)
	apiGroup.POST("/sessions/:id/player/motion", handler.PointerMoved)
	apiGroup.POST("/sessions/:id/player/error", handler.ReportError)
	apiGroup.PUT("/sessions/:id/player/position", handler.UpdatePosition)
}
