package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/diymedia/internal/models"
	"github.com/stwalsh4118/diymedia/internal/shell"
)

// SelectViewRequest represents a request to switch panels
type SelectViewRequest struct {
	View models.View `json:"view" binding:"required"`
}

// SelectFilterRequest represents a request to switch the library filter
type SelectFilterRequest struct {
	Filter models.Filter `json:"filter" binding:"required"`
}

// SessionHandler handles UI session and navigation requests
type SessionHandler struct {
	registry *shell.Registry
}

// NewSessionHandler creates a new session handler instance
func NewSessionHandler(registry *shell.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	s, err := h.registry.Create()
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "shutting_down", "Server is shutting down")
		return
	}
	c.JSON(http.StatusCreated, s.Snapshot())
}

// GetSession handles GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, ok := lookupSession(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// DeleteSession handles DELETE /api/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "session")
	if !ok {
		return
	}

	if err := h.registry.Remove(id); err != nil {
		respondError(c, http.StatusNotFound, "session_not_found", "UI session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectView handles PUT /api/sessions/:id/view
func (h *SessionHandler) SelectView(c *gin.Context) {
	s, ok := lookupSession(c, h.registry)
	if !ok {
		return
	}

	var req SelectViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Request body must contain a view")
		return
	}

	if err := s.SelectView(req.View); err != nil {
		respondNavigationError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// SelectFilter handles PUT /api/sessions/:id/filter
func (h *SessionHandler) SelectFilter(c *gin.Context) {
	s, ok := lookupSession(c, h.registry)
	if !ok {
		return
	}

	var req SelectFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Request body must contain a filter")
		return
	}

	if err := s.SelectLibraryFilter(req.Filter); err != nil {
		respondNavigationError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

func respondNavigationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shell.ErrInvalidView):
		respondError(c, http.StatusBadRequest, "invalid_view", "View must be one of: dashboard, library, settings")
	case errors.Is(err, shell.ErrInvalidFilter):
		respondError(c, http.StatusBadRequest, "invalid_filter", "Filter must be one of: all, movie, tv")
	case errors.Is(err, shell.ErrShellClosed):
		respondError(c, http.StatusNotFound, "session_not_found", "UI session not found")
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "Failed to update navigation")
	}
}

// SetupSessionRoutes registers UI session routes
func SetupSessionRoutes(apiGroup *gin.RouterGroup, registry *shell.Registry) {
	handler := NewSessionHandler(registry)

	apiGroup.POST("/sessions", handler.CreateSession)
	apiGroup.GET("/sessions/:id", handler.GetSession)
	apiGroup.DELETE("/sessions/:id", handler.DeleteSession)
	apiGroup.PUT("/sessions/:id/view", handler.SelectView)
	apiGroup.PUT("/sessions/:id/filter", handler.SelectFilter)
}
