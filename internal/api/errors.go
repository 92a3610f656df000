// Package api provides the HTTP handlers for the media dashboard service.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"github.com/stwalsh4118/diymedia/internal/shell"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// respondError writes an ErrorResponse and aborts the request
func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// respondAppError maps a classified error to its status code
func respondAppError(c *gin.Context, err error, code, message string) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("kind", apperr.KindOf(err).String()).
			Msg(message)
	}
	respondError(c, status, code, message)
}

// parseUUIDParam reads a UUID path parameter, responding 400 when malformed
func parseUUIDParam(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_id", "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// lookupSession resolves the :id session parameter against the registry
func lookupSession(c *gin.Context, registry *shell.Registry) (*shell.Shell, bool) {
	id, ok := parseUUIDParam(c, "id", "session")
	if !ok {
		return nil, false
	}

	s, err := registry.Get(id)
	if err != nil || s.Closed() {
		respondError(c, http.StatusNotFound, "session_not_found", "UI session not found")
		return nil, false
	}
	return s, true
}
