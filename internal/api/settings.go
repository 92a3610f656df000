package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/models"
	"github.com/stwalsh4118/diymedia/internal/settings"
)

const settingsTimeout = 5 * time.Second

// SettingsValidationResponse lists rejected settings fields
type SettingsValidationResponse struct {
	ErrorResponse
	Fields []settings.FieldError `json:"fields"`
}

// SettingsHandler handles settings panel requests
type SettingsHandler struct {
	settings *settings.Service
}

// NewSettingsHandler creates a new settings handler instance
func NewSettingsHandler(service *settings.Service) *SettingsHandler {
	return &SettingsHandler{settings: service}
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), settingsTimeout)
	defer cancel()

	current, err := h.settings.Get(ctx)
	if err != nil {
		respondAppError(c, err, "settings_unavailable", "Failed to retrieve settings")
		return
	}
	c.JSON(http.StatusOK, current)
}

// UpdateSettings handles PUT /api/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req models.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), settingsTimeout)
	defer cancel()

	saved, err := h.settings.Save(ctx, &req)
	if err != nil {
		var verr *settings.ValidationError
		if apperr.IsConfigInvalid(err) && errors.As(err, &verr) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, SettingsValidationResponse{
				ErrorResponse: ErrorResponse{
					Error:   "invalid_settings",
					Message: verr.Error(),
				},
				Fields: verr.Fields,
			})
			return
		}
		respondAppError(c, err, "settings_unavailable", "Failed to save settings")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// StartScan handles POST /api/settings/scan
func (h *SettingsHandler) StartScan(c *gin.Context) {
	status, err := h.settings.StartScan()
	if err != nil {
		if errors.Is(err, settings.ErrScanInProgress) {
			c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{
				Error:   "scan_in_progress",
				Message: "A scan is already running",
			})
			return
		}
		respondError(c, http.StatusInternalServerError, "scan_failed", "Failed to start library scan")
		return
	}
	c.JSON(http.StatusAccepted, status)
}

// GetScanStatus handles GET /api/settings/scan
func (h *SettingsHandler) GetScanStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.ScanStatus())
}

// SetupSettingsRoutes registers settings routes
func SetupSettingsRoutes(apiGroup *gin.RouterGroup, service *settings.Service) {
	handler := NewSettingsHandler(service)

	apiGroup.GET("/settings", handler.GetSettings)
	apiGroup.PUT("/settings", handler.UpdateSettings)
	apiGroup.POST("/settings/scan", handler.StartScan)
	apiGroup.GET("/settings/scan", handler.GetScanStatus)
}
