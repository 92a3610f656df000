package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/diymedia/internal/models"
	"github.com/stwalsh4118/diymedia/internal/settings"
)

func decodeSettings(t *testing.T, body []byte) models.Settings {
	t.Helper()
	var s models.Settings
	require.NoError(t, json.Unmarshal(body, &s))
	return s
}

func TestGetSettings_Defaults(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := decodeSettings(t, w.Body.Bytes())
	assert.Equal(t, models.DefaultMoviesDir, got.MoviesDir)
	assert.Equal(t, models.DefaultTVDir, got.TVDir)
	assert.Equal(t, models.DefaultFriendlyName, got.FriendlyName)
	assert.True(t, got.DLNAEnabled)
	assert.False(t, got.HardwareAccel)
}

func TestUpdateSettings(t *testing.T) {
	env := setupTestEnv(t)

	update := models.Settings{
		MoviesDir:           "/srv/media/movies",
		TVDir:               "/srv/media/tv",
		DLNAEnabled:         false,
		FriendlyName:        "Living Room",
		SSDPIntervalSeconds: 900,
		HardwareAccel:       true,
	}

	w := env.do(t, http.MethodPut, "/api/settings", update)
	require.Equal(t, http.StatusOK, w.Code)

	saved := decodeSettings(t, w.Body.Bytes())
	assert.Equal(t, "/srv/media/movies", saved.MoviesDir)
	assert.False(t, saved.DLNAEnabled)
	assert.True(t, saved.HardwareAccel)

	w = env.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeSettings(t, w.Body.Bytes())
	assert.Equal(t, "Living Room", got.FriendlyName)
	assert.Equal(t, 900, got.SSDPIntervalSeconds)
	assert.False(t, got.DLNAEnabled)
}

func TestUpdateSettings_Invalid(t *testing.T) {
	env := setupTestEnv(t)

	update := models.Settings{
		MoviesDir:           "movies",
		TVDir:               "/srv/media/tv",
		FriendlyName:        "",
		SSDPIntervalSeconds: 1800,
	}

	w := env.do(t, http.MethodPut, "/api/settings", update)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp SettingsValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_settings", resp.Error)

	fields := make([]string, 0, len(resp.Fields))
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"movies_dir", "friendly_name"}, fields)

	// Nothing was persisted
	w = env.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DefaultMoviesDir, decodeSettings(t, w.Body.Bytes()).MoviesDir)
}

func TestUpdateSettings_MalformedBody(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/settings", map[string]string{"ssdp_interval_seconds": "often"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decodeError(t, w).Error)
}

func TestLibraryScan(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/settings/scan", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var status settings.ScanStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Scanning)
	assert.True(t, status.Simulated)
	assert.Equal(t, settings.ScanLabelBusy, status.Label)

	w = env.do(t, http.MethodPost, "/api/settings/scan", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "scan_in_progress", decodeError(t, w).Error)

	assert.Eventually(t, func() bool {
		w := env.do(t, http.MethodGet, "/api/settings/scan", nil)
		var status settings.ScanStatus
		if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
			return false
		}
		return !status.Scanning && status.Label == settings.ScanLabelIdle
	}, 2*time.Second, 10*time.Millisecond)

	w = env.do(t, http.MethodPost, "/api/settings/scan", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
}
