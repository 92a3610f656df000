package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/diymedia/internal/models"
	"github.com/stwalsh4118/diymedia/internal/shell"
)

func decodeSnapshot(t *testing.T, body []byte) shell.Snapshot {
	t.Helper()
	var snap shell.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	return snap
}

func activeEntries(snap shell.Snapshot) []string {
	var ids []string
	for _, entry := range snap.Navigation {
		if entry.Active {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

func TestCreateSession(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	snap := decodeSnapshot(t, w.Body.Bytes())
	assert.NotEqual(t, uuid.Nil, snap.ID)
	assert.Equal(t, models.ViewDashboard, snap.View)
	assert.Equal(t, models.FilterAll, snap.Filter)
	assert.True(t, snap.DashboardActive)
	assert.Nil(t, snap.Overlay)
	assert.Equal(t, "Online: "+testAdvertise, snap.OnlineLabel)
	assert.ElementsMatch(t, []string{"dashboard", "home"}, activeEntries(snap))
	assert.Equal(t, 1, env.registry.Len())
}

func TestCreateSession_RegistryStopped(t *testing.T) {
	env := setupTestEnv(t)
	env.registry.Stop()

	w := env.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "shutting_down", decodeError(t, w).Error)
}

func TestGetSession(t *testing.T) {
	env := setupTestEnv(t)
	id := env.createSession(t)

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantError  string
	}{
		{"existing session", id, http.StatusOK, ""},
		{"unknown session", uuid.New().String(), http.StatusNotFound, "session_not_found"},
		{"malformed id", "abc", http.StatusBadRequest, "invalid_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/sessions/"+tt.id, nil)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, w).Error)
				return
			}
			assert.Equal(t, id, decodeSnapshot(t, w.Body.Bytes()).ID.String())
		})
	}
}

func TestDeleteSession(t *testing.T) {
	env := setupTestEnv(t)
	id := env.createSession(t)

	w := env.do(t, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, env.registry.Len())

	w = env.do(t, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectView(t *testing.T) {
	env := setupTestEnv(t)
	id := env.createSession(t)

	tests := []struct {
		name        string
		body        interface{}
		wantStatus  int
		wantError   string
		wantView    models.View
		wantActive  []string
		wantDashRun bool
	}{
		{
			name:       "settings",
			body:       SelectViewRequest{View: models.ViewSettings},
			wantStatus: http.StatusOK,
			wantView:   models.ViewSettings,
			wantActive: []string{"settings", "system"},
		},
		{
			name:       "library keeps current filter",
			body:       SelectViewRequest{View: models.ViewLibrary},
			wantStatus: http.StatusOK,
			wantView:   models.ViewLibrary,
			wantActive: []string{"library-all", "library"},
		},
		{
			name:        "back to dashboard",
			body:        SelectViewRequest{View: models.ViewDashboard},
			wantStatus:  http.StatusOK,
			wantView:    models.ViewDashboard,
			wantActive:  []string{"dashboard", "home"},
			wantDashRun: true,
		},
		{
			name:       "unknown view",
			body:       SelectViewRequest{View: "player"},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_view",
		},
		{
			name:       "missing view",
			body:       map[string]string{},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, "/api/sessions/"+id+"/view", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, w).Error)
				return
			}

			snap := decodeSnapshot(t, w.Body.Bytes())
			assert.Equal(t, tt.wantView, snap.View)
			assert.Equal(t, tt.wantView, snap.VisiblePanel)
			assert.ElementsMatch(t, tt.wantActive, activeEntries(snap))
			assert.Equal(t, tt.wantDashRun, snap.DashboardActive)
		})
	}
}

func TestSelectFilter(t *testing.T) {
	env := setupTestEnv(t)
	id := env.createSession(t)

	w := env.do(t, http.MethodPut, "/api/sessions/"+id+"/filter", SelectFilterRequest{Filter: models.FilterTV})
	require.Equal(t, http.StatusOK, w.Code)

	snap := decodeSnapshot(t, w.Body.Bytes())
	assert.Equal(t, models.ViewLibrary, snap.View)
	assert.Equal(t, models.FilterTV, snap.Filter)
	assert.Equal(t, "TV Shows", snap.LibraryTitle)
	assert.False(t, snap.DashboardActive)
	assert.ElementsMatch(t, []string{"library-tv", "library"}, activeEntries(snap))

	w = env.do(t, http.MethodPut, "/api/sessions/"+id+"/filter", SelectFilterRequest{Filter: "music"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_filter", decodeError(t, w).Error)

	// A rejected filter leaves the session unchanged
	w = env.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.FilterTV, decodeSnapshot(t, w.Body.Bytes()).Filter)
}
