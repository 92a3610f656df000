package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stwalsh4118/diymedia/internal/logger"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	previous := logger.Log
	logger.Log = zerolog.New(&buf)
	defer func() { logger.Log = previous }()

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/api/sessions/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"route":"/api/sessions/:id"`)
	assert.Contains(t, out, `"path":"/api/sessions/abc"`)
}

func TestRequestLoggerRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/api/library", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name      string
		path      string
		wantRoute string
	}{
		{"route without parameters", "/api/library", `"route":"/api/library"`},
		{"unmatched route", "/api/nowhere", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			previous := logger.Log
			logger.Log = zerolog.New(&buf)
			defer func() { logger.Log = previous }()

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			out := buf.String()
			assert.Contains(t, out, `"path":"`+tt.path+`"`)
			if tt.wantRoute == "" {
				assert.NotContains(t, out, `"route"`)
				return
			}
			assert.Contains(t, out, tt.wantRoute)
		})
	}
}
