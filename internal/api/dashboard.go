package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"github.com/stwalsh4118/diymedia/internal/metrics"
	"github.com/stwalsh4118/diymedia/internal/models"
	"github.com/stwalsh4118/diymedia/internal/shell"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsSendBuffer = 64
)

// Log stream message types
const (
	LogMessageBacklog = "backlog"
	LogMessageEntry   = "entry"
)

// LogStreamMessage is one frame of the log websocket
type LogStreamMessage struct {
	Type    string            `json:"type"`
	Entry   *models.LogEntry  `json:"entry,omitempty"`
	Entries []models.LogEntry `json:"entries,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS already allows every origin on the API
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// DashboardHandler handles dashboard panel requests
type DashboardHandler struct {
	registry *shell.Registry
}

// NewDashboardHandler creates a new dashboard handler instance
func NewDashboardHandler(registry *shell.Registry) *DashboardHandler {
	return &DashboardHandler{registry: registry}
}

// GetDashboard handles GET /api/sessions/:id/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	s, ok := lookupSession(c, h.registry)
	if !ok {
		return
	}

	panel, active := s.Dashboard()
	if !active {
		respondError(c, http.StatusConflict, "dashboard_inactive", "Dashboard is not the active view")
		return
	}

	c.JSON(http.StatusOK, panel.Snapshot())
}

// StreamLogs handles GET /api/sessions/:id/dashboard/logs/ws
//
// The first frame carries the visible backlog; each later frame carries one
// new entry. The stream ends when the client disconnects or the session closes.
func (h *DashboardHandler) StreamLogs(c *gin.Context) {
	s, ok := lookupSession(c, h.registry)
	if !ok {
		return
	}

	panel, active := s.Dashboard()
	if !active {
		respondError(c, http.StatusConflict, "dashboard_inactive", "Dashboard is not the active view")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("session_id", s.ID().String()).
			Msg("Log stream upgrade failed")
		return
	}
	defer conn.Close()

	metrics.LogStreamConnected()
	defer metrics.LogStreamDisconnected()

	// An open stream keeps the session from expiring as idle
	release := s.AttachStream()
	defer release()

	send := make(chan models.LogEntry, wsSendBuffer)
	unsubscribe := panel.Feed().Subscribe(func(entry models.LogEntry) {
		select {
		case send <- entry:
		default:
			// Slow client: drop rather than stall the generator
		}
	})
	defer unsubscribe()

	// Subscribing first means the backlog may repeat an entry already queued
	backlog := panel.Logs()
	seen := make(map[uuid.UUID]struct{}, len(backlog))
	for _, entry := range backlog {
		seen[entry.ID] = struct{}{}
	}

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(LogStreamMessage{Type: LogMessageBacklog, Entries: backlog}); err != nil {
		return
	}

	closed := make(chan struct{})
	go readPump(conn, closed)

	logger.Log.Debug().
		Str("session_id", s.ID().String()).
		Msg("Log stream connected")

	writePump(conn, s, send, seen, closed)

	logger.Log.Debug().
		Str("session_id", s.ID().String()).
		Msg("Log stream disconnected")
}

// readPump drains client frames so pongs and close frames are processed
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards entries and pings until the client or session goes away
func writePump(conn *websocket.Conn, s *shell.Shell, send <-chan models.LogEntry, seen map[uuid.UUID]struct{}, closed <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case entry := <-send:
			if _, dup := seen[entry.ID]; dup {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(LogStreamMessage{Type: LogMessageEntry, Entry: &entry}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if s.Closed() {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SetupDashboardRoutes registers dashboard routes
func SetupDashboardRoutes(apiGroup *gin.RouterGroup, registry *shell.Registry) {
	handler := NewDashboardHandler(registry)

	apiGroup.GET("/sessions/:id/dashboard", handler.GetDashboard)
	apiGroup.GET("/sessions/:id/dashboard/logs/ws", handler.StreamLogs)
}
