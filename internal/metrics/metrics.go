// Package metrics exposes prometheus collectors for UI sessions, the dashboard
// log feed, the player overlay and the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UI session metrics
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "diymedia_ui_sessions_active",
		Help: "Number of live UI sessions",
	})

	sessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diymedia_ui_sessions_expired_total",
		Help: "Total UI sessions closed by the idle sweep",
	})

	// Dashboard metrics
	logEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diymedia_dashboard_log_entries_total",
		Help: "Total synthetic log entries generated by dashboard feeds",
	}, []string{"source"})

	feedsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "diymedia_dashboard_feeds_active",
		Help: "Number of running dashboard log generators",
	})

	logStreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "diymedia_dashboard_log_stream_clients",
		Help: "Number of connected log stream websocket clients",
	})

	// Player metrics
	playerOpensTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diymedia_player_opens_total",
		Help: "Total playback overlays opened",
	})

	playerNoticesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diymedia_player_notices_total",
		Help: "Total non-fatal playback notices by kind",
	}, []string{"kind"})

	// Settings metrics
	libraryScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diymedia_library_scans_total",
		Help: "Total simulated library scans started",
	})

	// HTTP metrics
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "diymedia_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status class",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8), // 0.5ms to ~8s
	}, []string{"method", "route", "status"})
)

// SetActiveSessions sets the number of live UI sessions
func SetActiveSessions(count int) {
	sessionsActive.Set(float64(count))
}

// IncrementSessionsExpired counts sessions removed by the idle sweep
func IncrementSessionsExpired(count int) {
	sessionsExpiredTotal.Add(float64(count))
}

// IncrementLogEntry counts one generated log entry
func IncrementLogEntry(source string) {
	logEntriesTotal.WithLabelValues(source).Inc()
}

// FeedStarted records a dashboard generator start
func FeedStarted() {
	feedsActive.Inc()
}

// FeedStopped records a dashboard generator stop
func FeedStopped() {
	feedsActive.Dec()
}

// LogStreamConnected records a websocket client joining
func LogStreamConnected() {
	logStreamClients.Inc()
}

// LogStreamDisconnected records a websocket client leaving
func LogStreamDisconnected() {
	logStreamClients.Dec()
}

// IncrementPlayerOpen counts one opened playback overlay
func IncrementPlayerOpen() {
	playerOpensTotal.Inc()
}

// IncrementPlayerNotice counts one playback notice of the given kind
func IncrementPlayerNotice(kind string) {
	playerNoticesTotal.WithLabelValues(kind).Inc()
}

// IncrementLibraryScan counts one simulated library scan
func IncrementLibraryScan() {
	libraryScansTotal.Inc()
}

// ObserveHTTPRequest records the latency of a handled request
func ObserveHTTPRequest(method, route, status string, seconds float64) {
	httpRequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
