package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetActiveSessions(t *testing.T) {
	SetActiveSessions(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(sessionsActive))

	SetActiveSessions(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(sessionsActive))
}

func TestIncrementLogEntry(t *testing.T) {
	initial := testutil.ToFloat64(logEntriesTotal.WithLabelValues("DLNA"))

	IncrementLogEntry("DLNA")
	IncrementLogEntry("DLNA")

	assert.Equal(t, initial+2, testutil.ToFloat64(logEntriesTotal.WithLabelValues("DLNA")))
}

func TestFeedGauge(t *testing.T) {
	initial := testutil.ToFloat64(feedsActive)

	FeedStarted()
	assert.Equal(t, initial+1, testutil.ToFloat64(feedsActive))

	FeedStopped()
	assert.Equal(t, initial, testutil.ToFloat64(feedsActive))
}

func TestLogStreamGauge(t *testing.T) {
	initial := testutil.ToFloat64(logStreamClients)

	LogStreamConnected()
	LogStreamConnected()
	LogStreamDisconnected()

	assert.Equal(t, initial+1, testutil.ToFloat64(logStreamClients))
}

func TestPlayerCounters(t *testing.T) {
	initialOpens := testutil.ToFloat64(playerOpensTotal)
	initialNotices := testutil.ToFloat64(playerNoticesTotal.WithLabelValues("autoplay_blocked"))

	IncrementPlayerOpen()
	IncrementPlayerNotice("autoplay_blocked")

	assert.Equal(t, initialOpens+1, testutil.ToFloat64(playerOpensTotal))
	assert.Equal(t, initialNotices+1, testutil.ToFloat64(playerNoticesTotal.WithLabelValues("autoplay_blocked")))
}

func TestSessionAndScanCounters(t *testing.T) {
	initialExpired := testutil.ToFloat64(sessionsExpiredTotal)
	initialScans := testutil.ToFloat64(libraryScansTotal)

	IncrementSessionsExpired(2)
	IncrementLibraryScan()

	assert.Equal(t, initialExpired+2, testutil.ToFloat64(sessionsExpiredTotal))
	assert.Equal(t, initialScans+1, testutil.ToFloat64(libraryScansTotal))
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.CollectAndCount(httpRequestDuration)

	ObserveHTTPRequest("GET", "/api/test-route", "200", 0.01)

	assert.Equal(t, before+1, testutil.CollectAndCount(httpRequestDuration))
}
