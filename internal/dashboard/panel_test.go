package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/diymedia/internal/fixtures"
)

func TestPanelFromFixtures(t *testing.T) {
	set, err := fixtures.Default()
	require.NoError(t, err)

	panel := NewPanel(set, FeedConfig{Interval: time.Hour})

	stats := panel.Stats()
	assert.InDelta(t, 4.2, stats.CPUUsage, 0.001)
	assert.Equal(t, 2, stats.ActiveStreams)
	assert.True(t, stats.ServiceRunning)
	assert.Equal(t, "Port 1900 (UPnP)", stats.ServiceEndpoint)

	assert.Len(t, panel.Bandwidth(), len(set.Bandwidth))
	assert.Len(t, panel.Logs(), len(set.InitialLogs))
	assert.False(t, panel.Active())

	snap := panel.Snapshot()
	assert.InDelta(t, 65.1, snap.StoragePercent, 0.1)
	assert.False(t, snap.Live)
}

func TestPanelActivateDeactivate(t *testing.T) {
	set, err := fixtures.Default()
	require.NoError(t, err)

	panel := NewPanel(set, FeedConfig{Interval: 2 * time.Millisecond})

	panel.Activate()
	assert.True(t, panel.Active())
	assert.Eventually(t, func() bool {
		return len(panel.Logs()) > len(set.InitialLogs)
	}, time.Second, time.Millisecond)

	panel.Deactivate()
	assert.False(t, panel.Active())
	assert.True(t, panel.Snapshot().Logs[0].Timestamp != "")
}

func TestPanelBandwidthIsCopied(t *testing.T) {
	set, err := fixtures.Default()
	require.NoError(t, err)

	panel := NewPanel(set, FeedConfig{})
	series := panel.Bandwidth()
	series[0].Mbps = -1

	assert.NotEqual(t, -1.0, panel.Bandwidth()[0].Mbps)
}
