package dashboard

import (
	"github.com/stwalsh4118/diymedia/internal/fixtures"
	"github.com/stwalsh4118/diymedia/internal/models"
)

// Panel is the dashboard view of one UI session
type Panel struct {
	stats     models.ServerStats
	bandwidth []models.BandwidthSample
	feed      *Feed
}

// Snapshot is the full dashboard payload
type Snapshot struct {
	Stats          models.ServerStats       `json:"stats"`
	StoragePercent float64                  `json:"storage_percent"`
	Bandwidth      []models.BandwidthSample `json:"bandwidth"`
	Logs           []models.LogEntry        `json:"logs"`
	Live           bool                     `json:"live"`
}

// NewPanel creates a dashboard panel with a stopped feed built from the fixture set
func NewPanel(set *fixtures.Set, cfg FeedConfig) *Panel {
	cfg.Templates = set.LogTemplates
	cfg.Initial = set.InitialLogs

	bandwidth := make([]models.BandwidthSample, len(set.Bandwidth))
	copy(bandwidth, set.Bandwidth)

	return &Panel{
		stats:     set.Stats,
		bandwidth: bandwidth,
		feed:      NewFeed(cfg),
	}
}

// Activate starts the live log feed
func (p *Panel) Activate() {
	p.feed.Start()
}

// Deactivate stops the live log feed
func (p *Panel) Deactivate() {
	p.feed.Stop()
}

// Active reports whether the live feed is running
func (p *Panel) Active() bool {
	return p.feed.Running()
}

// Stats returns the static stat tiles
func (p *Panel) Stats() models.ServerStats {
	return p.stats
}

// Bandwidth returns the static bandwidth series
func (p *Panel) Bandwidth() []models.BandwidthSample {
	out := make([]models.BandwidthSample, len(p.bandwidth))
	copy(out, p.bandwidth)
	return out
}

// Logs returns the visible log entries in arrival order
func (p *Panel) Logs() []models.LogEntry {
	return p.feed.Entries()
}

// Feed exposes the live log feed for subscriptions
func (p *Panel) Feed() *Feed {
	return p.feed
}

// Snapshot returns every dashboard section at once
func (p *Panel) Snapshot() Snapshot {
	return Snapshot{
		Stats:          p.stats,
		StoragePercent: p.stats.Storage.PercentUsed(),
		Bandwidth:      p.Bandwidth(),
		Logs:           p.Logs(),
		Live:           p.Active(),
	}
}
