package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"github.com/stwalsh4118/diymedia/internal/models"
)

// Breaker defaults
const (
	DefaultFailureThreshold = 5
	DefaultResetTimeout     = 30 * time.Second
)

// ErrCatalogUnavailable is returned while the breaker rejects fetches
var ErrCatalogUnavailable = errors.New("catalog temporarily unavailable")

// BreakerState represents the state of a catalog breaker
type BreakerState int

const (
	// BreakerClosed lets fetches through
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects fetches until the reset timeout elapses
	BreakerOpen
	// BreakerHalfOpen lets a trial fetch through
	BreakerHalfOpen
)

// String returns the string representation of BreakerState
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a GuardedSource
type BreakerConfig struct {
	FailureThreshold int
	ResetTimeout     time.Duration
	// Now is used for the reset timeout; nil uses time.Now
	Now func() time.Time
}

// GuardedSource wraps a Source with a circuit breaker. After FailureThreshold
// consecutive failures the catalog is reported unavailable without touching
// the underlying source until ResetTimeout has passed. Then a single trial
// fetch is let through; concurrent callers are rejected until it completes.
type GuardedSource struct {
	source       Source
	threshold    int
	resetTimeout time.Duration
	now          func() time.Time

	mu          sync.Mutex
	state       BreakerState
	failures    int
	lastFailure time.Time
	trial       bool // a half-open trial fetch is in flight
}

// NewGuardedSource creates a breaker-guarded catalog source
func NewGuardedSource(source Source, cfg BreakerConfig) *GuardedSource {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = DefaultResetTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &GuardedSource{
		source:       source,
		threshold:    cfg.FailureThreshold,
		resetTimeout: cfg.ResetTimeout,
		now:          cfg.Now,
		state:        BreakerClosed,
	}
}

// FetchCatalog fetches from the wrapped source unless the breaker is open.
// Cancelled requests are not counted as failures.
func (g *GuardedSource) FetchCatalog(ctx context.Context) ([]*models.MediaItem, error) {
	if !g.allow() {
		return nil, apperr.Transient("catalog.fetch", ErrCatalogUnavailable)
	}

	items, err := g.source.FetchCatalog(ctx)
	if err != nil {
		if ctx.Err() == nil {
			g.recordFailure(err)
		} else {
			g.abandonTrial()
		}
		return nil, err
	}

	g.recordSuccess()
	return items, nil
}

// State returns the current breaker state
func (g *GuardedSource) State() BreakerState {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.maybeHalfOpenLocked()
	return g.state
}

func (g *GuardedSource) allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.maybeHalfOpenLocked()

	switch g.state {
	case BreakerOpen:
		return false
	case BreakerHalfOpen:
		if g.trial {
			return false
		}
		g.trial = true
	}
	return true
}

// abandonTrial frees the trial slot after a cancelled fetch
func (g *GuardedSource) abandonTrial() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.trial = false
}

// maybeHalfOpenLocked moves an open breaker to half-open once the timeout elapsed
func (g *GuardedSource) maybeHalfOpenLocked() {
	if g.state == BreakerOpen && g.now().Sub(g.lastFailure) >= g.resetTimeout {
		g.state = BreakerHalfOpen
		g.failures = 0
		g.trial = false
	}
}

func (g *GuardedSource) recordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures = 0
	g.trial = false
	if g.state == BreakerHalfOpen {
		g.state = BreakerClosed
		logger.Log.Info().Msg("Catalog source recovered")
	}
}

func (g *GuardedSource) recordFailure(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures++
	g.lastFailure = g.now()
	g.trial = false

	// A failed trial reopens immediately
	if g.state == BreakerHalfOpen || (g.state == BreakerClosed && g.failures >= g.threshold) {
		g.state = BreakerOpen
		logger.Log.Warn().
			Err(err).
			Int("failures", g.failures).
			Dur("reset_timeout", g.resetTimeout).
			Msg("Catalog source unavailable, rejecting fetches")
	}
}
