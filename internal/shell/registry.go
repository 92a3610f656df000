package shell

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"github.com/stwalsh4118/diymedia/internal/metrics"
)

// Registry errors
var (
	ErrSessionNotFound = errors.New("ui session not found")
	ErrRegistryStopped = errors.New("session registry has been stopped")
)

const (
	defaultIdleTimeout     = 30 * time.Minute
	defaultCleanupInterval = 5 * time.Minute
)

// RegistryConfig configures session expiry
type RegistryConfig struct {
	IdleTimeout     time.Duration
	CleanupInterval time.Duration
}

// Registry owns the live UI sessions, keyed by id
type Registry struct {
	cfg             Config
	idleTimeout     time.Duration
	cleanupInterval time.Duration

	mu          sync.RWMutex
	shells      map[uuid.UUID]*Shell
	stopChan    chan struct{}
	cleanupDone chan struct{}
	started     bool
	stopped     bool
}

// NewRegistry creates a registry building shells from cfg
func NewRegistry(cfg Config, rcfg RegistryConfig) *Registry {
	if rcfg.IdleTimeout <= 0 {
		rcfg.IdleTimeout = defaultIdleTimeout
	}
	if rcfg.CleanupInterval <= 0 {
		rcfg.CleanupInterval = defaultCleanupInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Registry{
		cfg:             cfg,
		idleTimeout:     rcfg.IdleTimeout,
		cleanupInterval: rcfg.CleanupInterval,
		shells:          make(map[uuid.UUID]*Shell),
		stopChan:        make(chan struct{}),
		cleanupDone:     make(chan struct{}),
	}
}

// Start launches the idle cleanup loop
func (r *Registry) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return ErrRegistryStopped
	}
	if r.started {
		return nil
	}
	r.started = true

	go r.runCleanupLoop()

	logger.Log.Info().
		Dur("idle_timeout", r.idleTimeout).
		Dur("cleanup_interval", r.cleanupInterval).
		Msg("Session registry started")

	return nil
}

// Stop ends the cleanup loop and closes every session
func (r *Registry) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	started := r.started
	shells := r.shells
	r.shells = make(map[uuid.UUID]*Shell)
	r.mu.Unlock()

	close(r.stopChan)
	if started {
		<-r.cleanupDone
	}

	for _, s := range shells {
		s.Close()
	}
	metrics.SetActiveSessions(0)

	logger.Log.Info().
		Int("closed_sessions", len(shells)).
		Msg("Session registry stopped")
}

// Create opens a new UI session
func (r *Registry) Create() (*Shell, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return nil, ErrRegistryStopped
	}

	s := New(uuid.New(), r.cfg)
	r.shells[s.ID()] = s
	metrics.SetActiveSessions(len(r.shells))

	logger.Log.Info().
		Str("session_id", s.ID().String()).
		Int("sessions", len(r.shells)).
		Msg("UI session created")

	return s, nil
}

// Get returns the session with id and marks it used
func (r *Registry) Get(id uuid.UUID) (*Shell, error) {
	r.mu.RLock()
	s, ok := r.shells[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Touch()
	return s, nil
}

// Remove closes and forgets the session with id
func (r *Registry) Remove(id uuid.UUID) error {
	r.mu.Lock()
	s, ok := r.shells[id]
	if ok {
		delete(r.shells, id)
	}
	count := len(r.shells)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	s.Close()
	metrics.SetActiveSessions(count)

	logger.Log.Info().
		Str("session_id", id.String()).
		Msg("UI session removed")

	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shells)
}

// runCleanupLoop sweeps idle sessions on every tick
func (r *Registry) runCleanupLoop() {
	defer close(r.cleanupDone)

	ticker := time.NewTicker(r.cleanupInterval)
	defer ticker.Stop()

	logger.Log.Debug().Msg("Session cleanup loop started")

	for {
		select {
		case <-r.stopChan:
			logger.Log.Debug().Msg("Session cleanup loop stopping")
			return
		case <-ticker.C:
			r.sweep(r.cfg.Now())
		}
	}
}

// sweep closes sessions idle for longer than the idle timeout at now
func (r *Registry) sweep(now time.Time) int {
	r.mu.Lock()
	var expired []*Shell
	for id, s := range r.shells {
		if s.IdleSince(now) > r.idleTimeout {
			expired = append(expired, s)
			delete(r.shells, id)
		}
	}
	count := len(r.shells)
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}

	if len(expired) > 0 {
		metrics.SetActiveSessions(count)
		metrics.IncrementSessionsExpired(len(expired))
		logger.Log.Info().
			Int("expired", len(expired)).
			Int("remaining", count).
			Msg("Expired idle UI sessions")
	}

	return len(expired)
}
