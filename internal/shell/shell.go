// Package shell holds the navigation state of each UI session: the selected
// view and library filter, the playback overlay, and the lifecycle of the
// dashboard log feed.
package shell

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/diymedia/internal/catalog"
	"github.com/stwalsh4118/diymedia/internal/dashboard"
	"github.com/stwalsh4118/diymedia/internal/fixtures"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"github.com/stwalsh4118/diymedia/internal/models"
	"github.com/stwalsh4118/diymedia/internal/player"
)

// Shell errors
var (
	ErrShellClosed   = errors.New("ui session closed")
	ErrInvalidView   = errors.New("invalid view")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrNoPlayer      = errors.New("no active player")
)

// Config holds what every shell is built from
type Config struct {
	Fixtures         *fixtures.Set
	Feed             dashboard.FeedConfig
	Player           player.Config
	AdvertiseAddress string
	// Now is used for idle tracking; nil uses time.Now
	Now func() time.Time
}

// Shell is the state container of one UI session
type Shell struct {
	id        uuid.UUID
	advertise string
	playerCfg player.Config
	now       func() time.Time
	dashboard *dashboard.Panel
	createdAt time.Time

	mu       sync.Mutex
	view     models.View
	filter   models.Filter
	overlay  *player.Overlay
	lastSeen time.Time
	streams  int
	closed   bool
}

// Snapshot is the rendered state of a shell
type Snapshot struct {
	ID               uuid.UUID     `json:"id"`
	View             models.View   `json:"view"`
	Filter           models.Filter `json:"filter"`
	VisiblePanel     models.View   `json:"visible_panel"`
	LibraryTitle     string        `json:"library_title"`
	DashboardActive  bool          `json:"dashboard_active"`
	Navigation       []NavEntry    `json:"navigation"`
	Overlay          *player.View  `json:"overlay"`
	AdvertiseAddress string        `json:"advertise_address"`
	OnlineLabel      string        `json:"online_label"`
	CreatedAt        time.Time     `json:"created_at"`
}

// New creates a shell on the dashboard view with the "all" filter and no
// overlay. The dashboard feed starts immediately.
func New(id uuid.UUID, cfg Config) *Shell {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	now := cfg.Now()
	s := &Shell{
		id:        id,
		advertise: cfg.AdvertiseAddress,
		playerCfg: cfg.Player,
		now:       cfg.Now,
		dashboard: dashboard.NewPanel(cfg.Fixtures, cfg.Feed),
		createdAt: now.UTC(),
		view:      models.ViewDashboard,
		filter:    models.FilterAll,
		lastSeen:  now,
	}
	s.dashboard.Activate()

	return s
}

// ID returns the session id
func (s *Shell) ID() uuid.UUID {
	return s.id
}

// SelectView switches the visible panel. Re-selecting the current view
// changes nothing.
func (s *Shell) SelectView(view models.View) error {
	if !view.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidView, view)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrShellClosed
	}
	s.touchLocked()
	s.setViewLocked(view)
	return nil
}

// SelectLibraryFilter sets the filter and switches to the library view
func (s *Shell) SelectLibraryFilter(filter models.Filter) error {
	if !filter.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, filter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrShellClosed
	}
	s.touchLocked()
	s.filter = filter
	s.setViewLocked(models.ViewLibrary)
	return nil
}

// View returns the selected view and filter
func (s *Shell) View() (models.View, models.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.filter
}

// VisiblePanel returns the single panel currently shown under any overlay
func (s *Shell) VisiblePanel() models.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// OpenPlayer replaces any active overlay with a new one for item. The old
// overlay is closed, and its timer cancelled, before the new one opens.
func (s *Shell) OpenPlayer(item *models.MediaItem, source catalog.PlaybackSource) (*player.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrShellClosed
	}
	s.touchLocked()

	if s.overlay != nil {
		s.overlay.Close()
	}
	s.overlay = player.Open(item, source, s.playerCfg)

	return s.overlay, nil
}

// ClosePlayer removes the overlay. The previously selected view is visible again.
func (s *Shell) ClosePlayer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrShellClosed
	}
	s.touchLocked()

	if s.overlay == nil {
		return ErrNoPlayer
	}
	s.overlay.Close()
	s.overlay = nil
	return nil
}

// Player returns the active overlay
func (s *Shell) Player() (*player.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrShellClosed
	}
	s.touchLocked()

	if s.overlay == nil {
		return nil, ErrNoPlayer
	}
	return s.overlay, nil
}

// Dashboard returns the dashboard panel and whether it is the active view
func (s *Shell) Dashboard() (*dashboard.Panel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked()
	return s.dashboard, !s.closed && s.view == models.ViewDashboard
}

// Navigation returns the nav entries with their active flags
func (s *Shell) Navigation() []NavEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return navigation(s.view, s.filter)
}

// Snapshot renders the shell
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:               s.id,
		View:             s.view,
		Filter:           s.filter,
		VisiblePanel:     s.view,
		LibraryTitle:     s.filter.Title(),
		DashboardActive:  s.dashboard.Active(),
		Navigation:       navigation(s.view, s.filter),
		AdvertiseAddress: s.advertise,
		OnlineLabel:      "Online: " + s.advertise,
		CreatedAt:        s.createdAt,
	}
	if s.overlay != nil {
		view := s.overlay.Snapshot()
		snap.Overlay = &view
	}
	return snap
}

// Touch marks the session as used
func (s *Shell) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
}

// AttachStream marks the session as in use for as long as a live stream is
// open. The returned release func is idempotent; idle time restarts from it.
func (s *Shell) AttachStream() (release func()) {
	s.mu.Lock()
	s.streams++
	s.touchLocked()
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.streams--
			s.touchLocked()
		})
	}
}

// IdleSince returns how long the session has gone unused at now. A session
// with an attached stream is never idle.
func (s *Shell) IdleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streams > 0 {
		return 0
	}
	return now.Sub(s.lastSeen)
}

// Closed reports whether the shell has been closed
func (s *Shell) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops the dashboard feed and closes any overlay. Closing twice is a no-op.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	s.dashboard.Deactivate()
	if s.overlay != nil {
		s.overlay.Close()
		s.overlay = nil
	}

	logger.Log.Debug().
		Str("session_id", s.id.String()).
		Msg("UI session closed")
}

// setViewLocked changes view, stopping the feed when leaving the dashboard
// and starting it when entering
func (s *Shell) setViewLocked(view models.View) {
	if view == s.view {
		return
	}
	previous := s.view
	s.view = view

	if previous == models.ViewDashboard {
		s.dashboard.Deactivate()
	}
	if view == models.ViewDashboard {
		s.dashboard.Activate()
	}

	logger.Log.Debug().
		Str("session_id", s.id.String()).
		Str("from", string(previous)).
		Str("to", string(view)).
		Msg("View changed")
}

func (s *Shell) touchLocked() {
	s.lastSeen = s.now()
}
