package player

import (
	"math"
	"sync"
	"time"

	"github.com/stwalsh4118/diymedia/internal/catalog"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"github.com/stwalsh4118/diymedia/internal/metrics"
	"github.com/stwalsh4118/diymedia/internal/models"
)

const (
	// DefaultHideDelay is how long controls stay visible after pointer motion
	DefaultHideDelay = 2500 * time.Millisecond

	maxNotices = 10
)

// Config configures an Overlay
type Config struct {
	HideDelay time.Duration
	Scheduler Scheduler
	Playback  Playback
	Now       func() time.Time
}

// Overlay is the playback overlay for one media item
type Overlay struct {
	item      *models.MediaItem
	source    catalog.PlaybackSource
	hideDelay time.Duration
	scheduler Scheduler
	playback  Playback
	now       func() time.Time

	mu              sync.Mutex
	state           State
	muted           bool
	position        float64
	duration        float64
	controlsVisible bool
	hideTimer       Timer
	hideGen         uint64
	notices         []Notice
}

// View is a point-in-time rendering of the overlay
type View struct {
	Item            *models.MediaItem      `json:"item"`
	Source          catalog.PlaybackSource `json:"source"`
	InfoLine        string                 `json:"info_line"`
	State           State                  `json:"state"`
	Playing         bool                   `json:"playing"`
	Muted           bool                   `json:"muted"`
	Position        float64                `json:"position"`
	Duration        float64                `json:"duration"`
	Progress        float64                `json:"progress"`
	ControlsVisible bool                   `json:"controls_visible"`
	Notices         []Notice               `json:"notices"`
}

// Open creates an overlay for item and attempts autoplay. A rejected
// attempt leaves the overlay paused with a notice.
func Open(item *models.MediaItem, source catalog.PlaybackSource, cfg Config) *Overlay {
	if cfg.HideDelay <= 0 {
		cfg.HideDelay = DefaultHideDelay
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = RealScheduler
	}
	if cfg.Playback == nil {
		cfg.Playback = ClientPlayback
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	o := &Overlay{
		item:            item,
		source:          source,
		hideDelay:       cfg.HideDelay,
		scheduler:       cfg.Scheduler,
		playback:        cfg.Playback,
		now:             cfg.Now,
		state:           StatePaused,
		controlsVisible: true,
	}

	o.mu.Lock()
	o.playLocked(NoticeAutoplayBlocked)
	o.mu.Unlock()

	metrics.IncrementPlayerOpen()
	logger.Log.Info().
		Str("media_id", item.ID.String()).
		Str("title", item.Title).
		Bool("sample_source", source.Sample).
		Str("state", o.State().String()).
		Msg("Player opened")

	return o
}

// Item returns the media item being played
func (o *Overlay) Item() *models.MediaItem {
	return o.item
}

// State returns the current playback state
func (o *Overlay) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// TogglePlay switches between playing and paused
func (o *Overlay) TogglePlay() (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateClosed:
		return o.state, ErrClosed
	case StatePlaying:
		o.state = StatePaused
	default:
		o.playLocked(NoticePlaybackError)
	}
	return o.state, nil
}

// Play attempts to start playback. Rejection is recorded as a notice.
func (o *Overlay) Play() (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateClosed {
		return o.state, ErrClosed
	}
	if o.state == StatePaused {
		o.playLocked(NoticePlaybackError)
	}
	return o.state, nil
}

// Pause stops playback
func (o *Overlay) Pause() (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateClosed {
		return o.state, ErrClosed
	}
	o.state = StatePaused
	return o.state, nil
}

// Error records a playback failure reported by the media element and pauses
func (o *Overlay) Error(cause error) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateClosed {
		return o.state, ErrClosed
	}
	o.state = StatePaused
	o.noticeLocked(NoticePlaybackError, cause)
	return o.state, nil
}

// ToggleMute flips the mute flag and returns the new value
func (o *Overlay) ToggleMute() (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateClosed {
		return o.muted, ErrClosed
	}
	o.muted = !o.muted
	return o.muted, nil
}

// UpdatePosition records the media element's current time and duration in seconds
func (o *Overlay) UpdatePosition(position, duration float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateClosed {
		return ErrClosed
	}
	o.position = position
	o.duration = duration
	return nil
}

// Progress returns the played percentage in [0, 100]
func (o *Overlay) Progress() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Progress(o.position, o.duration)
}

// Progress derives a percentage from position and duration. Unknown or
// non-positive durations yield 0.
func Progress(position, duration float64) float64 {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) || math.IsNaN(position) {
		return 0
	}
	pct := position / duration * 100
	return math.Max(0, math.Min(100, pct))
}

// ControlsVisible reports whether the control bars are shown
func (o *Overlay) ControlsVisible() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.controlsVisible
}

// PointerMoved shows the controls and re-arms the hide timer. The controls
// hide when the timer fires only if playback is still running then.
func (o *Overlay) PointerMoved() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateClosed {
		return ErrClosed
	}

	o.controlsVisible = true
	o.cancelHideLocked()

	gen := o.hideGen
	o.hideTimer = o.scheduler.AfterFunc(o.hideDelay, func() {
		o.hideControls(gen)
	})
	return nil
}

// Close cancels the hide timer and moves the overlay to closed.
// Closing twice is a no-op.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateClosed {
		return
	}
	o.cancelHideLocked()
	o.state = StateClosed

	logger.Log.Debug().
		Str("media_id", o.item.ID.String()).
		Msg("Player closed")
}

// Snapshot returns the current view of the overlay
func (o *Overlay) Snapshot() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	notices := make([]Notice, len(o.notices))
	copy(notices, o.notices)

	return View{
		Item:            o.item,
		Source:          o.source,
		InfoLine:        o.item.InfoLine(),
		State:           o.state,
		Playing:         o.state == StatePlaying,
		Muted:           o.muted,
		Position:        o.position,
		Duration:        o.duration,
		Progress:        Progress(o.position, o.duration),
		ControlsVisible: o.controlsVisible,
		Notices:         notices,
	}
}

// hideControls runs when a hide timer fires. Stale generations are ignored.
func (o *Overlay) hideControls(gen uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.hideGen || o.state == StateClosed {
		return
	}
	o.hideTimer = nil
	if o.state == StatePlaying {
		o.controlsVisible = false
	}
}

// cancelHideLocked stops the pending hide timer and invalidates its callback
func (o *Overlay) cancelHideLocked() {
	if o.hideTimer != nil {
		o.hideTimer.Stop()
		o.hideTimer = nil
	}
	o.hideGen++
}

// playLocked attempts playback from paused, recording kind on rejection
func (o *Overlay) playLocked(kind string) {
	if !o.state.CanTransitionTo(StatePlaying) {
		return
	}
	if err := o.playback.Play(o.source.URL); err != nil {
		o.noticeLocked(kind, err)
		return
	}
	o.state = StatePlaying
}

// noticeLocked appends a notice, keeping the most recent ones
func (o *Overlay) noticeLocked(kind string, cause error) {
	message := kind
	if cause != nil {
		message = cause.Error()
	}
	o.notices = append(o.notices, Notice{Kind: kind, Message: message, At: o.now().UTC()})
	if len(o.notices) > maxNotices {
		o.notices = o.notices[len(o.notices)-maxNotices:]
	}

	metrics.IncrementPlayerNotice(kind)
	logger.Log.Warn().
		Str("media_id", o.item.ID.String()).
		Str("kind", kind).
		Str("message", message).
		Msg("Playback notice recorded")
}
