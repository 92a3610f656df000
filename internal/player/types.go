// Package player implements the full-screen playback overlay: play state,
// mute, progress and the auto-hiding control bar.
package player

import (
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed overlay
var ErrClosed = errors.New("player closed")

// State represents the playback state of an overlay
type State string

// Overlay states
const (
	StatePaused  State = "paused"
	StatePlaying State = "playing"
	StateClosed  State = "closed"
)

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from current state to newState is valid
func (s State) CanTransitionTo(newState State) bool {
	switch s {
	case StatePaused:
		return newState == StatePlaying || newState == StateClosed
	case StatePlaying:
		return newState == StatePaused || newState == StateClosed
	default:
		// Closed is terminal
		return false
	}
}

// Notice kinds
const (
	NoticeAutoplayBlocked = "autoplay_blocked"
	NoticePlaybackError   = "playback_error"
)

// Notice is a non-fatal playback problem surfaced to the viewer
type Notice struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Playback starts playback of a stream. A returned error means the attempt
// was rejected, e.g. by an autoplay policy.
type Playback interface {
	Play(sourceURL string) error
}

// PlaybackFunc adapts a function to the Playback interface
type PlaybackFunc func(sourceURL string) error

// Play calls f(sourceURL)
func (f PlaybackFunc) Play(sourceURL string) error {
	return f(sourceURL)
}

// ClientPlayback accepts every attempt. The browser owns the media element
// and reports failures back through Overlay.Error.
var ClientPlayback Playback = PlaybackFunc(func(string) error { return nil })

// Timer is a pending scheduled callback
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules callbacks on the runtime timer
var RealScheduler Scheduler = realScheduler{}
