// Package dashboard implements the server dashboard panel: static stat tiles,
// the bandwidth series and a live feed of synthetic server log entries.
package dashboard

import (
	"math/rand"
	"sync"
	"time"

	"github.com/stwalsh4118/diymedia/internal/fixtures"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"github.com/stwalsh4118/diymedia/internal/metrics"
	"github.com/stwalsh4118/diymedia/internal/models"
)

const (
	// DefaultCapacity is the number of entries kept visible
	DefaultCapacity = 20
	// DefaultInterval is the delay between generated entries
	DefaultInterval = 3500 * time.Millisecond
)

// FeedConfig configures a Feed
type FeedConfig struct {
	Interval  time.Duration
	Capacity  int
	Templates []fixtures.LogTemplate
	Initial   []fixtures.InitialLog
	// Rand picks templates; nil seeds one from the clock
	Rand *rand.Rand
	// Now stamps entries; nil uses time.Now
	Now func() time.Time
}

// Feed is a bounded, append-only log buffer fed by a periodic generator.
// Entries are dropped from the front once the capacity is reached.
type Feed struct {
	interval  time.Duration
	capacity  int
	templates []fixtures.LogTemplate
	rnd       *rand.Rand
	now       func() time.Time

	mu          sync.Mutex
	entries     []models.LogEntry
	subscribers map[int]func(models.LogEntry)
	nextSubID   int
	running     bool
	stopChan    chan struct{}
	done        chan struct{}
}

// NewFeed creates a stopped feed holding the initial entries
func NewFeed(cfg FeedConfig) *Feed {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	f := &Feed{
		interval:    cfg.Interval,
		capacity:    cfg.Capacity,
		templates:   cfg.Templates,
		rnd:         cfg.Rand,
		now:         cfg.Now,
		entries:     make([]models.LogEntry, 0, cfg.Capacity),
		subscribers: make(map[int]func(models.LogEntry)),
	}

	now := f.now()
	for _, initial := range cfg.Initial {
		f.appendLocked(models.NewLogEntry(now, initial.Level, initial.Source, initial.Message))
	}

	return f
}

// Start launches the generator. Starting a running feed is a no-op.
func (f *Feed) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running || len(f.templates) == 0 {
		return
	}

	f.running = true
	f.stopChan = make(chan struct{})
	f.done = make(chan struct{})

	go f.run(f.stopChan, f.done)
	metrics.FeedStarted()

	logger.Log.Debug().
		Dur("interval", f.interval).
		Int("capacity", f.capacity).
		Msg("Dashboard log feed started")
}

// Stop cancels the generator and waits for it to exit. No entry is appended
// after Stop returns. Stopping a stopped feed is a no-op.
func (f *Feed) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.running = false
	stopChan, done := f.stopChan, f.done
	f.mu.Unlock()

	close(stopChan)
	<-done
	metrics.FeedStopped()

	logger.Log.Debug().Msg("Dashboard log feed stopped")
}

// Running reports whether the generator is active
func (f *Feed) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Entries returns the visible entries in arrival order
func (f *Feed) Entries() []models.LogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.LogEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Subscribe registers fn to receive each new entry. fn runs on the generator
// goroutine and must not block. The returned func unsubscribes.
func (f *Feed) Subscribe(fn func(models.LogEntry)) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextSubID
	f.nextSubID++
	f.subscribers[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, id)
			f.mu.Unlock()
		})
	}
}

// run emits one entry per tick until stopChan is closed
func (f *Feed) run(stopChan <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopChan:
			return
		case <-ticker.C:
			f.generate()
		}
	}
}

// generate appends one entry built from a random template and notifies subscribers
func (f *Feed) generate() models.LogEntry {
	f.mu.Lock()
	tmpl := f.templates[f.rnd.Intn(len(f.templates))]
	entry := models.NewLogEntry(f.now(), models.LogLevelInfo, tmpl.Source, tmpl.Message)
	f.appendLocked(entry)

	subs := make([]func(models.LogEntry), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	metrics.IncrementLogEntry(string(entry.Source))

	for _, fn := range subs {
		fn(entry)
	}
	return entry
}

// appendLocked adds entry, evicting the oldest when full. Caller holds mu.
func (f *Feed) appendLocked(entry models.LogEntry) {
	if len(f.entries) >= f.capacity {
		copy(f.entries, f.entries[len(f.entries)-f.capacity+1:])
		f.entries = f.entries[:f.capacity-1]
	}
	f.entries = append(f.entries, entry)
}
