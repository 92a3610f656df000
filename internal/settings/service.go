// Package settings backs the settings panel: persisted server settings with
// validation, and the library scan trigger.
//
// The scan is simulated. It only raises a busy flag for a fixed duration;
// no files are read.
package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/diymedia/internal/apperr"
	"github.com/stwalsh4118/diymedia/internal/logger"
	"github.com/stwalsh4118/diymedia/internal/metrics"
	"github.com/stwalsh4118/diymedia/internal/models"
)

// DefaultScanDuration is how long a simulated scan keeps the busy flag raised
const DefaultScanDuration = 2 * time.Second

// Scan button labels
const (
	ScanLabelIdle = "Scan Library Files"
	ScanLabelBusy = "Scanning Library..."
)

// ErrScanInProgress is returned when a scan is requested while one is running
var ErrScanInProgress = errors.New("library scan already in progress")

// Store persists the settings singleton
type Store interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, settings *models.Settings) error
}

// ScanStatus is the state of the library scan control
type ScanStatus struct {
	Scanning  bool       `json:"scanning"`
	Label     string     `json:"label"`
	Simulated bool       `json:"simulated"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// Service reads and saves settings and runs the simulated scan
type Service struct {
	store        Store
	validate     *validator.Validate
	scanDuration time.Duration

	mu            sync.Mutex
	scanning      bool
	scanStartedAt time.Time
	scanTimer     *time.Timer
	scanGen       uint64
}

// NewService creates a settings service
func NewService(store Store, scanDuration time.Duration) *Service {
	if scanDuration <= 0 {
		scanDuration = DefaultScanDuration
	}
	return &Service{
		store:        store,
		validate:     newValidator(),
		scanDuration: scanDuration,
	}
}

// Get returns the current settings
func (s *Service) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.store.Get(ctx)
	if err != nil {
		return nil, apperr.Transient("settings.get", err)
	}
	return settings, nil
}

// Save validates and persists settings, returning the stored values.
// Invalid input is reported as a configuration-invalid error wrapping a
// *ValidationError.
func (s *Service) Save(ctx context.Context, settings *models.Settings) (*models.Settings, error) {
	normalize(settings)

	if err := validate(s.validate, settings); err != nil {
		logger.Log.Warn().
			Err(err).
			Msg("Rejected settings update")
		return nil, apperr.ConfigInvalid("settings.save", err)
	}

	if err := s.store.Update(ctx, settings); err != nil {
		return nil, apperr.Transient("settings.save", err)
	}

	saved, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	logger.Log.Info().
		Str("friendly_name", saved.FriendlyName).
		Bool("dlna_enabled", saved.DLNAEnabled).
		Int("ssdp_interval_seconds", saved.SSDPIntervalSeconds).
		Msg("Settings saved")

	return saved, nil
}

// StartScan raises the busy flag and clears it after the scan duration
func (s *Service) StartScan() (ScanStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scanning {
		return s.statusLocked(), ErrScanInProgress
	}

	s.scanning = true
	s.scanStartedAt = time.Now().UTC()
	s.scanGen++
	gen := s.scanGen
	s.scanTimer = time.AfterFunc(s.scanDuration, func() {
		s.finishScan(gen)
	})

	metrics.IncrementLibraryScan()
	logger.Log.Info().
		Dur("duration", s.scanDuration).
		Msg("Library scan started (simulated)")

	return s.statusLocked(), nil
}

// ScanStatus returns the current scan state
func (s *Service) ScanStatus() ScanStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// Stop cancels a pending scan and clears the busy flag
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scanTimer != nil {
		s.scanTimer.Stop()
		s.scanTimer = nil
	}
	s.scanGen++
	s.scanning = false
}

func (s *Service) finishScan(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.scanGen {
		return
	}
	s.scanning = false
	s.scanTimer = nil

	logger.Log.Info().Msg("Library scan finished (simulated)")
}

func (s *Service) statusLocked() ScanStatus {
	status := ScanStatus{
		Scanning:  s.scanning,
		Label:     ScanLabelIdle,
		Simulated: true,
	}
	if s.scanning {
		started := s.scanStartedAt
		status.Label = ScanLabelBusy
		status.StartedAt = &started
	}
	return status
}
