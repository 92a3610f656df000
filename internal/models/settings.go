package models

import (
	"time"
)

// Settings represents the server configuration edited from the settings panel.
// The validate tags are enforced by the settings service before saving.
type Settings struct {
	ID                  int       `json:"-" gorm:"type:integer;primaryKey;default:1;column:id"`
	MoviesDir           string    `json:"movies_dir" gorm:"type:text;not null;column:movies_dir" validate:"required,abspath"`
	TVDir               string    `json:"tv_dir" gorm:"type:text;not null;column:tv_dir" validate:"required,abspath"`
	DLNAEnabled         bool      `json:"dlna_enabled" gorm:"type:integer;not null;column:dlna_enabled"`
	FriendlyName        string    `json:"friendly_name" gorm:"type:text;not null;column:friendly_name" validate:"required,max=64"`
	SSDPIntervalSeconds int       `json:"ssdp_interval_seconds" gorm:"type:integer;not null;column:ssdp_interval_seconds" validate:"gte=60,lte=86400"`
	HardwareAccel       bool      `json:"hardware_accel" gorm:"type:integer;not null;column:hardware_accel"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// DefaultSettings returns settings with default values
func DefaultSettings() *Settings {
	return &Settings{
		ID:                  1,
		MoviesDir:           DefaultMoviesDir,
		TVDir:               DefaultTVDir,
		DLNAEnabled:         true,
		FriendlyName:        DefaultFriendlyName,
		SSDPIntervalSeconds: DefaultSSDPIntervalSeconds,
		HardwareAccel:       false,
		UpdatedAt:           time.Now().UTC(),
	}
}
