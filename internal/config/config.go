// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultAdvertiseAddress          = "192.168.1.105"
	defaultRateLimit                 = 50.0
	defaultRateBurst                 = 100
	defaultDatabasePath              = "./data/diymedia.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultDatabaseEnableWAL         = true
	defaultMigrationsPath            = "file://./migrations"
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultLogMaxSizeMB              = 50
	defaultLogMaxBackups             = 3
	defaultLogMaxAgeDays             = 14
	defaultDashboardLogInterval      = 3500 * time.Millisecond
	defaultDashboardLogCapacity      = 20
	defaultPlayerControlsHideDelay   = 2500 * time.Millisecond
	defaultPlayerSampleSourceURL     = "http://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4"
	defaultSettingsScanDuration      = 2 * time.Second
	defaultLibrarySeed               = true
	defaultLibraryBreakerThreshold   = 5
	defaultLibraryBreakerReset       = 30 * time.Second
	defaultSessionsIdleTimeout       = 30 * time.Minute
	defaultSessionsCleanupInterval   = 5 * time.Minute
	defaultMetricsEnabled            = true
	defaultMetricsPath               = "/metrics"
	maxDashboardLogCapacity          = 1000
	envPrefix                        = "DIYMEDIA"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	Dashboard DashboardConfig
	Player    PlayerConfig
	Settings  SettingsConfig
	Library   LibraryConfig
	Sessions  SessionsConfig
	Metrics   MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port             int
	Host             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	AdvertiseAddress string  // shown in the sidebar footer
	RateLimit        float64 // requests per second across the API, 0 disables
	RateBurst        int
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
	EnableWAL         bool
	MigrationsPath    string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string // optional; enables rotated file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DashboardConfig holds dashboard log feed configuration
type DashboardConfig struct {
	LogInterval time.Duration
	LogCapacity int
}

// PlayerConfig holds playback overlay configuration
type PlayerConfig struct {
	ControlsHideDelay time.Duration
	SampleSourceURL   string
}

// SettingsConfig holds settings panel configuration
type SettingsConfig struct {
	ScanDuration time.Duration
}

// LibraryConfig holds catalog fixture configuration
type LibraryConfig struct {
	FixturesPath        string // optional override of the embedded fixtures
	Seed                bool   // seed the catalog table from fixtures when empty
	BreakerThreshold    int    // consecutive catalog failures before fetches are rejected
	BreakerResetTimeout time.Duration
}

// SessionsConfig holds UI session registry configuration
type SessionsConfig struct {
	IdleTimeout     time.Duration
	CleanupInterval time.Duration
}

// MetricsConfig holds prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/diymedia")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)
	v.SetDefault("server.advertiseaddress", defaultAdvertiseAddress)
	v.SetDefault("server.ratelimit", defaultRateLimit)
	v.SetDefault("server.rateburst", defaultRateBurst)

	// Database defaults
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.enablewal", defaultDatabaseEnableWAL)
	v.SetDefault("database.migrationspath", defaultMigrationsPath)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.maxsizemb", defaultLogMaxSizeMB)
	v.SetDefault("logging.maxbackups", defaultLogMaxBackups)
	v.SetDefault("logging.maxagedays", defaultLogMaxAgeDays)

	// Dashboard defaults
	v.SetDefault("dashboard.loginterval", defaultDashboardLogInterval)
	v.SetDefault("dashboard.logcapacity", defaultDashboardLogCapacity)

	// Player defaults
	v.SetDefault("player.controlshidedelay", defaultPlayerControlsHideDelay)
	v.SetDefault("player.samplesourceurl", defaultPlayerSampleSourceURL)

	// Settings panel defaults
	v.SetDefault("settings.scanduration", defaultSettingsScanDuration)

	// Library defaults
	v.SetDefault("library.fixturespath", "")
	v.SetDefault("library.seed", defaultLibrarySeed)
	v.SetDefault("library.breakerthreshold", defaultLibraryBreakerThreshold)
	v.SetDefault("library.breakerresettimeout", defaultLibraryBreakerReset)

	// Session registry defaults
	v.SetDefault("sessions.idletimeout", defaultSessionsIdleTimeout)
	v.SetDefault("sessions.cleanupinterval", defaultSessionsCleanupInterval)

	// Metrics defaults
	v.SetDefault("metrics.enabled", defaultMetricsEnabled)
	v.SetDefault("metrics.path", defaultMetricsPath)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %v (must be >= 0)", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("invalid rate burst: %d (must be >= 1 when rate limiting is enabled)", c.Server.RateBurst)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}
	if c.Logging.File != "" && c.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("invalid log max size: %d (must be > 0 when file output is enabled)", c.Logging.MaxSizeMB)
	}

	if c.Dashboard.LogInterval <= 0 {
		return fmt.Errorf("invalid dashboard log interval: %v (must be > 0)", c.Dashboard.LogInterval)
	}
	if c.Dashboard.LogCapacity < 1 || c.Dashboard.LogCapacity > maxDashboardLogCapacity {
		return fmt.Errorf("invalid dashboard log capacity: %d (must be between 1 and %d)", c.Dashboard.LogCapacity, maxDashboardLogCapacity)
	}

	if c.Player.ControlsHideDelay <= 0 {
		return fmt.Errorf("invalid player controls hide delay: %v (must be > 0)", c.Player.ControlsHideDelay)
	}
	if c.Player.SampleSourceURL != "" {
		if u, err := url.Parse(c.Player.SampleSourceURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid player sample source url: %q", c.Player.SampleSourceURL)
		}
	}

	if c.Settings.ScanDuration <= 0 {
		return fmt.Errorf("invalid settings scan duration: %v (must be > 0)", c.Settings.ScanDuration)
	}

	if c.Library.BreakerThreshold < 1 {
		return fmt.Errorf("invalid library breaker threshold: %d (must be >= 1)", c.Library.BreakerThreshold)
	}
	if c.Library.BreakerResetTimeout <= 0 {
		return fmt.Errorf("invalid library breaker reset timeout: %v (must be > 0)", c.Library.BreakerResetTimeout)
	}

	if c.Sessions.IdleTimeout <= 0 {
		return fmt.Errorf("invalid session idle timeout: %v (must be > 0)", c.Sessions.IdleTimeout)
	}
	if c.Sessions.CleanupInterval <= 0 {
		return fmt.Errorf("invalid session cleanup interval: %v (must be > 0)", c.Sessions.CleanupInterval)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("invalid metrics path: %q (must start with /)", c.Metrics.Path)
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
