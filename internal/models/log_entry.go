package models

import (
	"time"

	"github.com/google/uuid"
)

// LogLevel is the severity of a dashboard log entry
type LogLevel string

// Log level constants
const (
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelDebug LogLevel = "DEBUG"
)

// LogSource is the origin tag of a dashboard log entry
type LogSource string

// Log source constants
const (
	LogSourceDLNA    LogSource = "DLNA"
	LogSourceScanner LogSource = "SCANNER"
	LogSourceHTTP    LogSource = "HTTP"
	LogSourceSystem  LogSource = "SYSTEM"
)

// IsValid reports whether s is a known source tag
func (s LogSource) IsValid() bool {
	switch s {
	case LogSourceDLNA, LogSourceScanner, LogSourceHTTP, LogSourceSystem:
		return true
	default:
		return false
	}
}

// LogTimestampFormat is the display format of LogEntry.Timestamp
const LogTimestampFormat = "15:04:05"

// LogEntry is a synthetic server log record shown on the dashboard.
// Entries are never persisted.
type LogEntry struct {
	ID        uuid.UUID `json:"id"`
	Timestamp string    `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
	Source    LogSource `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLogEntry creates a log entry stamped with now
func NewLogEntry(now time.Time, level LogLevel, source LogSource, message string) LogEntry {
	return LogEntry{
		ID:        uuid.New(),
		Timestamp: now.Format(LogTimestampFormat),
		Level:     level,
		Message:   message,
		Source:    source,
		CreatedAt: now.UTC(),
	}
}
