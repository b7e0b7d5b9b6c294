package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName = "lifeops"
	Version = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Storage backends
	StoreSQLite = "sqlite"
	StoreBadger = "badger"

	DefaultSQLiteFile = "lifeops.db"
	DefaultBadgerDir  = "badger"

	// Backup constants
	MaxBackups          = 14
	BackupDirName       = "backups"
	BackupFilePrefix    = "lifeops-"
	BackupFileSuffix    = ".json"
	BackupSchemaVersion = 1

	// Rollover constants
	DefaultPollInterval = time.Minute

	// Day record defaults
	Top3Slots         = 3
	MaxDisplayedNotes = 3
	PomodoroMinutes   = 25
)

// Session States
const (
	StateDay SessionState = iota
	StateHabits
	StateWeek
	StateEditing
)
