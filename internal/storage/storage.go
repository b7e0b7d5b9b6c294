// Package storage defines the persistence contract shared by the SQLite and
// Badger backends.
package storage

import (
	"fmt"

	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/models"
	"github.com/julianstephens/lifeops/internal/storage/badgerkv"
	"github.com/julianstephens/lifeops/internal/storage/sqlite"
)

// Provider is the durable store for settings, day records, habits and
// habit logs. Reads of missing keys return errors.ErrNotFound; every other
// failure is an *errors.StorageError.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Day records
	GetDayRecord(date string) (models.DayRecord, error)
	// InsertDayRecordIfAbsent writes rec only when no record exists for
	// rec.Date. created is false, with a nil error, when one already does.
	InsertDayRecordIfAbsent(rec models.DayRecord) (created bool, err error)
	SaveDayRecord(models.DayRecord) error
	GetDayRecords(dates []string) ([]models.DayRecord, error)
	GetAllDayRecords() ([]models.DayRecord, error)

	// Habits
	AddHabit(models.Habit) (models.Habit, error)
	GetHabit(id string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	// DeleteHabit removes the habit and all of its logs atomically.
	DeleteHabit(id string) error

	// Habit logs
	GetHabitLog(habitID, date string) (models.HabitLog, error)
	InsertHabitLogIfAbsent(models.HabitLog) (created bool, err error)
	SaveHabitLog(models.HabitLog) error
	GetHabitLogsForDate(date string) ([]models.HabitLog, error)
	GetHabitLogsInRange(start, end string) ([]models.HabitLog, error)
	GetAllHabitLogs() ([]models.HabitLog, error)

	// ImportSnapshot upserts every row of snap in a single transaction.
	ImportSnapshot(snap models.Snapshot) error

	// Utils
	GetConfigPath() string
}

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*badgerkv.Store)(nil)
)

// New returns an unopened provider of the given kind. Callers must call
// Init or Load before use.
func New(kind, path string) (Provider, error) {
	switch kind {
	case "", constants.StoreSQLite:
		return sqlite.NewStore(path), nil
	case constants.StoreBadger:
		return badgerkv.NewStore(path), nil
	default:
		return nil, fmt.Errorf("unknown store type %q (expected %s or %s)", kind, constants.StoreSQLite, constants.StoreBadger)
	}
}
