package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/julianstephens/lifeops/internal/constants"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/models"
	"github.com/julianstephens/lifeops/internal/utils"
)

// Document is the on-disk backup format.
type Document struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Data       models.Snapshot `json:"data"`
}

// Store is the part of the storage provider backups read and write.
type Store interface {
	GetSettings() (models.Settings, error)
	GetAllDayRecords() ([]models.DayRecord, error)
	GetAllHabits() ([]models.Habit, error)
	GetAllHabitLogs() ([]models.HabitLog, error)
	ImportSnapshot(snap models.Snapshot) error
}

// Export reads every table into a document stamped with now.
func Export(store Store, now time.Time) (Document, error) {
	doc := Document{
		Version:    constants.BackupSchemaVersion,
		ExportedAt: now.UTC(),
		Data: models.Snapshot{
			Settings: []models.Settings{},
		},
	}

	settings, err := store.GetSettings()
	switch {
	case err == nil:
		doc.Data.Settings = append(doc.Data.Settings, settings)
	case !apperrors.IsNotFound(err):
		return Document{}, fmt.Errorf("failed to export settings: %w", err)
	}

	if doc.Data.DayRecords, err = store.GetAllDayRecords(); err != nil {
		return Document{}, fmt.Errorf("failed to export day records: %w", err)
	}
	if doc.Data.Habits, err = store.GetAllHabits(); err != nil {
		return Document{}, fmt.Errorf("failed to export habits: %w", err)
	}
	if doc.Data.HabitLogs, err = store.GetAllHabitLogs(); err != nil {
		return Document{}, fmt.Errorf("failed to export habit logs: %w", err)
	}
	return doc, nil
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// rawDocument keeps "data" optional so a missing section is detectable.
type rawDocument struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Data       *models.Snapshot `json:"data"`
}

// Parse decodes and validates a document. Every problem is reported as a
// *errors.MalformedBackupError. Completion flags on blank items are cleared
// rather than rejected.
func Parse(r io.Reader) (Document, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Document{}, &apperrors.MalformedBackupError{Reason: "invalid JSON", Err: err}
	}
	if raw.Version != constants.BackupSchemaVersion {
		return Document{}, apperrors.MalformedBackup("unsupported version %d (expected %d)", raw.Version, constants.BackupSchemaVersion)
	}
	if raw.Data == nil {
		return Document{}, apperrors.MalformedBackup("missing data section")
	}

	doc := Document{Version: raw.Version, ExportedAt: raw.ExportedAt, Data: *raw.Data}
	if err := validate(&doc.Data); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func validate(snap *models.Snapshot) error {
	if len(snap.Settings) > 1 {
		return apperrors.MalformedBackup("settings: expected at most one row, got %d", len(snap.Settings))
	}
	for i, s := range snap.Settings {
		if err := s.Validate(); err != nil {
			return &apperrors.MalformedBackupError{Reason: fmt.Sprintf("settings[%d]", i), Err: err}
		}
		snap.Settings[i].ID = constants.SettingsID
	}

	seenDates := make(map[string]bool, len(snap.DayRecords))
	for i, rec := range snap.DayRecords {
		if seenDates[rec.Date] {
			return apperrors.MalformedBackup("day_records[%d]: duplicate date %q", i, rec.Date)
		}
		seenDates[rec.Date] = true

		rec = rec.Normalize()
		if err := rec.Validate(); err != nil {
			return &apperrors.MalformedBackupError{Reason: fmt.Sprintf("day_records[%d]", i), Err: err}
		}
		snap.DayRecords[i] = rec
	}

	habits := make(map[string]bool, len(snap.Habits))
	for i, h := range snap.Habits {
		if h.ID == "" {
			return apperrors.MalformedBackup("habits[%d]: missing id", i)
		}
		if strings.Contains(h.ID, "/") {
			return apperrors.MalformedBackup("habits[%d]: id %q must not contain '/'", i, h.ID)
		}
		if habits[h.ID] {
			return apperrors.MalformedBackup("habits[%d]: duplicate id %q", i, h.ID)
		}
		if strings.TrimSpace(h.Name) == "" {
			return apperrors.MalformedBackup("habits[%d]: missing name", i)
		}
		habits[h.ID] = true
	}

	seenLogs := make(map[string]bool, len(snap.HabitLogs))
	for i, l := range snap.HabitLogs {
		if l.ID == "" {
			return apperrors.MalformedBackup("habit_logs[%d]: missing id", i)
		}
		if !habits[l.HabitID] {
			return apperrors.MalformedBackup("habit_logs[%d]: unknown habit %q", i, l.HabitID)
		}
		if !utils.ValidateDateKey(l.Date) {
			return apperrors.MalformedBackup("habit_logs[%d]: invalid date %q", i, l.Date)
		}
		key := l.HabitID + "/" + l.Date
		if seenLogs[key] {
			return apperrors.MalformedBackup("habit_logs[%d]: duplicate log for habit %q on %s", i, l.HabitID, l.Date)
		}
		seenLogs[key] = true
	}
	return nil
}

// Import parses r and, only if the whole document is valid, writes it to
// store in a single transaction.
func Import(store Store, r io.Reader) (Document, error) {
	doc, err := Parse(r)
	if err != nil {
		return Document{}, err
	}
	if err := store.ImportSnapshot(doc.Data); err != nil {
		return Document{}, fmt.Errorf("failed to import backup: %w", err)
	}
	return doc, nil
}
