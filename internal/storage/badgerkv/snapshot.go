package badgerkv

import (
	badger "github.com/dgraph-io/badger/v4"

	"github.com/julianstephens/lifeops/internal/constants"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/models"
)

func (s *Store) ImportSnapshot(snap models.Snapshot) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, settings := range snap.Settings {
			settings.ID = constants.SettingsID
			if err := setJSON(txn, []byte(keySettings), settings); err != nil {
				return err
			}
		}
		for _, rec := range snap.DayRecords {
			if err := setJSON(txn, dayKey(rec.Date), rec); err != nil {
				return err
			}
		}
		for _, habit := range snap.Habits {
			if err := setJSON(txn, habitKey(habit.ID), habit); err != nil {
				return err
			}
		}
		for _, log := range snap.HabitLogs {
			if err := setJSON(txn, habitLogKey(log.Date, log.HabitID), log); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Storage("import snapshot", err)
	}

	logger.Info("Imported snapshot",
		"settings", len(snap.Settings),
		"day_records", len(snap.DayRecords),
		"habits", len(snap.Habits),
		"habit_logs", len(snap.HabitLogs))
	return nil
}
