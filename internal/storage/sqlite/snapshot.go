package sqlite

import (
	"github.com/jmoiron/sqlx"

	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/models"
)

func (s *Store) ImportSnapshot(snap models.Snapshot) error {
	err := s.inTx(func(tx *sqlx.Tx) error {
		for _, settings := range snap.Settings {
			if err := s.upsertSettings(tx, settings); err != nil {
				return err
			}
		}
		for _, rec := range snap.DayRecords {
			if err := s.upsertDayRecord(tx, rec); err != nil {
				return err
			}
		}
		for _, habit := range snap.Habits {
			if err := s.upsertHabit(tx, habit); err != nil {
				return err
			}
		}
		for _, log := range snap.HabitLogs {
			// A log for the same (habit, date) under another id is replaced.
			if _, err := tx.Exec("DELETE FROM habit_logs WHERE habit_id = ? AND date = ? AND id <> ?", log.HabitID, log.Date, log.ID); err != nil {
				return err
			}
			if _, err := tx.Exec(`INSERT INTO habit_logs (id, habit_id, date, completed) VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET habit_id = excluded.habit_id, date = excluded.date, completed = excluded.completed`,
				log.ID, log.HabitID, log.Date, log.Completed); err != nil {
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
