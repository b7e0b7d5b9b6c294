package badgerkv

import (
	"encoding/json"
	"errors"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/models"
)

func (s *Store) AddHabit(habit models.Habit) (models.Habit, error) {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, habitKey(habit.ID), habit)
	})
	if err != nil {
		return models.Habit{}, apperrors.Storage("add habit", err)
	}
	return habit, nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	var habit models.Habit
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, habitKey(id), &habit)
	})
	if err != nil {
		return models.Habit{}, apperrors.Storage("get habit", err)
	}
	return habit, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	habits := []models.Habit{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, prefixHabit, func(_ []byte, val []byte) error {
			var h models.Habit
			if err := json.Unmarshal(val, &h); err != nil {
				return err
			}
			habits = append(habits, h)
			return nil
		})
	})
	if err != nil {
		return nil, apperrors.Storage("get habits", err)
	}

	sort.SliceStable(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

// DeleteHabit removes the habit and every log that references it in one
// read-write transaction.
func (s *Store) DeleteHabit(id string) error {
	removed := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte
		if err := scan(txn, prefixHabitLog, func(key []byte, val []byte) error {
			var log models.HabitLog
			if err := json.Unmarshal(val, &log); err != nil {
				return err
			}
			if log.HabitID == id {
				stale = append(stale, key)
			}
			return nil
		}); err != nil {
			return err
		}
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		removed = len(stale)
		return txn.Delete(habitKey(id))
	})
	if err != nil {
		return apperrors.Storage("delete habit", err)
	}
	logger.Debug("Deleted habit", "id", id, "logs", removed)
	return nil
}

func (s *Store) GetHabitLog(habitID, date string) (models.HabitLog, error) {
	var log models.HabitLog
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, habitLogKey(date, habitID), &log)
	})
	if err != nil {
		return models.HabitLog{}, apperrors.Storage("get habit log", err)
	}
	return log, nil
}

func (s *Store) InsertHabitLogIfAbsent(log models.HabitLog) (bool, error) {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	created := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := habitLogKey(log.Date, log.HabitID)
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		created = true
		return setJSON(txn, key, log)
	})
	if err != nil {
		return false, apperrors.Storage("insert habit log", err)
	}
	return created, nil
}

func (s *Store) SaveHabitLog(log models.HabitLog) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return putHabitLog(txn, log)
	})
	return apperrors.Storage("save habit log", err)
}

// putHabitLog keys on (habit id, date); an existing log keeps its id.
func putHabitLog(txn *badger.Txn, log models.HabitLog) error {
	key := habitLogKey(log.Date, log.HabitID)
	var existing models.HabitLog
	err := getJSON(txn, key, &existing)
	switch {
	case err == nil:
		log.ID = existing.ID
	case !errors.Is(err, apperrors.ErrNotFound):
		return err
	case log.ID == "":
		log.ID = uuid.New().String()
	}
	return setJSON(txn, key, log)
}

func (s *Store) GetHabitLogsForDate(date string) ([]models.HabitLog, error) {
	logs, err := s.scanLogs(prefixHabitLog+date+"/", "", "")
	return logs, apperrors.Storage("get habit logs", err)
}

// GetHabitLogsInRange returns logs with start <= date <= end.
func (s *Store) GetHabitLogsInRange(start, end string) ([]models.HabitLog, error) {
	logs, err := s.scanLogs(prefixHabitLog, start, end)
	return logs, apperrors.Storage("get habit logs in range", err)
}

func (s *Store) GetAllHabitLogs() ([]models.HabitLog, error) {
	logs, err := s.scanLogs(prefixHabitLog, "", "")
	return logs, apperrors.Storage("get all habit logs", err)
}

func (s *Store) scanLogs(prefix, start, end string) ([]models.HabitLog, error) {
	logs := []models.HabitLog{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		seek := p
		if start != "" {
			seek = []byte(prefixHabitLog + start)
		}
		for it.Seek(seek); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			var log models.HabitLog
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &log)
			}); err != nil {
				return err
			}
			if end != "" && log.Date > end {
				break
			}
			logs = append(logs, log)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}
