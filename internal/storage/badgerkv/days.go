package badgerkv

import (
	"encoding/json"
	"errors"
	"sort"

	badger "github.com/dgraph-io/badger/v4"

	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/models"
)

func (s *Store) GetDayRecord(date string) (models.DayRecord, error) {
	var rec models.DayRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, dayKey(date), &rec)
	})
	if err != nil {
		return models.DayRecord{}, apperrors.Storage("get day record", err)
	}
	return rec.Normalize(), nil
}

func (s *Store) InsertDayRecordIfAbsent(rec models.DayRecord) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}
	created := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(dayKey(rec.Date))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		created = true
		return setJSON(txn, dayKey(rec.Date), rec)
	})
	if err != nil {
		return false, apperrors.Storage("insert day record", err)
	}
	return created, nil
}

func (s *Store) SaveDayRecord(rec models.DayRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return apperrors.Storage("save day record", s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, dayKey(rec.Date), rec)
	}))
}

func (s *Store) GetDayRecords(dates []string) ([]models.DayRecord, error) {
	records := []models.DayRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		for _, date := range dates {
			var rec models.DayRecord
			err := getJSON(txn, dayKey(date), &rec)
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			records = append(records, rec.Normalize())
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Storage("get day records", err)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records, nil
}

func (s *Store) GetAllDayRecords() ([]models.DayRecord, error) {
	records := []models.DayRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, prefixDay, func(_ []byte, val []byte) error {
			var rec models.DayRecord
			if err := json.Unmarshal(val, &rec); err != nil {
				return err
			}
			records = append(records, rec.Normalize())
			return nil
		})
	})
	if err != nil {
		return nil, apperrors.Storage("get all day records", err)
	}
	return records, nil
}
