// Package badgerkv stores lifeops data in an embedded Badger key-value
// database. Values are JSON documents under these keys:
//
//	settings                 the settings singleton
//	day/<date>               one day record
//	habit/<id>               one habit
//	hlog/<date>/<habit id>   one habit log
package badgerkv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/julianstephens/lifeops/internal/constants"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/models"
)

const (
	keySettings    = "settings"
	prefixDay      = "day/"
	prefixHabit    = "habit/"
	prefixHabitLog = "hlog/"
)

func dayKey(date string) []byte { return []byte(prefixDay + date) }

func habitKey(id string) []byte { return []byte(prefixHabit + id) }

func habitLogKey(date, habitID string) []byte {
	return []byte(prefixHabitLog + date + "/" + habitID)
}

// Store is a Badger-backed provider. An empty path keeps everything in
// memory, which is what the tests use.
type Store struct {
	path string
	db   *badger.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) open() error {
	var opts badger.Options
	if s.path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(s.path, 0700); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		opts = badger.DefaultOptions(s.path)
	}
	opts = opts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if _, err := s.GetSettings(); err != nil {
		if !apperrors.IsNotFound(err) {
			return err
		}
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
		logger.Info("Created default settings", "reset_time", constants.DefaultResetTime)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if s.path != "" {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
	}
	if err := s.open(); err != nil {
		return err
	}
	// An in-memory store starts empty every time.
	if s.path == "" {
		return s.Init()
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// Badger returns the underlying database for advanced operations.
func (s *Store) Badger() *badger.DB {
	return s.db
}

func getJSON(txn *badger.Txn, key []byte, v interface{}) error {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// scan decodes every value under prefix, in key order, passing each raw
// value and its key to fn.
func scan(txn *badger.Txn, prefix string, fn func(key []byte, val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		if err := item.Value(func(val []byte) error {
			return fn(key, val)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetSettings() (models.Settings, error) {
	var settings models.Settings
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(keySettings), &settings)
	})
	if err != nil {
		return models.Settings{}, apperrors.Storage("get settings", err)
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	settings.ID = constants.SettingsID
	return apperrors.Storage("save settings", s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, []byte(keySettings), settings)
	}))
}
