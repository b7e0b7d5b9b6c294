package dayengine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/models"
	"github.com/julianstephens/lifeops/internal/storage/badgerkv"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// at builds a UTC instant; test stores are configured for UTC.
func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) *badgerkv.Store {
	t.Helper()
	store := badgerkv.NewStore("")
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	require.NoError(t, store.SaveSettings(settings))
	return store
}

func newTestController(t *testing.T, now time.Time) (*Controller, *fakeClock, *badgerkv.Store) {
	t.Helper()
	clock := newFakeClock(now)
	store := newTestStore(t)
	return NewController(store, clock), clock, store
}

var errDiskFull = errors.New("disk full")

// flakyStore fails selected writes with a storage error.
type flakyStore struct {
	*badgerkv.Store

	mu         sync.Mutex
	failInsert bool
	failSave   bool
}

func (s *flakyStore) setFailures(insert, save bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failInsert, s.failSave = insert, save
}

func (s *flakyStore) InsertDayRecordIfAbsent(rec models.DayRecord) (bool, error) {
	s.mu.Lock()
	fail := s.failInsert
	s.mu.Unlock()
	if fail {
		return false, apperrors.Storage("insert day record", errDiskFull)
	}
	return s.Store.InsertDayRecordIfAbsent(rec)
}

func (s *flakyStore) SaveDayRecord(rec models.DayRecord) error {
	s.mu.Lock()
	fail := s.failSave
	s.mu.Unlock()
	if fail {
		return apperrors.Storage("save day record", errDiskFull)
	}
	return s.Store.SaveDayRecord(rec)
}
