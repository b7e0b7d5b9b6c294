package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeops/internal/constants"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/models"
	"github.com/julianstephens/lifeops/internal/storage"
)

type backend struct {
	name string
	open func(t *testing.T) storage.Provider
}

func backends() []backend {
	return []backend{
		{"sqlite", func(t *testing.T) storage.Provider {
			p, err := storage.New(constants.StoreSQLite, filepath.Join(t.TempDir(), "test.db"))
			require.NoError(t, err)
			return p
		}},
		{"badger", func(t *testing.T) storage.Provider {
			p, err := storage.New(constants.StoreBadger, "")
			require.NoError(t, err)
			return p
		}},
	}
}

// eachBackend runs fn against a freshly initialized store of every kind.
func eachBackend(t *testing.T, fn func(t *testing.T, p storage.Provider)) {
	t.Helper()
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			p := b.open(t)
			require.NoError(t, p.Init())
			t.Cleanup(func() {
				assert.NoError(t, p.Close())
			})
			fn(t, p)
		})
	}
}

var baseTime = time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

func TestNewUnknownKind(t *testing.T) {
	_, err := storage.New("postgres", "")
	assert.Error(t, err)
}

func TestSettingsContract(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		settings, err := p.GetSettings()
		require.NoError(t, err)
		assert.Equal(t, models.DefaultSettings(), settings)

		settings.ResetTime = "04:30"
		require.NoError(t, p.SaveSettings(settings))

		got, err := p.GetSettings()
		require.NoError(t, err)
		assert.Equal(t, "04:30", got.ResetTime)
		assert.Equal(t, constants.SettingsID, got.ID)

		settings.ResetTime = "later"
		assert.ErrorIs(t, p.SaveSettings(settings), apperrors.ErrInvalidTimeOfDay)

		// Init on an initialized store keeps existing settings.
		require.NoError(t, p.Init())
		got, err = p.GetSettings()
		require.NoError(t, err)
		assert.Equal(t, "04:30", got.ResetTime)
	})
}

func TestDayRecordMissing(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		_, err := p.GetDayRecord("2025-03-10")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.False(t, apperrors.IsStorageFailure(err))
	})
}

func TestInsertDayRecordIfAbsent(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		rec := models.NewDayRecord("2025-03-10", baseTime)
		rec.Top3[0] = "first"

		created, err := p.InsertDayRecordIfAbsent(rec)
		require.NoError(t, err)
		assert.True(t, created)

		other := models.NewDayRecord("2025-03-10", baseTime.Add(time.Hour))
		other.Top3[0] = "second"
		created, err = p.InsertDayRecordIfAbsent(other)
		require.NoError(t, err)
		assert.False(t, created)

		got, err := p.GetDayRecord("2025-03-10")
		require.NoError(t, err)
		assert.Equal(t, "first", got.Top3[0])
		assert.True(t, got.CreatedAt.Equal(baseTime))

		all, err := p.GetAllDayRecords()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestSaveDayRecordRoundTrip(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		rec := models.NewDayRecord("2025-03-10", baseTime)
		rec.Top3 = [3]string{"a", "b", "c"}
		rec.Top3Done = [3]bool{false, true, false}
		rec.OneAction = "call"
		rec.OneActionDone = true
		rec.StudyMinutesDone = 50
		rec.RunPlan = models.RunInterval
		rec.RunDone = true
		rec.Notes = []string{"one", "two"}
		require.NoError(t, p.SaveDayRecord(rec))

		got, err := p.GetDayRecord("2025-03-10")
		require.NoError(t, err)
		assert.Equal(t, rec.Top3, got.Top3)
		assert.Equal(t, rec.Top3Done, got.Top3Done)
		assert.Equal(t, rec.OneAction, got.OneAction)
		assert.True(t, got.OneActionDone)
		assert.Equal(t, 50, got.StudyMinutesDone)
		assert.Equal(t, models.RunInterval, got.RunPlan)
		assert.True(t, got.RunDone)
		assert.Equal(t, rec.Notes, got.Notes)
		assert.True(t, got.UpdatedAt.Equal(rec.UpdatedAt))
	})
}

func TestSaveDayRecordRejectsInvariantViolation(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		rec := models.NewDayRecord("2025-03-10", baseTime)
		rec.Top3Done[2] = true

		err := p.SaveDayRecord(rec)
		var ie *apperrors.InvariantError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "2025-03-10", ie.Date)

		_, err = p.GetDayRecord("2025-03-10")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestGetDayRecordsWindow(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		for _, d := range []string{"2025-03-08", "2025-03-10", "2025-03-12"} {
			_, err := p.InsertDayRecordIfAbsent(models.NewDayRecord(d, baseTime))
			require.NoError(t, err)
		}

		got, err := p.GetDayRecords([]string{"2025-03-10", "2025-03-09", "2025-03-08"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "2025-03-08", got[0].Date)
		assert.Equal(t, "2025-03-10", got[1].Date)

		empty, err := p.GetDayRecords(nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestHabitsOrderedByCreation(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		second, err := p.AddHabit(models.Habit{Name: "read", CreatedAt: baseTime.Add(time.Minute)})
		require.NoError(t, err)
		first, err := p.AddHabit(models.Habit{Name: "water", Emoji: "💧", CreatedAt: baseTime})
		require.NoError(t, err)
		assert.NotEmpty(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)

		habits, err := p.GetAllHabits()
		require.NoError(t, err)
		require.Len(t, habits, 2)
		assert.Equal(t, "water", habits[0].Name)
		assert.Equal(t, "💧", habits[0].Emoji)
		assert.Equal(t, "read", habits[1].Name)

		got, err := p.GetHabit(first.ID)
		require.NoError(t, err)
		assert.Equal(t, "water", got.Name)

		_, err = p.GetHabit("missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestDeleteHabitCascades(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		keep, err := p.AddHabit(models.Habit{Name: "keep", CreatedAt: baseTime})
		require.NoError(t, err)
		drop, err := p.AddHabit(models.Habit{Name: "drop", CreatedAt: baseTime})
		require.NoError(t, err)

		for _, d := range []string{"2025-03-09", "2025-03-10"} {
			for _, h := range []models.Habit{keep, drop} {
				_, err := p.InsertHabitLogIfAbsent(models.HabitLog{HabitID: h.ID, Date: d, Completed: true})
				require.NoError(t, err)
			}
		}

		require.NoError(t, p.DeleteHabit(drop.ID))

		_, err = p.GetHabit(drop.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		logs, err := p.GetAllHabitLogs()
		require.NoError(t, err)
		assert.Len(t, logs, 2)
		for _, l := range logs {
			assert.Equal(t, keep.ID, l.HabitID)
		}

		// Deleting again is not an error.
		assert.NoError(t, p.DeleteHabit(drop.ID))
	})
}

func TestDeleteHabitLeavesSuffixSharingIDs(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		snap := models.Snapshot{
			Habits: []models.Habit{
				{ID: "x", Name: "short", CreatedAt: baseTime},
				{ID: "a/x", Name: "long", CreatedAt: baseTime},
			},
			HabitLogs: []models.HabitLog{
				{ID: "l1", HabitID: "x", Date: "2024-01-10", Completed: true},
				{ID: "l2", HabitID: "a/x", Date: "2024-01-10", Completed: true},
			},
		}
		require.NoError(t, p.ImportSnapshot(snap))

		require.NoError(t, p.DeleteHabit("x"))

		logs, err := p.GetAllHabitLogs()
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "a/x", logs[0].HabitID)

		_, err = p.GetHabit("a/x")
		assert.NoError(t, err)
	})
}

func TestHabitLogUniqueness(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		h, err := p.AddHabit(models.Habit{Name: "meditate", CreatedAt: baseTime})
		require.NoError(t, err)

		created, err := p.InsertHabitLogIfAbsent(models.HabitLog{HabitID: h.ID, Date: "2025-03-10", Completed: true})
		require.NoError(t, err)
		assert.True(t, created)

		created, err = p.InsertHabitLogIfAbsent(models.HabitLog{HabitID: h.ID, Date: "2025-03-10", Completed: false})
		require.NoError(t, err)
		assert.False(t, created)

		log, err := p.GetHabitLog(h.ID, "2025-03-10")
		require.NoError(t, err)
		assert.True(t, log.Completed)
		id := log.ID

		log.Completed = false
		require.NoError(t, p.SaveHabitLog(log))

		log, err = p.GetHabitLog(h.ID, "2025-03-10")
		require.NoError(t, err)
		assert.False(t, log.Completed)
		assert.Equal(t, id, log.ID)

		logs, err := p.GetHabitLogsForDate("2025-03-10")
		require.NoError(t, err)
		assert.Len(t, logs, 1)

		_, err = p.GetHabitLog(h.ID, "2025-03-11")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestHabitLogsInRange(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		h, err := p.AddHabit(models.Habit{Name: "water", CreatedAt: baseTime})
		require.NoError(t, err)

		for _, d := range []string{"2025-03-01", "2025-03-04", "2025-03-07", "2025-03-08"} {
			require.NoError(t, p.SaveHabitLog(models.HabitLog{HabitID: h.ID, Date: d, Completed: true}))
		}

		logs, err := p.GetHabitLogsInRange("2025-03-02", "2025-03-07")
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "2025-03-04", logs[0].Date)
		assert.Equal(t, "2025-03-07", logs[1].Date)
	})
}

func TestImportSnapshotIntoEmptyStore(t *testing.T) {
	eachBackend(t, func(t *testing.T, p storage.Provider) {
		settings := models.DefaultSettings()
		settings.ResetTime = "05:00"

		rec := models.NewDayRecord("2025-03-10", baseTime)
		rec.Top3[1] = "ship"
		rec.Top3Done[1] = true
		rec.StudyMinutesDone = 25

		habit := models.Habit{ID: "h1", Name: "water", Emoji: "💧", CreatedAt: baseTime}
		log := models.HabitLog{ID: "l1", HabitID: "h1", Date: "2025-03-10", Completed: true}

		snap := models.Snapshot{
			Settings:   []models.Settings{settings},
			DayRecords: []models.DayRecord{rec},
			Habits:     []models.Habit{habit},
			HabitLogs:  []models.HabitLog{log},
		}
		require.NoError(t, p.ImportSnapshot(snap))

		gotSettings, err := p.GetSettings()
		require.NoError(t, err)
		assert.Equal(t, "05:00", gotSettings.ResetTime)

		gotRec, err := p.GetDayRecord("2025-03-10")
		require.NoError(t, err)
		assert.Equal(t, rec.Top3, gotRec.Top3)
		assert.Equal(t, rec.Top3Done, gotRec.Top3Done)
		assert.Equal(t, 25, gotRec.StudyMinutesDone)

		gotHabit, err := p.GetHabit("h1")
		require.NoError(t, err)
		assert.Equal(t, "water", gotHabit.Name)

		gotLog, err := p.GetHabitLog("h1", "2025-03-10")
		require.NoError(t, err)
		assert.Equal(t, "l1", gotLog.ID)
		assert.True(t, gotLog.Completed)

		// Importing the same snapshot again is an upsert, not a duplicate.
		require.NoError(t, p.ImportSnapshot(snap))
		logs, err := p.GetAllHabitLogs()
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})
}
