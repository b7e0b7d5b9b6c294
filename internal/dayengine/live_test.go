package dayengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeops/internal/models"
)

// waitFor reads from ch until a record satisfies ok.
func waitFor(t *testing.T, ch <-chan models.DayRecord, ok func(models.DayRecord) bool) models.DayRecord {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case rec, open := <-ch:
			require.True(t, open, "live channel closed early")
			if ok(rec) {
				return rec
			}
		case <-timeout:
			t.Fatal("timed out waiting for live record")
			return models.DayRecord{}
		}
	}
}

func TestLiveDayFollowsWritesAndRollover(t *testing.T) {
	c, clock, _ := newTestController(t, at(2025, 3, 10, 22, 0))
	w := NewWatcher(c, time.Hour)
	_, err := w.Tick()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	live := LiveDay(ctx, w, c)

	rec := waitFor(t, live, func(r models.DayRecord) bool { return true })
	require.Equal(t, "2025-03-10", rec.Date)

	require.NoError(t, c.AddStudyMinutes("2025-03-10", 25))
	waitFor(t, live, func(r models.DayRecord) bool { return r.StudyMinutesDone == 25 })

	clock.Set(at(2025, 3, 11, 6, 5))
	_, err = w.Tick()
	require.NoError(t, err)
	rec = waitFor(t, live, func(r models.DayRecord) bool { return r.Date == "2025-03-11" })
	require.Zero(t, rec.StudyMinutesDone)

	// Writes to another day are not the live day.
	require.NoError(t, c.AddStudyMinutes("2025-03-10", 25))
	require.NoError(t, c.ToggleRunDone("2025-03-11"))
	rec = waitFor(t, live, func(r models.DayRecord) bool { return r.RunDone })
	require.Equal(t, "2025-03-11", rec.Date)
}

func TestLiveDayClosesWithContext(t *testing.T) {
	c, _, _ := newTestController(t, at(2025, 3, 10, 7, 0))
	w := NewWatcher(c, time.Hour)
	_, err := w.Tick()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	live := LiveDay(ctx, w, c)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, open := <-live:
			return !open
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
