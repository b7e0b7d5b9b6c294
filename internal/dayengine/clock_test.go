package dayengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/models"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		reset string
		want  string
	}{
		{"before reset is yesterday", at(2025, 3, 10, 5, 30), "06:00", "2025-03-09"},
		{"at reset is today", at(2025, 3, 10, 6, 0), "06:00", "2025-03-10"},
		{"after reset is today", at(2025, 3, 10, 6, 1), "06:00", "2025-03-10"},
		{"one second before reset", time.Date(2025, 3, 10, 5, 59, 59, 0, time.UTC), "06:00", "2025-03-09"},
		{"late evening", at(2025, 3, 10, 23, 59), "06:00", "2025-03-10"},
		{"midnight reset", at(2025, 3, 10, 0, 0), "00:00", "2025-03-10"},
		{"midnight reset just before", time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC), "00:00", "2025-03-09"},
		{"year boundary", at(2025, 1, 1, 5, 0), "06:00", "2024-12-31"},
		{"leap day", at(2024, 3, 1, 2, 0), "06:00", "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.now, tt.reset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveInvalidResetTime(t *testing.T) {
	_, err := Resolve(at(2025, 3, 10, 7, 0), "7am")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeOfDay)
}

func TestResolveIsMonotonic(t *testing.T) {
	start := at(2025, 3, 8, 0, 0)
	prev := ""
	for now := start; now.Before(start.Add(72 * time.Hour)); now = now.Add(7 * time.Minute) {
		key, err := Resolve(now, "06:00")
		require.NoError(t, err)

		today := now.Format("2006-01-02")
		yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
		assert.Contains(t, []string{today, yesterday}, key, "at %s", now)
		assert.GreaterOrEqual(t, key, prev, "key went backwards at %s", now)
		prev = key
	}
}

func TestResolveAtUsesSettingsTimezone(t *testing.T) {
	// 12:00 UTC is 05:00 in Los Angeles on 2025-03-10 (PDT).
	clock := newFakeClock(at(2025, 3, 10, 12, 0))

	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	key, err := ResolveAt(clock, settings)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", key)

	settings.Timezone = "America/Los_Angeles"
	if err := settings.Validate(); err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	key, err = ResolveAt(clock, settings)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", key)
}
