// Package dayengine decides which logical day it is, keeps exactly one
// record per day, follows the user across day boundaries and derives
// weekly statistics from the stored records.
package dayengine

import (
	"time"

	"github.com/julianstephens/lifeops/internal/models"
	"github.com/julianstephens/lifeops/internal/utils"
)

// Clock is the engine's source of the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Resolve returns the effective date key for now. The day starts at
// resetTime (HH:MM) in now's location: before that instant the key is the
// previous calendar date.
func Resolve(now time.Time, resetTime string) (string, error) {
	resetInstant, err := utils.CombineDateAndTime(now, resetTime)
	if err != nil {
		return "", err
	}
	today := utils.DateKey(now)
	if !now.Before(resetInstant) {
		return today, nil
	}
	return utils.AddDays(today, -1)
}

// ResolveAt reads clock once and resolves it in the settings' timezone.
func ResolveAt(clock Clock, settings models.Settings) (string, error) {
	now := clock.Now().In(settings.Location())
	return Resolve(now, settings.ResetTime)
}
