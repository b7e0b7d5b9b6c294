package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/utils"
)

// Settings represents application-wide settings
type Settings struct {
	ID             int    `json:"id"`
	ResetTime      string `json:"reset_time"`       // the time a new effective day begins, e.g. "06:00"
	NightModeStart string `json:"night_mode_start"` // start of the night-mode window, e.g. "23:00"
	NightModeEnd   string `json:"night_mode_end"`   // end of the night-mode window, e.g. "06:00"
	Timezone       string `json:"timezone"`         // IANA timezone name or "Local" for system timezone
}

// DefaultSettings returns the settings row created on first run.
func DefaultSettings() Settings {
	return Settings{
		ID:             constants.SettingsID,
		ResetTime:      constants.DefaultResetTime,
		NightModeStart: constants.DefaultNightModeStart,
		NightModeEnd:   constants.DefaultNightModeEnd,
		Timezone:       constants.DefaultTimezone,
	}
}

// Validate checks that every time field parses and the timezone loads.
func (s Settings) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"reset_time", s.ResetTime},
		{"night_mode_start", s.NightModeStart},
		{"night_mode_end", s.NightModeEnd},
	}
	for _, f := range fields {
		if _, err := utils.ParseTimeToMinutes(f.value); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	if !utils.ValidateTimezone(s.Timezone) {
		return fmt.Errorf("invalid timezone %q", s.Timezone)
	}
	return nil
}

// Location returns the configured timezone, falling back to time.Local.
func (s Settings) Location() *time.Location {
	loc, err := utils.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsNightMode reports whether the time of day of t falls inside
// [NightModeStart, NightModeEnd). The window may wrap past midnight.
func (s Settings) IsNightMode(t time.Time) bool {
	start, err := utils.ParseTimeToMinutes(s.NightModeStart)
	if err != nil {
		return false
	}
	end, err := utils.ParseTimeToMinutes(s.NightModeEnd)
	if err != nil {
		return false
	}
	t = t.In(s.Location())
	now := t.Hour()*60 + t.Minute()

	if start == end {
		return false
	}
	if start < end {
		return now >= start && now < end
	}
	return now >= start || now < end
}

// SettingsPatch is a partial update. Nil fields are left unchanged.
type SettingsPatch struct {
	ResetTime      *string
	NightModeStart *string
	NightModeEnd   *string
	Timezone       *string
}

// Empty reports whether the patch changes nothing.
func (p SettingsPatch) Empty() bool {
	return p.ResetTime == nil && p.NightModeStart == nil && p.NightModeEnd == nil && p.Timezone == nil
}

// Apply returns s with the patch merged in. The result is validated; s is
// never modified.
func (s Settings) Apply(p SettingsPatch) (Settings, error) {
	out := s
	if p.ResetTime != nil {
		out.ResetTime = *p.ResetTime
	}
	if p.NightModeStart != nil {
		out.NightModeStart = *p.NightModeStart
	}
	if p.NightModeEnd != nil {
		out.NightModeEnd = *p.NightModeEnd
	}
	if p.Timezone != nil {
		out.Timezone = *p.Timezone
	}
	out.ID = constants.SettingsID
	if err := out.Validate(); err != nil {
		return s, err
	}
	return out, nil
}
