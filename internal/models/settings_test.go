package models

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/lifeops/internal/errors"
)

func TestDefaultSettingsValid(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings should validate, got %v", err)
	}
	if s.ResetTime != "06:00" {
		t.Errorf("expected reset time 06:00, got %s", s.ResetTime)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(*Settings) {}, false},
		{"midnight reset", func(s *Settings) { s.ResetTime = "00:00" }, false},
		{"bad reset", func(s *Settings) { s.ResetTime = "6am" }, true},
		{"bad night start", func(s *Settings) { s.NightModeStart = "25:00" }, true},
		{"bad night end", func(s *Settings) { s.NightModeEnd = "" }, true},
		{"bad timezone", func(s *Settings) { s.Timezone = "Mars/Olympus" }, true},
		{"utc timezone", func(s *Settings) { s.Timezone = "UTC" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsNightMode(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
	}

	wrapping := Settings{NightModeStart: "23:00", NightModeEnd: "06:00", Timezone: "UTC"}
	sameDay := Settings{NightModeStart: "13:00", NightModeEnd: "14:00", Timezone: "UTC"}

	tests := []struct {
		name string
		s    Settings
		t    time.Time
		want bool
	}{
		{"wrap before start", wrapping, at(22, 59), false},
		{"wrap at start", wrapping, at(23, 0), true},
		{"wrap after midnight", wrapping, at(2, 30), true},
		{"wrap at end", wrapping, at(6, 0), false},
		{"same day inside", sameDay, at(13, 30), true},
		{"same day outside", sameDay, at(14, 0), false},
		{"empty window", Settings{NightModeStart: "05:00", NightModeEnd: "05:00", Timezone: "UTC"}, at(5, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.IsNightMode(tt.t); got != tt.want {
				t.Errorf("IsNightMode(%s) = %v, want %v", tt.t.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestSettingsApply(t *testing.T) {
	base := DefaultSettings()
	reset := "05:30"
	tz := "Europe/London"

	updated, err := base.Apply(SettingsPatch{ResetTime: &reset, Timezone: &tz})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if updated.ResetTime != "05:30" || updated.Timezone != "Europe/London" {
		t.Errorf("patch not applied: %+v", updated)
	}
	if updated.NightModeStart != base.NightModeStart {
		t.Errorf("unpatched field changed: %s", updated.NightModeStart)
	}
	if base.ResetTime != "06:00" {
		t.Errorf("Apply modified the receiver")
	}

	bad := "noon"
	kept, err := base.Apply(SettingsPatch{ResetTime: &bad})
	if !errors.Is(err, apperrors.ErrInvalidTimeOfDay) {
		t.Fatalf("expected ErrInvalidTimeOfDay, got %v", err)
	}
	if kept != base {
		t.Errorf("failed Apply should return the original settings")
	}

	if !(SettingsPatch{}).Empty() {
		t.Errorf("zero patch should be empty")
	}
}
