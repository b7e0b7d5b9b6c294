package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifeops/internal/constants"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidTimeOfDay, timeStr)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DateKey formats t's calendar date, in t's own location, as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight UTC. Keys are calendar
// labels, so arithmetic on them is done in UTC to stay clear of DST gaps.
func ParseDateKey(date string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, date)
	}
	return t, nil
}

// ValidateDateKey checks if the string is a well-formed date key.
func ValidateDateKey(date string) bool {
	_, err := ParseDateKey(date)
	return err == nil
}

// AddDays returns the date key n calendar days after date (n may be negative).
func AddDays(date string, n int) (string, error) {
	t, err := ParseDateKey(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// DateRange returns the n consecutive date keys ending at end, oldest first.
func DateRange(end string, n int) ([]string, error) {
	t, err := ParseDateKey(end)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, t.AddDate(0, 0, -i).Format(constants.DateFormat))
	}
	return keys, nil
}

// CombineDateAndTime combines the calendar date of day with a time string
// (HH:MM) into a single time.Time in day's location.
func CombineDateAndTime(day time.Time, timeStr string) (time.Time, error) {
	minutes, err := ParseTimeToMinutes(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		minutes/60, minutes%60, 0, 0,
		day.Location(),
	), nil
}

// MustParseDateKey is ParseDateKey for keys already known to be valid.
func MustParseDateKey(date string) time.Time {
	t, err := ParseDateKey(date)
	if err != nil {
		panic(err)
	}
	return t
}
