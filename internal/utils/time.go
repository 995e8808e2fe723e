package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/voidtrack/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DateKey formats t as a dateKey (YYYY-MM-DD) in t's own location.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// TodayKey returns today's dateKey for the given clock in loc.
func TodayKey(clock Clock, loc *time.Location) string {
	return DateKey(clock.Now().In(loc))
}

// ParseDateKey parses a dateKey (YYYY-MM-DD) as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// ValidateDateKey reports whether key is a well-formed calendar date.
func ValidateDateKey(key string) bool {
	_, err := time.Parse(constants.DateFormat, key)
	return err == nil
}

// AddDays shifts a dateKey by n calendar days. Calendar arithmetic is done in
// UTC so daylight-saving transitions never skip or repeat a day.
func AddDays(key string, n int) (string, error) {
	t, err := ParseDateKey(key, time.UTC)
	if err != nil {
		return "", err
	}
	return DateKey(t.AddDate(0, 0, n)), nil
}

// WeekStart returns the dateKey of the Monday starting the ISO week containing key.
func WeekStart(key string) (string, error) {
	t, err := ParseDateKey(key, time.UTC)
	if err != nil {
		return "", err
	}
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6 // Sunday
	}
	return DateKey(t.AddDate(0, 0, -offset)), nil
}

// WeekDays returns the seven dateKeys of the ISO week containing key, Monday first.
func WeekDays(key string) ([]string, error) {
	start, err := WeekStart(key)
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, constants.DaysPerWeek)
	for i := 0; i < constants.DaysPerWeek; i++ {
		day, err := AddDays(start, i)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ElapsedMinutes returns the minutes from start to end (both HH:MM). An end
// earlier than start is treated as the next day.
func ElapsedMinutes(start, end string) (int, error) {
	s, err := ParseTimeToMinutes(start)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q: %w", start, err)
	}
	e, err := ParseTimeToMinutes(end)
	if err != nil {
		return 0, fmt.Errorf("invalid end time %q: %w", end, err)
	}
	if e < s {
		e += 24 * 60
	}
	return e - s, nil
}
