package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts of the persisted date and time-of-day strings.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseClock splits an HH:MM string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 || hh == "" || len(hh) > 2 {
		return 0, 0, fmt.Errorf("parsing time %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("parsing time %q: bad hour", s)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("parsing time %q: bad minute", s)
	}
	return hour, minute, nil
}

// NormalizeClock re-renders an HH:MM string zero padded.
func NormalizeClock(s string) (string, error) {
	h, m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}
