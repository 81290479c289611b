package schedule

import (
	"fmt"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// ParseClock converts an HH:MM string to minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	h, herr := strconv.Atoi(s[:2])
	m, merr := strconv.Atoi(s[3:])
	if herr != nil || merr != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight back to HH:MM.
func FormatClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// NormalizeDate canonicalizes a request date to YYYY-MM-DD. Bare dates are
// taken as-is; anything else must be a full RFC 3339 timestamp, whose
// calendar date in the reference location is used.
func NormalizeDate(raw string, loc *time.Location) (string, error) {
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t.Format(dateLayout), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t.In(loc).Format(dateLayout), nil
}

// DateIn parses a canonical YYYY-MM-DD string as midnight in loc.
func DateIn(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// MinutesOfDay returns t's clock time in minutes since midnight in loc.
func MinutesOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// SameDate reports whether t falls on the given YYYY-MM-DD date in loc.
func SameDate(t time.Time, date string, loc *time.Location) bool {
	return t.In(loc).Format(dateLayout) == date
}
