package planner

import (
	"fmt"
	"strings"
	"time"
)

// DateKeyLayout is the calendar-day key used by GroupTasksByDueDate.
const DateKeyLayout = "2006-01-02"

// StartOfDay returns midnight of d's calendar date in d's location.
func StartOfDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}

// IsSameDay reports whether a and b fall on the same calendar day in b's location.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EndOfWeek returns 23:59:59.999 on the Sunday ending d's week. A Sunday maps
// to the end of that same day.
func EndOfWeek(d time.Time) time.Time {
	offset := (7 - int(d.Weekday())) % 7
	y, m, day := d.Date()
	return time.Date(y, m, day+offset, 23, 59, 59, int(999*time.Millisecond), d.Location())
}

// daysBetween counts calendar days from a to b, both taken in b's location.
// DST shifts do not affect the result.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// DateKey formats t's calendar date in loc as YYYY-MM-DD.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(locationOrLocal(loc)).Format(DateKeyLayout)
}

// FormatRelative renders ts relative to now for activity feeds.
func FormatRelative(ts, now time.Time) string {
	diff := now.Sub(ts)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	}

	days := daysBetween(ts, now)
	switch {
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	}
	return ts.In(now.Location()).Format("Jan 2")
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateKeyLayout,
}

// ParseTimestamp parses s leniently. Empty or malformed input yields nil so
// callers can treat the field as absent. Layouts without a zone are read in loc.
func ParseTimestamp(s string, loc *time.Location) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, locationOrLocal(loc))
		if err == nil {
			return &t
		}
	}
	return nil
}

func locationOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// present reports whether an optional timestamp carries a usable value.
func present(t *time.Time) bool {
	return t != nil && !t.IsZero()
}
