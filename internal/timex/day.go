package timex

import "time"

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last nanosecond of t's UTC calendar day.
func EndOfDay(t time.Time) time.Time {
	return Day(t).Add(24*time.Hour - time.Nanosecond)
}

// NotBefore reports whether the UTC day of deadline is today or later.
// Directory users are compared this way: a user who expires today is
// still valid until the day ends.
func NotBefore(deadline, now time.Time) bool {
	return !Day(deadline).Before(Day(now))
}
