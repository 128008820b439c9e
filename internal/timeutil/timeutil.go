package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string as a UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// DayOf formats the UTC calendar day of t.
func DayOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// RetentionCutoff is UTC midnight of the day `days` before now. Archive days
// strictly before the cutoff are pruned.
func RetentionCutoff(now time.Time, days int) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
}
