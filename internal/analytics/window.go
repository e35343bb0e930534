package analytics

import "time"

// DayWindowUTC returns the [00:00, 24:00) UTC window containing t.
func DayWindowUTC(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	from := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.Add(24 * time.Hour)
}

// YesterdayWindowUTC returns the full UTC day before the one containing now.
// The nightly rollup runs just after midnight and closes out that day.
func YesterdayWindowUTC(now time.Time) (time.Time, time.Time) {
	from, _ := DayWindowUTC(now)
	return from.Add(-24 * time.Hour), from
}
