// Package clock yields the current civil date in a configured IANA timezone.
// Services depend on the Clock interface so tests can pin the date.
package clock

import "time"

// Clock reports the current civil date.
type Clock interface {
	// Today returns midnight UTC of the current date in the clock's timezone.
	Today() time.Time
}

// Date builds a civil date at midnight UTC. All date fields in the system
// are normalized this way so comparisons are plain time comparisons.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Civil truncates a timestamp to its civil date in the given location.
func Civil(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return Date(local.Year(), local.Month(), local.Day())
}

type systemClock struct {
	loc *time.Location
}

// New returns a Clock that derives the civil date from the wall clock
// in the given timezone.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Today() time.Time {
	return Civil(time.Now(), c.loc)
}

// Fixed is a Clock pinned to a single date, for tests and previews.
type Fixed struct {
	Date time.Time
}

func (f Fixed) Today() time.Time { return f.Date }
