// Package recur implements calendar arithmetic for repeat periods.
//
// A repeat period is the additive step (years, months, weeks, days) used by
// reminders and budgets. Month and year addition are calendar-aware: when the
// day of month overflows the target month, it clamps to the last day of that
// month (Jan 31 + 1 month = Feb 28/29). Weeks and days are exact.
package recur

import (
	"errors"
	"time"
)

// ErrZeroStep is returned when a step has no nonzero component and would
// therefore never advance a date.
var ErrZeroStep = errors.New("recur: repeat period does not advance")

// Step is one repeat period.
type Step struct {
	Days   int
	Weeks  int
	Months int
	Years  int
}

// IsZero reports whether the step has no nonzero component.
func (s Step) IsZero() bool {
	return s.Days == 0 && s.Weeks == 0 && s.Months == 0 && s.Years == 0
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths adds n calendar months to d, clamping the day of month to the
// last day of the target month when it would overflow.
func AddMonths(d time.Time, n int) time.Time {
	year, month, day := d.Date()
	m := int(month) - 1 + n
	year += m / 12
	m %= 12
	if m < 0 {
		m += 12
		year--
	}
	targetMonth := time.Month(m + 1)
	if max := daysIn(year, targetMonth); day > max {
		day = max
	}
	return time.Date(year, targetMonth, day, 0, 0, 0, 0, d.Location())
}

// AddYears adds n calendar years to d with end-of-month clamping
// (Feb 29 + 1 year = Feb 28).
func AddYears(d time.Time, n int) time.Time {
	return AddMonths(d, n*12)
}

// Advance applies one repeat period to d. Components are applied
// years, months, weeks, days, with calendar clamping at each step.
func (s Step) Advance(d time.Time) (time.Time, error) {
	if s.IsZero() {
		return d, ErrZeroStep
	}
	d = AddYears(d, s.Years)
	d = AddMonths(d, s.Months)
	d = d.AddDate(0, 0, s.Weeks*7+s.Days)
	return d, nil
}

// PeriodUnit is a single-letter statement cycle period: d, w, m or y.
type PeriodUnit string

const (
	UnitDay   PeriodUnit = "d"
	UnitWeek  PeriodUnit = "w"
	UnitMonth PeriodUnit = "m"
	UnitYear  PeriodUnit = "y"
)

// Valid reports whether the unit is one of d, w, m, y.
func (u PeriodUnit) Valid() bool {
	switch u {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return true
	}
	return false
}

// AddUnit adds n units of the given period to d. n may be negative.
func AddUnit(d time.Time, unit PeriodUnit, n int) (time.Time, error) {
	switch unit {
	case UnitDay:
		return d.AddDate(0, 0, n), nil
	case UnitWeek:
		return d.AddDate(0, 0, n*7), nil
	case UnitMonth:
		return AddMonths(d, n), nil
	case UnitYear:
		return AddYears(d, n), nil
	}
	return d, errors.New("recur: unsupported period unit " + string(unit))
}

// Window is a closed date interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// CurrentWindow finds the whole-period window containing today for a cycle
// anchored at start: the largest k with start + k*step <= today. It returns
// the window, the number of elapsed whole periods k, and the start of the
// next window.
func (s Step) CurrentWindow(start, today time.Time) (Window, int, time.Time, error) {
	if s.IsZero() {
		return Window{}, 0, start, ErrZeroStep
	}

	k := 0
	windowStart := start
	for {
		next, err := s.Advance(windowStart)
		if err != nil {
			return Window{}, 0, start, err
		}
		if next.After(today) {
			return Window{
				Start: windowStart,
				End:   next.AddDate(0, 0, -1),
			}, k, next, nil
		}
		windowStart = next
		k++
	}
}
