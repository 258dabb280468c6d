// Package dates holds calendar helpers for monthly figures and day ranges.
package dates

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

// ErrStartAfterEnd is returned when a range would run backwards.
var ErrStartAfterEnd = errors.New("start date is after end date")

// normalizedMonth is the month length monthly values are scaled to.
const normalizedMonth = 30

// Range yields every calendar day from start to end inclusive. Days are
// midnight in start's location; the time of day of both bounds is ignored.
func Range(start, end time.Time) (iter.Seq[time.Time], error) {
	first := Midnight(start)
	last := Midnight(end.In(start.Location()))

	if first.After(last) {
		return nil, fmt.Errorf("%w: %s > %s", ErrStartAfterEnd, first.Format(time.DateOnly), last.Format(time.DateOnly))
	}

	return func(yield func(time.Time) bool) {
		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			if !yield(day) {
				return
			}
		}
	}, nil
}

// Midnight truncates t to the start of its day in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysIn returns the number of days in the month of t.
func DaysIn(t time.Time) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AdjustedMonthlyValue scales a monthly figure to a 30-day month so months
// of different lengths can be compared.
func AdjustedMonthlyValue(value float64, t time.Time) float64 {
	return value * normalizedMonth / float64(DaysIn(t))
}
