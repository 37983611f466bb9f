package domain

import (
	"fmt"
	"iter"
	"time"
)

// DateFormat is the calendar date layout used throughout: in query
// parameters, daily file names and CLI arguments.
const DateFormat = "2006-01-02"

// DateRange is an inclusive range of calendar dates. Both bounds are
// normalised to midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange validates and builds an inclusive date range.
// Returns ErrInvalidDateRange when start falls after end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = midnight(start)
	end = midnight(end)
	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: %s > %s",
			ErrInvalidDateRange, start.Format(DateFormat), end.Format(DateFormat))
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange builds a range from two YYYY-MM-DD strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(s, e)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: parse date %q: %v", ErrInvalidInput, s, err)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// Days yields every date in the range, ascending, one per day. The
// sequence is lazy and restartable: ranging over it twice walks the
// full range twice. Wide historical backfills use this to decompose a
// range into day-sized API queries.
func (r DateRange) Days() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Len returns the number of dates in the range.
func (r DateRange) Len() int {
	return int(r.End.Sub(r.Start)/(24*time.Hour)) + 1
}

// midnight truncates a timestamp to its UTC calendar date.
func midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
