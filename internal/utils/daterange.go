package utils

import "time"

// NormalizeDate zeroes the time-of-day component, anchoring the value at
// midnight UTC. All availability comparisons happen at day granularity.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is a half-open range of calendar days [Start, End). Both bounds
// are normalized to midnight UTC on construction.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a normalized range from arbitrary timestamps.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: NormalizeDate(start), End: NormalizeDate(end)}
}

// Nights returns the number of whole days in the range. Non-positive means
// the range is invalid for a stay; validation is the caller's call.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Each walks the days of the range in order, stopping at the first error.
// The range can be walked any number of times.
func (r DateRange) Each(fn func(day time.Time) error) error {
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

// Days materializes the range as a slice, oldest first.
func (r DateRange) Days() []time.Time {
	n := r.Nights()
	if n <= 0 {
		return nil
	}
	days := make([]time.Time, 0, n)
	r.Each(func(day time.Time) error {
		days = append(days, day)
		return nil
	})
	return days
}
