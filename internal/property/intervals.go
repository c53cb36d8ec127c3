package property

import "time"

// Interval is a closed time range [Start, Stop].
type Interval struct {
	Start time.Time
	Stop  time.Time
}

// Contains reports whether t lies in the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && !t.After(iv.Stop)
}

// IntervalValue is a value attached to an interval.
type IntervalValue[T any] struct {
	Interval
	Value T
}

// Intervals composes values over disjoint time intervals.
// The first interval containing t wins; gaps have no value.
type Intervals[T any] struct {
	intervals []IntervalValue[T]
}

// NewIntervals creates an interval-composed property.
func NewIntervals[T any](intervals ...IntervalValue[T]) *Intervals[T] {
	return &Intervals[T]{intervals: intervals}
}

// Add appends an interval.
func (p *Intervals[T]) Add(iv IntervalValue[T]) {
	p.intervals = append(p.intervals, iv)
}

// Value returns the value of the interval containing t.
func (p *Intervals[T]) Value(t time.Time) (T, bool) {
	for _, iv := range p.intervals {
		if iv.Contains(t) {
			return iv.Value, true
		}
	}
	var zero T
	return zero, false
}

// IsConstant reports true only for an empty collection.
func (p *Intervals[T]) IsConstant() bool {
	return len(p.intervals) == 0
}

// Availability is a set of intervals during which something exists.
// A nil Availability is always available.
type Availability []Interval

// Contains reports whether t falls in any interval.
func (a Availability) Contains(t time.Time) bool {
	if a == nil {
		return true
	}
	for _, iv := range a {
		if iv.Contains(t) {
			return true
		}
	}
	return false
}
