package property

import (
	"sort"
	"time"
)

// LerpFunc interpolates between a and b by fraction f in [0, 1].
type LerpFunc[T any] func(a, b T, f float64) T

// Sample is a single time-tagged value.
type Sample[T any] struct {
	Time  time.Time
	Value T
}

// Sampled interpolates between time-ordered samples.
// Outside the sampled range no value is defined.
type Sampled[T any] struct {
	samples []Sample[T]
	lerp    LerpFunc[T]
}

// NewSampled creates a sampled property. A nil lerp holds the previous sample.
func NewSampled[T any](lerp LerpFunc[T], samples ...Sample[T]) *Sampled[T] {
	s := &Sampled[T]{lerp: lerp}
	s.AddSamples(samples...)
	return s
}

// NewSampledFloat creates a linearly interpolated float property.
func NewSampledFloat(samples ...Sample[float64]) *Sampled[float64] {
	return NewSampled(LerpFloat, samples...)
}

// LerpFloat linearly interpolates two floats.
func LerpFloat(a, b float64, f float64) float64 {
	return a + (b-a)*f
}

// AddSamples inserts samples, keeping them ordered by time.
// A sample at an existing time replaces the old value.
func (s *Sampled[T]) AddSamples(samples ...Sample[T]) {
	for _, sample := range samples {
		i := sort.Search(len(s.samples), func(i int) bool {
			return !s.samples[i].Time.Before(sample.Time)
		})
		if i < len(s.samples) && s.samples[i].Time.Equal(sample.Time) {
			s.samples[i] = sample
			continue
		}
		s.samples = append(s.samples, Sample[T]{})
		copy(s.samples[i+1:], s.samples[i:])
		s.samples[i] = sample
	}
}

// Len returns the number of samples.
func (s *Sampled[T]) Len() int {
	return len(s.samples)
}

// Value interpolates the value at t.
func (s *Sampled[T]) Value(t time.Time) (T, bool) {
	var zero T
	n := len(s.samples)
	if n == 0 {
		return zero, false
	}
	if t.Before(s.samples[0].Time) || t.After(s.samples[n-1].Time) {
		return zero, false
	}

	i := sort.Search(n, func(i int) bool {
		return !s.samples[i].Time.Before(t)
	})
	if s.samples[i].Time.Equal(t) || i == 0 {
		return s.samples[i].Value, true
	}

	prev, next := s.samples[i-1], s.samples[i]
	if s.lerp == nil {
		return prev.Value, true
	}
	span := next.Time.Sub(prev.Time)
	f := float64(t.Sub(prev.Time)) / float64(span)
	return s.lerp(prev.Value, next.Value, f), true
}

// IsConstant returns false: sampled values vary over time.
func (s *Sampled[T]) IsConstant() bool {
	return false
}
