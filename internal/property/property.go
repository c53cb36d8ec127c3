// Package property implements time-indexed values: constants, sampled
// (interpolated) values and interval-composed values.
package property

import "time"

// MinimumTime is the earliest representable evaluation time. Constant
// properties are sampled here since their value is the same at all times.
var MinimumTime = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)

// MaximumTime is the latest representable evaluation time.
var MaximumTime = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Property is a value source addressed by time.
// Value returns false when no value is defined at t.
type Property[T any] interface {
	Value(t time.Time) (T, bool)
	IsConstant() bool
}

// Optional holds a value that may be undefined.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some returns a defined Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// OrDefault returns the value, or def if undefined.
func (o Optional[T]) OrDefault(def T) T {
	if o.Valid {
		return o.Value
	}
	return def
}

// IsConstant reports whether p is constant. A nil property is constant.
func IsConstant[T any](p Property[T]) bool {
	return p == nil || p.IsConstant()
}

// ValueOrDefault samples p at t, returning def when p is nil or undefined at t.
func ValueOrDefault[T any](p Property[T], t time.Time, def T) T {
	if p == nil {
		return def
	}
	if v, ok := p.Value(t); ok {
		return v
	}
	return def
}

// ValueOrUndefined samples p at t. The result is invalid when p is nil or
// undefined at t.
func ValueOrUndefined[T any](p Property[T], t time.Time) Optional[T] {
	if p == nil {
		return Optional[T]{}
	}
	v, ok := p.Value(t)
	return Optional[T]{Value: v, Valid: ok}
}

// Constant is a property whose value never changes.
type Constant[T any] struct {
	value T
}

// NewConstant creates a constant property.
func NewConstant[T any](v T) *Constant[T] {
	return &Constant[T]{value: v}
}

// Value returns the constant value.
func (c *Constant[T]) Value(time.Time) (T, bool) {
	return c.value, true
}

// IsConstant always returns true.
func (c *Constant[T]) IsConstant() bool {
	return true
}

// Set replaces the constant value.
func (c *Constant[T]) Set(v T) {
	c.value = v
}
