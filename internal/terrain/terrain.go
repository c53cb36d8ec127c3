// Package terrain provides terrain height sampling for ground-clamped geometry.
package terrain

import "github.com/Faultbox/rectsync/pkg/geodesy"

// DefaultMinimumHeight is returned when no terrain data covers a rectangle.
const DefaultMinimumHeight = -100000.0

// Sampler answers terrain height queries.
type Sampler interface {
	// MinimumHeight returns the lowest terrain elevation inside r.
	MinimumHeight(r geodesy.Rectangle) float64
	// HeightAt returns the terrain elevation at c, or false if unknown.
	HeightAt(c geodesy.Cartographic) (float64, bool)
}

// Constant is a flat terrain at a fixed elevation.
type Constant struct {
	Height float64
}

// MinimumHeight returns the fixed elevation.
func (c Constant) MinimumHeight(geodesy.Rectangle) float64 {
	return c.Height
}

// HeightAt returns the fixed elevation.
func (c Constant) HeightAt(geodesy.Cartographic) (float64, bool) {
	return c.Height, true
}
