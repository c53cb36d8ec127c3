package entity

import (
	"math"
	"time"

	"github.com/Faultbox/rectsync/internal/property"
	"github.com/Faultbox/rectsync/pkg/geodesy"
)

// HeightReference says how a height relates to the terrain.
type HeightReference int

const (
	// HeightNone positions at the literal height above the ellipsoid.
	HeightNone HeightReference = iota
	// ClampToGround positions on the terrain surface.
	ClampToGround
	// RelativeToGround positions at the literal height above the terrain.
	RelativeToGround
)

// String returns a readable name.
func (r HeightReference) String() string {
	switch r {
	case ClampToGround:
		return "clamp_to_ground"
	case RelativeToGround:
		return "relative_to_ground"
	default:
		return "none"
	}
}

// HeightProperty is a height paired with an optional terrain reference.
// A nil Reference is a literal height.
type HeightProperty struct {
	Height    property.Property[float64]
	Reference property.Property[HeightReference]
}

// LiteralHeight wraps a plain height.
func LiteralHeight(p property.Property[float64]) *HeightProperty {
	return &HeightProperty{Height: p}
}

// ClampedHeight creates a height clamped to the ground.
func ClampedHeight() *HeightProperty {
	return &HeightProperty{Reference: property.NewConstant(ClampToGround)}
}

// IsReferenced reports whether a terrain reference is attached.
func (h *HeightProperty) IsReferenced() bool {
	return h != nil && h.Reference != nil
}

// ReferenceAt resolves the height reference at t.
func (h *HeightProperty) ReferenceAt(t time.Time) HeightReference {
	if h == nil {
		return HeightNone
	}
	return property.ValueOrDefault(h.Reference, t, HeightNone)
}

// Value returns the height at t, or zero when clamped to ground. Any other
// reference leaves the height as written, undefined when unset.
func (h *HeightProperty) Value(t time.Time) (float64, bool) {
	switch {
	case h == nil:
		return 0, false
	case h.ReferenceAt(t) == ClampToGround:
		return 0, true
	case h.Height == nil:
		return 0, false
	default:
		return h.Height.Value(t)
	}
}

// MissingHeight reports whether a reference other than clamp-to-ground is
// attached without a height to apply it to.
func (h *HeightProperty) MissingHeight() bool {
	if !h.IsReferenced() || h.Height != nil {
		return false
	}
	if h.Reference.IsConstant() {
		ref, _ := h.Reference.Value(property.MinimumTime)
		return ref != ClampToGround
	}
	return true
}

// IsConstant reports whether both the height and its reference are constant.
func (h *HeightProperty) IsConstant() bool {
	if h == nil {
		return true
	}
	return property.IsConstant(h.Height) && property.IsConstant(h.Reference)
}

// DistanceDisplayCondition limits visibility to a camera distance range.
type DistanceDisplayCondition struct {
	Near, Far float64
}

// DefaultDistanceDisplayCondition is visible at any distance.
var DefaultDistanceDisplayCondition = DistanceDisplayCondition{Near: 0, Far: math.MaxFloat64}

// RectangleGraphics describes a rectangle on the globe.
// Nil fields are undefined.
type RectangleGraphics struct {
	Show                     property.Property[bool]
	Coordinates              property.Property[geodesy.Rectangle]
	Height                   *HeightProperty
	ExtrudedHeight           *HeightProperty
	Granularity              property.Property[float64]
	StRotation               property.Property[float64]
	Rotation                 property.Property[float64]
	Fill                     property.Property[bool]
	Material                 Material
	Outline                  property.Property[bool]
	OutlineColor             property.Property[Color]
	OutlineWidth             property.Property[float64]
	DistanceDisplayCondition property.Property[DistanceDisplayCondition]
	ZIndex                   property.Property[float64]
}

// LerpRectangle interpolates rectangle bounds component-wise.
func LerpRectangle(a, b geodesy.Rectangle, f float64) geodesy.Rectangle {
	return geodesy.Rectangle{
		West:  a.West + (b.West-a.West)*f,
		South: a.South + (b.South-a.South)*f,
		East:  a.East + (b.East-a.East)*f,
		North: a.North + (b.North-a.North)*f,
	}
}
