package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Attribute names used in Instance.Attributes.
const (
	AttributeShow                     = "show"
	AttributeColor                    = "color"
	AttributeDistanceDisplayCondition = "distanceDisplayCondition"
	AttributeOffset                   = "offset"
)

// ComponentDatatype is the GPU type of an attribute component.
type ComponentDatatype int

const (
	UnsignedByte ComponentDatatype = iota
	Float
)

// Attribute is a per-instance value with a fixed-size encoding.
type Attribute interface {
	ComponentDatatype() ComponentDatatype
	ComponentsPerAttribute() int
	Normalize() bool
}

// ShowAttribute toggles instance visibility.
type ShowAttribute struct {
	Value [1]uint8
}

// NewShowAttribute encodes show.
func NewShowAttribute(show bool) *ShowAttribute {
	a := &ShowAttribute{}
	if show {
		a.Value[0] = 1
	}
	return a
}

// Show decodes the value.
func (a *ShowAttribute) Show() bool                           { return a.Value[0] != 0 }
func (a *ShowAttribute) ComponentDatatype() ComponentDatatype { return UnsignedByte }
func (a *ShowAttribute) ComponentsPerAttribute() int          { return 1 }
func (a *ShowAttribute) Normalize() bool                      { return false }

// ColorAttribute is an RGBA color as normalized bytes.
type ColorAttribute struct {
	Value [4]uint8
}

// NewColorAttribute wraps encoded color bytes.
func NewColorAttribute(rgba [4]uint8) *ColorAttribute {
	return &ColorAttribute{Value: rgba}
}

func (a *ColorAttribute) ComponentDatatype() ComponentDatatype { return UnsignedByte }
func (a *ColorAttribute) ComponentsPerAttribute() int          { return 4 }
func (a *ColorAttribute) Normalize() bool                      { return true }

// DistanceDisplayConditionAttribute holds the near and far camera distances.
type DistanceDisplayConditionAttribute struct {
	Value [2]float32
}

// NewDistanceDisplayConditionAttribute encodes a near/far range. Distances
// beyond float32 range encode as +Inf.
func NewDistanceDisplayConditionAttribute(near, far float64) *DistanceDisplayConditionAttribute {
	return &DistanceDisplayConditionAttribute{Value: [2]float32{toFloat32(near), toFloat32(far)}}
}

func toFloat32(v float64) float32 {
	if v > math.MaxFloat32 {
		return float32(math.Inf(1))
	}
	return float32(v)
}

func (a *DistanceDisplayConditionAttribute) ComponentDatatype() ComponentDatatype { return Float }
func (a *DistanceDisplayConditionAttribute) ComponentsPerAttribute() int          { return 2 }
func (a *DistanceDisplayConditionAttribute) Normalize() bool                      { return false }

// OffsetAttributeValue is a vertical offset vector in Earth-fixed coordinates.
type OffsetAttributeValue struct {
	Value [3]float32
}

// NewOffsetAttribute encodes v.
func NewOffsetAttribute(v mgl64.Vec3) *OffsetAttributeValue {
	return &OffsetAttributeValue{Value: [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}}
}

func (a *OffsetAttributeValue) ComponentDatatype() ComponentDatatype { return Float }
func (a *OffsetAttributeValue) ComponentsPerAttribute() int          { return 3 }
func (a *OffsetAttributeValue) Normalize() bool                      { return false }

// Instance is a geometry plus its per-instance attributes. ID refers back to
// the owning entity and is not owned by the instance.
type Instance struct {
	ID         any
	Geometry   Geometry
	Attributes map[string]Attribute
}

// Show returns the decoded show attribute, or false if absent.
func (i *Instance) Show() bool {
	a, ok := i.Attributes[AttributeShow].(*ShowAttribute)
	return ok && a.Show()
}

// Color returns the encoded color and whether the instance has one.
func (i *Instance) Color() ([4]uint8, bool) {
	a, ok := i.Attributes[AttributeColor].(*ColorAttribute)
	if !ok {
		return [4]uint8{}, false
	}
	return a.Value, true
}
