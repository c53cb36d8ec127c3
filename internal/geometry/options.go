// Package geometry describes rectangle geometry for an external tessellator
// and the per-instance attributes a renderer applies at draw time.
package geometry

import (
	"github.com/Faultbox/rectsync/internal/property"
	"github.com/Faultbox/rectsync/pkg/geodesy"
)

// VertexFormat selects which per-vertex attributes are emitted.
type VertexFormat struct {
	Position  bool
	Normal    bool
	ST        bool
	Bitangent bool
	Tangent   bool
	Color     bool
}

// Common vertex formats.
var (
	VertexFormatPositionOnly      = VertexFormat{Position: true}
	VertexFormatPositionAndNormal = VertexFormat{Position: true, Normal: true}
	VertexFormatPositionNormalST  = VertexFormat{Position: true, Normal: true, ST: true}

	// VertexFormatPerInstanceColor is used with per-instance color appearances.
	VertexFormatPerInstanceColor = VertexFormatPositionAndNormal
	// VertexFormatTextured is used with textured material appearances.
	VertexFormatTextured = VertexFormatPositionNormalST
	// VertexFormatDefault is used when no format was chosen.
	VertexFormatDefault = VertexFormatPositionNormalST
)

// IsZero reports whether no attribute is selected.
func (f VertexFormat) IsZero() bool {
	return f == VertexFormat{}
}

// OffsetAttribute tells the renderer which vertices receive the
// per-instance vertical offset.
type OffsetAttribute int

const (
	// OffsetNone applies no offset.
	OffsetNone OffsetAttribute = iota
	// OffsetTop offsets only the top surface.
	OffsetTop
	// OffsetAll offsets every vertex.
	OffsetAll
)

// String returns a readable name.
func (o OffsetAttribute) String() string {
	switch o {
	case OffsetTop:
		return "top"
	case OffsetAll:
		return "all"
	default:
		return "none"
	}
}

// DefaultGranularity is the default angular distance between tessellated points.
const DefaultGranularity = geodesy.RadiansPerDegree

// RectangleOptions is the mutable snapshot of geometry construction
// parameters for one entity. It is updated in place.
type RectangleOptions struct {
	ID              any
	VertexFormat    VertexFormat
	Rectangle       property.Optional[geodesy.Rectangle]
	Height          property.Optional[float64]
	ExtrudedHeight  property.Optional[float64]
	Granularity     property.Optional[float64]
	StRotation      property.Optional[float64]
	Rotation        property.Optional[float64]
	OffsetAttribute property.Optional[OffsetAttribute]
}

// NewRectangleOptions creates an empty options record owned by id.
func NewRectangleOptions(id any) *RectangleOptions {
	return &RectangleOptions{ID: id}
}
