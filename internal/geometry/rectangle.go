package geometry

import (
	"errors"
	"math"

	"github.com/Faultbox/rectsync/internal/property"
	"github.com/Faultbox/rectsync/pkg/geodesy"
)

// ErrNoRectangle is returned when geometry is built without coordinates.
var ErrNoRectangle = errors.New("geometry: rectangle is required")

// Geometry is a shape descriptor handed to the tessellator.
type Geometry interface {
	// BoundingRectangle returns the geodetic bounds covered by the shape.
	BoundingRectangle() geodesy.Rectangle
}

// RectangleGeometry describes a filled rectangle, optionally extruded.
type RectangleGeometry struct {
	Rectangle       geodesy.Rectangle
	Granularity     float64
	Ellipsoid       geodesy.Ellipsoid
	SurfaceHeight   float64
	Rotation        float64
	StRotation      float64
	VertexFormat    VertexFormat
	ExtrudedHeight  property.Optional[float64]
	OffsetAttribute property.Optional[OffsetAttribute]
	ShadowVolume    bool
}

// NewRectangleGeometry builds a fill descriptor from o, applying defaults.
func NewRectangleGeometry(o *RectangleOptions) (*RectangleGeometry, error) {
	g := &RectangleGeometry{}
	if err := g.SetOptions(o); err != nil {
		return nil, err
	}
	return g, nil
}

// SetOptions overwrites g from o without allocating.
func (g *RectangleGeometry) SetOptions(o *RectangleOptions) error {
	if !o.Rectangle.Valid {
		return ErrNoRectangle
	}
	height := o.Height.OrDefault(0)

	g.Rectangle = o.Rectangle.Value
	g.Granularity = o.Granularity.OrDefault(DefaultGranularity)
	g.Ellipsoid = geodesy.WGS84
	g.Rotation = o.Rotation.OrDefault(0)
	g.StRotation = o.StRotation.OrDefault(0)
	g.VertexFormat = o.VertexFormat
	if g.VertexFormat.IsZero() {
		g.VertexFormat = VertexFormatDefault
	}
	g.OffsetAttribute = o.OffsetAttribute
	g.ShadowVolume = false

	// Surface is the higher of the two heights; the extrusion floor the lower.
	g.SurfaceHeight = height
	g.ExtrudedHeight = property.Optional[float64]{}
	if o.ExtrudedHeight.Valid {
		g.SurfaceHeight = math.Max(height, o.ExtrudedHeight.Value)
		g.ExtrudedHeight = property.Some(math.Min(height, o.ExtrudedHeight.Value))
	}
	return nil
}

// IsExtruded reports whether the geometry is a prism rather than a surface.
func (g *RectangleGeometry) IsExtruded() bool {
	return g.ExtrudedHeight.Valid && math.Abs(g.SurfaceHeight-g.ExtrudedHeight.Value) >= 1e-2
}

// BoundingRectangle returns the bounds of the rectangle after rotation.
func (g *RectangleGeometry) BoundingRectangle() geodesy.Rectangle {
	return RotatedBounds(g.Rectangle, g.Rotation)
}

// RectangleOutlineGeometry describes the wireframe of a rectangle.
type RectangleOutlineGeometry struct {
	Rectangle       geodesy.Rectangle
	Granularity     float64
	Ellipsoid       geodesy.Ellipsoid
	SurfaceHeight   float64
	Rotation        float64
	ExtrudedHeight  property.Optional[float64]
	OffsetAttribute property.Optional[OffsetAttribute]
}

// NewRectangleOutlineGeometry builds an outline descriptor from o.
func NewRectangleOutlineGeometry(o *RectangleOptions) (*RectangleOutlineGeometry, error) {
	if !o.Rectangle.Valid {
		return nil, ErrNoRectangle
	}
	height := o.Height.OrDefault(0)
	g := &RectangleOutlineGeometry{
		Rectangle:       o.Rectangle.Value,
		Granularity:     o.Granularity.OrDefault(DefaultGranularity),
		Ellipsoid:       geodesy.WGS84,
		SurfaceHeight:   height,
		Rotation:        o.Rotation.OrDefault(0),
		OffsetAttribute: o.OffsetAttribute,
	}
	if o.ExtrudedHeight.Valid {
		g.SurfaceHeight = math.Max(height, o.ExtrudedHeight.Value)
		g.ExtrudedHeight = property.Some(math.Min(height, o.ExtrudedHeight.Value))
	}
	return g, nil
}

// BoundingRectangle returns the bounds of the outline after rotation.
func (g *RectangleOutlineGeometry) BoundingRectangle() geodesy.Rectangle {
	return RotatedBounds(g.Rectangle, g.Rotation)
}

// RotatedBounds returns the geodetic bounds of r rotated by angle (radians,
// counter-clockwise) about its center. Corners are rotated in a local
// equirectangular frame scaled by the cosine of the center latitude.
func RotatedBounds(r geodesy.Rectangle, angle float64) geodesy.Rectangle {
	if angle == 0 {
		return r
	}
	center := r.Center()
	cosLat := math.Cos(center.Latitude)
	if cosLat < 1e-9 {
		cosLat = 1e-9
	}
	halfW := r.Width() * 0.5 * cosLat
	halfH := r.Height() * 0.5
	sin, cos := math.Sincos(angle)

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, c := range [4][2]float64{{-halfW, -halfH}, {halfW, -halfH}, {halfW, halfH}, {-halfW, halfH}} {
		x := c[0]*cos - c[1]*sin
		y := c[0]*sin + c[1]*cos
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	return geodesy.Rectangle{
		West:  geodesy.NegativePiToPi(center.Longitude + minX/cosLat),
		South: math.Max(center.Latitude+minY, -math.Pi/2),
		East:  geodesy.NegativePiToPi(center.Longitude + maxX/cosLat),
		North: math.Min(center.Latitude+maxY, math.Pi/2),
	}
}
