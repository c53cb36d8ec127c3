package updater

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/rectsync/internal/entity"
	"github.com/Faultbox/rectsync/internal/geometry"
	"github.com/Faultbox/rectsync/internal/property"
	"github.com/Faultbox/rectsync/internal/terrain"
	"github.com/Faultbox/rectsync/pkg/geodesy"
)

// ComputeOffsetAttribute derives which vertices follow the terrain offset.
// A referenced height moves the top surface; a relative extrusion also moves
// the floor. Literal heights need no offset.
func ComputeOffsetAttribute(height, extruded *entity.HeightProperty, t time.Time) property.Optional[geometry.OffsetAttribute] {
	if !height.IsReferenced() && !extruded.IsReferenced() {
		return property.Optional[geometry.OffsetAttribute]{}
	}

	n := 0
	if height.ReferenceAt(t) != entity.HeightNone {
		n++
	}
	if extruded.ReferenceAt(t) == entity.RelativeToGround {
		n++
	}
	switch n {
	case 2:
		return property.Some(geometry.OffsetAll)
	case 1:
		return property.Some(geometry.OffsetTop)
	default:
		return property.Optional[geometry.OffsetAttribute]{}
	}
}

// TerrainOffset is the vertical offset that lifts height-referenced geometry
// onto the terrain under its center.
type TerrainOffset struct {
	Height         *entity.HeightProperty
	ExtrudedHeight *entity.HeightProperty
	Terrain        terrain.Sampler
	Center         func(t time.Time) (geodesy.Cartographic, bool)
}

// Value returns the offset at t. Geometry without a terrain reference, or
// whose center is unknown, gets a zero offset.
func (p *TerrainOffset) Value(t time.Time) (mgl64.Vec3, bool) {
	if p.Height.ReferenceAt(t) == entity.HeightNone &&
		p.ExtrudedHeight.ReferenceAt(t) != entity.RelativeToGround {
		return mgl64.Vec3{}, true
	}
	center, ok := p.Center(t)
	if !ok {
		return mgl64.Vec3{}, true
	}
	h, ok := p.Terrain.HeightAt(center)
	if !ok {
		return mgl64.Vec3{}, true
	}
	return geodesy.WGS84.SurfaceNormal(center).Mul(h), true
}

// IsConstant returns false: terrain under the center may change.
func (p *TerrainOffset) IsConstant() bool {
	return false
}
