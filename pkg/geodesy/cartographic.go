package geodesy

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cartographic is a geodetic position: longitude and latitude in radians,
// height in meters above the ellipsoid.
type Cartographic struct {
	Longitude, Latitude, Height float64
}

// CartographicFromDegrees creates a Cartographic from degrees.
func CartographicFromDegrees(lon, lat, height float64) Cartographic {
	return Cartographic{
		Longitude: lon * RadiansPerDegree,
		Latitude:  lat * RadiansPerDegree,
		Height:    height,
	}
}

// Ellipsoid is a triaxial ellipsoid centered at the origin.
type Ellipsoid struct {
	Radii mgl64.Vec3
}

// WGS84 is the World Geodetic System 1984 ellipsoid.
var WGS84 = Ellipsoid{Radii: mgl64.Vec3{6378137.0, 6378137.0, 6356752.3142451793}}

// RadiiSquared returns the squared radii.
func (e Ellipsoid) RadiiSquared() mgl64.Vec3 {
	return mgl64.Vec3{e.Radii[0] * e.Radii[0], e.Radii[1] * e.Radii[1], e.Radii[2] * e.Radii[2]}
}

// SurfaceNormal returns the geodetic surface normal at c.
func (e Ellipsoid) SurfaceNormal(c Cartographic) mgl64.Vec3 {
	cosLat := math.Cos(c.Latitude)
	return mgl64.Vec3{
		cosLat * math.Cos(c.Longitude),
		cosLat * math.Sin(c.Longitude),
		math.Sin(c.Latitude),
	}.Normalize()
}

// ToCartesian converts c to Earth-fixed Cartesian coordinates.
func (e Ellipsoid) ToCartesian(c Cartographic) mgl64.Vec3 {
	n := e.SurfaceNormal(c)
	r2 := e.RadiiSquared()
	k := mgl64.Vec3{r2[0] * n[0], r2[1] * n[1], r2[2] * n[2]}
	gamma := math.Sqrt(n.Dot(k))
	return k.Mul(1 / gamma).Add(n.Mul(c.Height))
}
