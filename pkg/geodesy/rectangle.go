// Package geodesy provides geodetic types (rectangles, cartographic points and
// the WGS84 ellipsoid) used to place map geometry.
package geodesy

import "math"

const (
	// TwoPi is 2π.
	TwoPi = 2 * math.Pi
	// RadiansPerDegree converts degrees to radians.
	RadiansPerDegree = math.Pi / 180
)

// Rectangle is a geodetic rectangle in radians.
// East may be less than West when the rectangle crosses the antimeridian.
type Rectangle struct {
	West, South, East, North float64
}

// FromDegrees creates a Rectangle from bounds given in degrees.
func FromDegrees(west, south, east, north float64) Rectangle {
	return Rectangle{
		West:  west * RadiansPerDegree,
		South: south * RadiansPerDegree,
		East:  east * RadiansPerDegree,
		North: north * RadiansPerDegree,
	}
}

// Width returns the longitudinal extent in radians.
func (r Rectangle) Width() float64 {
	east := r.East
	if east < r.West {
		east += TwoPi
	}
	return east - r.West
}

// Height returns the latitudinal extent in radians.
func (r Rectangle) Height() float64 {
	return r.North - r.South
}

// Center returns the center of the rectangle at height zero.
// Rectangles crossing the antimeridian are unwrapped before averaging.
func (r Rectangle) Center() Cartographic {
	east := r.East
	if east < r.West {
		east += TwoPi
	}
	return Cartographic{
		Longitude: NegativePiToPi((r.West + east) * 0.5),
		Latitude:  (r.South + r.North) * 0.5,
	}
}

// Contains reports whether c lies inside the rectangle.
func (r Rectangle) Contains(c Cartographic) bool {
	lon := c.Longitude
	east := r.East
	west := r.West
	if east < west {
		east += TwoPi
		if lon < 0 {
			lon += TwoPi
		}
	}
	return (lon > west || equalsEpsilon(lon, west)) &&
		(lon < east || equalsEpsilon(lon, east)) &&
		c.Latitude >= r.South && c.Latitude <= r.North
}

// Intersection returns the overlap of r and other, or false if they do not overlap.
func (r Rectangle) Intersection(other Rectangle) (Rectangle, bool) {
	rEast, rWest := r.East, r.West
	oEast, oWest := other.East, other.West

	if rEast < rWest && oEast > 0 {
		rEast += TwoPi
	} else if oEast < oWest && rEast > 0 {
		oEast += TwoPi
	}
	if rEast < rWest && oWest < 0 {
		oWest += TwoPi
	} else if oEast < oWest && rWest < 0 {
		rWest += TwoPi
	}

	west := NegativePiToPi(math.Max(rWest, oWest))
	east := NegativePiToPi(math.Min(rEast, oEast))
	if (r.West < r.East || other.West < other.East) && east <= west {
		return Rectangle{}, false
	}
	south := math.Max(r.South, other.South)
	north := math.Min(r.North, other.North)
	if south >= north {
		return Rectangle{}, false
	}
	return Rectangle{West: west, South: south, East: east, North: north}, true
}

// NegativePiToPi wraps an angle into [-π, π].
func NegativePiToPi(angle float64) float64 {
	if angle >= -math.Pi && angle <= math.Pi {
		return angle
	}
	return ZeroToTwoPi(angle+math.Pi) - math.Pi
}

// ZeroToTwoPi wraps an angle into [0, 2π].
func ZeroToTwoPi(angle float64) float64 {
	if angle >= 0 && angle <= TwoPi {
		return angle
	}
	m := math.Mod(angle, TwoPi)
	if m < 0 {
		m += TwoPi
	}
	if math.Abs(m) < 1e-14 && math.Abs(angle) > 1e-14 {
		return TwoPi
	}
	return m
}

func equalsEpsilon(a, b float64) bool {
	return math.Abs(a-b) <= 1e-14
}
