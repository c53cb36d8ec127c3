package terrain

import (
	"fmt"
	"math"

	"github.com/Faultbox/rectsync/pkg/geodesy"
)

// Heightmap is a regular grid of elevation posts covering Bounds.
// Altitudes[x][y] is the post at column x (west to east) and row y
// (south to north).
type Heightmap struct {
	Bounds    geodesy.Rectangle
	Altitudes [][]float64
	PostsX    int
	PostsY    int
}

// NewHeightmap creates a heightmap from rows ordered south to north.
func NewHeightmap(bounds geodesy.Rectangle, rows [][]float64) (*Heightmap, error) {
	if !(bounds.Width() > 0) || !(bounds.Height() > 0) {
		return nil, fmt.Errorf("heightmap bounds must have positive extent, got %+v", bounds)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("heightmap needs at least 2 rows, got %d", len(rows))
	}
	postsX := len(rows[0])
	if postsX < 2 {
		return nil, fmt.Errorf("heightmap needs at least 2 columns, got %d", postsX)
	}

	altitudes := make([][]float64, postsX)
	for x := range postsX {
		altitudes[x] = make([]float64, len(rows))
	}
	for y, row := range rows {
		if len(row) != postsX {
			return nil, fmt.Errorf("heightmap row %d has %d posts, want %d", y, len(row), postsX)
		}
		for x, h := range row {
			altitudes[x][y] = h
		}
	}

	return &Heightmap{
		Bounds:    bounds,
		Altitudes: altitudes,
		PostsX:    postsX,
		PostsY:    len(rows),
	}, nil
}

// cellOf returns fractional grid coordinates for c.
func (h *Heightmap) cellOf(lon, lat float64) (float64, float64) {
	if lon < h.Bounds.West {
		lon += geodesy.TwoPi
	}
	fx := (lon - h.Bounds.West) / h.Bounds.Width() * float64(h.PostsX-1)
	fy := (lat - h.Bounds.South) / h.Bounds.Height() * float64(h.PostsY-1)
	return fx, fy
}

// HeightAt returns the bilinearly interpolated elevation at c.
func (h *Heightmap) HeightAt(c geodesy.Cartographic) (float64, bool) {
	if !h.Bounds.Contains(c) {
		return 0, false
	}
	fx, fy := h.cellOf(c.Longitude, c.Latitude)

	cellX := clampi(int(fx), 0, h.PostsX-2)
	cellY := clampi(int(fy), 0, h.PostsY-2)

	fracX := clampf(fx-float64(cellX), 0, 1)
	fracY := clampf(fy-float64(cellY), 0, 1)

	// South edge, then north edge, then between them.
	south := h.Altitudes[cellX][cellY]*(1-fracX) + h.Altitudes[cellX+1][cellY]*fracX
	north := h.Altitudes[cellX][cellY+1]*(1-fracX) + h.Altitudes[cellX+1][cellY+1]*fracX
	return south*(1-fracY) + north*fracY, true
}

// MinimumHeight returns the lowest post of every cell touching r.
func (h *Heightmap) MinimumHeight(r geodesy.Rectangle) float64 {
	overlap, ok := h.Bounds.Intersection(r)
	if !ok {
		return DefaultMinimumHeight
	}

	x0, y0 := h.cellOf(overlap.West, overlap.South)
	x1, y1 := h.cellOf(overlap.East, overlap.North)
	minX := clampi(int(math.Floor(x0)), 0, h.PostsX-1)
	minY := clampi(int(math.Floor(y0)), 0, h.PostsY-1)
	maxX := clampi(int(math.Ceil(x1)), 0, h.PostsX-1)
	maxY := clampi(int(math.Ceil(y1)), 0, h.PostsY-1)

	lowest := math.Inf(1)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			lowest = math.Min(lowest, h.Altitudes[x][y])
		}
	}
	return lowest
}

func clampf(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampi(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
