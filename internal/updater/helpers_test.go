package updater

import (
	"testing"
	"time"

	"github.com/Faultbox/rectsync/internal/entity"
	"github.com/Faultbox/rectsync/internal/property"
	"github.com/Faultbox/rectsync/pkg/geodesy"
)

var (
	epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	red   = entity.Color{R: 1, A: 1}

	flatScene   = StaticScene{}
	groundScene = StaticScene{GroundPrimitives: true}
)

func at(seconds int) time.Time {
	return epoch.Add(time.Duration(seconds) * time.Second)
}

func animatedFloat() property.Property[float64] {
	return property.NewSampledFloat(
		property.Sample[float64]{Time: at(0), Value: 1},
		property.Sample[float64]{Time: at(10), Value: 2},
	)
}

func animatedRectangle(from, to geodesy.Rectangle) property.Property[geodesy.Rectangle] {
	return property.NewSampled(entity.LerpRectangle,
		property.Sample[geodesy.Rectangle]{Time: at(0), Value: from},
		property.Sample[geodesy.Rectangle]{Time: at(10), Value: to},
	)
}

// extrudedRectangle returns fully constant graphics with fill and outline.
func extrudedRectangle() *entity.RectangleGraphics {
	return &entity.RectangleGraphics{
		Coordinates:    property.NewConstant(geodesy.FromDegrees(0, 0, 1, 1)),
		Height:         entity.LiteralHeight(property.NewConstant(10.0)),
		ExtrudedHeight: entity.LiteralHeight(property.NewConstant(20.0)),
		Granularity:    property.NewConstant(0.01),
		StRotation:     property.NewConstant(0.0),
		Rotation:       property.NewConstant(0.0),
		Fill:           property.NewConstant(true),
		Outline:        property.NewConstant(true),
		OutlineWidth:   property.NewConstant(2.0),
		Material:       entity.NewColorMaterial(red),
	}
}

// groundRectangle returns constant graphics with no heights.
func groundRectangle() *entity.RectangleGraphics {
	return &entity.RectangleGraphics{
		Coordinates: property.NewConstant(geodesy.FromDegrees(0, 0, 1, 1)),
		Material:    entity.NewColorMaterial(red),
	}
}

func newEntity(g *entity.RectangleGraphics) *entity.Entity {
	e := entity.New("rect")
	e.SetRectangle(g)
	return e
}

// recordingTerrain is a flat terrain that remembers the last queried rectangle.
type recordingTerrain struct {
	height  float64
	queried []geodesy.Rectangle
}

func (r *recordingTerrain) MinimumHeight(rect geodesy.Rectangle) float64 {
	r.queried = append(r.queried, rect)
	return r.height
}

func (r *recordingTerrain) HeightAt(geodesy.Cartographic) (float64, bool) {
	return r.height, true
}

func mustFill(t *testing.T, r *Rectangle, tm time.Time) [4]uint8 {
	t.Helper()
	inst, err := r.CreateFillGeometryInstance(tm)
	if err != nil {
		t.Fatalf("CreateFillGeometryInstance() error = %v", err)
	}
	c, ok := inst.Color()
	if !ok {
		t.Fatal("fill instance has no color attribute")
	}
	return c
}
