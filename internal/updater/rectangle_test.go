package updater

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/rectsync/internal/entity"
	"github.com/Faultbox/rectsync/internal/geometry"
	"github.com/Faultbox/rectsync/internal/property"
	"github.com/Faultbox/rectsync/internal/terrain"
	"github.com/Faultbox/rectsync/pkg/geodesy"
)

func TestIsDynamic(t *testing.T) {
	r := NewRectangle(newEntity(extrudedRectangle()), Config{Scene: flatScene})
	if r.IsDynamic() {
		t.Fatal("expected constant rectangle to be static")
	}
	if r.Strategy() != StrategyStatic {
		t.Errorf("Strategy() = %v, want static", r.Strategy())
	}

	tests := []struct {
		name   string
		modify func(g *entity.RectangleGraphics)
	}{
		{"coordinates", func(g *entity.RectangleGraphics) {
			g.Coordinates = animatedRectangle(geodesy.FromDegrees(0, 0, 1, 1), geodesy.FromDegrees(1, 1, 2, 2))
		}},
		{"height", func(g *entity.RectangleGraphics) { g.Height = entity.LiteralHeight(animatedFloat()) }},
		{"extruded height", func(g *entity.RectangleGraphics) { g.ExtrudedHeight = entity.LiteralHeight(animatedFloat()) }},
		{"granularity", func(g *entity.RectangleGraphics) { g.Granularity = animatedFloat() }},
		{"st rotation", func(g *entity.RectangleGraphics) { g.StRotation = animatedFloat() }},
		{"rotation", func(g *entity.RectangleGraphics) { g.Rotation = animatedFloat() }},
		{"outline width", func(g *entity.RectangleGraphics) { g.OutlineWidth = animatedFloat() }},
		{"z index", func(g *entity.RectangleGraphics) { g.ZIndex = animatedFloat() }},
		{"height reference", func(g *entity.RectangleGraphics) {
			g.Height.Reference = property.NewIntervals(property.IntervalValue[entity.HeightReference]{
				Interval: property.Interval{Start: at(0), Stop: at(10)},
				Value:    entity.RelativeToGround,
			})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := extrudedRectangle()
			tt.modify(g)
			r := NewRectangle(newEntity(g), Config{Scene: flatScene})
			if !r.IsDynamic() {
				t.Errorf("IsDynamic() = false with animated %s, want true", tt.name)
			}
			if r.Strategy() != StrategyDynamic {
				t.Errorf("Strategy() = %v, want dynamic", r.Strategy())
			}
		})
	}
}

func TestIsDynamicMaterialOnTerrain(t *testing.T) {
	animatedColor := property.NewSampled(entity.LerpColor,
		property.Sample[entity.Color]{Time: at(0), Value: entity.Black},
		property.Sample[entity.Color]{Time: at(10), Value: entity.White},
	)

	g := groundRectangle()
	g.Material = &entity.ColorMaterial{Color: animatedColor}
	onTerrain := NewRectangle(newEntity(g), Config{Scene: groundScene})
	if !onTerrain.OnTerrain() || !onTerrain.IsDynamic() {
		t.Errorf("on terrain: OnTerrain()=%v IsDynamic()=%v, want true true",
			onTerrain.OnTerrain(), onTerrain.IsDynamic())
	}

	g = groundRectangle()
	g.Material = &entity.ColorMaterial{Color: animatedColor}
	flat := NewRectangle(newEntity(g), Config{Scene: flatScene})
	if flat.OnTerrain() || flat.IsDynamic() {
		t.Errorf("off terrain: OnTerrain()=%v IsDynamic()=%v, want false false",
			flat.OnTerrain(), flat.IsDynamic())
	}
}

func TestIsOnTerrain(t *testing.T) {
	tests := []struct {
		name   string
		scene  Scene
		modify func(g *entity.RectangleGraphics)
		want   bool
	}{
		{"ground clamped", groundScene, func(*entity.RectangleGraphics) {}, true},
		{"fill disabled", groundScene, func(g *entity.RectangleGraphics) {
			g.Fill = property.NewConstant(false)
			g.Outline = property.NewConstant(true)
		}, false},
		{"height set", groundScene, func(g *entity.RectangleGraphics) {
			g.Height = entity.LiteralHeight(property.NewConstant(0.0))
		}, false},
		{"extruded height set", groundScene, func(g *entity.RectangleGraphics) {
			g.ExtrudedHeight = entity.LiteralHeight(property.NewConstant(5.0))
		}, false},
		{"no ground primitives", flatScene, func(*entity.RectangleGraphics) {}, false},
		{"image material without terrain materials", groundScene, func(g *entity.RectangleGraphics) {
			g.Material = &entity.ImageMaterial{Image: property.NewConstant("grass.png")}
		}, false},
		{"image material with terrain materials", StaticScene{GroundPrimitives: true, MaterialsOnTerrain: true},
			func(g *entity.RectangleGraphics) {
				g.Material = &entity.ImageMaterial{Image: property.NewConstant("grass.png")}
			}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := groundRectangle()
			tt.modify(g)
			r := NewRectangle(newEntity(g), Config{Scene: tt.scene})
			if got := r.OnTerrain(); got != tt.want {
				t.Errorf("OnTerrain() = %v, want %v", got, tt.want)
			}
			if tt.want && r.Strategy() != StrategyGround {
				t.Errorf("Strategy() = %v, want ground", r.Strategy())
			}
		})
	}
}

func TestOutlineDisabledOnTerrain(t *testing.T) {
	g := groundRectangle()
	g.Outline = property.NewConstant(true)
	r := NewRectangle(newEntity(g), Config{Scene: groundScene})
	if !r.OnTerrain() {
		t.Fatal("expected rectangle on terrain")
	}
	if r.OutlineEnabled() {
		t.Error("expected outline to be disabled on terrain")
	}
	if _, err := r.CreateOutlineGeometryInstance(epoch); !errors.Is(err, ErrNotOutlined) {
		t.Errorf("CreateOutlineGeometryInstance() error = %v, want ErrNotOutlined", err)
	}
}

func TestIsClosed(t *testing.T) {
	some := property.Some[float64]
	tests := []struct {
		name     string
		height   property.Optional[float64]
		extruded property.Optional[float64]
		want     bool
	}{
		{"zero height flat", some(0), property.Optional[float64]{}, true},
		{"coincident surfaces", some(5), some(5), false},
		{"extruded prism", some(5), some(10), true},
		{"raised flat", some(5), property.Optional[float64]{}, false},
		{"undefined height extruded", property.Optional[float64]{}, some(10), true},
		{"nothing set", property.Optional[float64]{}, property.Optional[float64]{}, false},
		{"below-height extrusion", some(5), some(-3), true},
		{"zero height zero extrusion", some(0), some(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &geometry.RectangleOptions{Height: tt.height, ExtrudedHeight: tt.extruded}
			if got := IsClosed(o); got != tt.want {
				t.Errorf("IsClosed(%+v, %+v) = %v, want %v", tt.height, tt.extruded, got, tt.want)
			}
		})
	}

	r := NewRectangle(newEntity(extrudedRectangle()), Config{})
	if !r.IsClosed() {
		t.Error("expected static extruded rectangle to be closed")
	}
}

func TestReferenceWithoutHeight(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	g := &entity.RectangleGraphics{
		Coordinates: property.NewConstant(geodesy.FromDegrees(0, 0, 1, 1)),
		Height:      &entity.HeightProperty{Reference: property.NewConstant(entity.RelativeToGround)},
		Material:    entity.NewColorMaterial(red),
	}
	r := NewRectangle(newEntity(g), Config{Logger: zap.New(core)})

	if h := r.Options().Height; h.Valid {
		t.Errorf("Options().Height = %+v, want undefined", h)
	}
	if r.IsClosed() {
		t.Error("IsClosed() = true for a referenced height without a value, want false")
	}

	warned := logs.FilterMessageSnippet("height reference but no height").All()
	if len(warned) != 1 {
		t.Fatalf("height reference warnings = %d, want 1", len(warned))
	}
	if got := warned[0].ContextMap()["entity"]; got != "rect" {
		t.Errorf("warning entity = %v, want rect", got)
	}

	// Reclassification must not repeat the warning.
	r.Entity().SetRectangle(g)
	if n := logs.FilterMessageSnippet("height reference but no height").Len(); n != 1 {
		t.Errorf("height reference warnings after reclassify = %d, want 1", n)
	}
}

func TestOutlineOnTerrainWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	g := groundRectangle()
	g.Outline = property.NewConstant(true)
	NewRectangle(newEntity(g), Config{Scene: groundScene, Logger: zap.New(core)})

	if n := logs.FilterMessageSnippet("outlines are unsupported on terrain").Len(); n != 1 {
		t.Errorf("outline warnings = %d, want 1", n)
	}
}

func TestFillColorFallback(t *testing.T) {
	sampledRed := property.NewSampled(entity.LerpColor,
		property.Sample[entity.Color]{Time: at(0), Value: red},
		property.Sample[entity.Color]{Time: at(100), Value: red},
	)
	available := property.Availability{{Start: at(0), Stop: at(50)}}
	white := entity.White.Bytes()
	redBytes := red.Bytes()

	tests := []struct {
		name  string
		color property.Property[entity.Color]
		time  int
		want  [4]uint8
	}{
		{"sampled color while available", sampledRed, 10, redBytes},
		{"sampled color while unavailable", sampledRed, 60, white},
		{"constant color while unavailable", property.NewConstant(red), 60, redBytes},
		{"constant color while available", property.NewConstant(red), 10, redBytes},
		{"no color", nil, 10, white},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := extrudedRectangle()
			g.Material = &entity.ColorMaterial{Color: tt.color}
			e := newEntity(g)
			e.SetAvailability(available)
			r := NewRectangle(e, Config{Scene: flatScene})

			if got := mustFill(t, r, at(tt.time)); got != tt.want {
				t.Errorf("fill color = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutlineColor(t *testing.T) {
	g := extrudedRectangle()
	r := NewRectangle(newEntity(g), Config{})
	inst, err := r.CreateOutlineGeometryInstance(epoch)
	if err != nil {
		t.Fatalf("CreateOutlineGeometryInstance() error = %v", err)
	}
	if c, _ := inst.Color(); c != entity.Black.Bytes() {
		t.Errorf("default outline color = %v, want black", c)
	}
	if _, ok := inst.Geometry.(*geometry.RectangleOutlineGeometry); !ok {
		t.Errorf("outline geometry is %T, want *RectangleOutlineGeometry", inst.Geometry)
	}

	g = extrudedRectangle()
	g.OutlineColor = property.NewConstant(red)
	r = NewRectangle(newEntity(g), Config{})
	inst, err = r.CreateOutlineGeometryInstance(epoch)
	if err != nil {
		t.Fatal(err)
	}
	if c, _ := inst.Color(); c != red.Bytes() {
		t.Errorf("outline color = %v, want red", c)
	}
}

func TestPreconditions(t *testing.T) {
	g := extrudedRectangle()
	g.Fill = property.NewConstant(false)
	g.Outline = property.NewConstant(true)
	r := NewRectangle(newEntity(g), Config{})
	if _, err := r.CreateFillGeometryInstance(epoch); !errors.Is(err, ErrNotFilled) {
		t.Errorf("CreateFillGeometryInstance() error = %v, want ErrNotFilled", err)
	}

	g = extrudedRectangle()
	g.Outline = nil
	r = NewRectangle(newEntity(g), Config{})
	if _, err := r.CreateOutlineGeometryInstance(epoch); !errors.Is(err, ErrNotOutlined) {
		t.Errorf("CreateOutlineGeometryInstance() error = %v, want ErrNotOutlined", err)
	}
	if _, err := r.CreateDynamicUpdater(); !errors.Is(err, ErrNotDynamic) {
		t.Errorf("CreateDynamicUpdater() error = %v, want ErrNotDynamic", err)
	}

	r.Destroy()
	if _, err := r.CreateFillGeometryInstance(epoch); !errors.Is(err, ErrDestroyed) {
		t.Errorf("CreateFillGeometryInstance() after Destroy error = %v, want ErrDestroyed", err)
	}
}

func TestFillInstance(t *testing.T) {
	g := extrudedRectangle()
	e := newEntity(g)
	r := NewRectangle(e, Config{})

	inst, err := r.CreateFillGeometryInstance(epoch)
	if err != nil {
		t.Fatal(err)
	}
	if inst.ID != e {
		t.Errorf("instance ID = %v, want the entity", inst.ID)
	}
	if !inst.Show() {
		t.Error("expected fill to be shown")
	}
	fill, ok := inst.Geometry.(*geometry.RectangleGeometry)
	if !ok {
		t.Fatalf("fill geometry is %T, want *RectangleGeometry", inst.Geometry)
	}
	if fill.SurfaceHeight != 20 || fill.ExtrudedHeight.Value != 10 {
		t.Errorf("fill heights = %v/%v, want 20/10", fill.SurfaceHeight, fill.ExtrudedHeight.Value)
	}
	if fill.VertexFormat != geometry.VertexFormatPerInstanceColor {
		t.Errorf("VertexFormat = %+v, want per-instance color format", fill.VertexFormat)
	}

	ddc := inst.Attributes[geometry.AttributeDistanceDisplayCondition].(*geometry.DistanceDisplayConditionAttribute)
	if ddc.Value[0] != 0 || !math.IsInf(float64(ddc.Value[1]), 1) {
		t.Errorf("default distance display condition = %v, want [0 +Inf]", ddc.Value)
	}
	offset := inst.Attributes[geometry.AttributeOffset].(*geometry.OffsetAttributeValue)
	if offset.Value != [3]float32{} {
		t.Errorf("default offset = %v, want zero", offset.Value)
	}

	e.SetShow(false)
	inst, err = r.CreateFillGeometryInstance(epoch)
	if err != nil {
		t.Fatal(err)
	}
	if inst.Show() {
		t.Error("expected fill of hidden entity to have show=false")
	}
}

func TestFillInstanceTexturedMaterial(t *testing.T) {
	g := extrudedRectangle()
	g.Material = &entity.ImageMaterial{Image: property.NewConstant("tile.png")}
	r := NewRectangle(newEntity(g), Config{})

	inst, err := r.CreateFillGeometryInstance(epoch)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := inst.Color(); ok {
		t.Error("expected no color attribute for a textured material")
	}
	if r.Options().VertexFormat != geometry.VertexFormatTextured {
		t.Errorf("VertexFormat = %+v, want textured", r.Options().VertexFormat)
	}
}

func TestClampToGroundStatic(t *testing.T) {
	g := extrudedRectangle()
	g.ExtrudedHeight = entity.ClampedHeight()
	g.Rotation = property.NewConstant(math.Pi / 4)
	stub := &recordingTerrain{height: 123}

	r := NewRectangle(newEntity(g), Config{Terrain: stub})

	o := r.Options()
	if !o.ExtrudedHeight.Valid || o.ExtrudedHeight.Value != 123 {
		t.Errorf("ExtrudedHeight = %+v, want 123", o.ExtrudedHeight)
	}
	if len(stub.queried) != 1 {
		t.Fatalf("terrain queried %d times, want 1", len(stub.queried))
	}
	want := geometry.RotatedBounds(geodesy.FromDegrees(0, 0, 1, 1), math.Pi/4)
	if stub.queried[0] != want {
		t.Errorf("terrain queried with %+v, want rotated bounds %+v", stub.queried[0], want)
	}
}

func TestClampToGroundHeightmap(t *testing.T) {
	hm, err := terrain.NewHeightmap(geodesy.FromDegrees(0, 0, 2, 2), [][]float64{
		{300, 200, 100},
		{300, 250, 100},
		{300, 300, 300},
	})
	if err != nil {
		t.Fatal(err)
	}
	g := extrudedRectangle()
	g.Coordinates = property.NewConstant(geodesy.FromDegrees(0.1, 0.1, 0.9, 0.9))
	g.ExtrudedHeight = entity.ClampedHeight()

	r := NewRectangle(newEntity(g), Config{Terrain: hm})
	if got := r.Options().ExtrudedHeight; got.Value != 200 {
		t.Errorf("ExtrudedHeight = %+v, want 200", got)
	}
}

func TestStaticOptionsRoundTrip(t *testing.T) {
	g := extrudedRectangle()
	g.ExtrudedHeight = entity.ClampedHeight()
	e := newEntity(g)
	r := NewRectangle(e, Config{Terrain: terrain.Constant{Height: 7}})

	first := *r.Options()
	e.SetRectangle(g)
	second := *r.Options()

	if first != second {
		t.Errorf("options changed between identical syncs:\n%+v\n%+v", first, second)
	}
	if math.Float64bits(first.ExtrudedHeight.Value) != math.Float64bits(second.ExtrudedHeight.Value) {
		t.Error("extruded height not bit-identical")
	}
}

func TestComputeCenter(t *testing.T) {
	rect := geodesy.FromDegrees(170, -10, -170, 10)
	g := groundRectangle()
	g.Coordinates = property.NewConstant(rect)
	r := NewRectangle(newEntity(g), Config{})

	got, ok := r.ComputeCenter(epoch)
	if !ok {
		t.Fatal("expected a center")
	}
	want := geodesy.WGS84.ToCartesian(geodesy.Cartographic{Longitude: math.Pi})
	if got.Sub(want).Len() > 1e-3 {
		t.Errorf("ComputeCenter() = %v, want %v", got, want)
	}

	g.Coordinates = animatedRectangle(rect, rect)
	if _, ok := r.ComputeCenter(at(20)); ok {
		t.Error("expected no center when coordinates are undefined")
	}
	var zero mgl64.Vec3
	if got, _ := r.ComputeCenter(at(20)); got != zero {
		t.Errorf("ComputeCenter() = %v, want zero vector", got)
	}
}

func TestStrategyNone(t *testing.T) {
	e := entity.New("empty")
	r := NewRectangle(e, Config{})
	if r.Strategy() != StrategyNone {
		t.Errorf("Strategy() = %v, want none", r.Strategy())
	}

	g := groundRectangle()
	g.Show = property.NewConstant(false)
	e.SetRectangle(g)
	if r.FillEnabled() || r.Strategy() != StrategyNone {
		t.Error("expected constantly hidden rectangle to have no geometry")
	}

	g = groundRectangle()
	g.Coordinates = nil
	e.SetRectangle(g)
	if r.FillEnabled() {
		t.Error("expected rectangle without coordinates to have no geometry")
	}
}

func TestGeometryChanged(t *testing.T) {
	e := newEntity(extrudedRectangle())
	r := NewRectangle(e, Config{})

	var changes int
	remove := r.OnGeometryChanged(func(u GeometryUpdater) {
		if u != GeometryUpdater(r) {
			t.Errorf("listener got %v, want the rectangle updater", u)
		}
		changes++
	})

	e.SetRectangle(extrudedRectangle())
	if changes != 1 {
		t.Errorf("changes = %d, want 1", changes)
	}

	e.SetRectangle(nil)
	if changes != 2 || r.FillEnabled() || r.OutlineEnabled() {
		t.Errorf("removing graphics: changes=%d fill=%v outline=%v", changes, r.FillEnabled(), r.OutlineEnabled())
	}

	remove()
	e.SetRectangle(extrudedRectangle())
	if changes != 2 {
		t.Errorf("changes after remove = %d, want 2", changes)
	}

	r.Destroy()
	e.SetRectangle(nil)
	if !r.FillEnabled() {
		t.Error("destroyed updater should ignore entity changes")
	}
}

func TestRefreshAttributes(t *testing.T) {
	e := newEntity(extrudedRectangle())
	r := NewRectangle(e, Config{})

	fill, err := r.CreateFillGeometryInstance(epoch)
	if err != nil {
		t.Fatalf("CreateFillGeometryInstance() error = %v", err)
	}
	outline, err := r.CreateOutlineGeometryInstance(epoch)
	if err != nil {
		t.Fatalf("CreateOutlineGeometryInstance() error = %v", err)
	}
	geom := fill.Geometry

	e.SetShow(false)
	if err := r.RefreshFillAttributes(fill, at(1)); err != nil {
		t.Fatalf("RefreshFillAttributes() error = %v", err)
	}
	if err := r.RefreshOutlineAttributes(outline, at(1)); err != nil {
		t.Fatalf("RefreshOutlineAttributes() error = %v", err)
	}
	if fill.Show() || outline.Show() {
		t.Error("refreshed instances still show after SetShow(false)")
	}
	if fill.Geometry != geom {
		t.Error("RefreshFillAttributes() replaced the geometry")
	}

	g := extrudedRectangle()
	g.Fill = property.NewConstant(false)
	g.Outline = property.NewConstant(false)
	g.Show = property.NewConstant(true)
	e.SetRectangle(g)
	if err := r.RefreshFillAttributes(fill, at(2)); !errors.Is(err, ErrNotFilled) {
		t.Errorf("RefreshFillAttributes() error = %v, want ErrNotFilled", err)
	}
	if err := r.RefreshOutlineAttributes(outline, at(2)); !errors.Is(err, ErrNotOutlined) {
		t.Errorf("RefreshOutlineAttributes() error = %v, want ErrNotOutlined", err)
	}
}
