package updater

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/rectsync/internal/entity"
	"github.com/Faultbox/rectsync/internal/property"
	"github.com/Faultbox/rectsync/internal/terrain"
	"github.com/Faultbox/rectsync/pkg/geodesy"
)

// Defaults for sub-properties the entity leaves unset.
var (
	defaultMaterial     entity.Material = entity.NewColorMaterial(entity.White)
	defaultShow                         = property.NewConstant(true)
	defaultFill                         = property.NewConstant(true)
	defaultOutline                      = property.NewConstant(false)
	defaultOutlineColor                 = property.NewConstant(entity.Black)
	defaultDDC                          = property.NewConstant(entity.DefaultDistanceDisplayCondition)
	defaultZIndex                       = property.NewConstant(0.0)
)

// graphics is the geometry-independent part of an entity's graphics.
type graphics struct {
	Show                     property.Property[bool]
	Fill                     property.Property[bool]
	Material                 entity.Material
	Outline                  property.Property[bool]
	OutlineColor             property.Property[entity.Color]
	OutlineWidth             property.Property[float64]
	DistanceDisplayCondition property.Property[entity.DistanceDisplayCondition]
	ZIndex                   property.Property[float64]
	Height                   *entity.HeightProperty
	ExtrudedHeight           *entity.HeightProperty
}

// shape is the geometry-specific half of an updater. Base calls these hooks
// while classifying a property change.
type shape interface {
	graphics() (graphics, bool)
	isHidden(g graphics) bool
	isOnTerrain(g graphics) bool
	isDynamic(g graphics) bool
	setStaticOptions(g graphics)
	isClosed() bool
	centerCartographic(t time.Time) (geodesy.Cartographic, bool)
}

// Base tracks the lifecycle shared by all geometry kinds: which sub-properties
// are in effect, whether fill and outline are enabled, and whether the entity
// is static, dynamic or on terrain.
type Base struct {
	entity       *entity.Entity
	scene        Scene
	terrain      terrain.Sampler
	shape        shape
	observed     []string
	self         GeometryUpdater
	log          *zap.Logger
	removeListen func()

	fillEnabled    bool
	outlineEnabled bool
	dynamic        bool
	onTerrain      bool
	closed         bool
	outlineWidth   float64

	materialProperty     entity.Material
	showProperty         property.Property[bool]
	fillProperty         property.Property[bool]
	showOutlineProperty  property.Property[bool]
	outlineColorProperty property.Property[entity.Color]
	ddcProperty          property.Property[entity.DistanceDisplayCondition]
	zIndexProperty       property.Property[float64]
	terrainOffset        property.Property[mgl64.Vec3]

	listeners    map[int]func(GeometryUpdater)
	nextListener int
	warned       map[string]bool
	destroyed    bool
}

func (b *Base) init(e *entity.Entity, cfg Config, s shape, self GeometryUpdater, observed ...string) {
	cfg = cfg.withDefaults()
	b.entity = e
	b.scene = cfg.Scene
	b.terrain = cfg.Terrain
	b.log = cfg.Logger
	b.shape = s
	b.self = self
	b.observed = observed
	b.outlineWidth = 1
	b.materialProperty = defaultMaterial
	b.showProperty = defaultShow
	b.fillProperty = defaultFill
	b.showOutlineProperty = defaultOutline
	b.ddcProperty = defaultDDC
	b.zIndexProperty = defaultZIndex
	b.removeListen = e.OnPropertyChanged(b.OnEntityPropertyChanged)
}

// Entity returns the entity being visualized.
func (b *Base) Entity() *entity.Entity { return b.entity }

// FillEnabled reports whether the geometry has a fill.
func (b *Base) FillEnabled() bool { return b.fillEnabled }

// OutlineEnabled reports whether the geometry has an outline.
func (b *Base) OutlineEnabled() bool { return b.outlineEnabled }

// IsDynamic reports whether any geometry property varies over time.
func (b *Base) IsDynamic() bool { return b.dynamic }

// OnTerrain reports whether the geometry is clamped to terrain.
func (b *Base) OnTerrain() bool { return b.onTerrain }

// IsClosed reports whether static geometry is a closed volume.
func (b *Base) IsClosed() bool { return b.closed }

// OutlineWidth returns the static outline width.
func (b *Base) OutlineWidth() float64 { return b.outlineWidth }

// FillMaterial returns the material in effect.
func (b *Base) FillMaterial() entity.Material { return b.materialProperty }

// OutlineColorProperty returns the outline color property, or nil without an outline.
func (b *Base) OutlineColorProperty() property.Property[entity.Color] {
	return b.outlineColorProperty
}

// DistanceDisplayConditionProperty returns the distance display condition in effect.
func (b *Base) DistanceDisplayConditionProperty() property.Property[entity.DistanceDisplayCondition] {
	return b.ddcProperty
}

// ZIndex returns the z-index at t used to order ground geometry.
func (b *Base) ZIndex(t time.Time) float64 {
	return property.ValueOrDefault(b.zIndexProperty, t, 0)
}

// TerrainOffsetProperty returns the vertical offset property, or nil when
// the geometry has no height reference.
func (b *Base) TerrainOffsetProperty() property.Property[mgl64.Vec3] {
	return b.terrainOffset
}

// Strategy returns the rendering path the entity currently needs.
func (b *Base) Strategy() Strategy {
	switch {
	case !b.fillEnabled && !b.outlineEnabled:
		return StrategyNone
	case b.dynamic:
		return StrategyDynamic
	case b.onTerrain:
		return StrategyGround
	default:
		return StrategyStatic
	}
}

// HasConstantFill reports whether fill visibility never changes.
func (b *Base) HasConstantFill() bool {
	return !b.fillEnabled ||
		(b.entity.Availability() == nil &&
			property.IsConstant(b.showProperty) &&
			property.IsConstant(b.fillProperty))
}

// HasConstantOutline reports whether outline visibility never changes.
func (b *Base) HasConstantOutline() bool {
	return !b.outlineEnabled ||
		(b.entity.Availability() == nil &&
			property.IsConstant(b.showProperty) &&
			property.IsConstant(b.showOutlineProperty))
}

// IsFilled reports whether the fill is visible at t.
func (b *Base) IsFilled(t time.Time) bool {
	return b.fillEnabled &&
		b.entity.IsAvailable(t) &&
		property.ValueOrDefault(b.showProperty, t, false) &&
		property.ValueOrDefault(b.fillProperty, t, false)
}

// IsOutlineVisible reports whether the outline is visible at t.
func (b *Base) IsOutlineVisible(t time.Time) bool {
	return b.outlineEnabled &&
		b.entity.IsAvailable(t) &&
		property.ValueOrDefault(b.showProperty, t, false) &&
		property.ValueOrDefault(b.showOutlineProperty, t, false)
}

// OnGeometryChanged registers fn to be called whenever classification
// changes the geometry, and returns a function that removes it.
func (b *Base) OnGeometryChanged(fn func(GeometryUpdater)) (remove func()) {
	if b.listeners == nil {
		b.listeners = make(map[int]func(GeometryUpdater))
	}
	id := b.nextListener
	b.nextListener++
	b.listeners[id] = fn
	return func() {
		delete(b.listeners, id)
	}
}

// Destroy detaches the updater from its entity.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	if b.removeListen != nil {
		b.removeListen()
	}
	b.listeners = nil
}

// IsDestroyed reports whether Destroy was called.
func (b *Base) IsDestroyed() bool { return b.destroyed }

func (b *Base) raiseGeometryChanged() {
	for _, fn := range b.listeners {
		fn(b.self)
	}
}

func (b *Base) disable() {
	if b.fillEnabled || b.outlineEnabled {
		b.fillEnabled = false
		b.outlineEnabled = false
		b.raiseGeometryChanged()
	}
}

// OnEntityPropertyChanged reclassifies the geometry after an observed entity
// property changes.
func (b *Base) OnEntityPropertyChanged(e *entity.Entity, name string, _, _ any) {
	if b.destroyed || !b.observes(name) {
		return
	}

	g, ok := b.shape.graphics()
	if !ok {
		b.disable()
		return
	}

	fillEnabled := true
	if g.Fill != nil && g.Fill.IsConstant() {
		fillEnabled, _ = g.Fill.Value(property.MinimumTime)
	}
	outlineEnabled := g.Outline != nil
	if outlineEnabled && g.Outline.IsConstant() {
		outlineEnabled, _ = g.Outline.Value(property.MinimumTime)
	}
	if !fillEnabled && !outlineEnabled {
		b.disable()
		return
	}

	if b.shape.isHidden(g) {
		b.disable()
		return
	}

	b.materialProperty = orDefault(g.Material, defaultMaterial)
	b.fillProperty = orDefault[property.Property[bool]](g.Fill, defaultFill)
	b.showProperty = orDefault[property.Property[bool]](g.Show, defaultShow)
	b.showOutlineProperty = orDefault[property.Property[bool]](g.Outline, defaultOutline)
	b.outlineColorProperty = nil
	if outlineEnabled {
		b.outlineColorProperty = orDefault[property.Property[entity.Color]](g.OutlineColor, defaultOutlineColor)
	}
	b.ddcProperty = orDefault[property.Property[entity.DistanceDisplayCondition]](g.DistanceDisplayCondition, defaultDDC)
	b.fillEnabled = fillEnabled

	_, isColor := b.materialProperty.(*entity.ColorMaterial)
	onTerrain := b.shape.isOnTerrain(g) && (b.scene.SupportsMaterialsOnTerrain() || isColor)
	if outlineEnabled && onTerrain {
		b.warnOnce("outline", "entity geometry outlines are unsupported on terrain; outlines will be disabled",
			zap.String("entity", e.ID))
		outlineEnabled = false
	}
	b.onTerrain = onTerrain
	b.outlineEnabled = outlineEnabled

	b.updateGroundProperties(e, g)

	if b.shape.isDynamic(g) {
		b.log.Debug("geometry classified",
			zap.String("entity", e.ID),
			zap.Stringer("strategy", StrategyDynamic))
		if !b.dynamic {
			b.dynamic = true
			b.raiseGeometryChanged()
		}
		return
	}

	b.shape.setStaticOptions(g)
	b.closed = b.shape.isClosed()
	b.outlineWidth = 1
	if g.OutlineWidth != nil {
		b.outlineWidth = property.ValueOrDefault(g.OutlineWidth, property.MinimumTime, 1)
	}
	b.dynamic = false
	b.log.Debug("geometry classified",
		zap.String("entity", e.ID),
		zap.Stringer("strategy", b.Strategy()),
		zap.Bool("closed", b.closed),
		zap.Bool("fill", b.fillEnabled),
		zap.Bool("outline", b.outlineEnabled))
	b.raiseGeometryChanged()
}

// updateGroundProperties refreshes the z-index and terrain offset used by
// ground and height-referenced geometry.
func (b *Base) updateGroundProperties(e *entity.Entity, g graphics) {
	if g.ZIndex != nil && (g.Height != nil || g.ExtrudedHeight != nil) {
		b.warnOnce("zIndex", "entity geometry with zIndex also has a height or extruded height; zIndex will be ignored",
			zap.String("entity", e.ID))
	}
	b.zIndexProperty = orDefault[property.Property[float64]](g.ZIndex, defaultZIndex)

	if g.Height.MissingHeight() || g.ExtrudedHeight.MissingHeight() {
		b.warnOnce("heightReference", "entity geometry has a height reference but no height; the height stays undefined",
			zap.String("entity", e.ID))
	}

	b.terrainOffset = nil
	if g.Height.IsReferenced() || g.ExtrudedHeight.IsReferenced() {
		b.terrainOffset = &TerrainOffset{
			Height:         g.Height,
			ExtrudedHeight: g.ExtrudedHeight,
			Terrain:        b.terrain,
			Center:         b.shape.centerCartographic,
		}
	}
}

// isHiddenAt is the time-dependent hidden check shared by dynamic updaters.
func (b *Base) isHiddenAt(g graphics, t time.Time) bool {
	return !b.entity.IsShowing() ||
		!b.entity.IsAvailable(t) ||
		!property.ValueOrDefault(g.Show, t, true)
}

// isHiddenStatic hides geometry whose show flag is constantly false.
func isHiddenStatic(g graphics) bool {
	if g.Show == nil || !g.Show.IsConstant() {
		return false
	}
	show, _ := g.Show.Value(property.MinimumTime)
	return !show
}

func (b *Base) observes(name string) bool {
	for _, n := range b.observed {
		if n == name {
			return true
		}
	}
	return false
}

func (b *Base) warnOnce(key, msg string, fields ...zap.Field) {
	if b.warned == nil {
		b.warned = make(map[string]bool)
	}
	if b.warned[key] {
		return
	}
	b.warned[key] = true
	b.log.Warn(msg, fields...)
}

// orDefault returns v unless it is a nil interface.
func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
