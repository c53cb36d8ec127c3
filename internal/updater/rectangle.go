package updater

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/rectsync/internal/entity"
	"github.com/Faultbox/rectsync/internal/geometry"
	"github.com/Faultbox/rectsync/internal/property"
	"github.com/Faultbox/rectsync/pkg/geodesy"
)

// Rectangle is the GeometryUpdater for rectangle graphics.
type Rectangle struct {
	Base

	options *geometry.RectangleOptions
	// scratch resolves the rotated bounds for clamp-to-ground extrusion.
	scratch geometry.RectangleGeometry
}

var _ GeometryUpdater = (*Rectangle)(nil)

// NewRectangle creates an updater for e and classifies its current graphics.
func NewRectangle(e *entity.Entity, cfg Config) *Rectangle {
	r := &Rectangle{
		options: geometry.NewRectangleOptions(e),
	}
	r.init(e, cfg, r, r, entity.PropertyAvailability, entity.PropertyRectangle)
	r.OnEntityPropertyChanged(e, entity.PropertyRectangle, e.Rectangle(), nil)
	return r
}

// Options returns the options record. It is updated in place and must not be
// retained across property changes or frames.
func (r *Rectangle) Options() *geometry.RectangleOptions {
	return r.options
}

func (r *Rectangle) graphics() (graphics, bool) {
	g := r.entity.Rectangle()
	if g == nil {
		return graphics{}, false
	}
	return graphics{
		Show:                     g.Show,
		Fill:                     g.Fill,
		Material:                 g.Material,
		Outline:                  g.Outline,
		OutlineColor:             g.OutlineColor,
		OutlineWidth:             g.OutlineWidth,
		DistanceDisplayCondition: g.DistanceDisplayCondition,
		ZIndex:                   g.ZIndex,
		Height:                   g.Height,
		ExtrudedHeight:           g.ExtrudedHeight,
	}, true
}

func (r *Rectangle) isHidden(g graphics) bool {
	return r.entity.Rectangle().Coordinates == nil || isHiddenStatic(g)
}

func (r *Rectangle) isOnTerrain(g graphics) bool {
	return r.fillEnabled &&
		g.Height == nil &&
		g.ExtrudedHeight == nil &&
		r.scene.SupportsGroundPrimitives()
}

func (r *Rectangle) isDynamic(g graphics) bool {
	rect := r.entity.Rectangle()
	return !property.IsConstant(rect.Coordinates) ||
		!g.Height.IsConstant() ||
		!g.ExtrudedHeight.IsConstant() ||
		!property.IsConstant(rect.Granularity) ||
		!property.IsConstant(rect.StRotation) ||
		!property.IsConstant(rect.Rotation) ||
		!property.IsConstant(g.OutlineWidth) ||
		!property.IsConstant(g.ZIndex) ||
		(r.onTerrain && !r.materialProperty.IsConstant())
}

func (r *Rectangle) setStaticOptions(graphics) {
	r.syncOptions(r.entity.Rectangle(), property.MinimumTime)
}

// syncOptions samples every rectangle property at t into the options record.
// Each field is refreshed independently; undefined values clear the field.
func (r *Rectangle) syncOptions(g *entity.RectangleGraphics, t time.Time) {
	o := r.options
	o.VertexFormat = geometry.VertexFormatTextured
	if _, ok := r.materialProperty.(*entity.ColorMaterial); ok {
		o.VertexFormat = geometry.VertexFormatPerInstanceColor
	}
	o.Rectangle = property.ValueOrUndefined(g.Coordinates, t)
	o.Height = heightAt(g.Height, t)
	o.ExtrudedHeight = heightAt(g.ExtrudedHeight, t)
	o.Granularity = property.ValueOrUndefined(g.Granularity, t)
	o.StRotation = property.ValueOrUndefined(g.StRotation, t)
	o.Rotation = property.ValueOrUndefined(g.Rotation, t)
	o.OffsetAttribute = ComputeOffsetAttribute(g.Height, g.ExtrudedHeight, t)

	r.resolveClampedExtrusion(g.ExtrudedHeight, t)
}

// resolveClampedExtrusion replaces a ground-clamped extrusion with the lowest
// terrain under the rectangle. The tentative options must already be set:
// the terrain query depends on the rotated bounds they resolve to.
func (r *Rectangle) resolveClampedExtrusion(extruded *entity.HeightProperty, t time.Time) {
	if extruded.ReferenceAt(t) != entity.ClampToGround {
		return
	}
	if err := r.scratch.SetOptions(r.options); err != nil {
		return
	}
	r.options.ExtrudedHeight = property.Some(r.terrain.MinimumHeight(r.scratch.BoundingRectangle()))
}

func (r *Rectangle) isClosed() bool {
	return IsClosed(r.options)
}

// IsClosed reports whether options describe a closed volume: a surface at
// height zero, or an extrusion whose floor differs from its height.
func IsClosed(o *geometry.RectangleOptions) bool {
	return (o.Height.Valid && o.Height.Value == 0) ||
		(o.ExtrudedHeight.Valid && (!o.Height.Valid || o.ExtrudedHeight.Value != o.Height.Value))
}

// CreateFillGeometryInstance builds the filled rectangle for t.
func (r *Rectangle) CreateFillGeometryInstance(t time.Time) (*geometry.Instance, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	if !r.fillEnabled {
		return nil, ErrNotFilled
	}

	g, err := geometry.NewRectangleGeometry(r.options)
	if err != nil {
		return nil, fmt.Errorf("fill instance for %s: %w", r.entity.ID, err)
	}
	inst := &geometry.Instance{ID: r.entity, Geometry: g, Attributes: make(map[string]geometry.Attribute, 4)}
	r.fillAttributes(inst.Attributes, t)
	return inst, nil
}

// RefreshFillAttributes re-evaluates show, color, distance display condition
// and offset of a fill instance at t. The geometry is left untouched.
func (r *Rectangle) RefreshFillAttributes(inst *geometry.Instance, t time.Time) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if !r.fillEnabled {
		return ErrNotFilled
	}
	r.fillAttributes(inst.Attributes, t)
	return nil
}

func (r *Rectangle) fillAttributes(attributes map[string]geometry.Attribute, t time.Time) {
	e := r.entity
	available := e.IsAvailable(t)
	show := available &&
		e.IsShowing() &&
		property.ValueOrDefault(r.showProperty, t, false) &&
		property.ValueOrDefault(r.fillProperty, t, false)

	r.commonAttributes(attributes, t, show)
	if cm, ok := r.materialProperty.(*entity.ColorMaterial); ok {
		color := entity.White
		if cm.Color != nil && (cm.Color.IsConstant() || available) {
			if c, ok := cm.Color.Value(t); ok {
				color = c
			}
		}
		attributes[geometry.AttributeColor] = geometry.NewColorAttribute(color.Bytes())
	} else {
		delete(attributes, geometry.AttributeColor)
	}
}

// CreateOutlineGeometryInstance builds the rectangle outline for t.
func (r *Rectangle) CreateOutlineGeometryInstance(t time.Time) (*geometry.Instance, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	if !r.outlineEnabled {
		return nil, ErrNotOutlined
	}

	g, err := geometry.NewRectangleOutlineGeometry(r.options)
	if err != nil {
		return nil, fmt.Errorf("outline instance for %s: %w", r.entity.ID, err)
	}
	inst := &geometry.Instance{ID: r.entity, Geometry: g, Attributes: make(map[string]geometry.Attribute, 4)}
	r.outlineAttributes(inst.Attributes, t)
	return inst, nil
}

// RefreshOutlineAttributes re-evaluates the attributes of an outline
// instance at t.
func (r *Rectangle) RefreshOutlineAttributes(inst *geometry.Instance, t time.Time) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if !r.outlineEnabled {
		return ErrNotOutlined
	}
	r.outlineAttributes(inst.Attributes, t)
	return nil
}

func (r *Rectangle) outlineAttributes(attributes map[string]geometry.Attribute, t time.Time) {
	e := r.entity
	show := e.IsAvailable(t) &&
		e.IsShowing() &&
		property.ValueOrDefault(r.showProperty, t, false) &&
		property.ValueOrDefault(r.showOutlineProperty, t, false)
	outlineColor := property.ValueOrDefault(r.outlineColorProperty, t, entity.Black)

	r.commonAttributes(attributes, t, show)
	attributes[geometry.AttributeColor] = geometry.NewColorAttribute(outlineColor.Bytes())
}

func (r *Rectangle) commonAttributes(attributes map[string]geometry.Attribute, t time.Time, show bool) {
	ddc := property.ValueOrDefault(r.ddcProperty, t, entity.DefaultDistanceDisplayCondition)
	offset := property.ValueOrDefault(r.terrainOffset, t, mgl64.Vec3{})
	attributes[geometry.AttributeShow] = geometry.NewShowAttribute(show)
	attributes[geometry.AttributeDistanceDisplayCondition] = geometry.NewDistanceDisplayConditionAttribute(ddc.Near, ddc.Far)
	attributes[geometry.AttributeOffset] = geometry.NewOffsetAttribute(offset)
}

// ComputeCenter returns the rectangle center at t in Earth-fixed coordinates,
// or false when the coordinates are undefined at t.
func (r *Rectangle) ComputeCenter(t time.Time) (mgl64.Vec3, bool) {
	c, ok := r.centerCartographic(t)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return geodesy.WGS84.ToCartesian(c), true
}

func (r *Rectangle) centerCartographic(t time.Time) (geodesy.Cartographic, bool) {
	g := r.entity.Rectangle()
	if g == nil {
		return geodesy.Cartographic{}, false
	}
	rect := property.ValueOrUndefined(g.Coordinates, t)
	if !rect.Valid {
		return geodesy.Cartographic{}, false
	}
	return rect.Value.Center(), true
}

// CreateDynamicUpdater returns the per-frame updater for a dynamic rectangle.
func (r *Rectangle) CreateDynamicUpdater() (DynamicUpdater, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	if !r.dynamic {
		return nil, ErrNotDynamic
	}
	return &DynamicRectangle{updater: r}, nil
}

func heightAt(h *entity.HeightProperty, t time.Time) property.Optional[float64] {
	if h == nil {
		return property.Optional[float64]{}
	}
	v, ok := h.Value(t)
	return property.Optional[float64]{Value: v, Valid: ok}
}
