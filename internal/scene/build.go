package scene

import (
	"fmt"
	"math"

	"github.com/Faultbox/rectsync/internal/entity"
	"github.com/Faultbox/rectsync/internal/property"
	"github.com/Faultbox/rectsync/pkg/geodesy"
)

func buildEntity(ed *entityDoc) (*entity.Entity, error) {
	e := entity.New(ed.ID)
	e.Name = ed.Name
	if ed.Show != nil {
		e.SetShow(*ed.Show)
	}
	if len(ed.Availability) > 0 {
		a := make(property.Availability, 0, len(ed.Availability))
		for _, iv := range ed.Availability {
			if iv.Stop.Before(iv.Start) {
				return nil, fmt.Errorf("availability stop %v is before start %v", iv.Stop, iv.Start)
			}
			a = append(a, property.Interval{Start: iv.Start, Stop: iv.Stop})
		}
		e.SetAvailability(a)
	}
	if ed.Rectangle != nil {
		g, err := buildRectangle(ed.Rectangle)
		if err != nil {
			return nil, fmt.Errorf("rectangle: %w", err)
		}
		e.SetRectangle(g)
	}
	return e, nil
}

// errs keeps the first error met while building a set of fields.
type errs struct{ err error }

func field[D, T any](e *errs, name string, d *propertyDoc[D], conv func(D) (T, error), lerp property.LerpFunc[T]) property.Property[T] {
	if e.err != nil {
		return nil
	}
	p, err := convert(d, conv, lerp)
	if err != nil {
		e.err = fmt.Errorf("%s: %w", name, err)
	}
	return p
}

func buildRectangle(d *rectangleGraphicsDoc) (*entity.RectangleGraphics, error) {
	var e errs
	g := &entity.RectangleGraphics{
		Show:                     field(&e, "show", d.Show, same[bool], nil),
		Coordinates:              field(&e, "coordinates", d.Coordinates, rectangleDoc.toRadians, entity.LerpRectangle),
		Granularity:              field(&e, "granularity", d.Granularity, degrees, property.LerpFloat),
		StRotation:               field(&e, "st_rotation", d.StRotation, degrees, property.LerpFloat),
		Rotation:                 field(&e, "rotation", d.Rotation, degrees, property.LerpFloat),
		Fill:                     field(&e, "fill", d.Fill, same[bool], nil),
		Outline:                  field(&e, "outline", d.Outline, same[bool], nil),
		OutlineColor:             field(&e, "outline_color", d.OutlineColor, entity.ParseColor, entity.LerpColor),
		OutlineWidth:             field(&e, "outline_width", d.OutlineWidth, same[float64], property.LerpFloat),
		DistanceDisplayCondition: field(&e, "distance_display_condition", d.DistanceDisplayCondition, ddcDoc.condition, nil),
		ZIndex:                   field(&e, "z_index", d.ZIndex, same[float64], nil),
	}
	if e.err != nil {
		return nil, e.err
	}

	var err error
	if g.Height, err = buildHeight(d.Height); err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	if g.ExtrudedHeight, err = buildHeight(d.ExtrudedHeight); err != nil {
		return nil, fmt.Errorf("extruded_height: %w", err)
	}
	if g.Material, err = buildMaterial(d.Material); err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}
	return g, nil
}

func buildHeight(d *heightDoc) (*entity.HeightProperty, error) {
	if d == nil {
		return nil, nil
	}
	h, err := convert(d.Value, same[float64], property.LerpFloat)
	if err != nil {
		return nil, err
	}
	ref, err := convert(d.Reference, parseHeightReference, nil)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	if h == nil && ref == nil {
		return nil, fmt.Errorf("needs a value or a reference")
	}
	return &entity.HeightProperty{Height: h, Reference: ref}, nil
}

func buildMaterial(d *materialDoc) (entity.Material, error) {
	if d == nil {
		return nil, nil
	}
	color, err := convert(d.Color, entity.ParseColor, entity.LerpColor)
	if err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}
	if d.Image == nil {
		if d.Repeat != nil {
			return nil, fmt.Errorf("repeat without image")
		}
		return &entity.ColorMaterial{Color: color}, nil
	}

	image, err := convert(d.Image, same[string], nil)
	if err != nil {
		return nil, fmt.Errorf("image: %w", err)
	}
	repeat, err := convert(d.Repeat, same[[2]float64], nil)
	if err != nil {
		return nil, fmt.Errorf("repeat: %w", err)
	}
	return &entity.ImageMaterial{Image: image, Repeat: repeat, Color: color}, nil
}

// convert turns a document property into a runtime property. A nil lerp
// makes sampled values step rather than interpolate.
func convert[D, T any](d *propertyDoc[D], conv func(D) (T, error), lerp property.LerpFunc[T]) (property.Property[T], error) {
	if d == nil {
		return nil, nil
	}

	switch {
	case d.Value != nil:
		v, err := conv(*d.Value)
		if err != nil {
			return nil, err
		}
		return property.NewConstant(v), nil

	case len(d.Samples) > 0:
		samples := make([]property.Sample[T], len(d.Samples))
		for i, s := range d.Samples {
			v, err := conv(s.Value)
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			samples[i] = property.Sample[T]{Time: s.Time, Value: v}
		}
		return property.NewSampled(lerp, samples...), nil

	default:
		intervals := make([]property.IntervalValue[T], len(d.Intervals))
		for i, iv := range d.Intervals {
			if iv.Stop.Before(iv.Start) {
				return nil, fmt.Errorf("interval %d: stop is before start", i)
			}
			v, err := conv(iv.Value)
			if err != nil {
				return nil, fmt.Errorf("interval %d: %w", i, err)
			}
			intervals[i] = property.IntervalValue[T]{
				Interval: property.Interval{Start: iv.Start, Stop: iv.Stop},
				Value:    v,
			}
		}
		return property.NewIntervals(intervals...), nil
	}
}

func same[T any](v T) (T, error) { return v, nil }

// degrees converts angles written in degrees.
func degrees(v float64) (float64, error) {
	return v * geodesy.RadiansPerDegree, nil
}

func (r rectangleDoc) radians() geodesy.Rectangle {
	return geodesy.FromDegrees(r.West, r.South, r.East, r.North)
}

func (r rectangleDoc) toRadians() (geodesy.Rectangle, error) {
	if r.South > r.North {
		return geodesy.Rectangle{}, fmt.Errorf("south %v is above north %v", r.South, r.North)
	}
	if r.South < -90 || r.North > 90 {
		return geodesy.Rectangle{}, fmt.Errorf("latitude out of range [%v, %v]", r.South, r.North)
	}
	return r.radians(), nil
}

func (d ddcDoc) condition() (entity.DistanceDisplayCondition, error) {
	far := math.MaxFloat64
	if d.Far != nil {
		far = *d.Far
	}
	if far < d.Near {
		return entity.DistanceDisplayCondition{}, fmt.Errorf("far %v is below near %v", far, d.Near)
	}
	return entity.DistanceDisplayCondition{Near: d.Near, Far: far}, nil
}

func parseHeightReference(s string) (entity.HeightReference, error) {
	for _, r := range []entity.HeightReference{entity.HeightNone, entity.ClampToGround, entity.RelativeToGround} {
		if r.String() == s {
			return r, nil
		}
	}
	return entity.HeightNone, fmt.Errorf("unknown height reference %q", s)
}
