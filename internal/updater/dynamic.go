package updater

import (
	"time"

	"github.com/Faultbox/rectsync/internal/geometry"
)

// DynamicRectangle resamples a dynamic rectangle every frame. It shares the
// options record of the Rectangle that created it.
type DynamicRectangle struct {
	updater *Rectangle
	hidden  bool
}

var _ DynamicUpdater = (*DynamicRectangle)(nil)

// Update resamples all rectangle properties at t. It reports hidden when the
// coordinates are undefined at t or the entity is not shown or available.
func (d *DynamicRectangle) Update(t time.Time) bool {
	r := d.updater
	rect := r.entity.Rectangle()
	if r.destroyed || rect == nil {
		d.hidden = true
		return true
	}
	r.syncOptions(rect, t)

	g, _ := r.graphics()
	d.hidden = !r.options.Rectangle.Valid || r.isHiddenAt(g, t)
	return d.hidden
}

// Instances builds the fill and outline instances for the last Update.
// Hidden frames produce no instances.
func (d *DynamicRectangle) Instances(t time.Time) ([]*geometry.Instance, error) {
	if d.hidden {
		return nil, nil
	}
	r := d.updater

	var instances []*geometry.Instance
	if r.fillEnabled {
		fill, err := r.CreateFillGeometryInstance(t)
		if err != nil {
			return nil, err
		}
		instances = append(instances, fill)
	}
	if !r.onTerrain && r.outlineEnabled {
		outline, err := r.CreateOutlineGeometryInstance(t)
		if err != nil {
			return nil, err
		}
		instances = append(instances, outline)
	}
	return instances, nil
}
