// Package visualizer drives geometry updaters for a set of entities and
// groups the resulting instances by rendering strategy.
package visualizer

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/rectsync/internal/entity"
	"github.com/Faultbox/rectsync/internal/geometry"
	"github.com/Faultbox/rectsync/internal/logger"
	"github.com/Faultbox/rectsync/internal/updater"
)

// Frame is the geometry to draw at one time.
type Frame struct {
	Time    time.Time
	Static  []*geometry.Instance
	Ground  []*geometry.Instance
	Dynamic []*geometry.Instance
	Hidden  int
}

// Count returns the total number of instances in the frame.
func (f *Frame) Count() int {
	return len(f.Static) + len(f.Ground) + len(f.Dynamic)
}

type item struct {
	updater   updater.GeometryUpdater
	dynamic   updater.DynamicUpdater
	fill      *geometry.Instance
	outline   *geometry.Instance
	instances []*geometry.Instance
	dirty     bool
	remove    func()
}

// Visualizer owns one updater per entity.
type Visualizer struct {
	cfg   updater.Config
	items map[string]*item
	order []string
	log   *zap.Logger
}

// New creates an empty visualizer.
func New(cfg updater.Config) *Visualizer {
	return &Visualizer{
		cfg:   cfg,
		items: make(map[string]*item),
		log:   logger.Named("visualizer"),
	}
}

// Add starts visualizing e. Adding an entity twice replaces its updater.
func (v *Visualizer) Add(e *entity.Entity) {
	if _, ok := v.items[e.ID]; ok {
		v.Remove(e.ID)
	}

	it := &item{dirty: true}
	it.updater = updater.NewRectangle(e, v.cfg)
	it.remove = it.updater.OnGeometryChanged(func(updater.GeometryUpdater) {
		it.dirty = true
		it.dynamic = nil
	})
	v.items[e.ID] = it
	v.order = append(v.order, e.ID)

	v.log.Debug("entity added",
		zap.String("entity", e.ID),
		zap.Stringer("strategy", it.updater.Strategy()))
}

// Remove stops visualizing the entity with the given ID.
func (v *Visualizer) Remove(id string) bool {
	it, ok := v.items[id]
	if !ok {
		return false
	}
	it.remove()
	it.updater.Destroy()
	delete(v.items, id)
	for i, o := range v.order {
		if o == id {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
	return true
}

// Updater returns the updater for an entity.
func (v *Visualizer) Updater(id string) (updater.GeometryUpdater, bool) {
	it, ok := v.items[id]
	if !ok {
		return nil, false
	}
	return it.updater, true
}

// Len returns the number of visualized entities.
func (v *Visualizer) Len() int {
	return len(v.items)
}

// Update evaluates every entity at t. Static and ground geometry is rebuilt
// only when its updater reported a change; otherwise the cached instances get
// their show, color, distance display condition and offset refreshed for t.
func (v *Visualizer) Update(t time.Time) (*Frame, error) {
	frame := &Frame{Time: t}
	type zIndexed struct {
		z    float64
		inst *geometry.Instance
	}
	var ground []zIndexed

	for _, id := range v.order {
		it := v.items[id]
		u := it.updater

		switch u.Strategy() {
		case updater.StrategyNone:
			continue
		case updater.StrategyDynamic:
			if it.dynamic == nil {
				d, err := u.CreateDynamicUpdater()
				if err != nil {
					return nil, fmt.Errorf("entity %s: %w", id, err)
				}
				it.dynamic = d
			}
			if it.dynamic.Update(t) {
				frame.Hidden++
				continue
			}
			instances, err := it.dynamic.Instances(t)
			if err != nil {
				return nil, fmt.Errorf("entity %s: %w", id, err)
			}
			frame.Dynamic = append(frame.Dynamic, instances...)
		default:
			var err error
			if it.dirty {
				err = it.rebuild(t)
			} else {
				err = it.refresh(t)
			}
			if err != nil {
				return nil, fmt.Errorf("entity %s: %w", id, err)
			}
			if u.Strategy() == updater.StrategyGround {
				z := u.ZIndex(t)
				for _, inst := range it.instances {
					ground = append(ground, zIndexed{z: z, inst: inst})
				}
				continue
			}
			frame.Static = append(frame.Static, it.instances...)
		}
	}

	sort.SliceStable(ground, func(i, j int) bool {
		return ground[i].z < ground[j].z
	})
	for _, g := range ground {
		frame.Ground = append(frame.Ground, g.inst)
	}
	return frame, nil
}

func (it *item) rebuild(t time.Time) error {
	it.fill, it.outline = nil, nil
	it.instances = it.instances[:0]
	if it.updater.FillEnabled() {
		inst, err := it.updater.CreateFillGeometryInstance(t)
		if err != nil {
			return err
		}
		it.fill = inst
		it.instances = append(it.instances, inst)
	}
	if it.updater.OutlineEnabled() {
		inst, err := it.updater.CreateOutlineGeometryInstance(t)
		if err != nil {
			return err
		}
		it.outline = inst
		it.instances = append(it.instances, inst)
	}
	it.dirty = false
	return nil
}

func (it *item) refresh(t time.Time) error {
	if it.fill != nil {
		if err := it.updater.RefreshFillAttributes(it.fill, t); err != nil {
			return err
		}
	}
	if it.outline != nil {
		if err := it.updater.RefreshOutlineAttributes(it.outline, t); err != nil {
			return err
		}
	}
	return nil
}

// Close destroys every updater.
func (v *Visualizer) Close() {
	for _, id := range append([]string(nil), v.order...) {
		v.Remove(id)
	}
}
