// Package updater turns entity graphics into geometry instances and decides
// how each entity is rendered: batched static geometry, per-frame dynamic
// geometry or ground-clamped terrain geometry.
package updater

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/rectsync/internal/entity"
	"github.com/Faultbox/rectsync/internal/geometry"
	"github.com/Faultbox/rectsync/internal/logger"
	"github.com/Faultbox/rectsync/internal/terrain"
)

var (
	// ErrNotFilled is returned when a fill instance is requested from an
	// updater whose fill is disabled.
	ErrNotFilled = errors.New("updater: this instance does not represent a filled geometry")
	// ErrNotOutlined is returned when an outline instance is requested from
	// an updater whose outline is disabled.
	ErrNotOutlined = errors.New("updater: this instance does not represent an outlined geometry")
	// ErrNotDynamic is returned when a dynamic updater is requested for a
	// static entity.
	ErrNotDynamic = errors.New("updater: this instance does not represent dynamic geometry")
	// ErrDestroyed is returned by updaters used after Destroy.
	ErrDestroyed = errors.New("updater: destroyed")
)

// Scene reports the capabilities of the rendering surface.
type Scene interface {
	SupportsGroundPrimitives() bool
	SupportsMaterialsOnTerrain() bool
}

// StaticScene is a Scene with fixed capabilities.
type StaticScene struct {
	GroundPrimitives   bool
	MaterialsOnTerrain bool
}

// SupportsGroundPrimitives reports whether ground-clamped primitives can be drawn.
func (s StaticScene) SupportsGroundPrimitives() bool { return s.GroundPrimitives }

// SupportsMaterialsOnTerrain reports whether non-color materials can be draped on terrain.
func (s StaticScene) SupportsMaterialsOnTerrain() bool { return s.MaterialsOnTerrain }

// Config holds the collaborators an updater needs.
type Config struct {
	Scene   Scene
	Terrain terrain.Sampler
	// Logger defaults to the "updater" child of the global logger.
	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Scene == nil {
		c.Scene = StaticScene{}
	}
	if c.Terrain == nil {
		c.Terrain = terrain.Constant{Height: terrain.DefaultMinimumHeight}
	}
	if c.Logger == nil {
		c.Logger = logger.Named("updater")
	}
	return c
}

// Strategy is the rendering code path an entity currently needs.
type Strategy int

const (
	// StrategyNone means there is nothing to draw.
	StrategyNone Strategy = iota
	// StrategyStatic is geometry built once and batched.
	StrategyStatic
	// StrategyGround is static geometry clamped to terrain.
	StrategyGround
	// StrategyDynamic is geometry rebuilt every frame.
	StrategyDynamic
)

// String returns a readable name.
func (s Strategy) String() string {
	switch s {
	case StrategyStatic:
		return "static"
	case StrategyGround:
		return "ground"
	case StrategyDynamic:
		return "dynamic"
	default:
		return "none"
	}
}

// GeometryUpdater is what a visualizer needs from a geometry kind.
type GeometryUpdater interface {
	Entity() *entity.Entity
	FillEnabled() bool
	OutlineEnabled() bool
	IsDynamic() bool
	OnTerrain() bool
	IsClosed() bool
	HasConstantFill() bool
	HasConstantOutline() bool
	ZIndex(t time.Time) float64
	Strategy() Strategy
	CreateFillGeometryInstance(t time.Time) (*geometry.Instance, error)
	CreateOutlineGeometryInstance(t time.Time) (*geometry.Instance, error)
	RefreshFillAttributes(inst *geometry.Instance, t time.Time) error
	RefreshOutlineAttributes(inst *geometry.Instance, t time.Time) error
	CreateDynamicUpdater() (DynamicUpdater, error)
	OnGeometryChanged(fn func(GeometryUpdater)) (remove func())
	Destroy()
}

// DynamicUpdater refreshes geometry options every frame.
type DynamicUpdater interface {
	// Update resamples the options at t and reports whether the geometry
	// is hidden. Hidden geometry must not be built for this frame.
	Update(t time.Time) (hidden bool)
	// Instances builds the fill and outline instances for the last Update.
	Instances(t time.Time) ([]*geometry.Instance, error)
}
