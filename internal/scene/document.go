package scene

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// document is the on-disk layout of a scene file.
type document struct {
	Start    time.Time   `yaml:"start"`
	Stop     time.Time   `yaml:"stop"`
	Terrain  *terrainDoc `yaml:"terrain"`
	Entities []entityDoc `yaml:"entities"`
}

type terrainDoc struct {
	Bounds rectangleDoc `yaml:"bounds"`
	// Heights are rows of posts ordered south to north, west to east.
	Heights [][]float64 `yaml:"heights"`
}

type entityDoc struct {
	ID           string                `yaml:"id"`
	Name         string                `yaml:"name"`
	Parent       string                `yaml:"parent"`
	Show         *bool                 `yaml:"show"`
	Availability []intervalDoc         `yaml:"availability"`
	Rectangle    *rectangleGraphicsDoc `yaml:"rectangle"`
}

type intervalDoc struct {
	Start time.Time `yaml:"start"`
	Stop  time.Time `yaml:"stop"`
}

// rectangleDoc is a rectangle in degrees.
type rectangleDoc struct {
	West  float64 `yaml:"west"`
	South float64 `yaml:"south"`
	East  float64 `yaml:"east"`
	North float64 `yaml:"north"`
}

type ddcDoc struct {
	Near float64  `yaml:"near"`
	Far  *float64 `yaml:"far"`
}

type heightDoc struct {
	Value     *propertyDoc[float64] `yaml:"value"`
	Reference *propertyDoc[string]  `yaml:"reference"`
}

type materialDoc struct {
	Color  *propertyDoc[string]     `yaml:"color"`
	Image  *propertyDoc[string]     `yaml:"image"`
	Repeat *propertyDoc[[2]float64] `yaml:"repeat"`
}

type rectangleGraphicsDoc struct {
	Show                     *propertyDoc[bool]         `yaml:"show"`
	Coordinates              *propertyDoc[rectangleDoc] `yaml:"coordinates"`
	Height                   *heightDoc                 `yaml:"height"`
	ExtrudedHeight           *heightDoc                 `yaml:"extruded_height"`
	Granularity              *propertyDoc[float64]      `yaml:"granularity"`
	StRotation               *propertyDoc[float64]      `yaml:"st_rotation"`
	Rotation                 *propertyDoc[float64]      `yaml:"rotation"`
	Fill                     *propertyDoc[bool]         `yaml:"fill"`
	Material                 *materialDoc               `yaml:"material"`
	Outline                  *propertyDoc[bool]         `yaml:"outline"`
	OutlineColor             *propertyDoc[string]       `yaml:"outline_color"`
	OutlineWidth             *propertyDoc[float64]      `yaml:"outline_width"`
	DistanceDisplayCondition *propertyDoc[ddcDoc]       `yaml:"distance_display_condition"`
	ZIndex                   *propertyDoc[float64]      `yaml:"z_index"`
}

// propertyDoc is a time-varying value. It is written either as a plain
// scalar, or as a mapping with exactly one of value, samples or intervals.
type propertyDoc[T any] struct {
	Value     *T                    `yaml:"value"`
	Samples   []sampleDoc[T]        `yaml:"samples"`
	Intervals []intervalValueDoc[T] `yaml:"intervals"`
}

// rawProperty decodes the mapping form without recursing into UnmarshalYAML.
type rawProperty[T any] propertyDoc[T]

type sampleDoc[T any] struct {
	Time  time.Time `yaml:"time"`
	Value T         `yaml:"value"`
}

type intervalValueDoc[T any] struct {
	Start time.Time `yaml:"start"`
	Stop  time.Time `yaml:"stop"`
	Value T         `yaml:"value"`
}

// UnmarshalYAML accepts the scalar shorthand.
func (p *propertyDoc[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode || node.Kind == yaml.SequenceNode {
		var v T
		if err := node.Decode(&v); err != nil {
			return err
		}
		p.Value = &v
		return nil
	}

	var raw rawProperty[T]
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*p = propertyDoc[T](raw)

	set := 0
	if p.Value != nil {
		set++
	}
	if len(p.Samples) > 0 {
		set++
	}
	if len(p.Intervals) > 0 {
		set++
	}
	if set != 1 {
		return fmt.Errorf("line %d: property needs exactly one of value, samples or intervals", node.Line)
	}
	return nil
}
