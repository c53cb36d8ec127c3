// Package scene loads entity scenes from YAML documents. Angles and
// rectangle bounds are written in degrees; times are RFC 3339.
package scene

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rectsync/internal/entity"
	"github.com/Faultbox/rectsync/internal/terrain"
)

// Scene is a loaded set of entities plus optional terrain.
type Scene struct {
	Start    time.Time
	Stop     time.Time
	Entities []*entity.Entity
	// Terrain is nil when the document carries no heightmap.
	Terrain *terrain.Heightmap
}

// Entity returns the entity with the given ID.
func (s *Scene) Entity(id string) (*entity.Entity, bool) {
	for _, e := range s.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading scene %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading scene %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene document.
func Parse(data []byte) (*Scene, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	return build(&doc)
}

func build(doc *document) (*Scene, error) {
	s := &Scene{Start: doc.Start, Stop: doc.Stop}
	if !s.Stop.IsZero() && s.Stop.Before(s.Start) {
		return nil, fmt.Errorf("scene stop %v is before start %v", s.Stop, s.Start)
	}

	if doc.Terrain != nil {
		bounds, err := doc.Terrain.Bounds.toRadians()
		if err != nil {
			return nil, fmt.Errorf("terrain: %w", err)
		}
		hm, err := terrain.NewHeightmap(bounds, doc.Terrain.Heights)
		if err != nil {
			return nil, fmt.Errorf("terrain: %w", err)
		}
		s.Terrain = hm
	}

	byID := make(map[string]*entity.Entity, len(doc.Entities))
	for i := range doc.Entities {
		ed := &doc.Entities[i]
		if ed.ID == "" {
			return nil, fmt.Errorf("entity %d: missing id", i)
		}
		if _, dup := byID[ed.ID]; dup {
			return nil, fmt.Errorf("entity %s: duplicate id", ed.ID)
		}
		e, err := buildEntity(ed)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", ed.ID, err)
		}
		byID[ed.ID] = e
		s.Entities = append(s.Entities, e)
	}

	for i := range doc.Entities {
		ed := &doc.Entities[i]
		if ed.Parent == "" {
			continue
		}
		parent, ok := byID[ed.Parent]
		if !ok {
			return nil, fmt.Errorf("entity %s: unknown parent %s", ed.ID, ed.Parent)
		}
		byID[ed.ID].Parent = parent
	}
	for _, e := range s.Entities {
		if err := checkCycle(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func checkCycle(e *entity.Entity) error {
	seen := map[*entity.Entity]bool{}
	for p := e; p != nil; p = p.Parent {
		if seen[p] {
			return fmt.Errorf("entity %s: parent cycle", e.ID)
		}
		seen[p] = true
	}
	return nil
}
