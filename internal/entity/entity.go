// Package entity implements time-addressable visualized entities and their
// rectangle graphics.
package entity

import (
	"time"

	"github.com/Faultbox/rectsync/internal/property"
)

// Property names reported to change listeners.
const (
	PropertyAvailability = "availability"
	PropertyRectangle    = "rectangle"
	PropertyShow         = "show"
)

// ChangeFunc is called when an entity property is replaced.
type ChangeFunc func(e *Entity, name string, newValue, oldValue any)

// Entity is a declaratively described object with time-varying graphics.
type Entity struct {
	ID     string
	Name   string
	Parent *Entity

	show         bool
	availability property.Availability
	rectangle    *RectangleGraphics

	listeners map[int]ChangeFunc
	nextID    int
}

// New creates a visible, always-available entity.
func New(id string) *Entity {
	return &Entity{
		ID:   id,
		show: true,
	}
}

// IsAvailable reports whether the entity exists at t.
func (e *Entity) IsAvailable(t time.Time) bool {
	return e.availability.Contains(t)
}

// IsShowing reports whether the entity and all its parents are shown.
func (e *Entity) IsShowing() bool {
	for p := e; p != nil; p = p.Parent {
		if !p.show {
			return false
		}
	}
	return true
}

// Show returns the entity-level show flag.
func (e *Entity) Show() bool {
	return e.show
}

// SetShow changes the entity-level show flag.
func (e *Entity) SetShow(show bool) {
	old := e.show
	if old == show {
		return
	}
	e.show = show
	e.notify(PropertyShow, show, old)
}

// Availability returns the entity's availability intervals.
func (e *Entity) Availability() property.Availability {
	return e.availability
}

// SetAvailability replaces the availability intervals. Nil means always available.
func (e *Entity) SetAvailability(a property.Availability) {
	old := e.availability
	e.availability = a
	e.notify(PropertyAvailability, a, old)
}

// Rectangle returns the rectangle graphics, or nil.
func (e *Entity) Rectangle() *RectangleGraphics {
	return e.rectangle
}

// SetRectangle replaces the rectangle graphics. Setting the same value again
// still notifies listeners, which is how in-place edits are published.
func (e *Entity) SetRectangle(g *RectangleGraphics) {
	old := e.rectangle
	e.rectangle = g
	e.notify(PropertyRectangle, g, old)
}

// OnPropertyChanged registers fn and returns a function that removes it.
func (e *Entity) OnPropertyChanged(fn ChangeFunc) (remove func()) {
	if e.listeners == nil {
		e.listeners = make(map[int]ChangeFunc)
	}
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		delete(e.listeners, id)
	}
}

func (e *Entity) notify(name string, newValue, oldValue any) {
	for _, fn := range e.listeners {
		fn(e, name, newValue, oldValue)
	}
}
