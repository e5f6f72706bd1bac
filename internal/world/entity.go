package world

import (
	"github.com/vinnievg/pyland/internal/core/object"
	"github.com/vinnievg/pyland/internal/render"
)

// Position is a location in tile units. Entities sit on fractional positions
// while animating between tiles.
type Position struct {
	X, Y float32
}

// Walkability marks whether an entity blocks movement across its tile.
type Walkability int

const (
	Walkable Walkability = iota
	Blocked
)

// Entity is the state shared by every registrable map inhabitant: identity,
// name, tile position and the renderable component drawn by the orchestrator.
type Entity struct {
	id          object.ID
	name        string
	pos         Position
	walkability Walkability
	component   render.Component
}

func newEntity(pos Position, name string, w Walkability, c render.Component) Entity {
	return Entity{
		name:        name,
		pos:         pos,
		walkability: w,
		component:   c,
	}
}

func (e *Entity) ObjectID() object.ID { return e.id }
func (e *Entity) SetObjectID(id object.ID) { e.id = id }

func (e *Entity) Name() string { return e.name }
func (e *Entity) Position() Position { return e.pos }
func (e *Entity) SetPosition(p Position) { e.pos = p }
func (e *Entity) Walkability() Walkability { return e.walkability }

func (e *Entity) RenderComponent() render.Component { return e.component }

// Sprite is a scriptable character on the map. The camera can focus on it.
type Sprite struct {
	Entity
}

func NewSprite(pos Position, name string, w Walkability, c render.Component) *Sprite {
	return &Sprite{Entity: newEntity(pos, name, w, c)}
}

// MapObject is static scenery placed on the map.
type MapObject struct {
	Entity
}

func NewMapObject(pos Position, name string, w Walkability, c render.Component) *MapObject {
	return &MapObject{Entity: newEntity(pos, name, w, c)}
}
