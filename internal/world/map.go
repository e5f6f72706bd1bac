package world

import (
	"github.com/vinnievg/pyland/internal/core/object"
	"github.com/vinnievg/pyland/internal/render"
)

// Layer is one drawable tile layer. Layers are ordered bottom to top.
type Layer struct {
	name      string
	component render.Component
}

func NewLayer(name string, c render.Component) *Layer {
	return &Layer{name: name, component: c}
}

func (l *Layer) Name() string { return l.name }
func (l *Layer) RenderComponent() render.Component { return l.component }

// Map is one tile world: its layers plus the ids of the sprites and map
// objects placed on it. The id lists hold non-owning back-references into
// the object registry; slot value 0 means empty. Consumers re-resolve ids
// per use.
type Map struct {
	width   int
	height  int
	layers  []*Layer
	sprites []object.ID
	objects []object.ID
}

func NewMap(width, height int) *Map {
	return &Map{width: width, height: height}
}

func (m *Map) Width() int { return m.width }
func (m *Map) Height() int { return m.height }

func (m *Map) Layers() []*Layer { return m.layers }

func (m *Map) AddLayer(l *Layer) {
	m.layers = append(m.layers, l)
}

// Sprites returns the sprite id list, empty slots included.
func (m *Map) Sprites() []object.ID { return m.sprites }

// MapObjects returns the map-object id list, empty slots included.
func (m *Map) MapObjects() []object.ID { return m.objects }

// AddSprite places a sprite id on the map, reusing an empty slot if any.
func (m *Map) AddSprite(id object.ID) {
	m.sprites = addID(m.sprites, id)
}

// RemoveSprite blanks the sprite's slot. The slot stays in the list so other
// indices remain stable.
func (m *Map) RemoveSprite(id object.ID) {
	removeID(m.sprites, id)
}

func (m *Map) AddMapObject(id object.ID) {
	m.objects = addID(m.objects, id)
}

func (m *Map) RemoveMapObject(id object.ID) {
	removeID(m.objects, id)
}

func addID(list []object.ID, id object.ID) []object.ID {
	if id == object.None {
		return list
	}
	for i, v := range list {
		if v == object.None {
			list[i] = id
			return list
		}
	}
	return append(list, id)
}

func removeID(list []object.ID, id object.ID) {
	for i, v := range list {
		if v == id {
			list[i] = object.None
			return
		}
	}
}
