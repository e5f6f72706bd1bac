package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vinnievg/pyland/internal/core/object"
	"github.com/vinnievg/pyland/internal/core/system"
	"github.com/vinnievg/pyland/internal/data"
	"github.com/vinnievg/pyland/internal/render"
	"github.com/vinnievg/pyland/internal/scripting"
	"github.com/vinnievg/pyland/internal/view"
	"github.com/vinnievg/pyland/internal/world"
)

// ComponentFactory builds the render component for one layer or entity.
// kind is "layer", "sprite" or "object".
type ComponentFactory func(kind, name string) render.Component

// Challenge owns one loaded level: the map, every entity it spawned, and
// their behaviour state. Closing a challenge removes everything it created
// so the next one starts from a clean registry.
type Challenge struct {
	log   *zap.Logger
	reg   *object.Registry
	v     *view.Viewer
	eng   *scripting.Engine
	comps ComponentFactory

	level *data.Level
	m     *world.Map
	bar   *StatusBar

	spawned    []object.ID
	behaviours map[object.ID]string
	ticks      map[object.ID]int64
}

// NewChallenge builds the level's map and entities, registers them, binds
// the map to the viewer and points the camera at the focus spawn.
func NewChallenge(lvl *data.Level, reg *object.Registry, v *view.Viewer,
	eng *scripting.Engine, comps ComponentFactory, log *zap.Logger) (*Challenge, error) {

	c := &Challenge{
		log:        log,
		reg:        reg,
		v:          v,
		eng:        eng,
		comps:      comps,
		level:      lvl,
		m:          world.NewMap(lvl.Info.Width, lvl.Info.Height),
		behaviours: make(map[object.ID]string),
		ticks:      make(map[object.ID]int64),
	}

	for _, layer := range lvl.Layers {
		c.m.AddLayer(world.NewLayer(layer.Name, comps("layer", layer.Name)))
	}

	var focus object.ID
	for _, s := range lvl.Spawns {
		id, err := c.spawn(s)
		if err != nil {
			c.Close()
			return nil, err
		}
		if s.Focus && focus == object.None {
			focus = id
		}
	}

	c.bar = NewStatusBar(v, reg)
	v.SetNotifier(c.bar)
	v.SetMap(c.m)
	if focus != object.None {
		v.SetFocus(focus)
	}

	for _, id := range c.spawned {
		c.runCommands(id, c.eng.RunSpawn(c.context(id)))
	}

	log.Info("challenge started",
		zap.String("level", lvl.Info.Name),
		zap.Int("width", lvl.Info.Width),
		zap.Int("height", lvl.Info.Height),
		zap.Int("entities", len(c.spawned)))
	return c, nil
}

func (c *Challenge) spawn(s data.SpawnDef) (object.ID, error) {
	pos := world.Position{X: s.X, Y: s.Y}
	walk := world.Walkable
	if s.Blocking {
		walk = world.Blocked
	}

	switch s.Kind {
	case "sprite":
		spr := world.NewSprite(pos, s.Name, walk, c.comps("sprite", s.Name))
		c.reg.AllocateID(spr)
		if !c.reg.Add(spr) {
			return object.None, fmt.Errorf("register sprite %q", s.Name)
		}
		c.m.AddSprite(spr.ObjectID())
		c.spawned = append(c.spawned, spr.ObjectID())
		if s.Behaviour != "" {
			if c.eng != nil && c.eng.HasBehaviour(s.Behaviour) {
				c.behaviours[spr.ObjectID()] = s.Behaviour
			} else {
				c.log.Warn("unknown behaviour",
					zap.String("entity", s.Name), zap.String("behaviour", s.Behaviour))
			}
		}
		return spr.ObjectID(), nil

	case "object":
		obj := world.NewMapObject(pos, s.Name, walk, c.comps("object", s.Name))
		c.reg.AllocateID(obj)
		if !c.reg.Add(obj) {
			return object.None, fmt.Errorf("register map object %q", s.Name)
		}
		c.m.AddMapObject(obj.ObjectID())
		c.spawned = append(c.spawned, obj.ObjectID())
		return obj.ObjectID(), nil
	}
	return object.None, fmt.Errorf("unknown spawn kind %q", s.Kind)
}

// Map returns the challenge's world map.
func (c *Challenge) Map() *world.Map { return c.m }

// StatusBar returns the notification bar bound to the viewer.
func (c *Challenge) StatusBar() *StatusBar { return c.bar }

// Spawned returns the ids of every entity the challenge created, in spawn
// order.
func (c *Challenge) Spawned() []object.ID { return c.spawned }

// Phase places behaviour execution between event reconciliation and
// rendering.
func (c *Challenge) Phase() system.Phase { return system.PhaseBehavior }

// Update runs every scripted entity's on_tick hook and applies the commands
// it returned.
func (c *Challenge) Update(dt time.Duration) {
	for _, id := range c.spawned {
		if _, ok := c.behaviours[id]; !ok {
			continue
		}
		c.ticks[id]++
		c.runCommands(id, c.eng.RunTick(c.context(id)))
	}
}

func (c *Challenge) context(id object.ID) scripting.EntityContext {
	ctx := scripting.EntityContext{
		ID:        id,
		Behaviour: c.behaviours[id],
		MapWidth:  c.m.Width(),
		MapHeight: c.m.Height(),
		Ticks:     c.ticks[id],
	}
	if spr, ok := object.Get[*world.Sprite](c.reg, id); ok {
		ctx.Name = spr.Name()
		ctx.X = spr.Position().X
		ctx.Y = spr.Position().Y
	}
	return ctx
}

func (c *Challenge) runCommands(id object.ID, cmds []scripting.Command) {
	for _, cmd := range cmds {
		switch cmd.Type {
		case "move":
			c.moveSprite(id, cmd.DX, cmd.DY)
		case "say":
			if spr, ok := object.Get[*world.Sprite](c.reg, id); ok {
				c.bar.Say(spr.Name() + ": " + cmd.Text)
			}
		case "focus":
			c.v.SetFocus(id)
		case "remove":
			c.despawn(id)
		default:
			c.log.Warn("unknown behaviour command", zap.String("type", cmd.Type))
		}
	}
}

// MoveFocus applies a relative move to the entity the camera follows.
// Keyboard control routes through here.
func (c *Challenge) MoveFocus(dx, dy float32) {
	if id := c.v.Focus(); id != object.None {
		c.moveSprite(id, dx, dy)
	}
}

// moveSprite applies a relative move, clamped to the map and refused when a
// blocking entity already holds the target tile.
func (c *Challenge) moveSprite(id object.ID, dx, dy float32) {
	spr, ok := object.Get[*world.Sprite](c.reg, id)
	if !ok {
		return
	}
	pos := spr.Position()
	next := world.Position{
		X: min(max(pos.X+dx, 0), float32(c.m.Width())-1),
		Y: min(max(pos.Y+dy, 0), float32(c.m.Height())-1),
	}
	if c.blockedAt(next, id) {
		return
	}
	spr.SetPosition(next)
	if id == c.v.Focus() {
		c.v.RefocusMap()
	}
}

func (c *Challenge) blockedAt(pos world.Position, self object.ID) bool {
	for _, id := range c.m.MapObjects() {
		if obj, ok := object.Get[*world.MapObject](c.reg, id); ok {
			if obj.Walkability() == world.Blocked && obj.Position() == pos {
				return true
			}
		}
	}
	for _, id := range c.m.Sprites() {
		if id == self {
			continue
		}
		if other, ok := object.Get[*world.Sprite](c.reg, id); ok {
			if other.Walkability() == world.Blocked && other.Position() == pos {
				return true
			}
		}
	}
	return false
}

func (c *Challenge) despawn(id object.ID) {
	c.m.RemoveSprite(id)
	c.m.RemoveMapObject(id)
	c.reg.Remove(id)
	delete(c.behaviours, id)
	delete(c.ticks, id)
}

// Close removes every entity the challenge created. The viewer keeps its
// focus id; a removed focus simply stops following.
func (c *Challenge) Close() {
	for _, id := range c.spawned {
		if c.reg.IsValid(id) {
			c.despawn(id)
		}
	}
	c.spawned = nil
	c.log.Info("challenge closed", zap.String("level", c.level.Info.Name))
}
