package view

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/vinnievg/pyland/internal/core/object"
	"github.com/vinnievg/pyland/internal/render"
	"github.com/vinnievg/pyland/internal/world"
)

// Render draws one frame in fixed pass order: map layers bottom to top, then
// map objects, then sprites, then the GUI overlay. Later passes paint over
// earlier ones. Calling Render with no bound map is a caller bug.
func (v *Viewer) Render() {
	if v.m == nil {
		panic("view: render called with no map bound")
	}

	v.dev.Clear()

	v.renderLayers()
	renderEntities[*world.MapObject](v, v.m.MapObjects(), "map object")
	renderEntities[*world.Sprite](v, v.m.Sprites(), "sprite")
	v.renderGUI()
}

func (v *Viewer) renderLayers() {
	// Follow the focus object before computing the camera translation.
	v.RefocusMap()

	w, h := v.win.Size()
	projection := render.ScreenProjection(w, h)
	modelview := render.Translation(-v.displayX*v.tileSize, -v.displayY*v.tileSize)

	for _, layer := range v.m.Layers() {
		c := layer.RenderComponent()
		if c == nil || c.Shader() == nil {
			v.log.Error("render: layer has no shader", zap.String("layer", layer.Name()))
			continue
		}

		c.SetProjectionMatrix(projection)
		c.SetModelviewMatrix(modelview)

		c.BindShader()
		c.BindVBOs()
		c.BindTextures()

		v.dev.DrawTriangles(0, c.NumVerticesRender())

		c.ReleaseTextures()
		c.ReleaseVBOs()
		c.ReleaseShader()
	}
}

// positioned is what a renderable map inhabitant must expose to be drawn.
type positioned interface {
	object.Object
	Position() world.Position
	RenderComponent() render.Component
}

// renderEntities draws every non-empty slot in ids, resolving each id
// through the registry per use. Stale ids and shaderless components skip
// that entity only; the frame continues.
func renderEntities[T positioned](v *Viewer, ids []object.ID, what string) {
	w, h := v.win.Size()
	projection := render.ScreenProjection(w, h)

	for _, id := range ids {
		if id == object.None {
			continue
		}
		e, ok := object.Get[T](v.reg, id)
		if !ok {
			v.log.Debug("render: stale id", zap.String("kind", what), zap.Int32("id", id))
			continue
		}
		c := e.RenderComponent()
		if c == nil || c.Shader() == nil {
			v.log.Error("render: component has no shader",
				zap.String("kind", what), zap.Int32("id", id))
			continue
		}

		pos := e.Position()
		c.SetModelviewMatrix(render.Translation(
			(pos.X-v.displayX)*v.tileSize,
			(pos.Y-v.displayY)*v.tileSize))
		c.SetProjectionMatrix(projection)

		c.BindShader()
		c.BindVBOs()
		c.BindTextures()

		v.dev.DrawTriangles(0, c.NumVerticesRender())

		c.ReleaseTextures()
		c.ReleaseVBOs()
		c.ReleaseShader()
	}
}

// renderGUI draws the GUI compositor's component with a screen-fixed
// model-view. A missing shader aborts only this pass.
func (v *Viewer) renderGUI() {
	c := v.gui
	if c == nil {
		return
	}
	if c.Shader() == nil {
		v.log.Error("render: GUI component has no shader")
		return
	}

	w, h := v.win.Size()
	c.SetProjectionMatrix(render.ScreenProjection(w, h))
	c.SetModelviewMatrix(mgl32.Ident4())

	c.BindShader()
	c.BindVBOs()
	c.BindTextures()

	v.dev.DrawTriangles(0, c.NumVerticesRender())

	c.ReleaseTextures()
	c.ReleaseVBOs()
	c.ReleaseShader()
}
