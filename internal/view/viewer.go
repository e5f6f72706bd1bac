package view

import (
	"go.uber.org/zap"

	"github.com/vinnievg/pyland/internal/core/event"
	"github.com/vinnievg/pyland/internal/core/object"
	"github.com/vinnievg/pyland/internal/render"
	"github.com/vinnievg/pyland/internal/window"
	"github.com/vinnievg/pyland/internal/world"
)

// StatusNotifier is told whenever the camera recomputes its position, so
// screen-anchored text can follow the map.
type StatusNotifier interface {
	UpdateText()
}

// Viewer owns the viewport over one bound map: which tile region is visible,
// which object the camera follows, and the per-frame draw passes. Bound to
// exactly one window.
type Viewer struct {
	win      *window.Window
	reg      *object.Registry
	dev      render.Device
	gui      render.Component
	notifier StatusNotifier
	log      *zap.Logger

	// tileSize is the fixed tile edge in pixels.
	tileSize float32

	m *world.Map

	// Viewport origin and size, in tile units.
	displayX, displayY float32
	displayW, displayH float32

	focus object.ID

	resizeLifeline *event.Lifeline
}

func NewViewer(win *window.Window, reg *object.Registry, dev render.Device, tileSize float32, log *zap.Logger) *Viewer {
	v := &Viewer{
		win:      win,
		reg:      reg,
		dev:      dev,
		tileSize: tileSize,
		log:      log,
	}
	v.resizeLifeline = win.OnResize(func(*window.Window) {
		v.Resize()
	})
	v.Resize()
	return v
}

// Close detaches the viewer from its window's resize broadcasts.
func (v *Viewer) Close() {
	v.resizeLifeline.Release()
}

// SetGUI installs the GUI compositor's renderable component, drawn
// screen-fixed as the final pass.
func (v *Viewer) SetGUI(c render.Component) { v.gui = c }

// SetNotifier installs the status/text collaborator pinged after refocus.
func (v *Viewer) SetNotifier(n StatusNotifier) { v.notifier = n }

// SetMap binds the viewer to a map. Passing nil unbinds it.
func (v *Viewer) SetMap(m *world.Map) { v.m = m }

func (v *Viewer) Map() *world.Map { return v.m }

// Origin returns the viewport origin in tile units.
func (v *Viewer) Origin() (x, y float32) { return v.displayX, v.displayY }

// Extent returns the viewport size in tile units.
func (v *Viewer) Extent() (w, h float32) { return v.displayW, v.displayH }

// Focus returns the id of the object the camera follows, 0 for none.
func (v *Viewer) Focus() object.ID { return v.focus }

// CentrePointInRange positions a span of size bound along a line of size
// length so that point sits as close to the bound's centre as the line
// edges allow:
//
//   - length >= bound: the bound slides inside the line; the offset is
//     clamped into [0, length-bound], so the view never scrolls past an
//     edge.
//   - bound >= length: the line floats inside the bound; the offset is
//     clamped into [length-bound, 0], keeping the whole line visible.
//
// The returned offset is the distance from the start of the line to the
// start of the bound, negative when the bound overhangs. Pure and total for
// all finite non-negative length and bound.
func CentrePointInRange(point, length, bound float32) float32 {
	offset := point - bound/2

	// Note order of min/max: each branch crops offset into its interval.
	if length >= bound {
		offset = min(max(offset, 0), length-bound)
	} else {
		offset = max(min(offset, 0), length-bound)
	}
	return offset
}

// RefocusMap re-centres the viewport on the focus object. A missing focus
// object leaves the geometry untouched.
func (v *Viewer) RefocusMap() {
	if v.focus == object.None {
		v.log.Info("refocus: no focus")
		return
	}
	if v.m == nil {
		v.log.Info("refocus: no map bound")
		return
	}

	sprite, ok := object.Get[*world.Sprite](v.reg, v.focus)
	if ok {
		pos := sprite.Position()
		// Half-tile offset to centre on the sprite's midpoint.
		v.displayX = CentrePointInRange(pos.X+0.5, float32(v.m.Width()), v.displayW)
		v.displayY = CentrePointInRange(pos.Y+0.5, float32(v.m.Height()), v.displayH)
	} else {
		v.log.Info("refocus: focus object gone", zap.Int32("id", v.focus))
	}

	if v.notifier != nil {
		v.notifier.UpdateText()
	}
}

// SetFocus points the camera at an object. An id the registry does not
// recognize is rejected and the previous focus stays.
func (v *Viewer) SetFocus(id object.ID) {
	if !v.reg.IsValid(id) {
		v.log.Error("set focus: invalid object id", zap.Int32("id", id))
		return
	}
	v.focus = id
	v.RefocusMap()
}

// Resize recomputes the viewport extent from the window's pixel size and
// reapplies the clip rectangle. With a map bound the camera re-centres.
func (v *Viewer) Resize() {
	w, h := v.win.Size()
	v.log.Info("viewport resize", zap.Int("width", w), zap.Int("height", h))

	// Show exactly the tiles that fit the window.
	v.displayW = float32(w) / v.tileSize
	v.displayH = float32(h) / v.tileSize

	v.dev.SetViewport(w, h)

	if v.m != nil {
		v.RefocusMap()
	}
}

// PixelToTile converts window pixel coordinates to tile coordinates.
func (v *Viewer) PixelToTile(px, py int) (x, y float32) {
	return float32(px)/v.tileSize + v.displayX,
		float32(py)/v.tileSize + v.displayY
}

// TileToPixel converts tile coordinates to window pixel coordinates.
// Inverse of PixelToTile up to rounding.
func (v *Viewer) TileToPixel(tx, ty float32) (px, py int) {
	return int((tx - v.displayX) * v.tileSize),
		int((ty - v.displayY) * v.tileSize)
}
