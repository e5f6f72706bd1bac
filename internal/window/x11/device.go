package x11

import (
	"image"
	"image/color"
	"image/draw"

	"go.uber.org/zap"

	"github.com/vinnievg/pyland/internal/window"
)

// Device is the drawing seam for one window. Geometry pipeline work (shader
// programs, vertex uploads) lives with the renderable components; the device
// only clears, clips and issues draw calls against whichever surface the
// window currently holds.
type Device struct {
	win   *window.Window
	log   *zap.Logger
	clear color.RGBA

	clipW, clipH int
}

func NewDevice(win *window.Window, log *zap.Logger) *Device {
	return &Device{
		win:   win,
		log:   log,
		clear: color.RGBA{A: 0xff},
	}
}

func (d *Device) Clear() {
	if s, ok := d.win.Surface().(*OffscreenSurface); ok && s.Framebuffer() != nil {
		fb := s.Framebuffer()
		draw.Draw(fb, fb.Bounds(), image.NewUniform(d.clear), image.Point{}, draw.Src)
	}
}

func (d *Device) SetViewport(width, height int) {
	d.clipW, d.clipH = width, height
}

func (d *Device) DrawTriangles(first, count int) {
	// Vertex submission is owned by the component that bound its resources;
	// nothing to forward for surfaces without a hardware queue.
	d.log.Debug("draw", zap.Int("first", first), zap.Int("count", count))
}
