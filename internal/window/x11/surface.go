package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/vinnievg/pyland/internal/window"
)

// directSurface is a compositor overlay element: an override-redirect window
// stacked over the target window's content area. The X server composites and
// double-buffers it, so presenting is a flush.
type directSurface struct {
	comp    *Compositor
	overlay *xwindow.Window
}

func newDirectSurface(c *Compositor, target xproto.Window, geom window.Geometry) (window.Surface, error) {
	overlay, err := xwindow.Generate(c.xu)
	if err != nil {
		return nil, fmt.Errorf("allocate overlay id: %w", err)
	}
	err = overlay.CreateChecked(c.root, geom.X, geom.Y, geom.Width, geom.Height,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		0x000000, 1)
	if err != nil {
		return nil, fmt.Errorf("create overlay element: %w", err)
	}
	overlay.Map()
	return &directSurface{comp: c, overlay: overlay}, nil
}

func (s *directSurface) Kind() window.BackendKind { return window.Direct }

func (s *directSurface) Present() error {
	// Only direct-to-screen rendering is double buffered; the flush swaps.
	s.comp.conn.Sync()
	return nil
}

func (s *directSurface) Teardown() error {
	s.overlay.Unmap()
	s.overlay.Destroy()
	return nil
}

// OffscreenSurface renders into a private pixel buffer and blits it into the
// target window's own presentable surface. The framebuffer follows the GL
// readback convention (bottom row first), so the blit flips rows.
type OffscreenSurface struct {
	comp   *Compositor
	target xproto.Window
	fb     *image.RGBA
	out    *xgraphics.Image
}

func newOffscreenSurface(c *Compositor, target xproto.Window, geom window.Geometry) (window.Surface, error) {
	out := xgraphics.New(c.xu, image.Rect(0, 0, geom.Width, geom.Height))
	if err := out.XSurfaceSet(target); err != nil {
		out.Destroy()
		return nil, fmt.Errorf("create pixmap surface: %w", err)
	}
	return &OffscreenSurface{
		comp:   c,
		target: target,
		fb:     image.NewRGBA(image.Rect(0, 0, geom.Width, geom.Height)),
		out:    out,
	}, nil
}

func (s *OffscreenSurface) Kind() window.BackendKind { return window.Offscreen }

// Framebuffer is the pixel buffer draw calls land in.
func (s *OffscreenSurface) Framebuffer() *image.RGBA { return s.fb }

func (s *OffscreenSurface) Present() error {
	bounds := s.fb.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Flip vertically while converting RGBA to the server's BGRA layout.
	for y := 0; y < h; y++ {
		src := s.fb.Pix[(h-y-1)*s.fb.Stride:]
		dst := s.out.Pix[y*s.out.Stride:]
		for x := 0; x < w; x++ {
			dst[x*4+0] = src[x*4+2]
			dst[x*4+1] = src[x*4+1]
			dst[x*4+2] = src[x*4+0]
			dst[x*4+3] = src[x*4+3]
		}
	}

	s.out.XDraw()
	s.out.XPaint(s.target)
	return nil
}

func (s *OffscreenSurface) Teardown() error {
	s.out.Destroy()
	s.fb = nil
	return nil
}
