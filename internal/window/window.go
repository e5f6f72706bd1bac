package window

import (
	"go.uber.org/zap"

	"github.com/vinnievg/pyland/internal/core/event"
)

// State is the lifecycle state of a window's surface.
type State int

const (
	// Uninitialized: no surface has ever been built.
	Uninitialized State = iota
	// Live: the surface matches current geometry and is safe to render into.
	Live
	// Stale: the surface no longer matches window geometry or focus state
	// and is pending reconciliation.
	Stale
	// Closed: the window has been destroyed. Terminal.
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Live:
		return "live"
	case Stale:
		return "stale"
	default:
		return "closed"
	}
}

// initAction is the pending-action tag set by event routing and drained by
// the reconciliation pass.
type initAction int

const (
	doNothing initAction = iota
	doInit
	doDeinit
)

// Window owns one OS window and its backend surface. All methods are driven
// from the single frame-loop goroutine.
type Window struct {
	id  WindowID
	mgr *Manager
	log *zap.Logger

	state         State
	changeSurface initAction
	surface       Surface

	x, y          int
	width, height int

	visible        bool
	foreground     bool
	resizing       bool
	closeRequested bool

	input InputHandler
	bus   *event.Bus
}

func (w *Window) ID() WindowID { return w.id }

func (w *Window) State() State { return w.state }

// Foreground reports whether the window is direct-render capable right now.
func (w *Window) Foreground() bool { return w.foreground }

// Visible reports whether a fully built surface is in place.
func (w *Window) Visible() bool { return w.visible }

// Surface returns the current backend surface, nil while torn down.
func (w *Window) Surface() Surface { return w.surface }

// Size returns the window's pixel size as of the last successful surface
// build.
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// Input returns the window's input handler.
func (w *Window) Input() InputHandler { return w.input }

// RatioFromPixels converts a pixel offset into window-relative coordinates
// in [0, 1].
func (w *Window) RatioFromPixels(px, py int) (float32, float32) {
	return float32(px) / float32(w.width), float32(py) / float32(w.height)
}

// RequestClose flags the window for closing. Nothing is destroyed here: the
// owner polls CheckClose and destroys cooperatively.
func (w *Window) RequestClose() {
	w.closeRequested = true
}

// CancelClose withdraws a pending close request.
func (w *Window) CancelClose() {
	w.closeRequested = false
}

// CheckClose reports whether a close has been requested.
func (w *Window) CheckClose() bool {
	return w.closeRequested
}

// OnResize subscribes to this window's resize broadcasts. The returned
// Lifeline deregisters the callback when released.
func (w *Window) OnResize(fn func(*Window)) *event.Lifeline {
	return event.Subscribe(w.bus, func(ev ResizeEvent) {
		fn(ev.Window)
	})
}

// Present pushes the current frame to the screen. A window without a live
// surface skips the present silently.
func (w *Window) Present() {
	if !w.visible || w.surface == nil {
		return
	}
	if err := w.surface.Present(); err != nil {
		w.log.Warn("present failed", zap.Uint32("window", uint32(w.id)), zap.Error(err))
	}
}

// markStale flags the surface for rebuild during the next reconciliation
// pass. Events within one sweep coalesce into a single rebuild.
func (w *Window) markStale() {
	if w.state == Closed {
		return
	}
	w.changeSurface = doInit
	w.state = Stale
}

// processPending reconciles the surface with the window's current state.
// Rebuild failure leaves the window Stale; it is retried next sweep.
func (w *Window) processPending() {
	switch w.changeSurface {
	case doInit:
		if err := w.initSurface(); err != nil {
			w.log.Warn("surface reinit failed",
				zap.Uint32("window", uint32(w.id)), zap.Error(err))
		}
	case doDeinit:
		w.deinitSurface()
	}
}

// initSurface queries the window's true content geometry and rebuilds the
// surface there. Event-derived geometry is never trusted: event delivery and
// true window position are transiently inconsistent.
func (w *Window) initSurface() error {
	geom, err := w.mgr.comp.ContentGeometry(w.id)
	if err != nil {
		return initFailure("query geometry", err)
	}
	return w.initSurfaceAt(geom)
}

func (w *Window) initSurfaceAt(geom Geometry) error {
	w.deinitSurface()
	// deinit clears the tag; the rebuild is still owed.
	w.changeSurface = doInit

	kind := Offscreen
	target := geom
	if w.foreground {
		kind = Direct
		target.X += w.mgr.opts.Overscan.Left
		target.Y += w.mgr.opts.Overscan.Top
	}

	surf, err := w.mgr.comp.CreateSurface(w.id, kind, target)
	if err != nil {
		return initFailure("create surface", err)
	}
	w.surface = surf
	w.visible = true
	w.changeSurface = doNothing
	w.state = Live
	// Geometry is recorded only after a successful build.
	w.x, w.y = geom.X, geom.Y
	w.width, w.height = geom.Width, geom.Height

	w.log.Info("new surface",
		zap.Uint32("window", uint32(w.id)),
		zap.String("backend", kind.String()),
		zap.Int("width", geom.Width), zap.Int("height", geom.Height),
		zap.Int("x", geom.X), zap.Int("y", geom.Y))
	return nil
}

// deinitSurface tears the surface fully down. Always runs to completion so
// no backend handles leak across reinitializations.
func (w *Window) deinitSurface() {
	if w.visible && w.surface != nil {
		if err := w.surface.Teardown(); err != nil {
			w.log.Error("surface teardown failed",
				zap.Uint32("window", uint32(w.id)), zap.Error(err))
		}
		w.surface = nil
	}
	w.visible = false
	w.changeSurface = doNothing
}
