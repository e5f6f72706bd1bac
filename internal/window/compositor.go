package window

import "fmt"

// WindowID is the OS-assigned window identifier.
type WindowID uint32

// Geometry is a window rectangle in pixels.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// BackendKind selects how a surface reaches the screen.
type BackendKind int

const (
	// Direct renders straight into a compositor overlay element positioned
	// over the window's content area. Double-buffered by the compositor.
	Direct BackendKind = iota
	// Offscreen renders into a private pixel buffer that is blitted into the
	// window's own presentable surface.
	Offscreen
)

func (k BackendKind) String() string {
	if k == Direct {
		return "direct"
	}
	return "offscreen"
}

// Surface is a live backend rendering target exclusively owned by one
// Window. A surface is never mutated in place: any geometry or focus change
// tears it down and builds a replacement.
type Surface interface {
	Kind() BackendKind
	// Present pushes the finished frame to the screen: a buffer swap for
	// Direct surfaces, a flipped blit for Offscreen ones.
	Present() error
	// Teardown releases backend resources in reverse order of acquisition.
	// It must run to completion before the window is destroyed or a new
	// surface is built.
	Teardown() error
}

// Compositor is the windowing-system contract the lifecycle machine drives.
// The X11 implementation lives in the x11 subpackage; tests substitute a
// fake.
type Compositor interface {
	// Init brings up the shared windowing subsystem. Called once, when the
	// first window is created.
	Init() error
	// Shutdown tears the shared subsystem down after the last window dies.
	Shutdown()

	CreateWindow(width, height int, fullscreen bool) (WindowID, error)
	DestroyWindow(id WindowID)

	// ContentGeometry queries the true content-area position and size by
	// coordinate translation against the window system. Event payloads are
	// transiently inconsistent with reality, so this is the only geometry
	// source the lifecycle machine trusts.
	ContentGeometry(id WindowID) (Geometry, error)

	// CreateSurface builds a fresh surface of the given kind at the given
	// geometry. The caller guarantees any previous surface for the window
	// was torn down.
	CreateSurface(id WindowID, kind BackendKind, geom Geometry) (Surface, error)

	// PollEvent pops the next queued OS event; ok is false once the queue is
	// empty for this sweep.
	PollEvent() (Event, bool)
}

// InitError reports a window or surface construction failure. Construction
// is atomic from the caller's perspective: when an InitError propagates, no
// half-built window remains observable.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("window init: %s: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func initFailure(op string, err error) *InitError {
	return &InitError{Op: op, Err: err}
}
