package window

import (
	"go.uber.org/zap"

	"github.com/vinnievg/pyland/internal/core/event"
)

// Overscan compensates displays that crop the framebuffer edges. It shifts
// Direct overlay surfaces; Offscreen surfaces are unaffected.
type Overscan struct {
	Left int
	Top  int
}

// Options configures a Manager.
type Options struct {
	Overscan Overscan
	// DisableDirectRender forces every surface onto the Offscreen backend.
	// Primarily for debugging; costs performance.
	DisableDirectRender bool
	// NewInput builds the per-window input handler. Optional.
	NewInput func(*Window) InputHandler
}

// Manager owns the process-wide window index and runs the per-tick event
// sweep. Everything happens on the frame-loop goroutine.
type Manager struct {
	comp Compositor
	opts Options
	log  *zap.Logger

	windows map[WindowID]*Window
	focused *Window
}

func NewManager(comp Compositor, opts Options, log *zap.Logger) *Manager {
	return &Manager{
		comp:    comp,
		opts:    opts,
		log:     log,
		windows: make(map[WindowID]*Window, 2),
	}
}

// CreateWindow creates an OS window with its first surface already built.
// The first window also brings up the shared windowing subsystem. On any
// failure every partially acquired resource is released before the InitError
// returns: no half-built window is ever observable.
func (m *Manager) CreateWindow(width, height int, fullscreen bool) (*Window, error) {
	first := len(m.windows) == 0
	if first {
		if err := m.comp.Init(); err != nil {
			return nil, initFailure("windowing subsystem", err)
		}
		m.log.Info("windowing subsystem initialized")
	}

	id, err := m.comp.CreateWindow(width, height, fullscreen)
	if err != nil {
		if first {
			m.comp.Shutdown()
		}
		return nil, initFailure("create window", err)
	}

	w := &Window{
		id:         id,
		mgr:        m,
		log:        m.log,
		state:      Uninitialized,
		foreground: !m.opts.DisableDirectRender,
		width:      width,
		height:     height,
		input:      nopInput{},
		bus:        event.NewBus(),
	}
	if m.opts.NewInput != nil {
		w.input = m.opts.NewInput(w)
	}

	if err := w.initSurface(); err != nil {
		m.comp.DestroyWindow(id)
		if first {
			m.comp.Shutdown()
		}
		return nil, err
	}

	m.windows[id] = w
	return w, nil
}

// DestroyWindow tears down the window's surface and the OS window, removes
// it from the index, and shuts the shared subsystem down with the last
// window.
func (m *Manager) DestroyWindow(w *Window) {
	if w.state == Closed {
		return
	}
	w.deinitSurface()
	delete(m.windows, w.id)
	m.comp.DestroyWindow(w.id)
	w.state = Closed
	if m.focused == w {
		m.focused = nil
	}
	if len(m.windows) == 0 {
		m.comp.Shutdown()
		m.log.Info("windowing subsystem shut down")
	}
}

// Focused returns the window holding input focus, or nil.
func (m *Manager) Focused() *Window { return m.focused }

// Len returns the number of live windows.
func (m *Manager) Len() int { return len(m.windows) }

// Each calls fn for every registered window.
func (m *Manager) Each(fn func(*Window)) {
	for _, w := range m.windows {
		fn(w)
	}
}

// Update is the once-per-tick sweep: clean input handlers, drain the whole
// OS event queue (batching surface work into pending tags), then reconcile
// every window. Bursts of resize and move events coalesce into one rebuild
// per window per sweep.
func (m *Manager) Update() {
	closeAll := false

	for _, w := range m.windows {
		w.input.Clean()
	}

	for {
		ev, ok := m.comp.PollEvent()
		if !ok {
			break
		}
		switch e := ev.(type) {
		case QuitEvent:
			closeAll = true
		case WindowEvent:
			w, ok := m.windows[e.Window]
			if !ok {
				m.log.Debug("event for unknown window", zap.Uint32("window", uint32(e.Window)))
				continue
			}
			m.routeWindowEvent(w, e.Kind)
		}
		// The focused window's input handler sees the event even when the
		// manager already consumed it.
		if m.focused != nil {
			m.focused.input.HandleEvent(ev)
		}
	}

	for _, w := range m.windows {
		// Events don't quite arrive in chronological order, so cross-check
		// the true window position and restart the surface update if it
		// drifted. Re-checked every sweep until it stabilizes.
		if geom, err := m.comp.ContentGeometry(w.id); err == nil {
			if (w.x != geom.X || w.y != geom.Y) && w.visible {
				m.log.Info("need surface reinit (moved)", zap.Uint32("window", uint32(w.id)))
				w.markStale()
			}
		}

		w.processPending()

		// A failed rebuild leaves the window Stale with the old geometry;
		// the broadcast waits for the sweep whose rebuild lands.
		if w.resizing && w.state == Live {
			event.Publish(w.bus, ResizeEvent{Window: w})
			w.resizing = false
		}
		w.input.RunCallbacks()

		if closeAll {
			w.RequestClose()
		}
	}
}

func (m *Manager) routeWindowEvent(w *Window, kind WindowEventKind) {
	switch kind {
	case EventClose:
		w.RequestClose()
	case EventResized, EventMaximized, EventRestored:
		m.log.Info("need surface reinit (resize)", zap.Uint32("window", uint32(w.id)))
		w.resizing = true
		w.markStale()
		m.focused = w
	case EventMoved:
		m.log.Info("need surface reinit (moved)", zap.Uint32("window", uint32(w.id)))
		w.markStale()
		m.focused = w
	case EventShown, EventFocusGained:
		m.log.Info("need surface reinit (gained focus)", zap.Uint32("window", uint32(w.id)))
		if !m.opts.DisableDirectRender {
			w.foreground = true
		}
		w.markStale()
		m.focused = w
	case EventFocusLost, EventMinimized, EventHidden:
		m.log.Info("need surface reinit (lost focus)", zap.Uint32("window", uint32(w.id)))
		w.foreground = false
		// Losing focus rebuilds as Offscreen rather than tearing down: a
		// background window still renders.
		w.markStale()
		if m.focused == w {
			m.focused = nil
		}
	default:
		m.log.Warn("unhandled window event", zap.Int("kind", int(kind)))
	}
}
