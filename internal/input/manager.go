package input

import (
	"go.uber.org/zap"

	"github.com/vinnievg/pyland/internal/core/event"
	"github.com/vinnievg/pyland/internal/window"
)

// KeyPress is delivered to subscribers during the callback phase of the
// sweep, after surface reconciliation.
type KeyPress struct {
	Code uint32
}

// Manager tracks per-window keyboard and pointer state. The window manager
// drives it: Clean at sweep start, HandleEvent for each event routed to the
// focused window, RunCallbacks after reconciliation.
type Manager struct {
	log *zap.Logger
	bus *event.Bus

	down     map[uint32]bool
	typed    map[uint32]bool
	released map[uint32]bool

	mouseX, mouseY int
	buttons        map[uint8]bool

	queued []KeyPress
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		log:      log,
		bus:      event.NewBus(),
		down:     make(map[uint32]bool),
		typed:    make(map[uint32]bool),
		released: make(map[uint32]bool),
		buttons:  make(map[uint8]bool),
	}
}

// Clean resets the per-tick typed/released sets. Held state survives.
func (m *Manager) Clean() {
	clear(m.typed)
	clear(m.released)
}

func (m *Manager) HandleEvent(ev window.Event) {
	switch e := ev.(type) {
	case window.KeyEvent:
		if e.Pressed {
			if !m.down[e.Code] {
				m.typed[e.Code] = true
				m.queued = append(m.queued, KeyPress{Code: e.Code})
			}
			m.down[e.Code] = true
		} else {
			delete(m.down, e.Code)
			m.released[e.Code] = true
		}
	case window.ButtonEvent:
		m.mouseX, m.mouseY = e.X, e.Y
		if e.Pressed {
			m.buttons[e.Button] = true
		} else {
			delete(m.buttons, e.Button)
		}
	}
}

// RunCallbacks flushes key presses queued during this sweep to subscribers.
func (m *Manager) RunCallbacks() {
	for _, kp := range m.queued {
		event.Publish(m.bus, kp)
	}
	m.queued = m.queued[:0]
}

// OnKeyPress subscribes to key presses; the Lifeline deregisters on release.
func (m *Manager) OnKeyPress(fn func(KeyPress)) *event.Lifeline {
	return event.Subscribe(m.bus, fn)
}

// IsDown reports whether the key is currently held.
func (m *Manager) IsDown(code uint32) bool { return m.down[code] }

// WasTyped reports whether the key went down during this tick.
func (m *Manager) WasTyped(code uint32) bool { return m.typed[code] }

// WasReleased reports whether the key went up during this tick.
func (m *Manager) WasReleased(code uint32) bool { return m.released[code] }

// Mouse returns the last pointer position and whether the button is held.
func (m *Manager) Mouse() (x, y int) { return m.mouseX, m.mouseY }

func (m *Manager) ButtonDown(button uint8) bool { return m.buttons[button] }
