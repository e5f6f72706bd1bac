package window

// Event is one OS event drained from the compositor queue.
type Event interface{}

// QuitEvent asks the whole process to shut down. Every window receives a
// close request.
type QuitEvent struct{}

// WindowEventKind classifies window-management events.
type WindowEventKind int

const (
	EventClose WindowEventKind = iota
	EventResized
	EventMaximized
	EventRestored
	EventMoved
	EventShown
	EventFocusGained
	EventFocusLost
	EventMinimized
	EventHidden
)

// WindowEvent is a window-management event for one window.
type WindowEvent struct {
	Window WindowID
	Kind   WindowEventKind
}

// KeyEvent is a keyboard state change, routed to the focused window's input
// handler only.
type KeyEvent struct {
	Window  WindowID
	Code    uint32
	Pressed bool
}

// ButtonEvent is a pointer button state change.
type ButtonEvent struct {
	Window  WindowID
	X, Y    int
	Button  uint8
	Pressed bool
}

// ResizeEvent is broadcast to a window's resize subscribers after the
// reconciliation pass, once per sweep no matter how many resize events were
// coalesced.
type ResizeEvent struct {
	Window *Window
}

// InputHandler is the per-window input collaborator. It is cleaned at the
// start of every sweep, fed the events routed to the focused window, and has
// its callbacks run after reconciliation.
type InputHandler interface {
	Clean()
	HandleEvent(Event)
	RunCallbacks()
}

type nopInput struct{}

func (nopInput) Clean() {}
func (nopInput) HandleEvent(Event) {}
func (nopInput) RunCallbacks() {}
