package input

import (
	"testing"

	"go.uber.org/zap"

	"github.com/vinnievg/pyland/internal/window"
)

func TestKeyStateAcrossTicks(t *testing.T) {
	m := NewManager(zap.NewNop())

	m.Clean()
	m.HandleEvent(window.KeyEvent{Code: 38, Pressed: true})

	if !m.IsDown(38) || !m.WasTyped(38) {
		t.Fatalf("expected key 38 down and typed")
	}

	// Next tick: still held, no longer typed.
	m.Clean()
	if !m.IsDown(38) {
		t.Fatalf("held state must survive Clean")
	}
	if m.WasTyped(38) {
		t.Fatalf("typed state must reset on Clean")
	}

	m.HandleEvent(window.KeyEvent{Code: 38, Pressed: false})
	if m.IsDown(38) || !m.WasReleased(38) {
		t.Fatalf("expected key 38 released")
	}
}

func TestAutoRepeatDoesNotRequeue(t *testing.T) {
	m := NewManager(zap.NewNop())

	var presses int
	m.OnKeyPress(func(KeyPress) { presses++ })

	m.Clean()
	m.HandleEvent(window.KeyEvent{Code: 40, Pressed: true})
	m.HandleEvent(window.KeyEvent{Code: 40, Pressed: true}) // X auto-repeat
	m.RunCallbacks()

	if presses != 1 {
		t.Fatalf("expected one press callback, got %d", presses)
	}
}

func TestCallbacksRunInCallbackPhaseOnly(t *testing.T) {
	m := NewManager(zap.NewNop())

	var presses []uint32
	l := m.OnKeyPress(func(kp KeyPress) { presses = append(presses, kp.Code) })

	m.Clean()
	m.HandleEvent(window.KeyEvent{Code: 24, Pressed: true})
	if len(presses) != 0 {
		t.Fatalf("callback fired before RunCallbacks")
	}
	m.RunCallbacks()
	if len(presses) != 1 || presses[0] != 24 {
		t.Fatalf("unexpected presses %v", presses)
	}

	l.Release()
	m.Clean()
	m.HandleEvent(window.KeyEvent{Code: 25, Pressed: true})
	m.RunCallbacks()
	if len(presses) != 1 {
		t.Fatalf("released subscriber still called")
	}
}

func TestPointerState(t *testing.T) {
	m := NewManager(zap.NewNop())

	m.HandleEvent(window.ButtonEvent{X: 120, Y: 80, Button: 1, Pressed: true})
	x, y := m.Mouse()
	if x != 120 || y != 80 {
		t.Fatalf("unexpected pointer position (%d,%d)", x, y)
	}
	if !m.ButtonDown(1) {
		t.Fatalf("expected button 1 held")
	}
	m.HandleEvent(window.ButtonEvent{X: 121, Y: 81, Button: 1, Pressed: false})
	if m.ButtonDown(1) {
		t.Fatalf("expected button 1 released")
	}
}
