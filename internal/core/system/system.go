package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseEvents    Phase = iota // 0: drain the OS event queue, route input
	PhaseReconcile              // 1: rebuild stale window surfaces
	PhaseBehavior               // 2: scripted entity behavior
	PhaseRender                 // 3: draw and present
	PhaseCleanup                // 4: destroy queued objects, close windows
)

// System is the interface every frame-loop system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
