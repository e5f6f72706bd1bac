package event

import "sync"

// Lifeline ties a registration to a scope. Releasing it deregisters the
// callback it guards; releasing twice is safe. Callers keep the Lifeline for
// as long as they want the callback alive.
type Lifeline struct {
	once    sync.Once
	release func()
}

func newLifeline(release func()) *Lifeline {
	return &Lifeline{release: release}
}

func (l *Lifeline) Release() {
	l.once.Do(l.release)
}
