package event

import (
	"reflect"
	"sync"
)

// Bus is a synchronous typed publish/subscribe hub. Handlers run on the
// publishing goroutine, in registration order, before Publish returns —
// window events must be observed within the same polling sweep, so there is
// no buffering between ticks.
type Bus struct {
	mu       sync.Mutex
	nextSub  uint64
	handlers map[reflect.Type][]subscription
}

type subscription struct {
	id uint64
	fn any
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]subscription),
	}
}

// Subscribe registers a typed handler for events of type T and returns a
// Lifeline that deregisters the handler when released.
func Subscribe[T any](b *Bus, fn func(T)) *Lifeline {
	t := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.Lock()
	b.nextSub++
	id := b.nextSub
	b.handlers[t] = append(b.handlers[t], subscription{id: id, fn: fn})
	b.mu.Unlock()

	return newLifeline(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[t]
		for i, s := range subs {
			if s.id == id {
				b.handlers[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	})
}

// Publish delivers ev to every handler subscribed for type T.
func Publish[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.Lock()
	subs := make([]subscription, len(b.handlers[t]))
	copy(subs, b.handlers[t])
	b.mu.Unlock()

	// Handlers run outside the lock: a handler may release its own lifeline.
	for _, s := range subs {
		s.fn.(func(T))(ev)
	}
}
