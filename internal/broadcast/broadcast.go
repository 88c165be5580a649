// Package broadcast is the in-process fan-out that lets the screen
// holding the badge channel subscription notify other mounted screens
// of a badge-earned event without sharing the realtime transport.
package broadcast

import (
	"sync"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/realtime"
)

// Listener receives a badge-earned payload.
type Listener func(realtime.BadgeEarnedPayload)

// BadgeBroadcaster is an explicit listener registry owned by the
// application root and injected into sessions; there is no package
// global. It keeps no history: a listener registered after an emission
// never sees that emission.
type BadgeBroadcaster struct {
	mu      sync.Mutex
	nextID  int
	entries []entry
}

type entry struct {
	id int
	fn Listener
}

func NewBadgeBroadcaster() *BadgeBroadcaster {
	return &BadgeBroadcaster{}
}

// Subscribe registers a listener and returns its unregister func. The
// unregister func is idempotent, so a double call on unmount cannot
// remove someone else's listener.
func (b *BadgeBroadcaster) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.entries = append(b.entries, entry{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.entries {
			if e.id == id {
				b.entries = append(b.entries[:i:i], b.entries[i+1:]...)
				return
			}
		}
	}
}

// Emit invokes every currently registered listener synchronously, in
// registration order. Zero listeners is a no-op.
func (b *BadgeBroadcaster) Emit(payload realtime.BadgeEarnedPayload) {
	b.mu.Lock()
	listeners := make([]Listener, len(b.entries))
	for i, e := range b.entries {
		listeners[i] = e.fn
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(payload)
	}
}

// Len reports the number of registered listeners.
func (b *BadgeBroadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
