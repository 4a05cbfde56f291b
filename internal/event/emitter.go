package event

import "sync"

// Release removes a registration. Calling it more than once is a no-op.
type Release func()

// Noop is a Release that does nothing.
func Noop() {}

type listener[T any] struct {
	id   uint64
	fn   func(T)
	once bool
}

// Emitter is an ordered listener registry for values of type T.
// The zero value is ready to use.
type Emitter[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener[T]
}

// On registers fn for every emission.
func (e *Emitter[T]) On(fn func(T)) Release {
	return e.add(fn, false)
}

// Once registers fn for the next emission only.
func (e *Emitter[T]) Once(fn func(T)) Release {
	return e.add(fn, true)
}

func (e *Emitter[T]) add(fn func(T), once bool) Release {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn, once: once})
	e.mu.Unlock()

	var released sync.Once
	return func() {
		released.Do(func() { e.remove(id) })
	}
}

func (e *Emitter[T]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Emit calls every registered listener in registration order.
// One-shot listeners are removed before they run.
func (e *Emitter[T]) Emit(v T) {
	e.mu.Lock()
	snapshot := make([]listener[T], len(e.listeners))
	copy(snapshot, e.listeners)
	kept := e.listeners[:0]
	for _, l := range e.listeners {
		if !l.once {
			kept = append(kept, l)
		}
	}
	e.listeners = kept
	e.mu.Unlock()

	for _, l := range snapshot {
		l.fn(v)
	}
}

// Len returns the number of registered listeners.
func (e *Emitter[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Clear drops every listener.
func (e *Emitter[T]) Clear() {
	e.mu.Lock()
	e.listeners = nil
	e.mu.Unlock()
}
