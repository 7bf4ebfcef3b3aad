package core

import "sync"

// Observable holds a value that may be absent and notifies listeners when it
// changes. It is the default value container participants bind to.
//
// State access is thread-safe. Listeners run synchronously on the goroutine
// that called Set, in the order they were added, and never while the
// internal lock is held, so a listener may read or write the observable.
type Observable[T any] struct {
	mu        sync.RWMutex
	value     T
	present   bool
	equal     func(a, b T) bool
	listeners []observableListener[T]
	nextID    uint64
}

type observableListener[T any] struct {
	id uint64
	fn func(T)
}

// NewObservable creates an observable holding initial.
// Values are compared with == to suppress redundant notifications.
func NewObservable[T comparable](initial T) *Observable[T] {
	return NewObservableWithEquality(initial, func(a, b T) bool { return a == b })
}

// NewEmptyObservable creates an observable that holds no value.
func NewEmptyObservable[T comparable]() *Observable[T] {
	return NewEmptyObservableWithEquality(func(a, b T) bool { return a == b })
}

// NewObservableWithEquality creates an observable holding initial that uses
// equal to decide whether Set is a change.
func NewObservableWithEquality[T any](initial T, equal func(a, b T) bool) *Observable[T] {
	o := NewEmptyObservableWithEquality(equal)
	o.value = initial
	o.present = true
	return o
}

// NewEmptyObservableWithEquality creates an empty observable that uses equal
// to decide whether Set is a change.
func NewEmptyObservableWithEquality[T any](equal func(a, b T) bool) *Observable[T] {
	return &Observable[T]{equal: equal}
}

// Value returns the current value, or the zero value when absent.
func (o *Observable[T]) Value() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Lookup returns the current value and whether one is present.
func (o *Observable[T]) Lookup() (T, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value, o.present
}

// Set stores value and notifies every listener with it.
// Setting a value equal to the present one is a no-op.
func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	if o.present && o.equal != nil && o.equal(o.value, value) {
		o.mu.Unlock()
		return
	}
	o.value = value
	o.present = true
	listeners := o.snapshot()
	o.mu.Unlock()

	for _, l := range listeners {
		l.fn(value)
	}
}

// Update applies transform to the current value and stores the result.
func (o *Observable[T]) Update(transform func(T) T) {
	o.Set(transform(o.Value()))
}

// Clear makes the value absent. Listeners are not notified since they only
// ever receive present values.
func (o *Observable[T]) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	var zero T
	o.value = zero
	o.present = false
}

// AddListener registers fn to receive every new value.
// The returned function removes the listener; calling it more than once is safe.
func (o *Observable[T]) AddListener(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}

	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.listeners = append(o.listeners, observableListener[T]{id: id, fn: fn})
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			for i, l := range o.listeners {
				if l.id == id {
					o.listeners = append(o.listeners[:i:i], o.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// ListenerCount returns the number of registered listeners.
func (o *Observable[T]) ListenerCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.listeners)
}

func (o *Observable[T]) snapshot() []observableListener[T] {
	listeners := make([]observableListener[T], len(o.listeners))
	copy(listeners, o.listeners)
	return listeners
}
