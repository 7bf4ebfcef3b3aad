// Package reactivebind connects hive.go reactive variables to bindings, both
// as the observable side and as a participant.
package reactivebind

import (
	"sync/atomic"

	"github.com/iotaledger/hive.go/ds/reactive"
	"github.com/iotaledger/hive.go/runtime/options"

	"github.com/go-drift/bindable/pkg/bind"
)

// Observable exposes a reactive.Variable as a bind.Observable.
//
// Variables always hold a value, so the zero value stands for "absent":
// Lookup reports false while the variable holds it. Setting the same value
// twice notifies nobody, matching the variable's own semantics.
type Observable[T comparable] struct {
	variable reactive.Variable[T]
}

// NewObservable creates an Observable backed by a fresh variable.
func NewObservable[T comparable]() *Observable[T] {
	return Wrap(reactive.NewVariable[T]())
}

// Wrap adapts an existing variable.
func Wrap[T comparable](variable reactive.Variable[T]) *Observable[T] {
	return &Observable[T]{variable: variable}
}

// Variable returns the underlying variable.
func (o *Observable[T]) Variable() reactive.Variable[T] {
	return o.variable
}

// Lookup returns the variable's value and whether it is non-zero.
func (o *Observable[T]) Lookup() (T, bool) {
	var zero T
	value := o.variable.Get()
	return value, value != zero
}

// Set writes value into the variable.
func (o *Observable[T]) Set(value T) {
	o.variable.Set(value)
}

// Clear resets the variable to the zero value.
func (o *Observable[T]) Clear() {
	var zero T
	o.variable.Set(zero)
}

// AddListener registers fn for every new value of the variable.
func (o *Observable[T]) AddListener(fn func(T)) func() {
	return o.variable.OnUpdate(func(_, newValue T) {
		fn(newValue)
	})
}

// Participant lets a reactive.Variable take part in a binding as a non-UI
// participant. Updates made by anyone other than the binder count as
// native edits.
type Participant[T comparable] struct {
	variable reactive.Variable[T]
	applying atomic.Bool
	binder   *bind.Binder[T]
}

// NewParticipant wraps variable. opts configure the participant's binder.
func NewParticipant[T comparable](variable reactive.Variable[T], opts ...options.Option[bind.Binder[T]]) *Participant[T] {
	p := &Participant[T]{variable: variable}
	p.binder = bind.New[T](p, opts...)
	return p
}

// Binder returns the participant's binding slot.
func (p *Participant[T]) Binder() *bind.Binder[T] {
	return p.binder
}

// Variable returns the underlying variable.
func (p *Participant[T]) Variable() reactive.Variable[T] {
	return p.variable
}

// ObservingValue implements bind.Bindable.
func (p *Participant[T]) ObservingValue() T {
	return p.variable.Get()
}

// UpdateValue implements bind.Bindable. The variable's update callbacks
// still run, but are not reported as a native edit.
func (p *Participant[T]) UpdateValue(value T) error {
	if p.variable.Get() == value {
		return nil
	}
	p.applying.Store(true)
	defer p.applying.Store(false)
	p.variable.Set(value)
	return nil
}

// OnNativeEdit implements bind.Interactive.
func (p *Participant[T]) OnNativeEdit(handler func()) func() {
	return p.variable.OnUpdate(func(_, _ T) {
		if !p.applying.Load() {
			handler()
		}
	})
}
