package bind

import (
	"github.com/google/uuid"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"

	"github.com/go-drift/bindable/pkg/core"
	"github.com/go-drift/bindable/pkg/errors"
)

var (
	// ErrNilObservable is returned by Bind when given a nil observable.
	ErrNilObservable = errors.New("bind: nil observable")

	// ErrDisposed is returned by Bind after the binder has been disposed.
	ErrDisposed = errors.New("bind: binder disposed")
)

// Binder is the binding slot of one participant. It holds at most one
// Observable at a time and moves values between it and the participant.
//
// A Binder starts unbound. The first Bind makes it bound; later calls to
// Bind replace the observable. There is no way back to unbound other than
// Dispose, which releases the binder for good.
type Binder[T any] struct {
	participant Bindable[T]
	equal       func(a, b T) bool
	id          string
	name        string
	logger      log.Logger
	onError     func(error)

	slot        Observable[T]
	bound       bool
	generation  uint64
	unsubscribe func()
	hooked      bool
	unhook      func()
	disposed    bool
}

// New creates the binder for participant. Values are compared with Equal.
func New[T comparable](participant Bindable[T], opts ...options.Option[Binder[T]]) *Binder[T] {
	return newBinder(participant, Equal[T], opts)
}

// NewWithEqual creates the binder for participant using equal as the dedup
// gate. Use it for value types that are not comparable with ==.
func NewWithEqual[T any](participant Bindable[T], equal func(a, b T) bool, opts ...options.Option[Binder[T]]) *Binder[T] {
	return newBinder(participant, equal, opts)
}

func newBinder[T any](participant Bindable[T], equal func(a, b T) bool, opts []options.Option[Binder[T]]) *Binder[T] {
	return options.Apply(&Binder[T]{
		participant: participant,
		equal:       equal,
		id:          uuid.NewString(),
	}, opts)
}

// ID returns the binder's unique identifier.
func (b *Binder[T]) ID() string {
	return b.id
}

// Participant returns the participant this binder serves.
func (b *Binder[T]) Participant() Bindable[T] {
	return b.participant
}

// IsBound reports whether Bind has succeeded at least once.
func (b *Binder[T]) IsBound() bool {
	return b.bound
}

// Observable returns the observable in the slot. An unbound binder lazily
// creates an empty one, so the result is never nil.
func (b *Binder[T]) Observable() Observable[T] {
	if b.slot == nil {
		b.slot = core.NewEmptyObservableWithEquality(b.equal)
	}
	return b.slot
}

// Value returns the value held by the bound observable.
func (b *Binder[T]) Value() (T, bool) {
	return b.Observable().Lookup()
}

// SetValue writes value into the bound observable, which notifies all of its
// listeners, including other participants bound to it.
func (b *Binder[T]) SetValue(value T) {
	b.Observable().Set(value)
}

// ClearValue makes the bound observable's value absent when the observable
// supports it, and reports whether it did.
func (b *Binder[T]) ClearValue() bool {
	if c, ok := b.Observable().(Clearer); ok {
		c.Clear()
		return true
	}
	return false
}

// Register puts obs into the slot without syncing or subscribing.
// A nil obs empties the slot. Bind is built on Register.
func (b *Binder[T]) Register(obs Observable[T]) {
	b.slot = obs
}

// ValueChanged re-reads the participant and pushes its value to the
// observable if, and only if, it differs from the held value. It returns
// whether a push happened. Interactive participants get it called on every
// native edit; others may call it directly.
func (b *Binder[T]) ValueChanged() bool {
	current := b.participant.ObservingValue()
	if held, ok := b.Value(); ok && b.equal(held, current) {
		return false
	}
	b.logDebugf("push %v to observable", current)
	b.SetValue(current)
	return true
}

// Bind associates obs with the participant, replacing any previous
// observable. In order it hooks the participant's native edits (once per
// binder), stores obs, pulls obs's current value into the participant if
// one is present, and subscribes to obs so later values are pushed into the
// participant. The previous observable's subscription is removed first.
//
// An error from the initial pull is returned after the subscription is in
// place, so the binding stays live for values the participant can hold.
// Errors from later pushes go to the error handler. A participant that
// panics while receiving a push is reported with errors.ReportPanic; the
// observable's other listeners still run.
//
// A nil obs, or a nil *core.Observable, yields ErrNilObservable. Other
// implementations must not be passed as typed nil pointers.
func (b *Binder[T]) Bind(obs Observable[T]) error {
	if obs == nil {
		return ErrNilObservable
	}
	if ref, ok := obs.(*core.Observable[T]); ok && ref == nil {
		return ErrNilObservable
	}
	if b.disposed {
		return ErrDisposed
	}

	b.hookNativeEdits()

	b.release()
	b.Register(obs)
	b.bound = true
	b.generation++
	generation := b.generation

	var pullErr error
	if value, ok := obs.Lookup(); ok {
		pullErr = b.update("bind.Bind", value)
	}

	b.unsubscribe = obs.AddListener(func(value T) {
		if b.generation != generation || b.disposed {
			return
		}
		defer errors.Recover("bind.forward")
		if err := b.update("bind.forward", value); err != nil {
			b.report(err)
		}
	})

	b.logDebugf("bound (generation %d)", generation)
	return pullErr
}

// Dispose removes the forward subscription and the native edit hook.
// The slot keeps its observable. Dispose is idempotent.
func (b *Binder[T]) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true

	var teardown []func()
	if b.unsubscribe != nil {
		teardown = append(teardown, b.unsubscribe)
	}
	if b.unhook != nil {
		teardown = append(teardown, b.unhook)
	}
	lo.Batch(teardown...)()
	b.unsubscribe = nil
	b.unhook = nil
	b.logDebugf("disposed")
}

func (b *Binder[T]) hookNativeEdits() {
	if b.hooked {
		return
	}
	b.hooked = true
	if interactive, ok := b.participant.(Interactive[T]); ok {
		b.unhook = interactive.OnNativeEdit(func() {
			if b.disposed {
				return
			}
			defer errors.Recover("bind.nativeEdit")
			b.ValueChanged()
		})
	}
}

func (b *Binder[T]) release() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

func (b *Binder[T]) update(op string, value T) error {
	if err := b.participant.UpdateValue(value); err != nil {
		return errors.Wrap(op, b.id, err)
	}
	return nil
}

// report hands err to the binder's error handler, or to the global one,
// which does its own logging.
func (b *Binder[T]) report(err error) {
	if b.onError != nil {
		b.logErrorf("%v", err)
		b.onError(err)
		return
	}
	if bindErr := errors.Wrap("bind.forward", b.id, err); bindErr != nil {
		errors.Report(bindErr)
	}
}

func (b *Binder[T]) logDebugf(format string, args ...any) {
	if b.logger == nil {
		return
	}
	b.logger.LogDebugf(b.label()+": "+format, args...)
}

func (b *Binder[T]) logErrorf(format string, args ...any) {
	if b.logger == nil {
		return
	}
	b.logger.LogErrorf(b.label()+": "+format, args...)
}

func (b *Binder[T]) label() string {
	if b.name != "" {
		return b.name
	}
	return b.id
}
