package bind

// Bindable is implemented by anything that can take part in a binding.
type Bindable[T any] interface {
	// ObservingValue returns the participant's current value, read from its
	// native state. It must not have side effects.
	ObservingValue() T

	// UpdateValue writes value into the participant's native state, so that a
	// following ObservingValue returns an equal value. It must be idempotent
	// and must not itself report a native edit. It returns an error matching
	// errors.ErrTypeMismatch when the native state cannot represent value.
	UpdateValue(value T) error
}

// Interactive is a Bindable that can tell when its value was changed from
// the native side, such as a keystroke, a toggle, or an external file write.
type Interactive[T any] interface {
	Bindable[T]

	// OnNativeEdit registers handler to run after every native edit, for both
	// continuous and committed edits. The returned function removes it.
	OnNativeEdit(handler func()) (cancel func())
}

// Observable is the value container a participant binds to.
// *core.Observable satisfies it, as do the reactivebind adapters.
// Implementations are passed by value as the interface; a typed nil pointer
// is a non-nil Observable and is only detected for *core.Observable.
type Observable[T any] interface {
	// Lookup returns the held value and whether one is present.
	Lookup() (T, bool)

	// Set stores value and synchronously notifies every listener, in the
	// order they were added.
	Set(value T)

	// AddListener registers fn for future values and returns a function that
	// removes it.
	AddListener(fn func(T)) (unsubscribe func())
}

// Clearer is implemented by observables that can drop their value.
type Clearer interface {
	Clear()
}

// Funcs adapts a pair of functions into a Bindable. It suits participants
// that have no native edit signal of their own.
type Funcs[T any] struct {
	Get func() T
	Set func(T) error
}

// ObservingValue calls Get.
func (f Funcs[T]) ObservingValue() T {
	return f.Get()
}

// UpdateValue calls Set.
func (f Funcs[T]) UpdateValue(value T) error {
	return f.Set(value)
}
