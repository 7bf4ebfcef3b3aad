package bind

import "github.com/go-drift/bindable/pkg/errors"

// Scope owns cleanup callbacks; *core.StateBase satisfies it.
type Scope interface {
	OnDispose(cleanup func()) (unregister func())
}

// BindScoped binds b to obs and disposes b together with scope, tying the
// binding's lifetime to the participant's.
func BindScoped[T any](scope Scope, b *Binder[T], obs Observable[T]) error {
	err := b.Bind(obs)
	if errors.Is(err, ErrNilObservable) || errors.Is(err, ErrDisposed) {
		return err
	}
	scope.OnDispose(b.Dispose)
	return err
}
