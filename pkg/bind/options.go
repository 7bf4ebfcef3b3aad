package bind

import (
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
)

// WithName labels the binder in logs and errors.
func WithName[T any](name string) options.Option[Binder[T]] {
	return func(b *Binder[T]) {
		b.name = name
	}
}

// WithLogger enables debug logging of propagation through logger.
func WithLogger[T any](logger log.Logger) options.Option[Binder[T]] {
	return func(b *Binder[T]) {
		b.logger = logger
	}
}

// WithErrorHandler routes errors raised while pushing observable changes into
// the participant to handler instead of errors.Report.
func WithErrorHandler[T any](handler func(error)) options.Option[Binder[T]] {
	return func(b *Binder[T]) {
		b.onError = handler
	}
}

// WithEqual replaces the equality used by the dedup gate.
func WithEqual[T any](equal func(a, b T) bool) options.Option[Binder[T]] {
	return func(b *Binder[T]) {
		if equal != nil {
			b.equal = equal
		}
	}
}
