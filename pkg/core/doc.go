// Package core provides the observable value container and the lifecycle
// scope that bindings attach to.
//
// # Observable
//
// Observable holds a value that may be absent and notifies listeners in
// subscription order whenever the value changes:
//
//	counter := core.NewObservable(0)
//	unsub := counter.AddListener(func(v int) { fmt.Println(v) })
//	counter.Set(1) // prints 1
//	counter.Set(1) // equal value, no notification
//	unsub()
//
// Observables created with NewObservableWithEquality use a caller-supplied
// equality, for values whose notion of "same" is not ==.
//
// # Lifecycle
//
// Embed StateBase in any struct that owns subscriptions. Everything
// registered with OnDispose runs, newest first, when Dispose is called:
//
//	type screen struct {
//	    core.StateBase
//	}
//
//	s := &screen{}
//	core.UseObservable(s, counter)
//	s.Dispose() // listener removed
//
// # Hooks
//
// UseController and UseObservable help manage resources
// and subscriptions with automatic cleanup on disposal.
package core
