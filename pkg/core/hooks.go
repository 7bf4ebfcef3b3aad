package core

// UseController creates a controller and registers it for automatic disposal.
// The controller will be disposed when the state is disposed.
//
// Example:
//
//	s.file = core.UseController(s, func() *filebind.File {
//	    return file
//	})
func UseController[C Disposable](s stateBase, create func() C) C {
	base := s.state()
	controller := create()
	base.OnDispose(func() {
		controller.Dispose()
	})
	return controller
}

// UseObservable subscribes to an observable and triggers rebuilds when it changes.
// Call it once when the state is set up. The subscription is automatically
// cleaned up when the state is disposed.
//
// Example:
//
//	s.counter = core.NewObservable(0)
//	core.UseObservable(s, s.counter)
func UseObservable[T any](s stateBase, obs *Observable[T]) {
	base := s.state()
	unsub := obs.AddListener(func(T) {
		base.SetState(nil)
	})
	base.OnDispose(unsub)
}
