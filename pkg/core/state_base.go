package core

import "sync"

// stateBase is satisfied by any struct that embeds StateBase.
// Hooks accept stateBase so callers can pass s directly.
type stateBase interface {
	state() *StateBase
}

func (s *StateBase) state() *StateBase { return s }

// StateBase is the lifecycle scope of a participant or screen: it collects
// disposers that release subscriptions and bindings, and it forwards
// SetState calls to a rebuild hook supplied by the host (a render loop, a
// terminal program, a test).
//
// Example:
//
//	type formState struct {
//	    core.StateBase
//	    name *core.Observable[string]
//	}
//
//	func (s *formState) InitState() {
//	    s.name = core.NewObservable("")
//	    core.UseObservable(s, s.name)
//	}
type StateBase struct {
	rebuild   func()
	disposers []func()
	disposed  bool
	mu        sync.Mutex
}

// SetRebuild installs the function SetState calls after running its callback.
func (s *StateBase) SetRebuild(fn func()) {
	s.mu.Lock()
	s.rebuild = fn
	s.mu.Unlock()
}

// SetState executes the given function and requests a rebuild.
// Safe to call even after disposal (becomes a no-op).
//
// SetState is NOT thread-safe. It must only be called from the UI thread.
// To update state from a background goroutine, use platform.Dispatch.
func (s *StateBase) SetState(fn func()) {
	if s.IsDisposed() {
		return
	}
	if fn != nil {
		fn()
	}
	s.mu.Lock()
	rebuild := s.rebuild
	s.mu.Unlock()
	if rebuild != nil {
		rebuild()
	}
}

// OnDispose registers a cleanup function to be called when the state is disposed.
// Returns an unregister function that can be called to remove the disposer.
// The cleanup function will only be called once.
func (s *StateBase) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		cleanup()
		return func() {}
	}
	index := len(s.disposers)
	s.disposers = append(s.disposers, cleanup)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if index < len(s.disposers) {
			s.disposers[index] = nil
		}
	}
}

// RunDisposers executes all registered disposers in reverse order.
// Disposers run outside the lock so they may touch the state.
func (s *StateBase) RunDisposers() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	disposers := s.disposers
	s.disposers = nil
	s.mu.Unlock()

	for i := len(disposers) - 1; i >= 0; i-- {
		if disposers[i] != nil {
			disposers[i]()
		}
	}
}

// Dispose cleans up resources. Override this method if you need custom cleanup,
// but always call s.RunDisposers() or s.StateBase.Dispose() in your override.
func (s *StateBase) Dispose() {
	s.RunDisposers()
}

// IsDisposed returns true if this state has been disposed.
func (s *StateBase) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}
