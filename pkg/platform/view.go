package platform

import (
	"sync"
	"sync/atomic"

	"github.com/go-drift/bindable/pkg/core"
)

// PlatformView represents a native control mirrored on the Go side.
type PlatformView interface {
	// ViewID returns the unique identifier for this view.
	ViewID() int64

	// ViewType returns the type identifier for this view (e.g., "switch").
	ViewType() string

	// Dispose releases the view's binder and edit listeners.
	Dispose()
}

// PlatformViewFactory creates platform views of a specific type.
type PlatformViewFactory interface {
	// Create creates a new platform view instance.
	Create(viewID int64, params map[string]any, host Host) (PlatformView, error)

	// ViewType returns the view type this factory creates.
	ViewType() string
}

// Host is the native side of the bridge. Views call it to push Go-side
// changes into the real controls.
type Host interface {
	// CreateView asks the toolkit to instantiate a control.
	CreateView(viewID int64, viewType string, params map[string]any) error

	// DisposeView asks the toolkit to destroy a control.
	DisposeView(viewID int64) error

	// InvokeViewMethod calls method on the control identified by viewID.
	InvokeViewMethod(viewID int64, method string, args map[string]any) error
}

// nativeValueReceiver is implemented by views that accept value events.
type nativeValueReceiver interface {
	handleNativeValue(payload any) error
}

// ViewRegistry manages view factories and live views, and routes native
// value events to them.
type ViewRegistry struct {
	factories map[string]PlatformViewFactory
	views     map[int64]PlatformView
	nextID    atomic.Int64
	host      Host
	mu        sync.RWMutex
}

// NewViewRegistry creates a registry bound to host with the built-in
// switch, text input and slider factories registered. A nil host is
// replaced by one that accepts every call.
func NewViewRegistry(host Host) *ViewRegistry {
	if host == nil {
		host = nopHost{}
	}
	r := &ViewRegistry{
		factories: make(map[string]PlatformViewFactory),
		views:     make(map[int64]PlatformView),
		host:      host,
	}
	r.RegisterFactory(&switchViewFactory{})
	r.RegisterFactory(&textInputViewFactory{})
	r.RegisterFactory(&sliderViewFactory{})
	return r
}

// RegisterFactory registers a factory for a view type.
func (r *ViewRegistry) RegisterFactory(factory PlatformViewFactory) {
	r.mu.Lock()
	r.factories[factory.ViewType()] = factory
	r.mu.Unlock()
}

// Create creates a new view of the given type and asks the host to create
// its native control.
func (r *ViewRegistry) Create(viewType string, params map[string]any) (PlatformView, error) {
	r.mu.RLock()
	factory, ok := r.factories[viewType]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrViewTypeNotFound
	}

	viewID := r.nextID.Add(1)

	view, err := factory.Create(viewID, params, r.host)
	if err != nil {
		return nil, err
	}

	if err := r.host.CreateView(viewID, viewType, params); err != nil {
		view.Dispose()
		return nil, err
	}

	r.mu.Lock()
	r.views[viewID] = view
	r.mu.Unlock()

	return view, nil
}

// Dispose destroys a view.
func (r *ViewRegistry) Dispose(viewID int64) {
	r.mu.Lock()
	view, ok := r.views[viewID]
	if ok {
		delete(r.views, viewID)
	}
	r.mu.Unlock()

	if ok {
		view.Dispose()
		r.host.DisposeView(viewID)
	}
}

// GetView returns a view by ID, or nil.
func (r *ViewRegistry) GetView(viewID int64) PlatformView {
	r.mu.RLock()
	view := r.views[viewID]
	r.mu.RUnlock()
	return view
}

// ViewCount returns the number of live views.
func (r *ViewRegistry) ViewCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// HandleValueChanged delivers a "value changed by user" event from the host
// to the view identified by viewID. It returns ErrViewNotFound for unknown
// views and a *errors.ParseError when payload has the wrong type.
func (r *ViewRegistry) HandleValueChanged(viewID int64, payload any) error {
	view := r.GetView(viewID)
	if view == nil {
		return ErrViewNotFound
	}
	receiver, ok := view.(nativeValueReceiver)
	if !ok {
		return ErrViewNotFound
	}
	return receiver.handleNativeValue(payload)
}

// basePlatformView provides common implementation for platform views.
type basePlatformView struct {
	viewID   int64
	viewType string
	host     Host
	edits    *core.Notifier
}

func newBasePlatformView(viewID int64, viewType string, host Host) basePlatformView {
	if host == nil {
		host = nopHost{}
	}
	return basePlatformView{
		viewID:   viewID,
		viewType: viewType,
		host:     host,
		edits:    core.NewNotifier(),
	}
}

func (v *basePlatformView) ViewID() int64 {
	return v.viewID
}

func (v *basePlatformView) ViewType() string {
	return v.viewType
}

// OnNativeEdit registers handler for user edits reported by the host.
func (v *basePlatformView) OnNativeEdit(handler func()) func() {
	return v.edits.AddListener(handler)
}

func (v *basePlatformView) invoke(method string, args map[string]any) error {
	return v.host.InvokeViewMethod(v.viewID, method, args)
}

type nopHost struct{}

func (nopHost) CreateView(int64, string, map[string]any) error        { return nil }
func (nopHost) DisposeView(int64) error                               { return nil }
func (nopHost) InvokeViewMethod(int64, string, map[string]any) error { return nil }
