package platform

import "github.com/go-drift/bindable/pkg/errors"

// Sentinel errors for platform operations.
var (
	// ErrViewTypeNotFound is returned when no factory is registered for a view type.
	ErrViewTypeNotFound = errors.New("platform: view type not found")

	// ErrViewNotFound is returned when a native event names an unknown view.
	ErrViewNotFound = errors.New("platform: view not found")

	// ErrNotConnected is for Host implementations to return when the native
	// side cannot be reached. Views pass it through unchanged.
	ErrNotConnected = errors.New("platform: not connected")
)
