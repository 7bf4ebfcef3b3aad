package platform

import (
	"sync"

	"github.com/go-drift/bindable/pkg/bind"
	"github.com/go-drift/bindable/pkg/errors"
)

// SwitchViewConfig defines styling passed to native switch view.
type SwitchViewConfig struct {
	// OnTintColor is the track color when the switch is on (ARGB).
	OnTintColor uint32

	// ThumbTintColor is the thumb/knob color (ARGB).
	ThumbTintColor uint32
}

// SwitchViewClient receives callbacks from native switch view.
type SwitchViewClient interface {
	// OnValueChanged is called when the user toggles the switch.
	OnValueChanged(value bool)
}

// SwitchView mirrors a native on/off switch. It binds to bool observables.
type SwitchView struct {
	basePlatformView
	config SwitchViewConfig
	client SwitchViewClient
	value  bool
	binder *bind.Binder[bool]
	mu     sync.RWMutex
}

// NewSwitchView creates a new switch view talking to host.
func NewSwitchView(viewID int64, config SwitchViewConfig, host Host) *SwitchView {
	v := &SwitchView{
		basePlatformView: newBasePlatformView(viewID, "switch", host),
		config:           config,
	}
	v.binder = bind.New[bool](v, bind.WithName[bool]("switch"))
	return v
}

// Binder returns the view's binding slot.
func (v *SwitchView) Binder() *bind.Binder[bool] {
	return v.binder
}

// SetClient sets the callback client for this view.
func (v *SwitchView) SetClient(client SwitchViewClient) {
	v.mu.Lock()
	v.client = client
	v.mu.Unlock()
}

// Dispose releases the binding.
func (v *SwitchView) Dispose() {
	v.binder.Dispose()
}

// SetValue updates the switch value from Go side. The value is kept only
// once the host has accepted it.
func (v *SwitchView) SetValue(value bool) error {
	if err := v.invoke("setValue", map[string]any{
		"value": value,
	}); err != nil {
		return err
	}

	v.mu.Lock()
	v.value = value
	v.mu.Unlock()
	return nil
}

// Value returns the current value.
func (v *SwitchView) Value() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// ObservingValue implements bind.Bindable.
func (v *SwitchView) ObservingValue() bool {
	return v.Value()
}

// UpdateValue implements bind.Bindable.
func (v *SwitchView) UpdateValue(value bool) error {
	if err := v.SetValue(value); err != nil {
		return &errors.BindError{Op: "platform.SwitchView.UpdateValue", Kind: errors.KindPlatform, Err: err}
	}
	return nil
}

// UpdateConfig updates the view configuration.
func (v *SwitchView) UpdateConfig(config SwitchViewConfig) error {
	if err := v.invoke("updateConfig", map[string]any{
		"onTintColor":    config.OnTintColor,
		"thumbTintColor": config.ThumbTintColor,
	}); err != nil {
		return err
	}

	v.mu.Lock()
	v.config = config
	v.mu.Unlock()
	return nil
}

// handleValueChanged processes value change events from native.
func (v *SwitchView) handleValueChanged(value bool) {
	v.mu.Lock()
	v.value = value
	client := v.client
	v.mu.Unlock()

	if client != nil {
		client.OnValueChanged(value)
	}
	v.edits.Notify()
}

func (v *SwitchView) handleNativeValue(payload any) error {
	value, ok := payload.(bool)
	if !ok {
		return &errors.ParseError{Source: v.viewType, DataType: "bool", Got: payload}
	}
	v.handleValueChanged(value)
	return nil
}

// switchViewFactory creates switch platform views.
type switchViewFactory struct{}

func (f *switchViewFactory) ViewType() string {
	return "switch"
}

func (f *switchViewFactory) Create(viewID int64, params map[string]any, host Host) (PlatformView, error) {
	config := SwitchViewConfig{}

	if v, ok := toUint32(params["onTintColor"]); ok {
		config.OnTintColor = v
	}
	if v, ok := toUint32(params["thumbTintColor"]); ok {
		config.ThumbTintColor = v
	}

	view := NewSwitchView(viewID, config, host)

	if v, ok := params["value"].(bool); ok {
		view.value = v
	}

	return view, nil
}
