package platform

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-drift/bindable/pkg/bind"
	"github.com/go-drift/bindable/pkg/errors"
)

// SliderViewConfig defines the range of a native slider.
type SliderViewConfig struct {
	Min float64
	Max float64
}

// SliderView mirrors a native slider. Drags report continuous edits and
// releasing the thumb reports a committed edit; both reach the binder.
type SliderView struct {
	basePlatformView
	config   SliderViewConfig
	value    float64
	dragging bool
	binder   *bind.Binder[float64]
	mu       sync.RWMutex
}

// NewSliderView creates a new slider view talking to host. An empty range
// defaults to [0, 1].
func NewSliderView(viewID int64, config SliderViewConfig, host Host) *SliderView {
	if config.Max <= config.Min {
		config.Min, config.Max = 0, 1
	}
	v := &SliderView{
		basePlatformView: newBasePlatformView(viewID, "slider", host),
		config:           config,
		value:            config.Min,
	}
	v.binder = bind.New[float64](v, bind.WithName[float64]("slider"))
	return v
}

// Binder returns the view's binding slot.
func (v *SliderView) Binder() *bind.Binder[float64] {
	return v.binder
}

// Dispose releases the binding.
func (v *SliderView) Dispose() {
	v.binder.Dispose()
}

// Value returns the thumb position.
func (v *SliderView) Value() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// IsDragging reports whether the user is mid-drag.
func (v *SliderView) IsDragging() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dragging
}

// ObservingValue implements bind.Bindable.
func (v *SliderView) ObservingValue() float64 {
	return v.Value()
}

// UpdateValue implements bind.Bindable. Values the slider cannot show,
// NaN or outside [Min, Max], fail with a type mismatch.
func (v *SliderView) UpdateValue(value float64) error {
	if math.IsNaN(value) || value < v.config.Min || value > v.config.Max {
		return &errors.TypeMismatchError{
			Participant: "*platform.SliderView",
			Value:       value,
			Reason:      fmt.Sprintf("outside [%g, %g]", v.config.Min, v.config.Max),
		}
	}

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

// handleValueChanged processes drag (committed=false) and release
// (committed=true) events from native.
func (v *SliderView) handleValueChanged(value float64, committed bool) {
	v.mu.Lock()
	v.value = math.Min(math.Max(value, v.config.Min), v.config.Max)
	v.dragging = !committed
	v.mu.Unlock()

	v.edits.Notify()
}

// handleNativeValue accepts a number (a committed value) or a map carrying
// "value" and optional "committed". NaN is rejected before any edit is
// reported; other values are clamped to the range.
func (v *SliderView) handleNativeValue(payload any) error {
	if value, ok := toFloat64(payload); ok {
		if math.IsNaN(value) {
			return &errors.ParseError{Source: v.viewType, DataType: "float64", Got: payload}
		}
		v.handleValueChanged(value, true)
		return nil
	}
	p, ok := payload.(map[string]any)
	if !ok {
		return &errors.ParseError{Source: v.viewType, DataType: "float64", Got: payload}
	}
	value, ok := toFloat64(p["value"])
	if !ok || math.IsNaN(value) {
		return &errors.ParseError{Source: v.viewType, DataType: "float64", Got: p["value"]}
	}
	committed, _ := p["committed"].(bool)
	v.handleValueChanged(value, committed)
	return nil
}

// sliderViewFactory creates slider platform views.
type sliderViewFactory struct{}

func (f *sliderViewFactory) ViewType() string {
	return "slider"
}

func (f *sliderViewFactory) Create(viewID int64, params map[string]any, host Host) (PlatformView, error) {
	config := SliderViewConfig{}
	if v, ok := toFloat64(params["min"]); ok {
		config.Min = v
	}
	if v, ok := toFloat64(params["max"]); ok {
		config.Max = v
	}

	view := NewSliderView(viewID, config, host)
	if v, ok := toFloat64(params["value"]); ok {
		if math.IsNaN(v) || v < view.config.Min || v > view.config.Max {
			return nil, &errors.TypeMismatchError{Participant: "*platform.SliderView", Value: v, Reason: "initial value out of range"}
		}
		view.value = v
	}
	return view, nil
}
