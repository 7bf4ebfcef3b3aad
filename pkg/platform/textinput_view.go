package platform

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/go-drift/bindable/pkg/bind"
	"github.com/go-drift/bindable/pkg/errors"
)

// TextInputAction specifies the keyboard action button.
type TextInputAction int

const (
	TextInputActionNone TextInputAction = iota
	TextInputActionDone
	TextInputActionGo
	TextInputActionNext
	TextInputActionSearch
	TextInputActionSend
)

// TextInputViewConfig defines behavior passed to native text view.
type TextInputViewConfig struct {
	Placeholder string
	Multiline   bool
	Obscure     bool
	InputAction TextInputAction

	// MaxLength limits the text to this many runes. Zero means unlimited.
	MaxLength int
}

// TextInputViewClient receives callbacks from native text input view.
type TextInputViewClient interface {
	// OnTextChanged is called when text or selection changes.
	OnTextChanged(text string, selectionBase, selectionExtent int)

	// OnAction is called when keyboard action button is pressed.
	OnAction(action TextInputAction)
}

// TextInputView mirrors a native text field. It binds to string observables
// and reports both keystrokes and action-button commits as native edits.
type TextInputView struct {
	basePlatformView
	config  TextInputViewConfig
	client  TextInputViewClient
	text    string
	selBase int
	selExt  int
	binder  *bind.Binder[string]
	mu      sync.RWMutex
}

// NewTextInputView creates a new text input view talking to host.
func NewTextInputView(viewID int64, config TextInputViewConfig, host Host) *TextInputView {
	v := &TextInputView{
		basePlatformView: newBasePlatformView(viewID, "textinput", host),
		config:           config,
	}
	v.binder = bind.New[string](v, bind.WithName[string]("textinput"))
	return v
}

// Binder returns the view's binding slot.
func (v *TextInputView) Binder() *bind.Binder[string] {
	return v.binder
}

// SetClient sets the callback client for this view.
func (v *TextInputView) SetClient(client TextInputViewClient) {
	v.mu.Lock()
	v.client = client
	v.mu.Unlock()
}

// Dispose releases the binding.
func (v *TextInputView) Dispose() {
	v.binder.Dispose()
}

// SetText updates the text content from Go side and moves the cursor to
// the end.
func (v *TextInputView) SetText(text string) error {
	if err := v.checkLength(text); err != nil {
		return err
	}

	end := len(text)
	if err := v.invoke("setValue", map[string]any{
		"text":            text,
		"selectionBase":   end,
		"selectionExtent": end,
	}); err != nil {
		return err
	}

	v.mu.Lock()
	v.text = text
	v.selBase = end
	v.selExt = end
	v.mu.Unlock()
	return nil
}

func (v *TextInputView) checkLength(text string) error {
	if limit := v.config.MaxLength; limit > 0 && utf8.RuneCountInString(text) > limit {
		return &errors.TypeMismatchError{
			Participant: "*platform.TextInputView",
			Value:       text,
			Reason:      fmt.Sprintf("longer than %d characters", limit),
		}
	}
	return nil
}

// Text returns the current text.
func (v *TextInputView) Text() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.text
}

// Selection returns the current selection.
func (v *TextInputView) Selection() (base, extent int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selBase, v.selExt
}

// ObservingValue implements bind.Bindable.
func (v *TextInputView) ObservingValue() string {
	return v.Text()
}

// UpdateValue implements bind.Bindable.
func (v *TextInputView) UpdateValue(text string) error {
	return v.SetText(text)
}

// handleTextChanged processes continuous edits from native.
func (v *TextInputView) handleTextChanged(text string, selBase, selExt int) {
	v.mu.Lock()
	v.text = text
	v.selBase = selBase
	v.selExt = selExt
	client := v.client
	v.mu.Unlock()

	if client != nil {
		client.OnTextChanged(text, selBase, selExt)
	}
	v.edits.Notify()
}

// handleAction processes committed edits (action button) from native.
func (v *TextInputView) handleAction(action TextInputAction) {
	v.mu.RLock()
	client := v.client
	v.mu.RUnlock()

	if client != nil {
		client.OnAction(action)
	}
	v.edits.Notify()
}

// handleNativeValue accepts a bare string, or a map carrying "text" with
// optional "selectionBase", "selectionExtent" and "action". Text over
// MaxLength is rejected before any edit is reported.
func (v *TextInputView) handleNativeValue(payload any) error {
	switch p := payload.(type) {
	case string:
		if err := v.checkLength(p); err != nil {
			return err
		}
		end := len(p)
		v.handleTextChanged(p, end, end)
		return nil
	case map[string]any:
		if action, ok := toInt(p["action"]); ok {
			v.handleAction(TextInputAction(action))
			return nil
		}
		text, ok := p["text"].(string)
		if !ok {
			return &errors.ParseError{Source: v.viewType, DataType: "TextEditingValue", Got: p["text"]}
		}
		if err := v.checkLength(text); err != nil {
			return err
		}
		base, ok := toInt(p["selectionBase"])
		if !ok {
			base = len(text)
		}
		extent, ok := toInt(p["selectionExtent"])
		if !ok {
			extent = base
		}
		v.handleTextChanged(text, base, extent)
		return nil
	default:
		return &errors.ParseError{Source: v.viewType, DataType: "string", Got: payload}
	}
}

// textInputViewFactory creates text input platform views.
type textInputViewFactory struct{}

func (f *textInputViewFactory) ViewType() string {
	return "textinput"
}

func (f *textInputViewFactory) Create(viewID int64, params map[string]any, host Host) (PlatformView, error) {
	config := TextInputViewConfig{}

	if v, ok := params["placeholder"].(string); ok {
		config.Placeholder = v
	}
	if v, ok := params["multiline"].(bool); ok {
		config.Multiline = v
	}
	if v, ok := params["obscure"].(bool); ok {
		config.Obscure = v
	}
	if v, ok := toInt(params["inputAction"]); ok {
		config.InputAction = TextInputAction(v)
	}
	if v, ok := toInt(params["maxLength"]); ok {
		config.MaxLength = v
	}

	view := NewTextInputView(viewID, config, host)
	if v, ok := params["text"].(string); ok {
		if err := view.checkLength(v); err != nil {
			return nil, err
		}
		view.text = v
		view.selBase = len(v)
		view.selExt = len(v)
	}
	return view, nil
}
