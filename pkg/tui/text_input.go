package tui

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/iotaledger/hive.go/runtime/options"

	"github.com/go-drift/bindable/pkg/bind"
	"github.com/go-drift/bindable/pkg/core"
	"github.com/go-drift/bindable/pkg/errors"
)

// TextInput is a terminal text field participant for string observables.
// Every keystroke that changes the text is a continuous edit and enter is a
// committed edit.
type TextInput struct {
	model  textinput.Model
	label  string
	edits  *core.Notifier
	binder *bind.Binder[string]
}

// NewTextInput creates a text field. A positive charLimit caps the text.
// opts configure the field's binder.
func NewTextInput(label, placeholder string, charLimit int, opts ...options.Option[bind.Binder[string]]) *TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Width = 40
	ti.Prompt = "› "
	ti.PromptStyle = promptStyle

	t := &TextInput{
		model: ti,
		label: label,
		edits: core.NewNotifier(),
	}
	t.binder = bind.New[string](t, append([]options.Option[bind.Binder[string]]{bind.WithName[string](label)}, opts...)...)
	return t
}

// Binder returns the field's binding slot.
func (t *TextInput) Binder() *bind.Binder[string] {
	return t.binder
}

// Label returns the field's label.
func (t *TextInput) Label() string {
	return t.label
}

// ObservingValue implements bind.Bindable.
func (t *TextInput) ObservingValue() string {
	return t.model.Value()
}

// UpdateValue implements bind.Bindable. Text longer than the field's
// character limit is rejected instead of being cut.
func (t *TextInput) UpdateValue(value string) error {
	if limit := t.model.CharLimit; limit > 0 && utf8.RuneCountInString(value) > limit {
		return &errors.TypeMismatchError{
			Participant: "*tui.TextInput",
			Value:       value,
			Reason:      fmt.Sprintf("longer than %d characters", limit),
		}
	}
	if value == t.model.Value() {
		return nil
	}
	t.model.SetValue(value)
	t.model.CursorEnd()
	return nil
}

// OnNativeEdit implements bind.Interactive.
func (t *TextInput) OnNativeEdit(handler func()) func() {
	return t.edits.AddListener(handler)
}

// Focus gives the field keyboard focus.
func (t *TextInput) Focus() tea.Cmd {
	return t.model.Focus()
}

// Blur removes keyboard focus.
func (t *TextInput) Blur() {
	t.model.Blur()
}

// Focused reports whether the field has focus.
func (t *TextInput) Focused() bool {
	return t.model.Focused()
}

// Update feeds msg to the underlying text input and reports edits.
func (t *TextInput) Update(msg tea.Msg) tea.Cmd {
	before := t.model.Value()

	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)

	if t.model.Value() != before {
		t.edits.Notify()
	} else if k, ok := msg.(tea.KeyMsg); ok && t.model.Focused() && key.Matches(k, keys.Submit) {
		t.edits.Notify()
	}
	return cmd
}

// View renders the field.
func (t *TextInput) View() string {
	return t.model.View()
}
