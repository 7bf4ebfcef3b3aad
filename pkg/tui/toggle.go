package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/iotaledger/hive.go/runtime/options"

	"github.com/go-drift/bindable/pkg/bind"
	"github.com/go-drift/bindable/pkg/core"
)

// Toggle is a terminal on/off participant for bool observables.
type Toggle struct {
	label   string
	value   bool
	focused bool
	edits   *core.Notifier
	binder  *bind.Binder[bool]
}

// NewToggle creates a toggle that starts off. opts configure its binder.
func NewToggle(label string, opts ...options.Option[bind.Binder[bool]]) *Toggle {
	t := &Toggle{label: label, edits: core.NewNotifier()}
	t.binder = bind.New[bool](t, append([]options.Option[bind.Binder[bool]]{bind.WithName[bool](label)}, opts...)...)
	return t
}

// Binder returns the toggle's binding slot.
func (t *Toggle) Binder() *bind.Binder[bool] {
	return t.binder
}

// Label returns the toggle's label.
func (t *Toggle) Label() string {
	return t.label
}

// ObservingValue implements bind.Bindable.
func (t *Toggle) ObservingValue() bool {
	return t.value
}

// UpdateValue implements bind.Bindable.
func (t *Toggle) UpdateValue(value bool) error {
	t.value = value
	return nil
}

// OnNativeEdit implements bind.Interactive.
func (t *Toggle) OnNativeEdit(handler func()) func() {
	return t.edits.AddListener(handler)
}

// Focus gives the toggle keyboard focus.
func (t *Toggle) Focus() tea.Cmd {
	t.focused = true
	return nil
}

// Blur removes keyboard focus.
func (t *Toggle) Blur() {
	t.focused = false
}

// Focused reports whether the toggle has focus.
func (t *Toggle) Focused() bool {
	return t.focused
}

// Update flips the toggle on space or enter while focused.
func (t *Toggle) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && t.focused && key.Matches(k, keys.Toggle) {
		t.value = !t.value
		t.edits.Notify()
	}
	return nil
}

// View renders the toggle.
func (t *Toggle) View() string {
	if t.value {
		return onStyle.Render("[x] on")
	}
	return offStyle.Render("[ ] off")
}
