package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/bindable/pkg/errors"
)

// Field is one focusable row of a Form.
type Field interface {
	Label() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// DispatchMsg carries a callback that must run on the UI loop. Sending one
// to a running program is how other goroutines hop onto it.
type DispatchMsg func()

// ErrorMsg shows err in the form's status line.
type ErrorMsg struct {
	Err error
}

// Form is a bubbletea model that lays fields out vertically and routes key
// presses to the focused one.
type Form struct {
	title  string
	fields []Field
	focus  int
	status string
	footer string
	width  int
	height int
}

// NewForm creates a form. The first field starts focused.
func NewForm(title string, fields ...Field) *Form {
	f := &Form{title: title, fields: fields}
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return f
}

// Fields returns the form's fields in display order.
func (f *Form) Fields() []Field {
	return f.fields
}

// FocusIndex returns the index of the focused field.
func (f *Form) FocusIndex() int {
	return f.focus
}

// Status returns the current status line.
func (f *Form) Status() string {
	return f.status
}

// SetFooter sets the line shown under the fields.
func (f *Form) SetFooter(footer string) {
	f.footer = footer
}

// Footer returns the line shown under the fields.
func (f *Form) Footer() string {
	return f.footer
}

// ShowError puts err in the status line. It must be called on the UI loop;
// other goroutines send an ErrorMsg instead.
func (f *Form) ShowError(err error) {
	if err != nil {
		f.status = err.Error()
	}
}

// Init implements tea.Model.
func (f *Form) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DispatchMsg:
		f.dispatch(msg)
		return f, nil

	case ErrorMsg:
		f.ShowError(msg.Err)
		return f, nil

	case tea.WindowSizeMsg:
		f.width = msg.Width
		f.height = msg.Height
		return f, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return f, tea.Quit
		case key.Matches(msg, keys.Next):
			return f, f.moveFocus(1)
		case key.Matches(msg, keys.Prev):
			return f, f.moveFocus(-1)
		}
		f.status = ""
	}

	if len(f.fields) == 0 {
		return f, nil
	}
	return f, f.fields[f.focus].Update(msg)
}

// dispatch runs callback. A panic is reported and shown in the status line.
func (f *Form) dispatch(callback DispatchMsg) {
	if callback == nil {
		return
	}
	defer errors.RecoverWithCallback("tui.dispatch", func(r any) {
		f.status = fmt.Sprintf("panic: %v", r)
	})
	callback()
}

func (f *Form) moveFocus(delta int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].Focus()
}

// View implements tea.Model.
func (f *Form) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(f.title))
	b.WriteString("\n\n")

	for i, field := range f.fields {
		style := labelStyle
		if i == f.focus {
			style = focusedLabelStyle
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, style.Render(field.Label()), field.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if f.footer != "" {
		b.WriteString(footerStyle.Render(f.footer))
		b.WriteString("\n")
	}
	if f.status != "" {
		b.WriteString(errorStyle.Render("✗ " + f.status))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("tab next • shift+tab prev • space toggle • esc quit"))
	return b.String()
}
