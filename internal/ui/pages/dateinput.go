package pages

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

const datePlaceholder = "YYYY-MM-DD"

// DateInput is a YYYY-MM-DD text field that remembers its last committed
// value, so edits can be confirmed or abandoned.
type DateInput struct {
	Label     string
	input     textinput.Model
	committed string
}

// NewDateInput returns an empty, unfocused field.
func NewDateInput(label string) DateInput {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = datePlaceholder
	in.CharLimit = len(datePlaceholder)
	in.Width = len(datePlaceholder)
	return DateInput{Label: label, input: in}
}

// Value returns the current text.
func (d *DateInput) Value() string { return d.input.Value() }

// Committed returns the last confirmed value.
func (d *DateInput) Committed() string { return d.committed }

// Set replaces both the text and the committed value.
func (d *DateInput) Set(v string) {
	v = format.Escape(v)
	d.input.SetValue(v)
	d.committed = v
}

// Focus gives the field the keyboard.
func (d *DateInput) Focus() tea.Cmd { return d.input.Focus() }

// Blur releases the keyboard.
func (d *DateInput) Blur() { d.input.Blur() }

// Focused reports whether the field has the keyboard.
func (d *DateInput) Focused() bool { return d.input.Focused() }

// Revert restores the committed value.
func (d *DateInput) Revert() { d.input.SetValue(d.committed) }

// Commit confirms the current text and reports whether it changed.
func (d *DateInput) Commit() bool {
	v := d.input.Value()
	if v == d.committed {
		return false
	}
	d.committed = v
	return true
}

// Update forwards typing and cursor blinks to the field.
func (d *DateInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return cmd
}

// View renders "Label [value]".
func (d *DateInput) View() string {
	label := styles.HelpStyle.Render(d.Label + " ")
	if d.input.Focused() {
		return label + styles.FocusedStyle.Render("[") + d.input.View() + styles.FocusedStyle.Render("]")
	}
	v := d.input.Value()
	if v == "" {
		return label + styles.BlurredStyle.Render("["+datePlaceholder+"]")
	}
	return label + "[" + v + "]"
}
