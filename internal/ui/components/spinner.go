package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

// Busy marks a page region as loading. It only animates while active.
type Busy struct {
	spinner spinner.Model
	label   string
	active  bool
}

// NewBusy creates an inactive indicator with the given label.
func NewBusy(label string) Busy {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = styles.BusyStyle
	return Busy{spinner: s, label: label}
}

// Start activates the indicator. It returns the first tick when the
// indicator was idle.
func (b *Busy) Start() tea.Cmd {
	if b.active {
		return nil
	}
	b.active = true
	return b.spinner.Tick
}

// Stop deactivates the indicator.
func (b *Busy) Stop() { b.active = false }

// Active reports whether the indicator is shown.
func (b Busy) Active() bool { return b.active }

// Update advances the animation on this indicator's own ticks.
func (b *Busy) Update(msg tea.Msg) tea.Cmd {
	if !b.active {
		return nil
	}
	if _, ok := msg.(spinner.TickMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	b.spinner, cmd = b.spinner.Update(msg)
	return cmd
}

// View renders the spinner and label, or nothing when idle.
func (b Busy) View() string {
	if !b.active {
		return ""
	}
	return b.spinner.View() + " " + styles.BusyStyle.Render(b.label)
}
