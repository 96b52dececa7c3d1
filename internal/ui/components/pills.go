package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

// Pill is one gateway toggle in a filter bar.
type Pill struct {
	ID     string
	Label  string
	Color  lipgloss.Color
	Active bool
}

// PillSegments renders pills as clickable segments. The pill at cursor is
// underlined when focused is set.
func PillSegments(pills []Pill, cursor int, focused bool) []Segment {
	segs := make([]Segment, 0, len(pills)+1)
	segs = append(segs, Text(styles.HelpStyle.Render("Units ")))
	for i, p := range pills {
		style := styles.PillStyle
		if p.Active {
			style = styles.PillActiveStyle
		}
		dot := lipgloss.NewStyle().Foreground(p.Color).Render("●")
		if p.Active {
			dot = "●"
		}
		label := p.Label
		if focused && i == cursor {
			label = styles.PillCursorStyle.Render(label)
		}
		segs = append(segs, Clickable(style.Render(dot+" "+label), PillTarget(p.ID)))
	}
	return segs
}
