package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

const minCardWidth = 18

// StatCard is one labelled figure in a summary row.
type StatCard struct {
	Label string
	Value string
	// Detail is an optional second line, such as a sparkline.
	Detail string
	Color  lipgloss.Color
}

// RenderStatCards lays cards out side by side, wrapping onto further rows
// when width cannot hold them all.
func RenderStatCards(cards []StatCard, width int) string {
	if len(cards) == 0 {
		return ""
	}
	perRow := max(min(len(cards), width/minCardWidth), 1)
	cardWidth := max(width/perRow-2, minCardWidth-2)

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		var rendered []string
		for _, c := range cards[start:end] {
			rendered = append(rendered, renderCard(c, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(c StatCard, width int) string {
	value := styles.CardValueStyle
	border := styles.Subtle
	if c.Color != "" {
		value = value.Foreground(c.Color)
		border = c.Color
	}
	lines := []string{styles.CardTitleStyle.Render(c.Label), value.Render(c.Value)}
	if c.Detail != "" {
		lines = append(lines, c.Detail)
	}
	return styles.CardStyle.
		BorderForeground(border).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
