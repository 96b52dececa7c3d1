package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

// Column describes a table column.
type Column struct {
	Title string
	Width int
	Align lipgloss.Position
}

// Row is one table row. Key groups rows that share a chart bucket.
type Row struct {
	Key   string
	Cells []string
}

// Table is a fixed-width text table with key-based row highlighting.
type Table struct {
	Columns []Column
	Rows    []Row
	// Highlight marks every row whose Key matches.
	Highlight string
	// Empty is shown as the single row when there are no rows.
	Empty string
}

// Header renders the title line and rule.
func (t Table) Header() string {
	title := styles.TableHeaderStyle.Render(strings.Join(t.HeaderCells(), " "))
	return title + "\n" + t.Rule()
}

// HeaderCells returns each column title padded to its width.
func (t Table) HeaderCells() []string {
	cells := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cells[i] = cell(c, c.Title)
	}
	return cells
}

// Rule renders the line under the header.
func (t Table) Rule() string {
	return styles.HelpStyle.Render(strings.Repeat("─", t.Width()))
}

// Width returns the rendered width of a row.
func (t Table) Width() int {
	w := 0
	for _, c := range t.Columns {
		w += c.Width
	}
	return w + max(len(t.Columns)-1, 0)
}

// Body renders the rows, or the empty message.
func (t Table) Body() string {
	if len(t.Rows) == 0 {
		return styles.TableEmptyStyle.Render(t.Empty)
	}
	lines := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		cells := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			text := ""
			if j < len(r.Cells) {
				text = r.Cells[j]
			}
			cells[j] = cell(c, text)
		}
		style := styles.TableCellStyle
		if t.Highlight != "" && r.Key == t.Highlight {
			style = styles.TableHighlightStyle
		}
		lines[i] = style.Render(strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

// HighlightedRows returns the indexes of highlighted rows.
func (t Table) HighlightedRows() []int {
	if t.Highlight == "" {
		return nil
	}
	var out []int
	for i, r := range t.Rows {
		if r.Key == t.Highlight {
			out = append(out, i)
		}
	}
	return out
}

func cell(c Column, text string) string {
	if ansi.StringWidth(text) > c.Width {
		text = ansi.Truncate(text, c.Width, "…")
	}
	return lipgloss.NewStyle().Width(c.Width).Align(c.Align).Render(text)
}
