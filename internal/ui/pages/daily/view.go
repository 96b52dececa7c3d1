package daily

import (
	"fmt"

	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/ui/components"
	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

const layoutIndent = 1

// View implements app.Page.
func (p *Page) View() string {
	w := max(p.width-2*layoutIndent, 40)
	l := components.NewLayout(layoutIndent)

	title := styles.TitleStyle.Render("Daily Details")
	if p.busy.Active() {
		title += "  " + p.busy.View()
	}
	l.Block(title)

	l.Row(p.dateSegments()...)
	l.Row(p.pills.Segments(p.deps.Filter)...)
	l.Block(p.summaryLine())
	if p.data != nil {
		l.Block(p.splitLine(w))
	}
	l.Blank()

	p.chart.SetOrigin(layoutIndent, l.Height())
	l.Block(p.chart.View(w, p.chartHeight()))

	l.Block(p.table.Header())
	p.tableTop = l.Height()
	p.scroll.SetSize(w, p.height-p.tableTop)
	l.Block(p.scroll.View())

	p.spots = l.Spots()
	return l.String()
}

// dateSegments renders "‹ Date [YYYY-MM-DD] ›" with the arrows linking to
// the neighbouring days.
func (p *Page) dateSegments() []components.Segment {
	input := components.Clickable(p.dateInput.View(), components.ActionTarget(actionDate))
	if p.keyNav == nil {
		return []components.Segment{
			components.Text(styles.DisabledLinkStyle.Render("‹") + " "),
			input,
			components.Text(" " + styles.DisabledLinkStyle.Render("›")),
		}
	}
	return []components.Segment{
		components.Clickable(styles.LinkStyle.Render("‹"), components.LinkTarget(dayURL(p.keyNav.prev))),
		components.Text(" "),
		input,
		components.Text(" "),
		components.Clickable(styles.LinkStyle.Render("›"), components.LinkTarget(dayURL(p.keyNav.next))),
	}
}

func (p *Page) summaryLine() string {
	value := func(v float64) string {
		if p.data == nil {
			return "-"
		}
		return format.Energy(v)
	}
	return fmt.Sprintf("%s Total Energy: %s kWh | Heating: %s kWh | Cooling: %s kWh",
		styles.SubTitleStyle.Render("Daily Summary:"),
		styles.CardValueStyle.Foreground(styles.Energy).Render(value(p.summary.TotalEnergy)),
		styles.CardValueStyle.Foreground(styles.Heating).Render(value(p.summary.TotalHeating)),
		styles.CardValueStyle.Foreground(styles.Cooling).Render(value(p.summary.TotalCooling)),
	)
}

// splitLine shows how the day's conditioning divides between heating and
// cooling.
func (p *Page) splitLine(width int) string {
	conditioning := p.summary.TotalHeating + p.summary.TotalCooling
	return components.RenderShareBar("Heating vs cooling", p.summary.TotalHeating, conditioning,
		min(width, 60), styles.HeatingHex, styles.CoolingHex)
}

func (p *Page) chartHeight() int {
	return max(7, min(16, (p.height-10)/2))
}
