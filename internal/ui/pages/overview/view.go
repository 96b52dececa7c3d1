package overview

import (
	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/ui/components"
	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

const layoutIndent = 1

// View implements app.Page. It records hotspots, the chart origin and the
// table position for mouse routing.
func (p *Page) View() string {
	w := max(p.width-2*layoutIndent, 40)
	l := components.NewLayout(layoutIndent)

	title := styles.TitleStyle.Render("Energy Overview")
	if p.busy.Active() {
		title += "  " + p.busy.View()
	}
	l.Block(title)

	l.Row(
		components.Clickable(p.from.View(), components.ActionTarget(actionFrom)),
		components.Text("  "),
		components.Clickable(p.to.View(), components.ActionTarget(actionTo)),
		components.Text("  "),
		components.Clickable(p.resolutionView(), components.ActionTarget(actionResolution)),
		components.Text("  "),
		components.Clickable(styles.LinkStyle.Render("Reset"), components.LinkTarget("/")),
	)
	l.Row(p.pills.Segments(p.deps.Filter)...)

	l.Block(components.RenderStatCards(p.cards(), w))
	if p.data != nil {
		l.Block(components.RenderShareBar("Heating share", p.stats.TotalHeating, p.stats.TotalEnergy,
			min(w, 60), styles.HeatingHex, styles.CoolingHex))
	}

	p.chart.SetOrigin(layoutIndent, l.Height())
	l.Block(p.chart.View(w, p.chartHeight()))

	l.Block(p.table.Header())
	p.tableTop = l.Height()
	p.scroll.SetSize(w, p.height-p.tableTop)
	l.Block(p.scroll.View())

	p.spots = l.Spots()
	return l.String()
}

func (p *Page) resolutionView() string {
	return styles.HelpStyle.Render("Resolution ") + "[" + p.resolution.String() + " ▾]"
}

func (p *Page) chartHeight() int {
	return max(7, min(16, (p.height-14)/2))
}

func (p *Page) cards() []components.StatCard {
	energy, heating, cooling, runtime := "-", "-", "-", "-"
	detail := ""
	if p.data != nil {
		energy = format.Energy(p.stats.TotalEnergy) + " kWh"
		heating = format.Energy(p.stats.TotalHeating) + " kWh"
		cooling = format.Energy(p.stats.TotalCooling) + " kWh"
		runtime = format.Runtime(p.stats.TotalRuntime) + " hours"
		if len(p.trend) > 1 {
			detail = components.RenderSparkline(p.trend, 14)
		}
	}
	return []components.StatCard{
		{Label: "Total Energy", Value: energy, Detail: detail, Color: styles.Energy},
		{Label: "Heating", Value: heating, Color: styles.Heating},
		{Label: "Cooling", Value: cooling, Color: styles.Cooling},
		{Label: "Runtime", Value: runtime, Color: styles.Secondary},
	}
}
