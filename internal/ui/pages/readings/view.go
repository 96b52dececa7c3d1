package readings

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

	title := styles.TitleStyle.Render("Energy Readings")
	if p.busy.Active() {
		title += "  " + p.busy.View()
	}
	l.Block(title)

	l.Row(
		components.Clickable(p.gatewayView(), components.ActionTarget(actionGateway)),
		components.Text("  "),
		components.Clickable(p.from.View(), components.ActionTarget(actionFrom)),
		components.Text("  "),
		components.Clickable(p.to.View(), components.ActionTarget(actionTo)),
		components.Text("  "),
		components.Clickable(styles.LinkStyle.Render("Clear"), components.LinkTarget("/readings")),
	)
	l.Block(styles.HelpStyle.Render(p.countLine()))
	l.Blank()

	p.table.Columns = p.tableColumns()
	l.Row(p.headerSegments()...)
	l.Block(p.table.Rule())
	p.tableTop = l.Height()

	pager := p.pagerSegments()
	bodyHeight := p.height - p.tableTop
	if len(pager) > 0 {
		bodyHeight -= 2
	}
	p.scroll.SetSize(w, bodyHeight)
	l.Block(p.scroll.View())

	if len(pager) > 0 {
		l.Blank()
		l.Row(pager...)
	}

	p.spots = l.Spots()
	return l.String()
}

func (p *Page) gatewayView() string {
	name := "All Units"
	if p.params.gatewayID != "" {
		name = format.GatewayName(p.params.gatewayID)
	}
	return styles.HelpStyle.Render("Unit ") + "[" + name + " ▾]"
}

func (p *Page) countLine() string {
	if p.data == nil {
		return ""
	}
	return fmt.Sprintf("Showing %d of %s readings (15-minute intervals)",
		len(p.data.Readings), format.Count(p.data.Total))
}

// headerSegments renders the column titles with sortable ones as links.
func (p *Page) headerSegments() []components.Segment {
	cells := p.table.HeaderCells()
	segs := make([]components.Segment, 0, 2*len(cells))
	for i, c := range cells {
		if i > 0 {
			segs = append(segs, components.Text(" "))
		}
		text := styles.TableHeaderStyle.Render(c)
		if col := columns[i].sortKey; col != "" {
			segs = append(segs, components.Clickable(text, components.LinkTarget(p.params.sortURL(col))))
			continue
		}
		segs = append(segs, components.Text(text))
	}
	return segs
}

// pagerSegments renders previous/next links around "Page X of Y", or
// nothing for a single page.
func (p *Page) pagerSegments() []components.Segment {
	total := p.totalPages()
	if total <= 1 {
		return nil
	}
	page := p.params.page
	var segs []components.Segment
	if page > 1 {
		segs = append(segs,
			components.Clickable(styles.LinkStyle.Render("← Previous"), components.LinkTarget(p.params.pageURL(page-1))),
			components.Text("  "),
		)
	}
	segs = append(segs, components.Text(fmt.Sprintf("Page %d of %d", page, total)))
	if page < total {
		segs = append(segs,
			components.Text("  "),
			components.Clickable(styles.LinkStyle.Render("Next →"), components.LinkTarget(p.params.pageURL(page+1))),
		)
	}
	return segs
}
