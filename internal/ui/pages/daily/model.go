// Package daily provides the 24-hour breakdown page served at "/daily".
package daily

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/geostar-dashboard/internal/app"
	"github.com/j-veylop/geostar-dashboard/internal/chart"
	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/models"
	"github.com/j-veylop/geostar-dashboard/internal/ui/components"
	"github.com/j-veylop/geostar-dashboard/internal/ui/pages"
)

const hoursPerDay = 24

const actionDate = "date"

type focusField int

const (
	focusNone focusField = iota
	focusDate
	focusPills
	focusCount
)

type keyMap struct {
	Focus       key.Binding
	FocusPrev   key.Binding
	Commit      key.Binding
	Escape      key.Binding
	PrevDay     key.Binding
	NextDay     key.Binding
	Today       key.Binding
	Toggle      key.Binding
	ClearFilter key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Focus:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		FocusPrev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Commit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open date")),
		Escape:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave field")),
		PrevDay:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous day")),
		NextDay:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Today:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle unit")),
		ClearFilter: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "show all units")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "scroll down")),
	}
}

// dayNav holds the targets of the previous/next day keys.
type dayNav struct {
	prev string
	next string
}

// Page is the daily controller.
type Page struct {
	deps  *pages.Deps
	chart *chart.Controller
	keys  keyMap

	mounted bool
	unsubs  []func()

	dateInput pages.DateInput
	focus     focusField
	pills     pages.PillBar

	// keyNav is refreshed on every render; keyNavBound guards the single
	// day-navigation key handler.
	keyNav      *dayNav
	keyNavBound bool
	keyNavBinds int

	data    *models.DailyResponse
	summary models.DailySummary
	table   components.Table
	scroll  *pages.Scroller
	busy    components.Busy
	pending tea.Cmd

	spots    components.Hotspots
	tableTop int
	width    int
	height   int
}

// New creates the daily page and installs its chart in the registry.
func New(deps *pages.Deps) *Page {
	p := &Page{
		deps:      deps,
		keys:      defaultKeyMap(),
		dateInput: pages.NewDateInput("Date"),
		scroll:    pages.NewScroller(),
		busy:      components.NewBusy("Loading..."),
		table: components.Table{
			Columns: []components.Column{
				{Title: "Hour", Width: 6},
				{Title: "Unit", Width: 14},
				{Title: "Total (kWh)", Width: 12, Align: lipgloss.Right},
				{Title: "Heat 1", Width: 9, Align: lipgloss.Right},
				{Title: "Heat 2", Width: 9, Align: lipgloss.Right},
				{Title: "Cool 1", Width: 9, Align: lipgloss.Right},
				{Title: "Cool 2", Width: 9, Align: lipgloss.Right},
			},
			Empty: "No data for selected date",
		},
		width:  80,
		height: 24,
	}
	p.chart = chart.New(chart.Options{
		Kind:       chart.KindDaily,
		Now:        deps.Now,
		Location:   deps.Location,
		OnHover:    p.hover,
		OnHoverEnd: p.hoverEnd,
		HoverKey:   hourKey,
	})
	deps.Charts.Daily = p.chart
	return p
}

// Route implements app.Page.
func (p *Page) Route() string { return app.RouteDaily }

// Title implements app.Page.
func (p *Page) Title() string { return "Daily" }

// Chart returns the page's chart controller.
func (p *Page) Chart() *chart.Controller { return p.chart }

// Data returns the last applied response.
func (p *Page) Data() *models.DailyResponse { return p.data }

// KeyNavBindings returns how many times the day key handler was bound.
func (p *Page) KeyNavBindings() int { return p.keyNavBinds }

// Enter renders the day named by u's date parameter; without one the
// server picks today.
func (p *Page) Enter(u *url.URL) tea.Cmd {
	p.deps.Charts.DestroyExcept(chart.KindDaily)

	date := u.Query().Get("date")
	if !p.mounted {
		p.mount()
	}

	api := p.deps.API
	return tea.Batch(
		p.busy.Start(),
		pages.Fetch(p.deps, app.RouteDaily, func(ctx context.Context) (*models.DailyResponse, error) {
			return api.Daily(ctx, date)
		}),
	)
}

func (p *Page) mount() {
	p.deps.Filter.Reset()
	p.unsubs = []func(){
		p.deps.Filter.Subscribe(p.renderTable),
		p.deps.Filter.Subscribe(p.renderChart),
		p.deps.Filter.Subscribe(p.renderSummary),
	}
	p.mounted = true

	p.data = nil
	p.summary = models.DailySummary{}
	p.table.Rows = nil
	p.table.Highlight = ""
	p.dateInput.Set("")
	p.pills = pages.PillBar{}
	p.setFocus(focusNone)
	p.scroll.SetContent("")
	p.scroll.Reset()
}

// Leave implements app.Page.
func (p *Page) Leave() {
	for _, unsub := range p.unsubs {
		unsub()
	}
	p.unsubs = nil
	p.mounted = false
	p.busy.Stop()
	p.setFocus(focusNone)
	p.table.Highlight = ""
}

// Update implements app.Page.
func (p *Page) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case pages.Result[*models.DailyResponse]:
		return p, p.handleResult(msg)
	case tea.KeyMsg:
		return p, p.handleKey(msg)
	case tea.MouseMsg:
		return p, p.handleMouse(msg)
	}

	return p, tea.Batch(
		p.chart.Update(msg),
		p.scroll.Update(msg),
		p.busy.Update(msg),
		p.dateInput.Update(msg),
	)
}

func (p *Page) handleResult(msg pages.Result[*models.DailyResponse]) tea.Cmd {
	if msg.Route != app.RouteDaily || !p.deps.Current(msg.Route, msg.Token) {
		return nil
	}
	p.busy.Stop()
	if msg.Err != nil {
		return pages.Failed(msg.Route, msg.Err)
	}
	if msg.Data == nil {
		return nil
	}
	return p.render(msg.Data)
}

func (p *Page) render(resp *models.DailyResponse) tea.Cmd {
	p.data = resp
	p.keyNav = &dayNav{
		prev: models.AddDays(resp.Date, -1),
		next: models.AddDays(resp.Date, 1),
	}
	p.ensureKeyNav()

	if !p.dateInput.Focused() {
		p.dateInput.Set(resp.Date)
	}
	p.pills.SetGateways(resp.Gateways)
	p.table.Highlight = ""

	create := p.chart.CreateOrUpdate(chartData(resp))
	p.applyFilter()
	p.scroll.Reset()
	return tea.Batch(create, p.takePending())
}

func (p *Page) ensureKeyNav() {
	if p.keyNavBound {
		return
	}
	p.keyNavBound = true
	p.keyNavBinds++
}

func (p *Page) applyFilter() {
	p.renderTable()
	p.renderChart()
	p.renderSummary()
}

func (p *Page) takePending() tea.Cmd {
	cmd := p.pending
	p.pending = nil
	return cmd
}

func (p *Page) visibleHours() []models.HourlyBreakdown {
	if p.data == nil {
		return nil
	}
	out := make([]models.HourlyBreakdown, 0, len(p.data.Hourly))
	for _, r := range p.data.Hourly {
		if p.deps.Filter.IsVisible(r.GatewayID) {
			out = append(out, r)
		}
	}
	return out
}

func (p *Page) renderTable() {
	if p.data == nil {
		return
	}
	visible := p.visibleHours()
	rows := make([]components.Row, 0, len(visible))
	for _, r := range visible {
		rows = append(rows, components.Row{
			Key: r.Hour,
			Cells: []string{
				format.Escape(r.Hour) + ":00",
				format.GatewayName(r.GatewayID),
				format.Energy(r.TotalEnergy),
				format.Energy(r.Heat1),
				format.Energy(r.Heat2),
				format.Energy(r.Cool1),
				format.Energy(r.Cool2),
			},
		})
	}
	p.table.Rows = rows
	p.scroll.SetContent(p.table.Body())
}

func (p *Page) renderChart() {
	p.pending = tea.Batch(p.pending, p.chart.UpdateVisibility(p.deps.Filter))
}

// renderSummary sums the visible hours into the summary line.
func (p *Page) renderSummary() {
	if p.data == nil {
		return
	}
	var sum models.DailySummary
	for _, r := range p.visibleHours() {
		sum.TotalEnergy += r.TotalEnergy
		sum.TotalHeating += r.TotalHeating
		sum.TotalCooling += r.TotalCooling
	}
	p.summary = sum
}

// hourLabels returns "00:00" through "23:00".
func hourLabels() []string {
	labels := make([]string, hoursPerDay)
	for h := range labels {
		labels[h] = fmt.Sprintf("%02d:00", h)
	}
	return labels
}

// hourKey maps an "HH:00" label to the table's "HH" row key.
func hourKey(label string) string {
	if len(label) < 2 {
		return label
	}
	return label[:2]
}

// chartData places each gateway's hourly energy at its hour index and adds
// the total of all gateways.
func chartData(resp *models.DailyResponse) chart.Data {
	datasets := make([]chart.Dataset, 0, len(resp.Gateways)+1)
	series := make([][]float64, 0, len(resp.Gateways))
	for i, gw := range resp.Gateways {
		points := make([]float64, hoursPerDay)
		for _, r := range resp.Hourly {
			if r.GatewayID != gw {
				continue
			}
			h, err := strconv.Atoi(r.Hour)
			if err != nil || h < 0 || h >= hoursPerDay {
				continue
			}
			points[h] = r.TotalEnergy
		}
		series = append(series, points)
		datasets = append(datasets, chart.Dataset{
			Key:    gw,
			Label:  format.GatewayName(gw),
			Color:  chart.PaletteColor(i),
			Points: points,
		})
	}
	datasets = append(datasets, chart.Dataset{
		Key:    chart.TotalKey,
		Label:  "Total",
		Color:  chart.TotalColor,
		Points: chart.SumSeries(hoursPerDay, series...),
	})
	return chart.Data{Labels: hourLabels(), Datasets: datasets, Resolution: models.ResolutionHourly}
}

func dayURL(date string) string {
	return "/daily?date=" + url.QueryEscape(date)
}

func (p *Page) hover(rowKey string) tea.Cmd {
	p.table.Highlight = rowKey
	p.scroll.SetContent(p.table.Body())
	if rows := p.table.HighlightedRows(); len(rows) > 0 {
		return p.scroll.Reveal(rows[0])
	}
	return nil
}

func (p *Page) hoverEnd() tea.Cmd {
	p.table.Highlight = ""
	p.scroll.SetContent(p.table.Body())
	return nil
}

// Capturing implements app.Page.
func (p *Page) Capturing() bool { return p.focus == focusDate }

func (p *Page) setFocus(f focusField) tea.Cmd {
	p.focus = f
	p.pills.Focused = f == focusPills
	if f == focusDate {
		return p.dateInput.Focus()
	}
	p.dateInput.Blur()
	return nil
}

// commitDate navigates to a changed, non-empty date.
func (p *Page) commitDate() tea.Cmd {
	if !p.dateInput.Commit() {
		return nil
	}
	v := p.dateInput.Value()
	if v == "" {
		return nil
	}
	return app.Navigate(dayURL(v))
}

func (p *Page) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.focus == focusDate {
		switch {
		case key.Matches(msg, p.keys.Escape):
			p.dateInput.Revert()
			return p.setFocus(focusNone)
		case key.Matches(msg, p.keys.Commit):
			cmd := p.commitDate()
			return tea.Batch(cmd, p.setFocus(focusNone))
		case key.Matches(msg, p.keys.Focus):
			cmd := p.commitDate()
			return tea.Batch(cmd, p.setFocus(focusPills))
		case key.Matches(msg, p.keys.FocusPrev):
			cmd := p.commitDate()
			return tea.Batch(cmd, p.setFocus(focusNone))
		}
		return p.dateInput.Update(msg)
	}

	switch {
	case key.Matches(msg, p.keys.Focus):
		return p.setFocus((p.focus + 1) % focusCount)
	case key.Matches(msg, p.keys.FocusPrev):
		return p.setFocus((p.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, p.keys.Escape):
		return p.setFocus(focusNone)
	case key.Matches(msg, p.keys.Today):
		return app.Navigate(app.RouteDaily)
	case key.Matches(msg, p.keys.ClearFilter):
		p.deps.Filter.Clear()
		return p.takePending()
	case key.Matches(msg, p.keys.PageUp):
		p.scroll.Scroll(-p.scroll.Height())
		return nil
	case key.Matches(msg, p.keys.PageDown):
		p.scroll.Scroll(p.scroll.Height())
		return nil
	}

	if p.focus == focusPills {
		switch {
		case key.Matches(msg, p.keys.PrevDay):
			p.pills.Move(-1)
		case key.Matches(msg, p.keys.NextDay):
			p.pills.Move(1)
		case key.Matches(msg, p.keys.Toggle):
			if gw, ok := p.pills.Current(); ok {
				p.deps.Filter.Toggle(gw)
				return p.takePending()
			}
		}
		return nil
	}

	return p.handleDayNav(msg)
}

// handleDayNav is the day key handler; it does nothing until bound.
func (p *Page) handleDayNav(msg tea.KeyMsg) tea.Cmd {
	if !p.keyNavBound || p.keyNav == nil {
		return nil
	}
	switch {
	case key.Matches(msg, p.keys.PrevDay):
		return app.Navigate(dayURL(p.keyNav.prev))
	case key.Matches(msg, p.keys.NextDay):
		return app.Navigate(dayURL(p.keyNav.next))
	}
	return nil
}

func (p *Page) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Action == tea.MouseActionMotion, msg.Action == tea.MouseActionRelease:
		return p.chart.HandleMouse(msg)
	case p.chart.Live() && p.chart.Contains(msg.X, msg.Y):
		return p.chart.HandleMouse(msg)
	case msg.Button == tea.MouseButtonWheelUp && msg.Y >= p.tableTop:
		p.scroll.Scroll(-3)
	case msg.Button == tea.MouseButtonWheelDown && msg.Y >= p.tableTop:
		p.scroll.Scroll(3)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if t, ok := p.spots.At(msg.X, msg.Y); ok {
			return p.activate(t)
		}
	}
	return nil
}

func (p *Page) activate(t components.Target) tea.Cmd {
	switch t.Kind {
	case components.TargetLink:
		return pages.Link(t.Value)
	case components.TargetPill:
		p.deps.Filter.Toggle(t.Value)
		return p.takePending()
	case components.TargetAction:
		switch t.Value {
		case pages.ActionClearFilter:
			p.deps.Filter.Clear()
			return p.takePending()
		case actionDate:
			return p.setFocus(focusDate)
		}
	}
	return nil
}

// SetSize implements app.Page.
func (p *Page) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// ShortHelp implements app.Page.
func (p *Page) ShortHelp() []key.Binding {
	return []key.Binding{p.keys.PrevDay, p.keys.NextDay, p.keys.Focus}
}

// FullHelp implements app.Page.
func (p *Page) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{p.keys.PrevDay, p.keys.NextDay, p.keys.Today},
		{p.keys.Focus, p.keys.FocusPrev, p.keys.Commit, p.keys.Escape},
		{p.keys.Toggle, p.keys.ClearFilter},
		{p.keys.PageUp, p.keys.PageDown},
	}
}
