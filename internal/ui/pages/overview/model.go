// Package overview provides the multi-day energy page served at "/".
package overview

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/geostar-dashboard/internal/app"
	"github.com/j-veylop/geostar-dashboard/internal/chart"
	"github.com/j-veylop/geostar-dashboard/internal/client"
	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/models"
	"github.com/j-veylop/geostar-dashboard/internal/ui/components"
	"github.com/j-veylop/geostar-dashboard/internal/ui/pages"
)

// DebounceDelay is how long date and resolution edits settle before the
// page navigates.
const DebounceDelay = 500 * time.Millisecond

const (
	actionFrom       = "from"
	actionTo         = "to"
	actionResolution = "resolution"
)

// focusField is the control that currently owns the keyboard.
type focusField int

const (
	focusNone focusField = iota
	focusFrom
	focusTo
	focusPills
	focusCount
)

type keyMap struct {
	Focus       key.Binding
	FocusPrev   key.Binding
	Commit      key.Binding
	Escape      key.Binding
	Resolution  key.Binding
	Left        key.Binding
	Right       key.Binding
	Toggle      key.Binding
	ClearFilter key.Binding
	Reset       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply date"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave field"),
		),
		Resolution: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resolution"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous unit"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next unit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "toggle unit"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "show all units"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset range"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "scroll down"),
		),
	}
}

// debounceMsg fires when a pending range edit has settled.
type debounceMsg struct {
	gen int
}

// Page is the overview controller. The skeleton (inputs, filter
// subscription) survives in-page navigation; only data regions are patched.
type Page struct {
	deps  *pages.Deps
	chart *chart.Controller
	keys  keyMap

	mounted bool
	unsubs  []func()

	from       pages.DateInput
	to         pages.DateInput
	resolution models.Resolution
	focus      focusField
	pills      pages.PillBar

	data    *models.OverviewResponse
	labels  []string
	stats   models.OverviewStats
	trend   []float64
	table   components.Table
	scroll  *pages.Scroller
	busy    components.Busy
	pending tea.Cmd

	debounceGen int

	spots    components.Hotspots
	tableTop int
	width    int
	height   int
}

// New creates the overview page and installs its chart in the registry.
func New(deps *pages.Deps) *Page {
	p := &Page{
		deps:       deps,
		keys:       defaultKeyMap(),
		from:       pages.NewDateInput("From"),
		to:         pages.NewDateInput("To"),
		resolution: models.ResolutionDaily,
		scroll:     pages.NewScroller(),
		busy:       components.NewBusy("Loading..."),
		table: components.Table{
			Columns: columns(models.ResolutionDaily),
			Empty:   "No data for selected range",
		},
		width:  80,
		height: 24,
	}
	p.chart = chart.New(chart.Options{
		Kind:       chart.KindOverview,
		Now:        deps.Now,
		Location:   deps.Location,
		OnZoom:     p.zoom,
		OnOpen:     p.open,
		OnHover:    p.hover,
		OnHoverEnd: p.hoverEnd,
		RangeSource: func() (string, string) {
			return p.from.Value(), p.to.Value()
		},
	})
	deps.Charts.Overview = p.chart
	return p
}

// Route implements app.Page.
func (p *Page) Route() string { return app.RouteOverview }

// Title implements app.Page.
func (p *Page) Title() string { return "Overview" }

// Chart returns the page's chart controller.
func (p *Page) Chart() *chart.Controller { return p.chart }

// Enter renders the overview for u's date_from, date_to and resolution.
func (p *Page) Enter(u *url.URL) tea.Cmd {
	p.deps.Charts.DestroyExcept(chart.KindOverview)

	q := u.Query()
	query := client.OverviewQuery{
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
		Resolution: q.Get("resolution"),
	}
	if query.Resolution == "" {
		query.Resolution = string(models.ResolutionDaily)
	}

	if !p.mounted {
		p.mount()
	}

	api := p.deps.API
	return tea.Batch(
		p.busy.Start(),
		pages.Fetch(p.deps, app.RouteOverview, func(ctx context.Context) (*models.OverviewResponse, error) {
			return api.Overview(ctx, query)
		}),
	)
}

// mount builds a fresh skeleton: empty inputs, an empty filter and one
// filter subscription per filtered region.
func (p *Page) mount() {
	p.deps.Filter.Reset()
	p.unsubs = []func(){
		p.deps.Filter.Subscribe(p.renderTable),
		p.deps.Filter.Subscribe(p.renderChart),
		p.deps.Filter.Subscribe(p.renderSummary),
	}
	p.mounted = true

	p.data = nil
	p.labels = nil
	p.trend = nil
	p.stats = models.OverviewStats{}
	p.table.Rows = nil
	p.table.Highlight = ""
	p.from.Set("")
	p.to.Set("")
	p.resolution = models.ResolutionDaily
	p.pills = pages.PillBar{}
	p.setFocus(focusNone)
	p.scroll.SetContent("")
	p.scroll.Reset()
}

// Leave unmounts the skeleton. The chart is torn down by whichever page
// renders next.
func (p *Page) Leave() {
	for _, unsub := range p.unsubs {
		unsub()
	}
	p.unsubs = nil
	p.mounted = false
	p.debounceGen++
	p.busy.Stop()
	p.setFocus(focusNone)
	p.table.Highlight = ""
}

// Mounted reports whether the skeleton is on screen.
func (p *Page) Mounted() bool { return p.mounted }

// Data returns the last applied response.
func (p *Page) Data() *models.OverviewResponse { return p.data }

// Update implements app.Page.
func (p *Page) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case pages.Result[*models.OverviewResponse]:
		return p, p.handleResult(msg)
	case debounceMsg:
		return p, p.fireDebounce(msg)
	case tea.KeyMsg:
		return p, p.handleKey(msg)
	case tea.MouseMsg:
		return p, p.handleMouse(msg)
	}

	return p, tea.Batch(
		p.chart.Update(msg),
		p.scroll.Update(msg),
		p.busy.Update(msg),
		p.from.Update(msg),
		p.to.Update(msg),
	)
}

func (p *Page) handleResult(msg pages.Result[*models.OverviewResponse]) tea.Cmd {
	if msg.Route != app.RouteOverview || !p.deps.Current(msg.Route, msg.Token) {
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

// render patches every data region from resp.
func (p *Page) render(resp *models.OverviewResponse) tea.Cmd {
	p.data = resp

	if !p.from.Focused() {
		p.from.Set(resp.Filters.DateFrom)
	}
	if !p.to.Focused() {
		p.to.Set(resp.Filters.DateTo)
	}
	p.resolution = models.ParseResolution(string(resp.Filters.Resolution))
	p.pills.SetGateways(resp.Gateways)
	p.table.Columns = columns(p.resolution)
	p.table.Highlight = ""

	data := chartData(resp, p.resolution)
	p.labels = data.Labels
	create := p.chart.CreateOrUpdate(data)

	p.applyFilter()
	p.scroll.Reset()
	return tea.Batch(create, p.takePending())
}

// applyFilter refreshes every filtered region after new data arrives.
// Filter mutations reach the same regions through their subscriptions.
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

func (p *Page) visibleTotals() []models.BucketTotal {
	if p.data == nil {
		return nil
	}
	out := make([]models.BucketTotal, 0, len(p.data.Totals))
	for _, r := range p.data.Totals {
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
	visible := p.visibleTotals()
	rows := make([]components.Row, 0, len(visible))
	for _, r := range visible {
		rows = append(rows, components.Row{
			Key: r.Date,
			Cells: []string{
				format.Escape(r.Date),
				format.GatewayName(r.GatewayID),
				format.Energy(r.TotalEnergy),
				format.Energy(r.TotalHeating),
				format.Energy(r.TotalCooling),
				format.Runtime(r.TotalRuntime),
			},
		})
	}
	p.table.Rows = rows
	p.scroll.SetContent(p.table.Body())
}

func (p *Page) renderChart() {
	p.pending = tea.Batch(p.pending, p.chart.UpdateVisibility(p.deps.Filter))
}

// renderSummary sums the visible buckets into the stat cards and the
// per-label trend.
func (p *Page) renderSummary() {
	if p.data == nil {
		return
	}
	index := make(map[string]int, len(p.labels))
	for i, l := range p.labels {
		index[l] = i
	}

	var stats models.OverviewStats
	trend := make([]float64, len(p.labels))
	for _, r := range p.visibleTotals() {
		stats.TotalEnergy += r.TotalEnergy
		stats.TotalHeating += r.TotalHeating
		stats.TotalCooling += r.TotalCooling
		stats.TotalRuntime += r.TotalRuntime
		if i, ok := index[r.Date]; ok {
			trend[i] += r.TotalEnergy
		}
	}
	p.stats = stats
	p.trend = trend
}

// chartData builds one series per gateway over the sorted unique bucket
// labels, plus the total of all of them.
func chartData(resp *models.OverviewResponse, res models.Resolution) chart.Data {
	seen := make(map[string]bool)
	var labels []string
	for _, r := range resp.Totals {
		if !seen[r.Date] {
			seen[r.Date] = true
			labels = append(labels, r.Date)
		}
	}
	sort.Strings(labels)

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	datasets := make([]chart.Dataset, 0, len(resp.Gateways)+1)
	series := make([][]float64, 0, len(resp.Gateways))
	for i, gw := range resp.Gateways {
		points := make([]float64, len(labels))
		for _, r := range resp.Totals {
			if r.GatewayID == gw {
				points[index[r.Date]] = r.TotalEnergy
			}
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
		Points: chart.SumSeries(len(labels), series...),
	})

	return chart.Data{Labels: labels, Datasets: datasets, Resolution: res}
}

func columns(res models.Resolution) []components.Column {
	first := "Date"
	if res.SubDaily() {
		first = "Date/Time"
	}
	return []components.Column{
		{Title: first, Width: 16},
		{Title: "Unit", Width: 14},
		{Title: "Energy (kWh)", Width: 13, Align: lipgloss.Right},
		{Title: "Heating (kWh)", Width: 14, Align: lipgloss.Right},
		{Title: "Cooling (kWh)", Width: 14, Align: lipgloss.Right},
		{Title: "Runtime (hrs)", Width: 14, Align: lipgloss.Right},
	}
}

// overviewURL is the location for a date range at a resolution.
func overviewURL(from, to string, res models.Resolution) string {
	return fmt.Sprintf("/?date_from=%s&date_to=%s&resolution=%s",
		url.QueryEscape(from), url.QueryEscape(to), url.QueryEscape(string(res)))
}

// debounce restarts the settle timer; only the newest timer navigates.
func (p *Page) debounce() tea.Cmd {
	p.debounceGen++
	gen := p.debounceGen
	return tea.Tick(DebounceDelay, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen}
	})
}

func (p *Page) fireDebounce(msg debounceMsg) tea.Cmd {
	if msg.gen != p.debounceGen || !p.mounted {
		return nil
	}
	from, to := p.from.Committed(), p.to.Committed()
	if from == "" || to == "" {
		return nil
	}
	return app.Navigate(overviewURL(from, to, p.resolution))
}

func (p *Page) zoom(from, to string) tea.Cmd {
	p.from.Set(from)
	p.to.Set(to)
	return p.debounce()
}

func (p *Page) open(date string) tea.Cmd {
	return app.Navigate("/daily?date=" + url.QueryEscape(date))
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

func (p *Page) cycleResolution() tea.Cmd {
	p.resolution = p.resolution.Next()
	return p.debounce()
}

// Capturing implements app.Page.
func (p *Page) Capturing() bool { return p.focusedInput() != nil }

func (p *Page) focusedInput() *pages.DateInput {
	switch p.focus {
	case focusFrom:
		return &p.from
	case focusTo:
		return &p.to
	}
	return nil
}

func (p *Page) setFocus(f focusField) tea.Cmd {
	p.focus = f
	p.from.Blur()
	p.to.Blur()
	p.pills.Focused = f == focusPills
	if in := p.focusedInput(); in != nil {
		return in.Focus()
	}
	return nil
}

// commitFocused confirms the focused field; a changed value restarts the
// debounce.
func (p *Page) commitFocused() tea.Cmd {
	if in := p.focusedInput(); in != nil && in.Commit() {
		return p.debounce()
	}
	return nil
}

func (p *Page) handleKey(msg tea.KeyMsg) tea.Cmd {
	if in := p.focusedInput(); in != nil {
		switch {
		case key.Matches(msg, p.keys.Escape):
			in.Revert()
			return p.setFocus(focusNone)
		case key.Matches(msg, p.keys.Commit):
			cmd := p.commitFocused()
			return tea.Batch(cmd, p.setFocus(focusNone))
		case key.Matches(msg, p.keys.Focus):
			cmd := p.commitFocused()
			return tea.Batch(cmd, p.setFocus((p.focus+1)%focusCount))
		case key.Matches(msg, p.keys.FocusPrev):
			cmd := p.commitFocused()
			return tea.Batch(cmd, p.setFocus((p.focus+focusCount-1)%focusCount))
		}
		return in.Update(msg)
	}

	switch {
	case key.Matches(msg, p.keys.Focus):
		return p.setFocus((p.focus + 1) % focusCount)
	case key.Matches(msg, p.keys.FocusPrev):
		return p.setFocus((p.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, p.keys.Escape):
		return p.setFocus(focusNone)
	case key.Matches(msg, p.keys.Resolution):
		return p.cycleResolution()
	case key.Matches(msg, p.keys.Reset):
		return pages.Link(app.RouteOverview)
	case key.Matches(msg, p.keys.ClearFilter):
		p.deps.Filter.Clear()
		return p.takePending()
	case key.Matches(msg, p.keys.PageUp):
		p.scroll.Scroll(-p.scroll.Height())
	case key.Matches(msg, p.keys.PageDown):
		p.scroll.Scroll(p.scroll.Height())
	}

	if p.focus == focusPills {
		switch {
		case key.Matches(msg, p.keys.Left):
			p.pills.Move(-1)
		case key.Matches(msg, p.keys.Right):
			p.pills.Move(1)
		case key.Matches(msg, p.keys.Toggle):
			if gw, ok := p.pills.Current(); ok {
				p.deps.Filter.Toggle(gw)
				return p.takePending()
			}
		}
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
		case actionFrom:
			return p.setFocus(focusFrom)
		case actionTo:
			return p.setFocus(focusTo)
		case actionResolution:
			return p.cycleResolution()
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
	return []key.Binding{p.keys.Focus, p.keys.Resolution, p.keys.ClearFilter}
}

// FullHelp implements app.Page.
func (p *Page) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{p.keys.Focus, p.keys.FocusPrev, p.keys.Commit, p.keys.Escape},
		{p.keys.Resolution, p.keys.Reset, p.keys.ClearFilter},
		{p.keys.Left, p.keys.Right, p.keys.Toggle},
		{p.keys.PageUp, p.keys.PageDown},
	}
}
