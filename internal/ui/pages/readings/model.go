// Package readings provides the paginated raw readings page served at
// "/readings".
package readings

import (
	"context"
	"net/url"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/geostar-dashboard/internal/app"
	"github.com/j-veylop/geostar-dashboard/internal/client"
	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/models"
	"github.com/j-veylop/geostar-dashboard/internal/ui/components"
	"github.com/j-veylop/geostar-dashboard/internal/ui/pages"
)

const (
	defaultSort  = "timestamp"
	defaultOrder = "desc"
)

const (
	actionFrom    = "from"
	actionTo      = "to"
	actionGateway = "gateway"
)

type focusField int

const (
	focusNone focusField = iota
	focusFrom
	focusTo
	focusCount
)

// column is a table column, sortable when sortKey is set.
type column struct {
	components.Column
	sortKey string
}

var columns = []column{
	{Column: components.Column{Title: "Timestamp", Width: 24}, sortKey: "timestamp"},
	{Column: components.Column{Title: "Unit", Width: 14}, sortKey: "gateway_id"},
	{Column: components.Column{Title: "Heat 1", Width: 8, Align: lipgloss.Right}},
	{Column: components.Column{Title: "Heat 2", Width: 8, Align: lipgloss.Right}},
	{Column: components.Column{Title: "Cool 1", Width: 8, Align: lipgloss.Right}},
	{Column: components.Column{Title: "Cool 2", Width: 8, Align: lipgloss.Right}},
	{Column: components.Column{Title: "Elec Heat", Width: 9, Align: lipgloss.Right}},
	{Column: components.Column{Title: "Fan", Width: 8, Align: lipgloss.Right}},
	{Column: components.Column{Title: "Total", Width: 10, Align: lipgloss.Right}, sortKey: "total_power"},
}

type keyMap struct {
	Focus       key.Binding
	FocusPrev   key.Binding
	Commit      key.Binding
	Escape      key.Binding
	NextGateway key.Binding
	PrevGateway key.Binding
	Sort        key.Binding
	Order       key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	Clear       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Focus:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		FocusPrev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Commit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply date")),
		Escape:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave field")),
		NextGateway: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "next unit")),
		PrevGateway: key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "previous unit")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		Order:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "reverse order")),
		PrevPage:    key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←/h", "previous page")),
		NextPage:    key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("→/l", "next page")),
		Clear:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "scroll down")),
	}
}

// params are the listing parameters read from the location.
type params struct {
	page      int
	gatewayID string
	dateFrom  string
	dateTo    string
	sort      string
	order     string
}

func parseParams(q url.Values) params {
	p := params{
		page:      1,
		gatewayID: q.Get("gateway_id"),
		dateFrom:  q.Get("date_from"),
		dateTo:    q.Get("date_to"),
		sort:      q.Get("sort"),
		order:     q.Get("order"),
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.page = n
	}
	if p.sort == "" {
		p.sort = defaultSort
	}
	if p.order == "" {
		p.order = defaultOrder
	}
	return p
}

func (p params) query() client.ReadingsQuery {
	return client.ReadingsQuery{
		Page:      p.page,
		GatewayID: p.gatewayID,
		DateFrom:  p.dateFrom,
		DateTo:    p.dateTo,
		Sort:      p.sort,
		Order:     p.order,
	}
}

// buildQuery keeps the current gateway and date filters and sets extra on
// top of them.
func (p params) buildQuery(extra url.Values) string {
	v := url.Values{}
	if p.gatewayID != "" {
		v.Set("gateway_id", p.gatewayID)
	}
	if p.dateFrom != "" {
		v.Set("date_from", p.dateFrom)
	}
	if p.dateTo != "" {
		v.Set("date_to", p.dateTo)
	}
	for k, vs := range extra {
		v[k] = vs
	}
	return app.RouteReadings + "?" + v.Encode()
}

// sortURL links a column header: an active descending column flips to
// ascending, anything else sorts descending, always from page one.
func (p params) sortURL(col string) string {
	order := "desc"
	if p.sort == col && p.order == "desc" {
		order = "asc"
	}
	return p.buildQuery(url.Values{"sort": {col}, "order": {order}, "page": {"1"}})
}

func (p params) pageURL(page int) string {
	return p.buildQuery(url.Values{
		"page":  {strconv.Itoa(page)},
		"sort":  {p.sort},
		"order": {p.order},
	})
}

// filterURL applies new gateway and date filters, dropping the page.
func (p params) filterURL(gatewayID, from, to string) string {
	next := p
	next.gatewayID, next.dateFrom, next.dateTo = gatewayID, from, to
	return next.buildQuery(url.Values{"sort": {p.sort}, "order": {p.order}})
}

// Page is the readings controller.
type Page struct {
	deps *pages.Deps
	keys keyMap

	params params
	from   pages.DateInput
	to     pages.DateInput
	focus  focusField

	data   *models.ReadingsResponse
	table  components.Table
	scroll *pages.Scroller
	busy   components.Busy

	spots    components.Hotspots
	tableTop int
	width    int
	height   int
}

// New creates the readings page.
func New(deps *pages.Deps) *Page {
	return &Page{
		deps:   deps,
		keys:   defaultKeyMap(),
		params: parseParams(nil),
		from:   pages.NewDateInput("From"),
		to:     pages.NewDateInput("To"),
		scroll: pages.NewScroller(),
		busy:   components.NewBusy("Loading..."),
		table:  components.Table{Empty: "No readings found"},
		width:  80,
		height: 24,
	}
}

// Route implements app.Page.
func (p *Page) Route() string { return app.RouteReadings }

// Title implements app.Page.
func (p *Page) Title() string { return "Readings" }

// Data returns the last applied response.
func (p *Page) Data() *models.ReadingsResponse { return p.data }

// Enter starts a fresh listing for u. Both charts are destroyed since this
// page has none.
func (p *Page) Enter(u *url.URL) tea.Cmd {
	p.deps.Charts.DestroyAll()

	p.params = parseParams(u.Query())
	p.data = nil
	p.table.Rows = nil
	p.setFocus(focusNone)
	p.from.Set(p.params.dateFrom)
	p.to.Set(p.params.dateTo)
	p.scroll.SetContent(p.table.Body())
	p.scroll.Reset()

	api := p.deps.API
	q := p.params.query()
	return tea.Batch(
		p.busy.Start(),
		pages.Fetch(p.deps, app.RouteReadings, func(ctx context.Context) (*models.ReadingsResponse, error) {
			return api.Readings(ctx, q)
		}),
	)
}

// Leave implements app.Page.
func (p *Page) Leave() {
	p.busy.Stop()
	p.setFocus(focusNone)
}

// Update implements app.Page.
func (p *Page) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case pages.Result[*models.ReadingsResponse]:
		return p, p.handleResult(msg)
	case tea.KeyMsg:
		return p, p.handleKey(msg)
	case tea.MouseMsg:
		return p, p.handleMouse(msg)
	}

	return p, tea.Batch(
		p.scroll.Update(msg),
		p.busy.Update(msg),
		p.from.Update(msg),
		p.to.Update(msg),
	)
}

func (p *Page) handleResult(msg pages.Result[*models.ReadingsResponse]) tea.Cmd {
	if msg.Route != app.RouteReadings || !p.deps.Current(msg.Route, msg.Token) {
		return nil
	}
	p.busy.Stop()
	if msg.Err != nil {
		return pages.Failed(msg.Route, msg.Err)
	}
	if msg.Data != nil {
		p.render(msg.Data)
	}
	return nil
}

func (p *Page) render(resp *models.ReadingsResponse) {
	p.data = resp

	f := resp.Filters
	p.params.gatewayID = f.GatewayID
	p.params.dateFrom = f.DateFrom
	p.params.dateTo = f.DateTo
	if f.Sort != "" {
		p.params.sort = f.Sort
	}
	if f.Order != "" {
		p.params.order = f.Order
	}
	if resp.Page > 0 {
		p.params.page = resp.Page
	}
	p.from.Set(f.DateFrom)
	p.to.Set(f.DateTo)

	loc := p.deps.Location
	rows := make([]components.Row, len(resp.Readings))
	for i, r := range resp.Readings {
		rows[i] = components.Row{
			Key: strconv.FormatInt(r.ID, 10),
			Cells: []string{
				format.Timestamp(r.Timestamp, loc),
				format.GatewayName(r.GatewayID),
				format.Power(r.TotalHeat1),
				format.Power(r.TotalHeat2),
				format.Power(r.TotalCool1),
				format.Power(r.TotalCool2),
				format.Power(r.TotalElectricHeat),
				format.Power(r.TotalFanOnly),
				format.Power(r.TotalPower),
			},
		}
	}
	p.table.Rows = rows
	p.table.Columns = p.tableColumns()
	p.scroll.SetContent(p.table.Body())
	p.scroll.Reset()
}

// tableColumns marks the active sort column with its direction.
func (p *Page) tableColumns() []components.Column {
	cols := make([]components.Column, len(columns))
	for i, c := range columns {
		cols[i] = c.Column
		if c.sortKey != "" && c.sortKey == p.params.sort {
			if p.params.order == "asc" {
				cols[i].Title += " ↑"
			} else {
				cols[i].Title += " ↓"
			}
		}
	}
	return cols
}

func (p *Page) totalPages() int {
	if p.data == nil {
		return 0
	}
	return p.data.TotalPages()
}

// gatewayStep returns the gateway delta steps away in the selector, where
// the empty id is "All Units".
func (p *Page) gatewayStep(delta int) string {
	if p.data == nil {
		return p.params.gatewayID
	}
	options := append([]string{""}, p.data.Gateways...)
	i := 0
	for j, gw := range options {
		if gw == p.params.gatewayID {
			i = j
			break
		}
	}
	n := len(options)
	return options[((i+delta)%n+n)%n]
}

func (p *Page) selectGateway(delta int) tea.Cmd {
	gw := p.gatewayStep(delta)
	if gw == p.params.gatewayID {
		return nil
	}
	return app.Navigate(p.params.filterURL(gw, p.params.dateFrom, p.params.dateTo))
}

func (p *Page) nextSortColumn() string {
	for i, c := range models.ReadingSortColumns {
		if c == p.params.sort {
			return models.ReadingSortColumns[(i+1)%len(models.ReadingSortColumns)]
		}
	}
	return defaultSort
}

// Capturing implements app.Page.
func (p *Page) Capturing() bool { return p.focus == focusFrom || p.focus == focusTo }

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
	if in := p.focusedInput(); in != nil {
		return in.Focus()
	}
	return nil
}

// commitFocused navigates as soon as a date field changes.
func (p *Page) commitFocused() tea.Cmd {
	in := p.focusedInput()
	if in == nil || !in.Commit() {
		return nil
	}
	return app.Navigate(p.params.filterURL(p.params.gatewayID, p.from.Committed(), p.to.Committed()))
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
	case key.Matches(msg, p.keys.NextGateway):
		return p.selectGateway(1)
	case key.Matches(msg, p.keys.PrevGateway):
		return p.selectGateway(-1)
	case key.Matches(msg, p.keys.Sort):
		return app.Navigate(p.params.sortURL(p.nextSortColumn()))
	case key.Matches(msg, p.keys.Order):
		return app.Navigate(p.params.sortURL(p.params.sort))
	case key.Matches(msg, p.keys.PrevPage):
		if p.params.page > 1 {
			return app.Navigate(p.params.pageURL(p.params.page - 1))
		}
	case key.Matches(msg, p.keys.NextPage):
		if p.params.page < p.totalPages() {
			return app.Navigate(p.params.pageURL(p.params.page + 1))
		}
	case key.Matches(msg, p.keys.Clear):
		return app.Navigate(app.RouteReadings)
	case key.Matches(msg, p.keys.PageUp):
		p.scroll.Scroll(-p.scroll.Height())
	case key.Matches(msg, p.keys.PageDown):
		p.scroll.Scroll(p.scroll.Height())
	}
	return nil
}

func (p *Page) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
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
	case components.TargetAction:
		switch t.Value {
		case actionFrom:
			return p.setFocus(focusFrom)
		case actionTo:
			return p.setFocus(focusTo)
		case actionGateway:
			return p.selectGateway(1)
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
	return []key.Binding{p.keys.PrevPage, p.keys.NextPage, p.keys.Sort, p.keys.NextGateway}
}

// FullHelp implements app.Page.
func (p *Page) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{p.keys.PrevPage, p.keys.NextPage, p.keys.PageUp, p.keys.PageDown},
		{p.keys.Sort, p.keys.Order, p.keys.NextGateway, p.keys.PrevGateway},
		{p.keys.Focus, p.keys.FocusPrev, p.keys.Commit, p.keys.Escape, p.keys.Clear},
	}
}
