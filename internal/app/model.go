package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/logger"
	"github.com/j-veylop/geostar-dashboard/internal/router"
	"github.com/j-veylop/geostar-dashboard/internal/services"
	"github.com/j-veylop/geostar-dashboard/internal/ui/components"
	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

// Client routes.
const (
	RouteOverview = "/"
	RouteDaily    = "/daily"
	RouteReadings = "/readings"
)

// navbarHeight is the title row plus its bottom border.
const navbarHeight = 2

// footerHeight is the short help line.
const footerHeight = 1

// Page is one routed screen. Enter is the router handler for the page's
// path; Leave runs when the router switches to a different page.
type Page interface {
	// Route returns the path the page is registered under.
	Route() string

	// Title is the navbar label.
	Title() string

	// Enter renders the page for u and returns its load command.
	Enter(u *url.URL) tea.Cmd

	// Leave unmounts the page skeleton.
	Leave()

	// Update handles messages and returns the updated page and any commands.
	// Mouse coordinates are page-local.
	Update(msg tea.Msg) (Page, tea.Cmd)

	// View renders the page content.
	View() string

	// SetSize sets the available size for the page.
	SetSize(width, height int)

	// Capturing reports whether a text input has focus and keys belong to it.
	Capturing() bool

	// ShortHelp returns key bindings for the footer.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the help overlay.
	FullHelp() [][]key.Binding
}

// Styles defines the application styles.
type Styles struct {
	NavBar      lipgloss.Style
	Brand       lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	APIUp   lipgloss.Style
	APIDown lipgloss.Style

	Content   lipgloss.Style
	Toast     lipgloss.Style
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	s := Styles{}
	s.NavBar = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(styles.Subtle)
	s.Brand = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)
	s.InactiveTab = lipgloss.NewStyle().Foreground(styles.TextMuted)

	s.NotificationSuccess = styles.SuccessTextStyle.Padding(0, 1)
	s.NotificationError = styles.ErrorTextStyle.Bold(true).Padding(0, 1)
	s.NotificationWarning = styles.WarningTextStyle.Padding(0, 1)
	s.NotificationInfo = styles.InfoTextStyle.Padding(0, 1)

	s.APIUp = styles.SuccessTextStyle
	s.APIDown = styles.ErrorTextStyle.Bold(true)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle
	s.Title = styles.TitleStyle
	s.Subtle = lipgloss.NewStyle().Foreground(styles.TextMuted)
	s.Highlight = lipgloss.NewStyle().Foreground(styles.Secondary).Bold(true)
	return s
}

// Model is the main application model.
type Model struct {
	pages  map[string]Page
	order  []Page
	router *router.Router
	start  string

	state    *State
	services *services.Manager
	keymap   KeyMap
	styles   Styles
	help     help.Model

	navSpots components.Hotspots

	width  int
	height int

	showHelp bool
	ready    bool

	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model. mgr may be nil.
func NewModel(mgr *services.Manager, r *router.Router) *Model {
	if r == nil {
		r = router.New()
	}
	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.ShortSeparator = styles.HelpStyle

	m := &Model{
		pages:    make(map[string]Page),
		router:   r,
		start:    RouteOverview,
		state:    NewState(),
		services: mgr,
		keymap:   DefaultKeyMap(),
		styles:   DefaultStyles(),
		help:     h,
	}
	r.OnChange(m.onRouteChange)
	return m
}

// SetPages registers pages with the router in navbar order.
func (m *Model) SetPages(pages ...Page) {
	for _, p := range pages {
		m.pages[p.Route()] = p
		m.order = append(m.order, p)
		m.router.Register(p.Route(), p.Enter)
	}
	if m.ready {
		m.updatePageSizes()
	}
}

// SetStartURL sets the location dispatched by Init.
func (m *Model) SetStartURL(href string) {
	if href != "" {
		m.start = href
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// Router returns the location router.
func (m *Model) Router() *router.Router {
	return m.router
}

// ActivePage returns the page for the current route, or nil.
func (m *Model) ActivePage() Page {
	return m.pages[m.router.CurrentPage()]
}

func (m *Model) onRouteChange(from, to string) {
	if p := m.pages[from]; p != nil {
		p.Leave()
	}
	logger.Debug("route changed", "from", from, "to", to)
}

// Init subscribes to services and dispatches the start location.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{defaultTickCmd()}
	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
	}
	cmds = append(cmds, m.router.Navigate(m.start, true))
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	case tea.MouseMsg:
		return m, m.handleMouseMsg(msg)
	}

	cmds := m.handleAppMsg(msg)
	cmds = append(cmds, m.broadcast(msg))
	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case NavigateMsg:
		cmds = append(cmds, m.router.Navigate(msg.Href, msg.Replace))
	case LinkClickedMsg:
		cmds = append(cmds, m.handleLink(msg.Link))
	case BackMsg:
		cmds = append(cmds, m.router.Back())
	case ForwardMsg:
		cmds = append(cmds, m.router.Forward())
	case ReloadMsg:
		cmds = append(cmds, m.router.Dispatch(m.router.Location()))
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event))
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearNotificationsMsg:
		m.state.ClearAllNotifications()
	case ErrorMsg:
		logger.Error("page error", "context", msg.Context, "error", msg.Error)
		cmds = append(cmds, NotifyError(errorText(msg)))
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

// broadcast hands non-input messages to every page. Pages drop messages
// that belong to another page or a superseded request.
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, p := range m.order {
		next, cmd := p.Update(msg)
		m.order[i] = next
		m.pages[next.Route()] = next
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateActivePage(msg tea.Msg) tea.Cmd {
	p := m.ActivePage()
	if p == nil {
		return nil
	}
	next, cmd := p.Update(msg)
	m.pages[next.Route()] = next
	for i := range m.order {
		if m.order[i].Route() == next.Route() {
			m.order[i] = next
		}
	}
	return cmd
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.help.Width = msg.Width
	m.updatePageSizes()
}

func (m *Model) updatePageSizes() {
	h := max(m.height-navbarHeight-footerHeight, 0)
	for _, p := range m.order {
		p.SetSize(m.width, h)
	}
}

// handleKeyMsg applies global bindings and forwards the rest to the active page.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Escape) {
			m.showHelp = false
		}
		return nil
	}

	if p := m.ActivePage(); p != nil && p.Capturing() {
		return m.updateActivePage(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, m.keymap.Overview):
		return m.router.Navigate(RouteOverview, false)
	case key.Matches(msg, m.keymap.Daily):
		return m.router.Navigate(RouteDaily, false)
	case key.Matches(msg, m.keymap.Readings):
		return m.router.Navigate(RouteReadings, false)
	case key.Matches(msg, m.keymap.Back):
		return m.router.Back()
	case key.Matches(msg, m.keymap.Forward):
		return m.router.Forward()
	case key.Matches(msg, m.keymap.Reload):
		return m.router.Dispatch(m.router.Location())
	}

	return m.updateActivePage(msg)
}

// handleMouseMsg routes navbar clicks itself and translates everything else
// into page-local coordinates.
func (m *Model) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if m.showHelp {
		return nil
	}
	if msg.Y < navbarHeight {
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		t, ok := m.navSpots.At(msg.X, msg.Y)
		if !ok {
			return nil
		}
		switch {
		case t.Kind == components.TargetLink:
			return m.handleLink(router.Link{Href: t.Value, Internal: true})
		case t == components.ActionTarget("back"):
			return m.router.Back()
		case t == components.ActionTarget("forward"):
			return m.router.Forward()
		}
		return nil
	}
	msg.Y -= navbarHeight
	return m.updateActivePage(msg)
}

func (m *Model) handleLink(l router.Link) tea.Cmd {
	if cmd, ok := m.router.Click(l); ok {
		return cmd
	}
	return NotifyInfo("External link: " + l.Href)
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.GatewayNamesChangedEvent:
		var cmds []tea.Cmd
		if m.ActivePage() != nil {
			cmds = append(cmds, m.router.Dispatch(m.router.Location()))
		}
		cmds = append(cmds, NotifyInfo(fmt.Sprintf("Unit names reloaded (%d)", len(e.Names))))
		return tea.Batch(cmds...)

	case services.APIStatusEvent:
		was := m.state.APIStatus()
		m.state.SetAPIStatus(e.Healthy)
		switch {
		case !e.Healthy && e.Err != nil:
			return NotifyWarning(fmt.Sprintf("API unreachable: %v", e.Err))
		case e.Healthy && was == APIDown:
			return NotifySuccess("API reachable again")
		}

	case services.ErrorEvent:
		return NotifyError(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	return nil
}

// View renders the application UI.
func (m *Model) View() string {
	if !m.ready {
		return m.styles.Content.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(m.renderNavbar())
	b.WriteString("\n")

	contentHeight := max(m.height-navbarHeight-footerHeight, 0)
	content := ""
	if p := m.ActivePage(); p != nil {
		content = p.View()
	} else {
		content = m.renderPlaceholder()
	}
	b.WriteString(lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		return m.overlayToasts(mainView, toasts)
	}
	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := lipgloss.Width(overlay)
	y := max((m.height-len(overlayLines))/2, 0)
	x := max((m.width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")
		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

// renderNavbar draws the brand, one link per page and the history and API
// indicators, recording click targets as it goes.
func (m *Model) renderNavbar() string {
	segs := []components.Segment{components.Text(m.styles.Brand.Render("GeoStar") + "  ")}

	current := m.router.CurrentPage()
	for i, p := range m.order {
		label := fmt.Sprintf(" %d %s ", i+1, p.Title())
		style := m.styles.InactiveTab
		if p.Route() == current {
			label = fmt.Sprintf("[%d %s]", i+1, p.Title())
			style = m.styles.ActiveTab
		}
		segs = append(segs, components.Clickable(style.Render(label), components.LinkTarget(p.Route())), components.Text(" "))
	}

	segs = append(segs, components.Text("  "))
	segs = append(segs, m.historySegment("‹", "back", m.router.CanBack()), components.Text(" "))
	segs = append(segs, m.historySegment("›", "forward", m.router.CanForward()))

	api := m.state.APIStatus()
	apiStyle := m.styles.Subtle
	switch api {
	case APIUp:
		apiStyle = m.styles.APIUp
	case APIDown:
		apiStyle = m.styles.APIDown
	}
	segs = append(segs, components.Text("  "+apiStyle.Render("● "+api.String())))

	layout := components.NewLayout(1)
	layout.Row(segs...)
	m.navSpots = layout.Spots()

	return m.styles.NavBar.Width(m.width).Render(layout.String())
}

func (m *Model) historySegment(label, action string, enabled bool) components.Segment {
	if !enabled {
		return components.Text(styles.DisabledLinkStyle.Render(label))
	}
	return components.Clickable(styles.LinkStyle.Render(label), components.ActionTarget(action))
}

func (m *Model) renderFooter() string {
	var bindings []key.Binding
	if p := m.ActivePage(); p != nil {
		bindings = append(bindings, p.ShortHelp()...)
	}
	bindings = append(bindings, m.keymap.ShortHelp()...)
	return " " + m.help.ShortHelpView(bindings)
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		style := m.styles.NotificationInfo
		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
		case NotificationError:
			style = m.styles.NotificationError
		case NotificationWarning:
			style = m.styles.NotificationWarning
		}
		toasts = append(toasts, m.styles.Toast.Render(style.Render(n.Text())))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	toastWidth := lipgloss.Width(toastStack)
	startX := max(m.width-toastWidth-2, 0)
	startY := navbarHeight

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-mainLineWidth) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	section := func(title string, groups [][]key.Binding) {
		lines = append(lines, m.styles.Highlight.Render(title))
		for _, group := range groups {
			for _, b := range group {
				if !b.Enabled() {
					continue
				}
				lines = append(lines, fmt.Sprintf("  %-12s %s", b.Help().Key, b.Help().Desc))
			}
		}
		lines = append(lines, "")
	}

	section("Global", m.keymap.FullHelp())
	if p := m.ActivePage(); p != nil {
		if groups := p.FullHelp(); len(groups) > 0 {
			section(p.Title(), groups)
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Mouse: click links and unit pills, drag or scroll the chart to zoom"))
	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"%s\n\n%s",
		m.styles.Title.Render("Not found"),
		m.styles.Subtle.Render("No page is registered for "+format.Escape(m.router.Location().Path)),
	)
	return m.styles.Content.Render(content)
}
