// Package pages holds what the routed page controllers share: the API they
// load from, request bookkeeping, the gateway pill bar and the table
// scroller.
package pages

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/geostar-dashboard/internal/app"
	"github.com/j-veylop/geostar-dashboard/internal/chart"
	"github.com/j-veylop/geostar-dashboard/internal/client"
	"github.com/j-veylop/geostar-dashboard/internal/filter"
	"github.com/j-veylop/geostar-dashboard/internal/logger"
	"github.com/j-veylop/geostar-dashboard/internal/models"
	"github.com/j-veylop/geostar-dashboard/internal/router"
)

// API is the slice of the JSON client pages use.
type API interface {
	Overview(ctx context.Context, q client.OverviewQuery) (*models.OverviewResponse, error)
	Daily(ctx context.Context, date string) (*models.DailyResponse, error)
	Readings(ctx context.Context, q client.ReadingsQuery) (*models.ReadingsResponse, error)
}

// Deps are the collaborators shared by every page. There is one of each per
// program.
type Deps struct {
	Router   *router.Router
	API      API
	Fetcher  *client.Fetcher
	Filter   *filter.Store
	Charts   *chart.Registry
	Location *time.Location
	Now      func() time.Time
}

// NewDeps fills in empty collaborators.
func NewDeps(r *router.Router, api API, loc *time.Location) *Deps {
	if loc == nil {
		loc = time.Local
	}
	return &Deps{
		Router:   r,
		API:      api,
		Fetcher:  &client.Fetcher{},
		Filter:   filter.New(),
		Charts:   &chart.Registry{},
		Location: loc,
		Now:      time.Now,
	}
}

// Today returns the current date in the dashboard time zone.
func (d *Deps) Today() string {
	return models.Today(d.Now(), d.Location)
}

// Current reports whether a result for route with token may still touch
// the screen: the router must still show route and no newer request may
// have started.
func (d *Deps) Current(route string, token uint64) bool {
	return d.Router.CurrentPage() == route && d.Fetcher.Latest(token)
}

// Result carries a finished page load back into Update.
type Result[T any] struct {
	Route string
	Token uint64
	Data  T
	Err   error
}

// Fetch aborts the in-flight request and starts fn as the new one. The
// request begins bookkeeping immediately; fn runs in the returned command.
func Fetch[T any](d *Deps, route string, fn func(ctx context.Context) (T, error)) tea.Cmd {
	ctx, token := d.Fetcher.Begin(context.Background())
	return func() tea.Msg {
		data, err := fn(ctx)
		return Result[T]{Route: route, Token: token, Data: data, Err: err}
	}
}

// Failed turns a load error into a command. Aborted requests are dropped
// silently; anything else is logged and shown to the user.
func Failed(route string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	if client.IsCanceled(err) {
		logger.Debug("Request aborted", "route", route)
		return nil
	}
	logger.Error("Page load failed", "route", route, "error", err)
	return app.ReportError("Loading "+route, err)
}

// Link returns the command for activating an in-app link.
func Link(href string) tea.Cmd {
	return app.OpenLink(router.Link{Href: href, Internal: true})
}
