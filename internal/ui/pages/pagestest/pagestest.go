// Package pagestest provides fakes and command helpers for page tests.
package pagestest

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/geostar-dashboard/internal/client"
	"github.com/j-veylop/geostar-dashboard/internal/models"
	"github.com/j-veylop/geostar-dashboard/internal/router"
	"github.com/j-veylop/geostar-dashboard/internal/ui/pages"
)

// Now is the fixed clock used by Deps.
var Now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// API is a pages.API whose responses are set per test. It records every
// call and ignores cancellation so stale results still arrive.
type API struct {
	mu sync.Mutex

	OverviewResp *models.OverviewResponse
	DailyResp    *models.DailyResponse
	ReadingsResp *models.ReadingsResponse
	Err          error

	OverviewCalls []client.OverviewQuery
	DailyCalls    []string
	ReadingsCalls []client.ReadingsQuery
}

// Overview implements pages.API.
func (a *API) Overview(_ context.Context, q client.OverviewQuery) (*models.OverviewResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.OverviewCalls = append(a.OverviewCalls, q)
	return a.OverviewResp, a.Err
}

// Daily implements pages.API.
func (a *API) Daily(_ context.Context, date string) (*models.DailyResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.DailyCalls = append(a.DailyCalls, date)
	return a.DailyResp, a.Err
}

// Readings implements pages.API.
func (a *API) Readings(_ context.Context, q client.ReadingsQuery) (*models.ReadingsResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ReadingsCalls = append(a.ReadingsCalls, q)
	return a.ReadingsResp, a.Err
}

// Deps returns page dependencies on a fresh router, UTC and the fixed clock.
func Deps(api pages.API) *pages.Deps {
	d := pages.NewDeps(router.New(), api, time.UTC)
	d.Now = func() time.Time { return Now }
	return d
}

// Drain runs cmd and returns the messages it produces, expanding batches.
// Commands still blocked after wait, such as long timers, are abandoned.
func Drain(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, Drain(c, wait)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(wait):
		return nil
	}
}

// Find returns the first message of type T.
func Find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Load drains cmd and returns the page load result in it.
func Load[T any](cmd tea.Cmd) (pages.Result[T], bool) {
	return Find[pages.Result[T]](Drain(cmd, 50*time.Millisecond))
}
