// Package router maps in-app locations to page handlers and keeps a
// browser-style history stack.
package router

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/geostar-dashboard/internal/logger"
)

// Handler renders the page for a location.
type Handler func(u *url.URL) tea.Cmd

// Link is a navigable target rendered on a page. Only links marked
// Internal are handled by the router.
type Link struct {
	Href     string
	Internal bool
}

// ChangeFunc observes page switches.
type ChangeFunc func(from, to string)

// Router dispatches locations to registered handlers by exact path match.
type Router struct {
	routes   map[string]Handler
	history  []*url.URL
	index    int
	current  string
	onChange []ChangeFunc
}

// New returns an empty router positioned at "/".
func New() *Router {
	root := &url.URL{Path: "/"}
	return &Router{
		routes:  make(map[string]Handler),
		history: []*url.URL{root},
	}
}

// Register binds path to h, replacing any previous handler.
func (r *Router) Register(path string, h Handler) {
	r.routes[path] = h
}

// OnChange registers fn to run when the current page changes.
func (r *Router) OnChange(fn ChangeFunc) {
	r.onChange = append(r.onChange, fn)
}

// CurrentPage returns the path of the page last dispatched.
func (r *Router) CurrentPage() string { return r.current }

// Location returns a copy of the current history entry.
func (r *Router) Location() *url.URL {
	u := *r.history[r.index]
	return &u
}

// Navigate records raw in history and dispatches it. With replace the
// current entry is overwritten instead of pushing a new one; pushing
// discards any forward entries.
func (r *Router) Navigate(raw string, replace bool) tea.Cmd {
	u, err := r.resolve(raw)
	if err != nil {
		logger.Warn("Ignoring invalid location", "href", raw, "error", err)
		return nil
	}
	if replace {
		r.history[r.index] = u
	} else {
		r.history = append(r.history[:r.index+1], u)
		r.index++
	}
	return r.Dispatch(u)
}

// Dispatch runs the handler registered for u.Path. The current page is
// updated before the handler runs. Unregistered paths do nothing.
func (r *Router) Dispatch(u *url.URL) tea.Cmd {
	h, ok := r.routes[u.Path]
	if !ok {
		logger.Debug("No route for location", "path", u.Path)
		return nil
	}
	from := r.current
	r.current = u.Path
	if from != u.Path {
		for _, fn := range r.onChange {
			fn(from, u.Path)
		}
	}
	return h(u)
}

// CanBack reports whether an earlier history entry exists.
func (r *Router) CanBack() bool { return r.index > 0 }

// CanForward reports whether a later history entry exists.
func (r *Router) CanForward() bool { return r.index < len(r.history)-1 }

// Back moves one entry back in history and dispatches it.
func (r *Router) Back() tea.Cmd {
	if !r.CanBack() {
		return nil
	}
	r.index--
	return r.Dispatch(r.Location())
}

// Forward moves one entry forward in history and dispatches it.
func (r *Router) Forward() tea.Cmd {
	if !r.CanForward() {
		return nil
	}
	r.index++
	return r.Dispatch(r.Location())
}

// Click handles activation of l. It reports false for links the router
// does not own, leaving them to the caller.
func (r *Router) Click(l Link) (tea.Cmd, bool) {
	if !l.Internal {
		return nil, false
	}
	return r.Navigate(l.Href, false), true
}

// resolve parses raw relative to the current location, so "?page=2"
// keeps the current path.
func (r *Router) resolve(raw string) (*url.URL, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	u := r.history[r.index].ResolveReference(ref)
	u.Scheme, u.Host, u.User = "", "", nil
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}
