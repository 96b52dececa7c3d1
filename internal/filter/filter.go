// Package filter holds the gateway selection shared by every view on a page.
//
// Selection is exclusive: picking a gateway shows only that gateway, picking
// it again shows all gateways. An empty selection means everything is
// visible.
package filter

import "sort"

// Store is the gateway filter state. It is not safe for concurrent use; it
// lives on the UI event loop.
type Store struct {
	selected map[string]struct{}
	subs     []*subscription
}

type subscription struct {
	fn func()
}

// New returns an empty store.
func New() *Store {
	return &Store{selected: make(map[string]struct{})}
}

// Toggle deselects id if it is selected, otherwise makes it the only
// selection. Subscribers are notified once.
func (s *Store) Toggle(id string) {
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		clear(s.selected)
		s.selected[id] = struct{}{}
	}
	s.notify()
}

// Clear empties the selection and notifies subscribers once.
func (s *Store) Clear() {
	clear(s.selected)
	s.notify()
}

// Reset empties the selection and drops every subscriber without notifying.
// Pages call it when they render a fresh skeleton.
func (s *Store) Reset() {
	clear(s.selected)
	s.subs = nil
}

// IsVisible reports whether rows and series for id should be shown.
func (s *Store) IsVisible(id string) bool {
	if len(s.selected) == 0 {
		return true
	}
	_, ok := s.selected[id]
	return ok
}

// Has reports whether id is explicitly selected.
func (s *Store) Has(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// Len returns the number of selected gateways.
func (s *Store) Len() int {
	return len(s.selected)
}

// State returns a sorted copy of the selection.
func (s *Store) State() []string {
	out := make([]string, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Subscribe registers fn to run synchronously after every mutation. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	sub := &subscription{fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		for i, x := range s.subs {
			if x == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Store) Subscribers() int {
	return len(s.subs)
}

func (s *Store) notify() {
	subs := append([]*subscription(nil), s.subs...)
	for _, sub := range subs {
		sub.fn()
	}
}
