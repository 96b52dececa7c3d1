// Package app provides the root Bubble Tea model: page routing, the navbar,
// help, and toast notifications.
package app

import (
	"fmt"
	"sync"
	"time"
)

// NotificationType is the severity of a toast.
type NotificationType int

// Toast severities.
const (
	NotificationSuccess NotificationType = iota
	NotificationError
	NotificationWarning
	NotificationInfo
)

// Prefix returns the tag shown in front of a toast.
func (n NotificationType) Prefix() string {
	switch n {
	case NotificationSuccess:
		return "[OK]"
	case NotificationError:
		return "[ERR]"
	case NotificationWarning:
		return "[WARN]"
	default:
		return "[INFO]"
	}
}

// Notification is a toast. Repeats of an active toast bump Count instead of
// stacking.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	Count     int
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the toast has outlived its duration. A zero
// duration never expires.
func (n *Notification) IsExpired() bool {
	return n.Duration > 0 && time.Since(n.CreatedAt) > n.Duration
}

// Text returns the toast line.
func (n *Notification) Text() string {
	if n.Count > 1 {
		return fmt.Sprintf("%s %s (x%d)", n.Type.Prefix(), n.Message, n.Count)
	}
	return n.Type.Prefix() + " " + n.Message
}

// APIStatus is the last known reachability of the JSON API.
type APIStatus int

// API reachability as seen by the health poller.
const (
	APIUnknown APIStatus = iota
	APIUp
	APIDown
)

// String returns the navbar label for the status.
func (s APIStatus) String() string {
	switch s {
	case APIUp:
		return "api ok"
	case APIDown:
		return "api down"
	default:
		return "api ?"
	}
}

const maxNotifications = 10

// State is shared between the root model and the commands it spawns.
type State struct {
	mu sync.RWMutex

	api APIStatus

	notifications []Notification
	seq           int
}

// NewState returns an empty state.
func NewState() *State {
	return &State{}
}

// SetAPIStatus records the result of a health check.
func (s *State) SetAPIStatus(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = APIDown
	if healthy {
		s.api = APIUp
	}
}

// APIStatus returns the last recorded API status.
func (s *State) APIStatus() APIStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.api
}

// AddNotification shows a toast and returns its id. An identical active
// toast is moved to the end with a fresh id and timer, so the removal
// scheduled for its old id becomes a no-op.
func (s *State) AddNotification(typ NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	n := Notification{
		ID:        fmt.Sprintf("n%d", s.seq),
		Type:      typ,
		Message:   message,
		Count:     1,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	for i := range s.notifications {
		old := &s.notifications[i]
		if old.Type == typ && old.Message == message && !old.IsExpired() {
			n.Count = old.Count + 1
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			break
		}
	}

	s.notifications = append(s.notifications, n)
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}
	return n.ID
}

// RemoveNotification drops the toast with id, if present.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications drops expired toasts.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = s.active()
}

// GetNotifications returns the toasts that have not expired, oldest first.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active()
}

func (s *State) active() []Notification {
	out := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			out = append(out, n)
		}
	}
	return out
}

// ClearAllNotifications drops every toast.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nil
}
