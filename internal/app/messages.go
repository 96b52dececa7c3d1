package app

import (
	"time"

	"github.com/j-veylop/geostar-dashboard/internal/router"
	"github.com/j-veylop/geostar-dashboard/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// NavigateMsg asks the app to move to Href. Replace overwrites the current
// history entry instead of pushing a new one.
type NavigateMsg struct {
	Href    string
	Replace bool
}

// LinkClickedMsg reports activation of a rendered link. Internal links go
// through the router, the rest are shown to the user.
type LinkClickedMsg struct {
	Link router.Link
}

// BackMsg moves one entry back in history.
type BackMsg struct{}

// ForwardMsg moves one entry forward in history.
type ForwardMsg struct{}

// ReloadMsg dispatches the current location again.
type ReloadMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearNotificationsMsg requests clearing all notifications.
type ClearNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg carries the service subscription channel.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents an error a page could not handle itself.
type ErrorMsg struct {
	Error   error
	Context string
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
