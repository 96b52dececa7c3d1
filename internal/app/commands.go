package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/geostar-dashboard/internal/router"
	"github.com/j-veylop/geostar-dashboard/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// NotifySuccess returns a command that adds a success notification.
func NotifySuccess(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// NotifyError returns a command that adds an error notification.
func NotifyError(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// NotifyWarning returns a command that adds a warning notification.
func NotifyWarning(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// NotifyInfo returns a command that adds an info notification.
func NotifyInfo(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// ReportError returns a command that surfaces err as an error toast.
func ReportError(context string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg {
		return ErrorMsg{Error: err, Context: context}
	}
}

// Navigate returns a command that pushes href onto history and dispatches it.
func Navigate(href string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Href: href}
	}
}

// Replace returns a command that replaces the current history entry with href.
func Replace(href string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Href: href, Replace: true}
	}
}

// OpenLink returns a command that activates l.
func OpenLink(l router.Link) tea.Cmd {
	return func() tea.Msg {
		return LinkClickedMsg{Link: l}
	}
}

func errorText(msg ErrorMsg) string {
	if msg.Context == "" {
		return msg.Error.Error()
	}
	return fmt.Sprintf("%s: %v", msg.Context, msg.Error)
}
