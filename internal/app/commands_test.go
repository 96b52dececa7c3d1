package app

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/geostar-dashboard/internal/router"
	"github.com/j-veylop/geostar-dashboard/internal/services"
)

func TestCommands_Tick(t *testing.T) {
	if tickCmd(time.Millisecond) == nil {
		t.Error("tickCmd returned nil")
	}
	if defaultTickCmd() == nil {
		t.Error("defaultTickCmd returned nil")
	}
}

func TestCommands_Notifications(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
		dur  time.Duration
	}{
		{"Success", NotifySuccess, NotificationSuccess, DefaultNotificationDuration},
		{"Error", NotifyError, NotificationError, LongNotificationDuration},
		{"Warning", NotifyWarning, NotificationWarning, DefaultNotificationDuration},
		{"Info", NotifyInfo, NotificationInfo, QuickNotificationDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.fn("test message")()
			n, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if n.Type != tt.want {
				t.Errorf("Type = %v, want %v", n.Type, tt.want)
			}
			if n.Message != "test message" {
				t.Errorf("Message = %q", n.Message)
			}
			if n.Duration != tt.dur {
				t.Errorf("Duration = %v, want %v", n.Duration, tt.dur)
			}
		})
	}
}

func TestCommands_Navigation(t *testing.T) {
	if msg := Navigate("/daily?date=2024-01-15")(); msg != (NavigateMsg{Href: "/daily?date=2024-01-15"}) {
		t.Errorf("Navigate = %#v", msg)
	}
	if msg := Replace("/readings")(); msg != (NavigateMsg{Href: "/readings", Replace: true}) {
		t.Errorf("Replace = %#v", msg)
	}
	l := router.Link{Href: "https://example.com", Internal: false}
	if msg := OpenLink(l)(); msg != (LinkClickedMsg{Link: l}) {
		t.Errorf("OpenLink = %#v", msg)
	}
}

func TestCommands_ReportError(t *testing.T) {
	if ReportError("load", nil) != nil {
		t.Error("ReportError(nil) should return nil")
	}

	err := errors.New("boom")
	msg, ok := ReportError("load", err)().(ErrorMsg)
	if !ok {
		t.Fatal("Expected ErrorMsg")
	}
	if got := errorText(msg); got != "load: boom" {
		t.Errorf("errorText = %q", got)
	}
	if got := errorText(ErrorMsg{Error: err}); got != "boom" {
		t.Errorf("errorText without context = %q", got)
	}
}

func TestCommands_ClearNotification(t *testing.T) {
	msg := clearNotificationCmd("n1", time.Millisecond)()
	if r, ok := msg.(RemoveNotificationMsg); !ok || r.ID != "n1" {
		t.Errorf("clearNotificationCmd = %#v", msg)
	}
}

func TestCommands_WaitForServiceEvent(t *testing.T) {
	ch := make(chan services.ServiceEvent, 1)
	ch <- services.APIStatusEvent{Healthy: true}

	msg := waitForServiceEventCmd(ch)()
	ev, ok := msg.(ServiceEventMsg)
	if !ok {
		t.Fatalf("Expected ServiceEventMsg, got %T", msg)
	}
	if s, ok := ev.Event.(services.APIStatusEvent); !ok || !s.Healthy {
		t.Errorf("Event = %#v", ev.Event)
	}

	close(ch)
	if msg := waitForServiceEventCmd(ch)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %#v", msg)
	}
}
