package app

import (
	"fmt"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if s.APIStatus() != APIUnknown {
		t.Errorf("APIStatus = %v, want unknown", s.APIStatus())
	}
	if len(s.GetNotifications()) != 0 {
		t.Error("Notifications should be empty")
	}
}

func TestState_APIStatus(t *testing.T) {
	s := NewState()

	s.SetAPIStatus(true)
	if s.APIStatus() != APIUp {
		t.Errorf("APIStatus = %v, want up", s.APIStatus())
	}
	s.SetAPIStatus(false)
	if s.APIStatus() != APIDown {
		t.Errorf("APIStatus = %v, want down", s.APIStatus())
	}
}

func TestAPIStatus_String(t *testing.T) {
	tests := []struct {
		status APIStatus
		want   string
	}{
		{APIUnknown, "api ?"},
		{APIUp, "api ok"},
		{APIDown, "api down"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id1 := s.AddNotification(NotificationInfo, "one", time.Minute)
	id2 := s.AddNotification(NotificationError, "two", 0)
	if id1 == id2 {
		t.Fatal("notification ids should be unique")
	}

	notes := s.GetNotifications()
	if len(notes) != 2 {
		t.Fatalf("len = %d, want 2", len(notes))
	}
	if notes[1].Message != "two" || notes[1].Type != NotificationError {
		t.Errorf("second notification = %#v", notes[1])
	}

	s.RemoveNotification(id1)
	notes = s.GetNotifications()
	if len(notes) != 1 || notes[0].ID != id2 {
		t.Errorf("after remove = %#v", notes)
	}

	s.RemoveNotification("missing")
	if len(s.GetNotifications()) != 1 {
		t.Error("removing an unknown id should be a no-op")
	}

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications left notifications behind")
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()
	for i := range maxNotifications + 5 {
		s.AddNotification(NotificationInfo, fmt.Sprintf("msg %d", i), 0)
	}

	notes := s.GetNotifications()
	if len(notes) != maxNotifications {
		t.Fatalf("len = %d, want %d", len(notes), maxNotifications)
	}
	if notes[0].Message != "msg 5" {
		t.Errorf("oldest kept = %q, want msg 5", notes[0].Message)
	}
}

func TestState_ClearExpired(t *testing.T) {
	s := NewState()
	s.AddNotification(NotificationInfo, "short", time.Nanosecond)
	s.AddNotification(NotificationInfo, "sticky", 0)

	time.Sleep(time.Millisecond)
	s.ClearExpiredNotifications()

	notes := s.GetNotifications()
	if len(notes) != 1 || notes[0].Message != "sticky" {
		t.Errorf("after expiry = %#v", notes)
	}
}

func TestState_RepeatedNotificationCollapses(t *testing.T) {
	s := NewState()
	first := s.AddNotification(NotificationError, "Loading /: boom", time.Minute)
	s.AddNotification(NotificationInfo, "other", time.Minute)
	second := s.AddNotification(NotificationError, "Loading /: boom", time.Minute)

	if first == second {
		t.Fatal("a repeat should get a fresh id")
	}
	notes := s.GetNotifications()
	if len(notes) != 2 {
		t.Fatalf("len = %d, want 2", len(notes))
	}
	last := notes[1]
	if last.ID != second || last.Count != 2 {
		t.Errorf("repeat = %#v", last)
	}
	if got := last.Text(); got != "[ERR] Loading /: boom (x2)" {
		t.Errorf("Text() = %q", got)
	}

	s.RemoveNotification(first)
	if len(s.GetNotifications()) != 2 {
		t.Error("the stale timer must not remove the refreshed toast")
	}
}

func TestNotification_Text(t *testing.T) {
	tests := []struct {
		n    NotificationType
		want string
	}{
		{NotificationSuccess, "[OK] done"},
		{NotificationError, "[ERR] done"},
		{NotificationWarning, "[WARN] done"},
		{NotificationInfo, "[INFO] done"},
		{NotificationType(99), "[INFO] done"},
	}
	for _, tt := range tests {
		n := Notification{Type: tt.n, Message: "done", Count: 1}
		if got := n.Text(); got != tt.want {
			t.Errorf("Text() = %q, want %q", got, tt.want)
		}
	}
}
