package filter

import (
	"slices"
	"testing"
)

func TestToggle(t *testing.T) {
	tests := []struct {
		name    string
		toggles []string
		want    []string
	}{
		{"Empty", nil, []string{}},
		{"SelectOne", []string{"A"}, []string{"A"}},
		{"ReselectClears", []string{"A", "A"}, []string{}},
		{"SwitchSelection", []string{"A", "B"}, []string{"B"}},
		{"SwitchThenDeselect", []string{"A", "B", "B"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			for _, id := range tt.toggles {
				s.Toggle(id)
			}
			if got := s.State(); !slices.Equal(got, tt.want) {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsVisible(t *testing.T) {
	s := New()
	ids := []string{"A", "B", "C"}

	for _, id := range ids {
		if !s.IsVisible(id) {
			t.Errorf("empty store should show %s", id)
		}
	}

	s.Toggle("B")
	for _, id := range ids {
		if got, want := s.IsVisible(id), id == "B"; got != want {
			t.Errorf("IsVisible(%s) = %v, want %v", id, got, want)
		}
	}
	if !s.Has("B") || s.Has("A") || s.Len() != 1 {
		t.Error("Has/Len disagree with selection")
	}

	s.Clear()
	for _, id := range ids {
		if !s.IsVisible(id) {
			t.Errorf("cleared store should show %s", id)
		}
	}
}

func TestNotifyOncePerMutation(t *testing.T) {
	s := New()
	var table, chart, summary int
	s.Subscribe(func() { table++ })
	s.Subscribe(func() { chart++ })
	s.Subscribe(func() { summary++ })

	s.Toggle("A")
	s.Toggle("A")
	s.Clear()

	for name, n := range map[string]int{"table": table, "chart": chart, "summary": summary} {
		if n != 3 {
			t.Errorf("%s notified %d times, want 3", name, n)
		}
	}
}

func TestNotifySeesNewState(t *testing.T) {
	s := New()
	var seen []string
	s.Subscribe(func() { seen = s.State() })

	s.Toggle("A")
	if !slices.Equal(seen, []string{"A"}) {
		t.Errorf("subscriber saw %v, want [A]", seen)
	}
}

func TestUnsubscribeAndReset(t *testing.T) {
	s := New()
	var a, b int
	unsubA := s.Subscribe(func() { a++ })
	s.Subscribe(func() { b++ })

	unsubA()
	s.Toggle("X")
	if a != 0 || b != 1 {
		t.Errorf("after unsubscribe a=%d b=%d, want 0 1", a, b)
	}

	s.Reset()
	if s.Len() != 0 {
		t.Error("Reset() should clear the selection")
	}
	if b != 1 {
		t.Error("Reset() must not notify")
	}
	s.Toggle("Y")
	if b != 1 {
		t.Error("Reset() should drop subscribers")
	}
}

func TestSubscribers(t *testing.T) {
	s := New()
	unsub := s.Subscribe(func() {})
	s.Subscribe(func() {})
	if got := s.Subscribers(); got != 2 {
		t.Fatalf("Subscribers() = %d, want 2", got)
	}
	unsub()
	if got := s.Subscribers(); got != 1 {
		t.Errorf("after unsubscribe = %d, want 1", got)
	}
	s.Reset()
	if got := s.Subscribers(); got != 0 {
		t.Errorf("after Reset() = %d, want 0", got)
	}
}
