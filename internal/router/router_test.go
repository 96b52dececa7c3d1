package router

import (
	"net/url"
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type recorder struct {
	calls []string
}

func (rec *recorder) handler(name string) Handler {
	return func(u *url.URL) tea.Cmd {
		rec.calls = append(rec.calls, name+" "+u.RawQuery)
		return nil
	}
}

func newTestRouter() (*Router, *recorder) {
	r := New()
	rec := &recorder{}
	r.Register("/", rec.handler("overview"))
	r.Register("/daily", rec.handler("daily"))
	r.Register("/readings", rec.handler("readings"))
	return r, rec
}

func TestNavigate_Dispatch(t *testing.T) {
	r, rec := newTestRouter()

	r.Navigate("/daily?date=2024-01-05", false)

	if r.CurrentPage() != "/daily" {
		t.Errorf("CurrentPage() = %q, want /daily", r.CurrentPage())
	}
	if got := r.Location().Query().Get("date"); got != "2024-01-05" {
		t.Errorf("date = %q", got)
	}
	if !slices.Equal(rec.calls, []string{"daily date=2024-01-05"}) {
		t.Errorf("calls = %v", rec.calls)
	}
}

func TestDispatch_UnregisteredPath(t *testing.T) {
	r, rec := newTestRouter()
	r.Navigate("/", false)
	rec.calls = nil

	r.Navigate("/nowhere", false)

	if len(rec.calls) != 0 {
		t.Errorf("no handler should run, got %v", rec.calls)
	}
	if r.CurrentPage() != "/" {
		t.Errorf("current page changed to %q", r.CurrentPage())
	}
}

func TestDispatch_ExactMatch(t *testing.T) {
	r, rec := newTestRouter()
	r.Navigate("/daily/", false)
	if len(rec.calls) != 0 {
		t.Errorf("trailing slash must not match, got %v", rec.calls)
	}
}

func TestDispatch_CurrentSetBeforeHandler(t *testing.T) {
	r := New()
	var seen string
	r.Register("/readings", func(*url.URL) tea.Cmd {
		seen = r.CurrentPage()
		return nil
	})
	r.Navigate("/readings", false)
	if seen != "/readings" {
		t.Errorf("handler saw current page %q", seen)
	}
}

func TestOnChange(t *testing.T) {
	r, _ := newTestRouter()
	var changes []string
	r.OnChange(func(from, to string) { changes = append(changes, from+">"+to) })

	r.Navigate("/", false)
	r.Navigate("/?date_from=2024-01-01", false)
	r.Navigate("/daily", false)

	if !slices.Equal(changes, []string{">/", "/>/daily"}) {
		t.Errorf("changes = %v", changes)
	}
}

func TestHistory(t *testing.T) {
	r, rec := newTestRouter()
	r.Navigate("/", true)
	r.Navigate("/daily?date=2024-01-01", false)
	r.Navigate("/readings", false)

	r.Back()
	if r.CurrentPage() != "/daily" {
		t.Fatalf("Back() current = %q", r.CurrentPage())
	}
	r.Back()
	if r.CurrentPage() != "/" {
		t.Fatalf("Back() current = %q", r.CurrentPage())
	}
	if r.CanBack() {
		t.Error("replace should not have added an entry")
	}
	if cmd := r.Back(); cmd != nil {
		t.Error("Back() at start should be a no-op")
	}

	r.Forward()
	if r.CurrentPage() != "/daily" || r.Location().RawQuery != "date=2024-01-01" {
		t.Errorf("Forward() location = %v", r.Location())
	}

	r.Navigate("/readings?page=2", false)
	if r.CanForward() {
		t.Error("push should drop forward entries")
	}

	want := []string{"overview ", "daily date=2024-01-01", "readings ", "daily date=2024-01-01",
		"overview ", "daily date=2024-01-01", "readings page=2"}
	if !slices.Equal(rec.calls, want) {
		t.Errorf("calls = %v", rec.calls)
	}
}

func TestNavigate_RelativeQuery(t *testing.T) {
	r, _ := newTestRouter()
	r.Navigate("/readings?gateway_id=A", false)
	r.Navigate("?page=3", false)

	loc := r.Location()
	if loc.Path != "/readings" || loc.RawQuery != "page=3" {
		t.Errorf("Location() = %v", loc)
	}
}

func TestClick(t *testing.T) {
	r, rec := newTestRouter()

	if _, handled := r.Click(Link{Href: "https://example.com/"}); handled {
		t.Error("external link should not be handled")
	}
	if len(rec.calls) != 0 {
		t.Error("external link dispatched a handler")
	}

	if _, handled := r.Click(Link{Href: "/daily?date=2024-02-02", Internal: true}); !handled {
		t.Error("internal link should be handled")
	}
	if r.CurrentPage() != "/daily" {
		t.Errorf("CurrentPage() = %q", r.CurrentPage())
	}
}

func TestNavigate_Invalid(t *testing.T) {
	r, rec := newTestRouter()
	if cmd := r.Navigate("%zz", false); cmd != nil {
		t.Error("invalid href should be ignored")
	}
	if len(rec.calls) != 0 || r.CanBack() {
		t.Error("invalid href must not touch history")
	}
}
