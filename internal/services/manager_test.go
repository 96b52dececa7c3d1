package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/geostar-dashboard/internal/config"
	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/services/gateways"
	"github.com/j-veylop/geostar-dashboard/internal/services/health"
)

func newTestManager(t *testing.T, healthy bool) (*Manager, *config.Config) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIURL:         srv.URL,
		GatewaysPath:   filepath.Join(t.TempDir(), "gateways.json"),
		HTTPTimeout:    time.Second,
		HealthInterval: time.Hour,
	}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() {
		_ = mgr.Close()
		format.SetGatewayNames(nil)
	})
	return mgr, cfg
}

func nextEvent(t *testing.T, ch <-chan ServiceEvent) ServiceEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for service event")
	}
	return nil
}

func TestNewManager(t *testing.T) {
	mgr, cfg := newTestManager(t, true)

	if mgr.Client() == nil || mgr.Client().BaseURL() != cfg.APIURL {
		t.Error("client should target the configured API")
	}
	if mgr.Gateways() == nil {
		t.Error("gateway names service should be initialized")
	}
	if _, err := os.Stat(cfg.GatewaysPath); err != nil {
		t.Errorf("gateway names file should exist: %v", err)
	}
}

func TestNewManager_BadGatewaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateways.json")
	if err := os.WriteFile(path, []byte("["), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := NewManager(&config.Config{APIURL: "http://127.0.0.1:0", GatewaysPath: path})
	if err == nil {
		t.Fatal("NewManager should fail on an unparsable names file")
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr, _ := newTestManager(t, true)

	ch, cmd := mgr.Subscribe()
	if ch == nil || cmd == nil {
		t.Fatal("Subscribe returned nil")
	}

	mgr.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
	if msg := cmd(); msg != nil {
		t.Errorf("wait on a closed channel should yield nil, got %T", msg)
	}
}

func TestManager_APIStatusEvents(t *testing.T) {
	mgr, _ := newTestManager(t, false)
	ch, _ := mgr.Subscribe()

	// The first check may finish before the subscription, so drive one more.
	mgr.handleHealthEvent(health.Event{Healthy: false, Error: errors.New("down")})

	e, ok := nextEvent(t, ch).(APIStatusEvent)
	if !ok {
		t.Fatalf("expected APIStatusEvent")
	}
	if e.Healthy || e.Err == nil {
		t.Errorf("status = %+v, want unhealthy", e)
	}
}

func TestManager_GatewayNamesReload(t *testing.T) {
	mgr, cfg := newTestManager(t, true)
	ch, _ := mgr.Subscribe()

	if err := os.WriteFile(cfg.GatewaysPath, []byte(`{"GW9":"Garage"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	// The initial load may still be queued ahead of the reload.
	var last map[string]string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e := <-ch:
			if changed, ok := e.(GatewayNamesChangedEvent); ok {
				last = changed.Names
				if changed.Names["GW9"] == "Garage" {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timeout waiting for reloaded names, last = %v", last)
		}
	}
}

func TestManager_ErrorNotifies(t *testing.T) {
	mgr, _ := newTestManager(t, true)
	ch, _ := mgr.Subscribe()

	var titles []string
	mgr.notify = func(title, _ string) error {
		titles = append(titles, title)
		return nil
	}

	mgr.handleGatewayEvent(gateways.Event{Type: gateways.EventError, Error: errors.New("bad json")})

	e, ok := nextEvent(t, ch).(ErrorEvent)
	if !ok || e.Service != "gateways" {
		t.Errorf("expected gateways ErrorEvent, got %+v", e)
	}
	if len(titles) != 1 {
		t.Errorf("desktop notifications = %v", titles)
	}
}

func TestManager_BroadcastSkipsFullSubscriber(t *testing.T) {
	mgr := &Manager{}
	full := make(chan ServiceEvent)
	mgr.subscribers = append(mgr.subscribers, full)

	done := make(chan struct{})
	go func() {
		mgr.broadcast(ErrorEvent{Service: "x"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full subscriber")
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	events := []ServiceEvent{
		GatewayNamesChangedEvent{},
		APIStatusEvent{},
		ErrorEvent{},
	}
	if len(events) != 3 {
		t.Fatal("unexpected event count")
	}
}

func TestManager_Close(t *testing.T) {
	mgr := &Manager{}
	if err := mgr.Close(); err != nil {
		t.Errorf("Close() on an empty manager = %v", err)
	}
	if healthy, ok := mgr.APIStatus(); healthy || ok {
		t.Error("empty manager should report unknown status")
	}
}
