// Package services provides service orchestration for the TUI.
package services

import (
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/geostar-dashboard/internal/client"
	"github.com/j-veylop/geostar-dashboard/internal/config"
	"github.com/j-veylop/geostar-dashboard/internal/logger"
	"github.com/j-veylop/geostar-dashboard/internal/services/gateways"
	"github.com/j-veylop/geostar-dashboard/internal/services/health"
)

type (
	// GatewayNamesChangedEvent is emitted when the friendly unit names were reloaded.
	GatewayNamesChangedEvent struct {
		Names map[string]string
	}

	// APIStatusEvent is emitted when the API becomes reachable or unreachable.
	APIStatusEvent struct {
		Healthy bool
		Err     error
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (GatewayNamesChangedEvent) isServiceEvent() {}
func (APIStatusEvent) isServiceEvent()           {}
func (ErrorEvent) isServiceEvent()               {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	client      *client.Client
	gateways    *gateways.Service
	health      *health.Service
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	notify      func(title, body string) error
}

// NewManager creates the API client and starts the background services.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		client:   client.New(cfg.APIURL, cfg.HTTPTimeout),
		stopChan: make(chan struct{}),
	}
	if cfg.DesktopNotify {
		m.notify = func(title, body string) error {
			return beeep.Notify(title, body, "")
		}
	}

	var err error
	m.gateways, err = gateways.New(cfg.GatewaysPath)
	if err != nil {
		return nil, fmt.Errorf("failed to start gateway names service: %w", err)
	}

	healthConfig := health.DefaultConfig()
	if cfg.HealthInterval > 0 {
		healthConfig.PollInterval = cfg.HealthInterval
	}
	m.health = health.New(m.client, healthConfig)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.gateways.Events():
			m.handleGatewayEvent(event)

		case event := <-m.health.Events():
			m.handleHealthEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleGatewayEvent(event gateways.Event) {
	switch event.Type {
	case gateways.EventNamesLoaded, gateways.EventNamesChanged:
		m.broadcast(GatewayNamesChangedEvent{Names: event.Names})
	case gateways.EventError:
		m.broadcast(ErrorEvent{Service: "gateways", Error: event.Error})
		m.desktopNotify("GeoStar: gateway names", event.Error.Error())
	}
}

func (m *Manager) handleHealthEvent(event health.Event) {
	m.broadcast(APIStatusEvent{Healthy: event.Healthy, Err: event.Error})
	if !event.Healthy && event.Error != nil {
		m.desktopNotify("GeoStar: API unreachable", event.Error.Error())
	}
}

func (m *Manager) desktopNotify(title, body string) {
	if m.notify == nil {
		return
	}
	if err := m.notify(title, body); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd that waits for the next event on ch.
// A closed channel yields nil.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Client returns the shared API client.
func (m *Manager) Client() *client.Client {
	return m.client
}

// Gateways returns the gateway-name service.
func (m *Manager) Gateways() *gateways.Service {
	return m.gateways
}

// APIStatus returns the last known API health. ok is false before the first check.
func (m *Manager) APIStatus() (healthy, ok bool) {
	if m.health == nil {
		return false, false
	}
	healthy, ok, _ = m.health.Status()
	return healthy, ok
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	if m.stopChan != nil {
		close(m.stopChan)
	}

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error
	if m.gateways != nil {
		errs = append(errs, m.gateways.Close())
	}
	if m.health != nil {
		errs = append(errs, m.health.Close())
	}
	return errors.Join(errs...)
}
