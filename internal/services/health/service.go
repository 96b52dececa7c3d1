// Package health polls the API health endpoint and reports status transitions.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/j-veylop/geostar-dashboard/internal/logger"
)

// Checker is the part of the API client the poller needs.
type Checker interface {
	Health(ctx context.Context) (string, error)
}

// Event reports the API status after it changed.
type Event struct {
	Healthy bool
	Error   error
	Checked time.Time
}

// Config holds configuration for the health poller.
type Config struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 30 * time.Second,
		Timeout:      5 * time.Second,
	}
}

// Service polls the API in the background.
type Service struct {
	checker   Checker
	config    Config
	eventChan chan Event
	stopChan  chan struct{}
	stopOnce  sync.Once

	mu      sync.RWMutex
	known   bool
	healthy bool
	lastErr error
}

// New creates the poller and starts it.
func New(checker Checker, config Config) *Service {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	s := &Service{
		checker:   checker,
		config:    config,
		eventChan: make(chan Event, 10),
		stopChan:  make(chan struct{}),
	}

	go s.poll()

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Status returns the last observed state. ok is false before the first check.
func (s *Service) Status() (healthy, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.healthy, s.known, s.lastErr
}

// Check runs one health request and emits an event when the state changed.
func (s *Service) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	status, err := s.checker.Health(ctx)
	if err == nil && status != "ok" {
		err = fmt.Errorf("unexpected health status %q", status)
	}
	healthy := err == nil

	s.mu.Lock()
	changed := !s.known || s.healthy != healthy
	s.known = true
	s.healthy = healthy
	s.lastErr = err
	s.mu.Unlock()

	if !changed {
		return
	}
	if healthy {
		logger.Info("api reachable")
	} else {
		logger.Warn("api unreachable", "error", err)
	}
	s.sendEvent(Event{Healthy: healthy, Error: err, Checked: time.Now()})
}

func (s *Service) poll() {
	s.Check()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Check()
		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends without blocking, dropping the oldest event when full.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops polling.
func (s *Service) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	return nil
}
