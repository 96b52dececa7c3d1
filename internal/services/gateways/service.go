// Package gateways keeps the friendly unit names in sync with a JSON file on disk.
package gateways

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"

	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/logger"
)

// Event represents a gateway-name service event.
type Event struct {
	Type  EventType
	Error error
	Names map[string]string
}

// EventType defines the type of gateway-name event.
type EventType int

const (
	EventNamesLoaded EventType = iota
	EventNamesChanged
	EventError
)

// Service loads gateway names and reloads them whenever the file changes.
type Service struct {
	mu            sync.RWMutex
	names         map[string]string
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates the service, publishes the current names and starts watching.
// A missing file is created with the built-in names.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		return nil, fmt.Errorf("gateway names path is empty")
	}

	s := &Service{
		names:     format.DefaultGatewayNames(),
		filePath:  filePath,
		eventChan: make(chan Event, 20),
		stopChan:  make(chan struct{}),
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load gateway names: %w", err)
		}
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("failed to create gateway names file: %w", err)
		}
	}
	format.SetGatewayNames(s.Names())

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventNamesLoaded, Names: s.Names()})
	return s, nil
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Names returns a copy of the current id to name mapping.
func (s *Service) Names() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.names)
}

// Path returns the watched file.
func (s *Service) Path() string {
	return s.filePath
}

func parseNames(data []byte) (map[string]string, error) {
	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("invalid gateway names file: %w", err)
	}
	if names == nil {
		names = map[string]string{}
	}
	return names, nil
}

func (s *Service) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}
	names, err := parseNames(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.names = names
	s.mu.Unlock()
	return nil
}

func (s *Service) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.names, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal gateway names: %w", err)
	}

	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			s.mu.Lock()
			if s.debounceTimer != nil {
				s.debounceTimer.Stop()
			}
			s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
			s.mu.Unlock()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) handleFileChange() {
	if err := s.load(); err != nil {
		logger.Warn("gateway names reload failed", "path", s.filePath, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	names := s.Names()
	format.SetGatewayNames(names)
	logger.Info("gateway names reloaded", "count", len(names))
	s.sendEvent(Event{Type: EventNamesChanged, Names: names})
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

// Close stops the watcher.
func (s *Service) Close() error {
	close(s.stopChan)

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
