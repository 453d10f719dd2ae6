package services

import (
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
	"github.com/custodia-labs/pipe3d/internal/logger"
)

// Ensure BackendSettingsService implements the interface.
var _ driving.BackendSettingsService = (*BackendSettingsService)(nil)

// BackendSettingsService owns the process-wide backend configuration.
// It is loaded once at construction and persisted on every change.
type BackendSettingsService struct {
	mu        sync.RWMutex
	store     driven.SettingsStore
	cfg       domain.BackendConfig
	listeners []func(string)
}

// NewBackendSettingsService loads the configuration from store.
func NewBackendSettingsService(store driven.SettingsStore) (*BackendSettingsService, error) {
	cfg, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load backend settings: %w", err)
	}
	return &BackendSettingsService{store: store, cfg: cfg}, nil
}

// Get returns the current configuration.
func (s *BackendSettingsService) Get() domain.BackendConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// ActiveEndpoint returns the trimmed endpoint of the selected mode.
func (s *BackendSettingsService) ActiveEndpoint() string {
	return s.Get().ActiveEndpoint()
}

// SetMode selects the backend.
func (s *BackendSettingsService) SetMode(mode domain.BackendMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown backend mode %q", domain.ErrInvalidInput, mode)
	}
	return s.update(func(cfg *domain.BackendConfig) { cfg.Mode = mode })
}

// SetDirectEndpoint updates the direct conversion URL.
func (s *BackendSettingsService) SetDirectEndpoint(url string) error {
	return s.update(func(cfg *domain.BackendConfig) { cfg.DirectEndpoint = url })
}

// SetJobAPIEndpoint updates the job API URL.
func (s *BackendSettingsService) SetJobAPIEndpoint(url string) error {
	return s.update(func(cfg *domain.BackendConfig) { cfg.JobAPIEndpoint = url })
}

// SetJobAPIKey updates the job API bearer key.
func (s *BackendSettingsService) SetJobAPIKey(key string) error {
	return s.update(func(cfg *domain.BackendConfig) { cfg.JobAPIKey = key })
}

// OnActiveEndpointChange registers fn to run after a setter changes the
// active endpoint. Listeners run synchronously on the setter's goroutine.
func (s *BackendSettingsService) OnActiveEndpointChange(fn func(endpoint string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// update applies change, persists the result and notifies listeners if the
// active endpoint moved. On a failed save the in-memory value is kept
// unchanged.
func (s *BackendSettingsService) update(change func(cfg *domain.BackendConfig)) error {
	s.mu.Lock()
	before := s.cfg
	next := before
	change(&next)
	if next == before {
		s.mu.Unlock()
		return nil
	}
	if err := s.store.Save(next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist backend settings: %w", err)
	}
	s.cfg = next
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	endpoint := next.ActiveEndpoint()
	if endpoint != before.ActiveEndpoint() {
		logger.Debug("Active endpoint changed: %s", endpoint)
		for _, fn := range listeners {
			fn(endpoint)
		}
	}
	return nil
}
