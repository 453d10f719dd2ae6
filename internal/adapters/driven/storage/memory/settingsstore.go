package memory

import (
	"sync"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore holds one backend configuration in memory.
type SettingsStore struct {
	mu    sync.Mutex
	cfg   domain.BackendConfig
	saves int

	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
}

// NewSettingsStore creates a store that initially holds cfg.
func NewSettingsStore(cfg domain.BackendConfig) *SettingsStore {
	return &SettingsStore{cfg: cfg}
}

// Load returns the stored configuration.
func (s *SettingsStore) Load() (domain.BackendConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, nil
}

// Save replaces the stored configuration.
func (s *SettingsStore) Save(cfg domain.BackendConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.cfg = cfg
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *SettingsStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
