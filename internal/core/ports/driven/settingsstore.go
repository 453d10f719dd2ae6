package driven

import "github.com/custodia-labs/pipe3d/internal/core/domain"

// SettingsStore persists the backend configuration.
type SettingsStore interface {
	// Load reads the stored configuration, falling back to defaults for
	// anything absent or malformed. Load never fails on bad stored data;
	// an error is returned only when the underlying store is unreadable.
	Load() (domain.BackendConfig, error)

	// Save persists the configuration immediately.
	Save(cfg domain.BackendConfig) error
}
