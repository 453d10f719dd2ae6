package file

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/logger"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsKey is the config key holding the backend settings record.
const SettingsKey = "3dpipe.backend.settings.v1"

// settingsRecord is the persisted JSON shape.
type settingsRecord struct {
	APIMode      string `json:"apiMode"`
	LocalAPIURL  string `json:"localApiUrl"`
	RunpodURL    string `json:"runpodUrl"`
	RunpodAPIKey string `json:"runpodApiKey"`
}

// SettingsStore keeps the backend configuration as a single JSON record
// under SettingsKey in a ConfigStore.
type SettingsStore struct {
	config   driven.ConfigStore
	defaults domain.BackendConfig
}

// NewSettingsStore creates a settings store. defaults is returned by Load
// for anything the stored record does not provide.
func NewSettingsStore(config driven.ConfigStore, defaults domain.BackendConfig) *SettingsStore {
	return &SettingsStore{config: config, defaults: defaults}
}

// Load returns the stored settings overlaid on the defaults. Each field is
// taken from the record only if it has the right type; an absent or
// unparsable record yields the defaults unchanged.
func (s *SettingsStore) Load() (domain.BackendConfig, error) {
	cfg := s.defaults

	raw := s.config.GetString(SettingsKey)
	if raw == "" {
		return cfg, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		logger.Warn("ignoring malformed backend settings: %v", err)
		return cfg, nil
	}

	if v, ok := fields["apiMode"].(string); ok {
		if mode, ok := domain.ParseWireMode(v); ok {
			cfg.Mode = mode
		}
	}
	if v, ok := fields["localApiUrl"].(string); ok {
		cfg.DirectEndpoint = v
	}
	if v, ok := fields["runpodUrl"].(string); ok {
		cfg.JobAPIEndpoint = v
	}
	if v, ok := fields["runpodApiKey"].(string); ok {
		cfg.JobAPIKey = v
	}
	return cfg, nil
}

// Save writes the whole record.
func (s *SettingsStore) Save(cfg domain.BackendConfig) error {
	data, err := json.Marshal(settingsRecord{
		APIMode:      cfg.Mode.WireValue(),
		LocalAPIURL:  cfg.DirectEndpoint,
		RunpodURL:    cfg.JobAPIEndpoint,
		RunpodAPIKey: cfg.JobAPIKey,
	})
	if err != nil {
		return fmt.Errorf("encode backend settings: %w", err)
	}
	if err := s.config.Set(SettingsKey, string(data)); err != nil {
		return fmt.Errorf("save backend settings: %w", err)
	}
	return nil
}
