package driving

import "github.com/custodia-labs/pipe3d/internal/core/domain"

// BackendSettingsService manages the backend configuration.
// Every setter persists immediately.
type BackendSettingsService interface {
	// Get returns the current configuration.
	Get() domain.BackendConfig

	// SetMode selects the backend.
	SetMode(mode domain.BackendMode) error

	// SetDirectEndpoint updates the direct conversion URL.
	SetDirectEndpoint(url string) error

	// SetJobAPIEndpoint updates the job API URL.
	SetJobAPIEndpoint(url string) error

	// SetJobAPIKey updates the job API bearer key.
	SetJobAPIKey(key string) error

	// ActiveEndpoint returns the trimmed endpoint of the selected mode.
	ActiveEndpoint() string

	// OnActiveEndpointChange registers fn to run whenever a setter changes
	// the active endpoint.
	OnActiveEndpointChange(fn func(endpoint string))
}
