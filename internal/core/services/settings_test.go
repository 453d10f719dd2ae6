package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pipe3d/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

func newTestSettings(t *testing.T) (*BackendSettingsService, *memory.SettingsStore) {
	t.Helper()
	store := memory.NewSettingsStore(domain.DefaultBackendConfig(nil))
	service, err := NewBackendSettingsService(store)
	require.NoError(t, err)
	return service, store
}

func TestBackendSettingsService_LoadsDefaults(t *testing.T) {
	service, _ := newTestSettings(t)

	cfg := service.Get()

	assert.Equal(t, domain.BackendJobAPI, cfg.Mode)
	assert.Equal(t, domain.DefaultRunpodURL, service.ActiveEndpoint())
}

func TestBackendSettingsService_SettersPersist(t *testing.T) {
	service, store := newTestSettings(t)

	require.NoError(t, service.SetMode(domain.BackendDirect))
	require.NoError(t, service.SetDirectEndpoint(" http://box:9001/convert "))
	require.NoError(t, service.SetJobAPIEndpoint("https://jobs/run"))
	require.NoError(t, service.SetJobAPIKey("secret"))

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, service.Get(), stored)
	assert.Equal(t, "http://box:9001/convert", service.ActiveEndpoint())
	assert.Equal(t, 4, store.Saves())
}

func TestBackendSettingsService_UnchangedValueSkipsSave(t *testing.T) {
	service, store := newTestSettings(t)

	require.NoError(t, service.SetMode(domain.BackendJobAPI))

	assert.Equal(t, 0, store.Saves())
}

func TestBackendSettingsService_InvalidMode(t *testing.T) {
	service, store := newTestSettings(t)

	err := service.SetMode(domain.BackendMode("ftp"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, store.Saves())
}

func TestBackendSettingsService_SaveFailureKeepsValue(t *testing.T) {
	service, store := newTestSettings(t)
	store.SaveErr = errors.New("read-only")

	err := service.SetJobAPIKey("secret")

	require.Error(t, err)
	assert.Empty(t, service.Get().JobAPIKey)
}

func TestBackendSettingsService_ActiveEndpointListeners(t *testing.T) {
	service, _ := newTestSettings(t)
	var seen []string
	service.OnActiveEndpointChange(func(endpoint string) { seen = append(seen, endpoint) })

	// Inactive endpoint: no notification.
	require.NoError(t, service.SetDirectEndpoint("http://local/convert"))
	assert.Empty(t, seen)

	require.NoError(t, service.SetMode(domain.BackendDirect))
	require.NoError(t, service.SetJobAPIKey("k"))
	require.NoError(t, service.SetDirectEndpoint("http://other/convert"))

	assert.Equal(t, []string{"http://local/convert", "http://other/convert"}, seen)
}

func TestBackendSettingsService_ListenerRegisteredDuringNotify(t *testing.T) {
	service, _ := newTestSettings(t)
	require.NoError(t, service.SetMode(domain.BackendDirect))

	var first, late []string
	service.OnActiveEndpointChange(func(endpoint string) {
		first = append(first, endpoint)
		// Registering from inside a callback must not deadlock and only
		// takes effect from the next change.
		service.OnActiveEndpointChange(func(endpoint string) { late = append(late, endpoint) })
	})

	require.NoError(t, service.SetDirectEndpoint("http://a/convert"))
	assert.Equal(t, []string{"http://a/convert"}, first)
	assert.Empty(t, late)

	require.NoError(t, service.SetDirectEndpoint("http://b/convert"))
	assert.Equal(t, []string{"http://a/convert", "http://b/convert"}, first)
	assert.Equal(t, []string{"http://b/convert"}, late)
}
