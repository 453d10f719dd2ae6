package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty key", input: "", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long key", input: "rp_1234567890abcdef", expected: "rp_1...cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultVal int
		expected   int
	}{
		{name: "Empty input returns default", input: "", defaultVal: 2, expected: 2},
		{name: "Valid choice", input: "1", defaultVal: 2, expected: 1},
		{name: "Out of range returns default", input: "3", defaultVal: 1, expected: 1},
		{name: "Invalid input returns default", input: "abc", defaultVal: 2, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, 2, tt.defaultVal))
		})
	}
}

func TestSettingsShowCmd(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.settings.SetJobAPIKey("rp_1234567890abcdef"))

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Mode: RunPod Runsync API (runpod)")
	assert.Contains(t, out, domain.DefaultRunpodURL)
	assert.Contains(t, out, domain.DefaultLocalAPIURL)
	assert.Contains(t, out, "API Key: rp_1...cdef")
	assert.NotContains(t, out, "1234567890")
}

func TestSettingsShowCmd_NoKey(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "API Key: (not set)")
}

func TestSettingsModeCmd(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "settings", "mode", "local")
	require.NoError(t, err)
	assert.Contains(t, out, "Remote Convert API")
	assert.Equal(t, domain.BackendDirect, env.settings.Get().Mode)

	cfg, err := env.store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.BackendDirect, cfg.Mode)

	_, err = execute(t, "settings", "mode", "ftp")
	assert.Error(t, err)
	assert.Equal(t, domain.BackendDirect, env.settings.Get().Mode)
}

func TestSettingsModeCmd_Interactive(t *testing.T) {
	env := setupTestServices(t)
	stdin = strings.NewReader("1\n")

	out, err := execute(t, "settings", "mode")

	require.NoError(t, err)
	assert.Contains(t, out, "Enter choice [2]")
	assert.Equal(t, domain.BackendDirect, env.settings.Get().Mode)
}

func TestSettingsURLCmds(t *testing.T) {
	env := setupTestServices(t)

	_, err := execute(t, "settings", "direct-url", "http://box:9001/convert")
	require.NoError(t, err)
	_, err = execute(t, "settings", "job-url", "https://api.runpod.ai/v2/abc/runsync")
	require.NoError(t, err)

	cfg := env.settings.Get()
	assert.Equal(t, "http://box:9001/convert", cfg.DirectEndpoint)
	assert.Equal(t, "https://api.runpod.ai/v2/abc/runsync", cfg.JobAPIEndpoint)
}

func TestSettingsJobKeyCmd(t *testing.T) {
	env := setupTestServices(t)
	stdin = strings.NewReader("rp_secretsecret\n")

	out, err := execute(t, "settings", "job-key")

	require.NoError(t, err)
	assert.Contains(t, out, "API key set to rp_s...cret")
	assert.Equal(t, "rp_secretsecret", env.settings.Get().JobAPIKey)

	stdin = strings.NewReader("\n")
	out, err = execute(t, "settings", "job-key")
	require.NoError(t, err)
	assert.Contains(t, out, "API key cleared")
	assert.Empty(t, env.settings.Get().JobAPIKey)
}
