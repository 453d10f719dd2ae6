package domain

import "strings"

// BackendMode selects the conversion wire protocol.
type BackendMode string

// Available backend modes.
const (
	// BackendDirect posts the raw file and receives the converted file.
	BackendDirect BackendMode = "direct"

	// BackendJobAPI posts a base64 JSON job and receives a base64 JSON result.
	BackendJobAPI BackendMode = "jobApi"
)

// Persisted values for the mode, kept compatible with existing settings files.
const (
	wireModeLocal  = "local"
	wireModeRunpod = "runpod"
)

// Environment variables supplying startup defaults.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvAPIMode      = "PIPE3D_API_MODE"
	EnvLocalAPIURL  = "PIPE3D_LOCAL_API_URL"
	EnvRunpodURL    = "PIPE3D_RUNPOD_URL"
	EnvRunpodAPIKey = "PIPE3D_RUNPOD_API_KEY"
)

// Built-in defaults used when the environment is silent.
const (
	DefaultLocalAPIURL = "http://localhost:9001/convert"
	DefaultRunpodURL   = "https://api.runpod.ai/v2/YOUR_ENDPOINT_ID/runsync"
)

// IsValid returns true if the mode is recognised.
func (m BackendMode) IsValid() bool {
	return m == BackendDirect || m == BackendJobAPI
}

// WireValue returns the persisted representation ("local" or "runpod").
func (m BackendMode) WireValue() string {
	if m == BackendDirect {
		return wireModeLocal
	}
	return wireModeRunpod
}

// String returns the string representation.
func (m BackendMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m BackendMode) Description() string {
	switch m {
	case BackendDirect:
		return "Remote Convert API (POST /convert)"
	case BackendJobAPI:
		return "RunPod Runsync API"
	default:
		return "Unknown"
	}
}

// ParseWireMode parses a persisted mode value.
func ParseWireMode(v string) (BackendMode, bool) {
	switch v {
	case wireModeLocal:
		return BackendDirect, true
	case wireModeRunpod:
		return BackendJobAPI, true
	default:
		return "", false
	}
}

// ParseBackendMode accepts either the mode name or its persisted value.
func ParseBackendMode(v string) (BackendMode, bool) {
	if m, ok := ParseWireMode(v); ok {
		return m, true
	}
	m := BackendMode(v)
	return m, m.IsValid()
}

// BackendConfig holds the chosen backend and its connection parameters.
// Empty fields are legal here; they are rejected only when used.
type BackendConfig struct {
	Mode           BackendMode
	DirectEndpoint string
	JobAPIEndpoint string
	JobAPIKey      string
}

// ActiveEndpoint returns the trimmed endpoint for the selected mode.
func (c BackendConfig) ActiveEndpoint() string {
	if c.Mode == BackendDirect {
		return strings.TrimSpace(c.DirectEndpoint)
	}
	return strings.TrimSpace(c.JobAPIEndpoint)
}

// DefaultBackendConfig builds the startup defaults from the environment.
// getenv is usually os.Getenv.
func DefaultBackendConfig(getenv func(string) string) BackendConfig {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	cfg := BackendConfig{
		Mode:           BackendJobAPI,
		DirectEndpoint: DefaultLocalAPIURL,
		JobAPIEndpoint: DefaultRunpodURL,
		JobAPIKey:      getenv(EnvRunpodAPIKey),
	}
	if getenv(EnvAPIMode) == wireModeLocal {
		cfg.Mode = BackendDirect
	}
	if v := getenv(EnvLocalAPIURL); v != "" {
		cfg.DirectEndpoint = v
	}
	if v := getenv(EnvRunpodURL); v != "" {
		cfg.JobAPIEndpoint = v
	}
	return cfg
}
