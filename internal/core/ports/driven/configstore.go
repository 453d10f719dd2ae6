package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence and numeric coercion, so callers see
// the same types whether a value was written by Set or decoded from disk.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetFloat retrieves a numeric configuration value as float64.
	// Integers are widened. The boolean is false when the key is missing
	// or holds a non-numeric value.
	GetFloat(key string) (float64, bool)

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error
}
