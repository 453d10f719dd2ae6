// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - SettingsStore: backend settings kept as a JSON record inside the ConfigStore
//   - PreviewStore: materialised asset copies under the previews directory
package file
