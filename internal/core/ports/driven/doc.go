// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ConfigStore: Application configuration (TOML file)
//   - SettingsStore: Backend settings persistence
//   - ConversionTransport: One wire protocol to the conversion service
//   - TransportFactory: Selects a transport for a backend mode
//   - ItemStore: Conversion queue persistence
//   - PreviewStore: Materialised asset copies owned by queue items
//   - SceneDecoder: Turns asset bytes into a scene graph
//   - Prober: Reachability check for an endpoint
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
