// Package domain defines the core business entities for pipe3d.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ConversionItem: A submitted asset and its conversion status
//   - BackendConfig: The selected conversion backend and its parameters
//   - ConnectivityState: The last result of a reachability probe
//   - Scene: A decoded scene graph of nodes, meshes and materials
//   - PreviewHandle: An owned, displayable copy of an asset
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
