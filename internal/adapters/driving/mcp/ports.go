package mcp

import (
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Queue tracks and drains conversion items.
	Queue driving.ConversionQueue

	// Connectivity probes the active endpoint.
	Connectivity driving.ConnectivityService

	// ResultAction exports converted files.
	ResultAction driving.ResultActionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Queue == nil {
		return ErrMissingQueue
	}
	// Connectivity and ResultAction are optional; their tools report an
	// error when absent.
	return nil
}
