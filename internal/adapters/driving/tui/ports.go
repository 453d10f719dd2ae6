// Package tui provides an interactive terminal user interface for pipe3d.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Queue tracks and drains conversion items.
	Queue driving.ConversionQueue

	// Settings owns the backend configuration.
	Settings driving.BackendSettingsService

	// Connectivity probes the active endpoint.
	Connectivity driving.ConnectivityService

	// ResultAction exports converted files.
	ResultAction driving.ResultActionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Queue == nil {
		return ErrMissingQueue
	}
	if p.Settings == nil {
		return ErrMissingSettings
	}
	if p.Connectivity == nil {
		return ErrMissingConnectivity
	}
	return nil
}
