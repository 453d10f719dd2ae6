package driving

import (
	"context"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// ConnectivityService reports whether the active backend endpoint is reachable.
type ConnectivityService interface {
	// Check probes endpoint and records the result.
	Check(ctx context.Context, endpoint string) domain.ConnectivityState

	// CheckActive probes the active endpoint of the current settings.
	CheckActive(ctx context.Context) domain.ConnectivityState

	// State returns the latest recorded state.
	State() domain.ConnectivityState
}
