package driven

import "context"

// Prober checks whether an endpoint answers at the network level.
type Prober interface {
	// Probe returns nil if any HTTP response was received, whatever its
	// status. A non-nil error means the endpoint could not be reached.
	Probe(ctx context.Context, endpoint string) error
}
