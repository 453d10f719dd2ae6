package driven

import (
	"context"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// ConversionTransport sends one file to the conversion service and returns
// the converted bytes.
//
// Errors are one of *domain.ConfigError (missing endpoint or key, no network
// call made), *domain.RemoteError (the service answered with a failure) or
// *domain.NetworkError (no response received).
type ConversionTransport interface {
	// Mode returns the backend mode this transport speaks.
	Mode() domain.BackendMode

	// Convert performs a single conversion request.
	Convert(ctx context.Context, file domain.SourceFile, cfg domain.BackendConfig) ([]byte, error)
}

// TransportFactory selects the transport for a backend mode.
type TransportFactory interface {
	// Transport returns the transport registered for mode.
	// Returns domain.ErrUnsupportedFormat wrapped if none is registered.
	Transport(mode domain.BackendMode) (ConversionTransport, error)
}
