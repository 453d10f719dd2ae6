package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
	"github.com/custodia-labs/pipe3d/internal/logger"
)

// Ensure ConversionClient implements the interface.
var _ driving.ConversionClient = (*ConversionClient)(nil)

// ConversionClient dispatches a conversion to the transport of the
// configured backend mode.
type ConversionClient struct {
	transports driven.TransportFactory
}

// NewConversionClient creates a client over a transport factory.
func NewConversionClient(transports driven.TransportFactory) *ConversionClient {
	return &ConversionClient{transports: transports}
}

// Convert sends file using cfg.Mode's transport. Missing configuration
// fails before any network call.
func (c *ConversionClient) Convert(ctx context.Context, file domain.SourceFile, cfg domain.BackendConfig) ([]byte, error) {
	transport, err := c.transports.Transport(cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("select transport: %w", err)
	}

	logger.Debug("Converting %s via %s (%d bytes)", file.Name, cfg.Mode.Description(), len(file.Data))
	start := time.Now()

	data, err := transport.Convert(ctx, file, cfg)
	if err != nil {
		logger.Debug("Conversion of %s failed after %s: %v", file.Name, time.Since(start), err)
		return nil, err
	}

	logger.Debug("Converted %s in %s (%d bytes)", file.Name, time.Since(start), len(data))
	return data, nil
}
