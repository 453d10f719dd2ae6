package driving

import (
	"context"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// ConversionClient performs one remote conversion using the supplied
// configuration.
type ConversionClient interface {
	// Convert returns the converted bytes or a typed conversion error.
	Convert(ctx context.Context, file domain.SourceFile, cfg domain.BackendConfig) ([]byte, error)
}
