package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

// DecoderRegistry selects the SceneDecoder for an asset format.
type DecoderRegistry interface {
	// Decode reads r with the decoder registered for format.
	// Returns domain.ErrUnsupportedFormat if none is registered.
	Decode(ctx context.Context, format domain.AssetFormat, r io.Reader) (*domain.Scene, error)

	// Register adds a decoder, replacing any previous one for its format.
	Register(decoder SceneDecoder)

	// SupportedFormats returns the registered formats.
	SupportedFormats() []domain.AssetFormat
}
