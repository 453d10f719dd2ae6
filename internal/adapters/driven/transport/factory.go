package transport

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.TransportFactory = (*Factory)(nil)

// Factory maps backend modes to transports.
type Factory struct {
	mu         sync.RWMutex
	transports map[domain.BackendMode]driven.ConversionTransport
}

// NewFactory registers the given transports by their mode.
func NewFactory(transports ...driven.ConversionTransport) *Factory {
	f := &Factory{transports: make(map[domain.BackendMode]driven.ConversionTransport)}
	for _, t := range transports {
		f.Register(t)
	}
	return f
}

// Register adds t, replacing any transport with the same mode.
func (f *Factory) Register(t driven.ConversionTransport) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transports[t.Mode()] = t
}

// Transport returns the transport for mode.
func (f *Factory) Transport(mode domain.BackendMode) (driven.ConversionTransport, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.transports[mode]
	if !ok {
		return nil, fmt.Errorf("%w: no transport for backend mode %q", domain.ErrUnsupportedFormat, mode)
	}
	return t, nil
}
