// Package probe provides a network-level reachability check for the
// conversion endpoint.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure HTTPProber implements the interface.
var _ driven.Prober = (*HTTPProber)(nil)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 5 * time.Second

// HTTPProber sends a HEAD request and treats any response as reachable.
// It proves only that the network path is open; a 404 or 405 still counts.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber creates a prober. A nil client gets DefaultTimeout.
func NewHTTPProber(client *http.Client) *HTTPProber {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPProber{client: client}
}

// Probe issues an uncached HEAD request to endpoint.
func (p *HTTPProber) Probe(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("building probe request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
