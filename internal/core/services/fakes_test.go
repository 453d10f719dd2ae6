package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// fakeProber answers probes from a per-endpoint error table.
type fakeProber struct {
	mu     sync.Mutex
	errs   map[string]error
	calls  []string
	before func(endpoint string)
}

func (p *fakeProber) Probe(_ context.Context, endpoint string) error {
	if p.before != nil {
		p.before(endpoint)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, endpoint)
	return p.errs[endpoint]
}

func (p *fakeProber) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// fakeTransport converts by calling fn.
type fakeTransport struct {
	mode domain.BackendMode
	fn   func(file domain.SourceFile, cfg domain.BackendConfig) ([]byte, error)
}

func (t *fakeTransport) Mode() domain.BackendMode { return t.mode }

func (t *fakeTransport) Convert(_ context.Context, file domain.SourceFile, cfg domain.BackendConfig) ([]byte, error) {
	return t.fn(file, cfg)
}

type fakeTransports map[domain.BackendMode]driven.ConversionTransport

func (f fakeTransports) Transport(mode domain.BackendMode) (driven.ConversionTransport, error) {
	t, ok := f[mode]
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}
	return t, nil
}

// fakeClient converts files by name.
type fakeClient struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	block chan struct{}
	cfgs  []domain.BackendConfig
}

func (c *fakeClient) Convert(ctx context.Context, file domain.SourceFile, cfg domain.BackendConfig) ([]byte, error) {
	c.mu.Lock()
	c.calls = append(c.calls, file.Name)
	c.cfgs = append(c.cfgs, cfg)
	block := c.block
	err := c.fail[file.Name]
	c.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, &domain.NetworkError{Err: ctx.Err()}
		}
	}
	if err != nil {
		return nil, err
	}
	return append([]byte("FBX:"), file.Data...), nil
}

func (c *fakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// fakeMetrics records observations.
type fakeMetrics struct {
	mu       sync.Mutex
	finished []domain.ItemStatus
	depth    int
}

func (m *fakeMetrics) ConversionFinished(status domain.ItemStatus, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, status)
}

func (m *fakeMetrics) QueueDepth(pending int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depth = pending
}

// failingItemStore fails every Save.
type failingItemStore struct {
	driven.ItemStore
}

func (failingItemStore) Save(context.Context, domain.ConversionItem) error {
	return errors.New("disk full")
}
