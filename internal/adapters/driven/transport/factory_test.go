package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

type stubTransport struct {
	mode domain.BackendMode
}

func (s stubTransport) Mode() domain.BackendMode { return s.mode }

func (s stubTransport) Convert(context.Context, domain.SourceFile, domain.BackendConfig) ([]byte, error) {
	return []byte(s.mode), nil
}

func TestFactory_Transport(t *testing.T) {
	f := NewFactory(stubTransport{domain.BackendDirect}, stubTransport{domain.BackendJobAPI})

	direct, err := f.Transport(domain.BackendDirect)
	require.NoError(t, err)
	assert.Equal(t, domain.BackendDirect, direct.Mode())

	job, err := f.Transport(domain.BackendJobAPI)
	require.NoError(t, err)
	assert.Equal(t, domain.BackendJobAPI, job.Mode())
}

func TestFactory_UnknownMode(t *testing.T) {
	f := NewFactory(stubTransport{domain.BackendDirect})

	_, err := f.Transport(domain.BackendJobAPI)

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
