package normalisers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

type recordingNormaliser struct {
	name string
	log  *[]string
	err  error
}

func (r *recordingNormaliser) Name() string { return r.name }

func (r *recordingNormaliser) Normalise(_ context.Context, _ *domain.Scene) error {
	*r.log = append(*r.log, r.name)
	return r.err
}

func TestPipeline_RunsInOrder(t *testing.T) {
	var log []string
	p := NewPipeline(&recordingNormaliser{name: "a", log: &log})
	p.Add(&recordingNormaliser{name: "b", log: &log})

	require.NoError(t, p.Normalise(context.Background(), &domain.Scene{}))
	assert.Equal(t, []string{"a", "b"}, log)
	assert.Equal(t, []string{"a", "b"}, p.Names())
	assert.Equal(t, 2, p.Len())
}

func TestPipeline_StopsAtFirstError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	p := NewPipeline(
		&recordingNormaliser{name: "a", log: &log, err: boom},
		&recordingNormaliser{name: "b", log: &log},
	)

	err := p.Normalise(context.Background(), &domain.Scene{})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "normaliser a")
	assert.Equal(t, []string{"a"}, log)
}

func TestPipeline_NilScene(t *testing.T) {
	assert.Error(t, NewPipeline().Normalise(context.Background(), nil))
}

func TestPipeline_DegenerateErrorSurvivesWrapping(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	geom, err := r.Build(Geometry, nil)
	require.NoError(t, err)

	err = NewPipeline(geom).Normalise(context.Background(), &domain.Scene{Root: domain.NewNode("empty")})
	assert.ErrorIs(t, err, domain.ErrDegenerateInput)
}
