package normalisers

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// BuilderFunc creates a SceneNormaliser from generic config.
// Config is a map of normaliser-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.SceneNormaliser, error)

// Registry maps normaliser names to their builders.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a builder to the registry.
// Name should match the normaliser's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a normaliser by name with the given config.
func (r *Registry) Build(name string, cfg map[string]any) (driven.SceneNormaliser, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown normaliser: %s", name)
	}
	return builder(cfg)
}

// Has returns true if a normaliser with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered normaliser names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
