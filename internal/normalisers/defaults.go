package normalisers

import (
	"fmt"

	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/normalisers/geometry"
	"github.com/custodia-labs/pipe3d/internal/normalisers/material"
)

// Built-in normaliser names.
const (
	Geometry = "geometry"
	Material = "material"
)

// RegisterDefaults registers the built-in normalisers with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(Geometry, buildGeometry)
	r.Register(Material, buildMaterial)
}

// buildGeometry creates a geometry normaliser from generic config.
// Supported config keys:
//   - target_size (number): largest dimension after fitting (default: 3)
func buildGeometry(cfg map[string]any) (driven.SceneNormaliser, error) {
	var opts []geometry.Option

	if v, ok := cfg["target_size"]; ok && v != nil {
		size, ok := getFloatFromConfig(v)
		if !ok || size <= 0 {
			return nil, fmt.Errorf("geometry: invalid target_size %v", v)
		}
		opts = append(opts, geometry.WithTargetSize(size))
	}

	return geometry.New(opts...), nil
}

func buildMaterial(map[string]any) (driven.SceneNormaliser, error) {
	return material.New(), nil
}

// getFloatFromConfig converts numeric values that may come from TOML/JSON
// parsing.
func getFloatFromConfig(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
