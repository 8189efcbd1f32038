package material

import (
	"github.com/df07/go-layered-materials/pkg/core"
)

// NewMetal creates a fully metallic base material. Roughness 0 is a
// perfect mirror, 1 is very rough.
func NewMetal(name string, albedo core.Vec3, roughness float64) *Base {
	// Clamp roughness to valid range
	if roughness > 1.0 {
		roughness = 1.0
	}
	if roughness < 0.0 {
		roughness = 0.0
	}
	b := NewBase(name)
	b.Albedo = nil
	b.Metallic = Constant(1)
	b.MetallicColor = albedo
	b.MetallicEdgeColor = albedo
	b.Specular = Constant(1)
	b.Roughness = Constant(roughness)
	return b
}
