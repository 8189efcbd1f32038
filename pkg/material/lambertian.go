package material

import (
	"github.com/df07/go-layered-materials/pkg/core"
)

// NewLambertian creates a perfectly diffuse base material with solid color
func NewLambertian(name string, albedo core.Vec3) *Base {
	return NewTexturedLambertian(name, NewSolidColor(albedo))
}

// NewTexturedLambertian creates a perfectly diffuse base material driven by
// a texture
func NewTexturedLambertian(name string, albedoTexture ColorSource) *Base {
	b := NewBase(name)
	b.Albedo = albedoTexture
	return b
}
