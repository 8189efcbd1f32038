package material

import (
	"github.com/df07/go-layered-materials/pkg/core"
)

// NewEmissive creates a light-emitting base material with no reflectance
func NewEmissive(name string, emission core.Vec3) *Base {
	b := NewBase(name)
	b.Albedo = nil
	b.Emission = NewSolidColor(emission)
	return b
}
