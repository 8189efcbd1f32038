package material

import (
	"math"
)

// NewDielectric creates a clear glass-like base material
func NewDielectric(name string, refractiveIndex float64) *Base {
	b := NewBase(name)
	b.Albedo = nil
	b.RefractiveIndex = refractiveIndex
	b.Specular = Constant(1)
	b.Transmission = Constant(1)
	b.Caustics = true
	return b
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	// R0 is the reflectance at normal incidence
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
