package material

import "github.com/df07/go-layered-materials/pkg/core"

// SubsurfaceNormalResolver answers the subsurface normal query the renderer
// issues after parameters were resolved
type SubsurfaceNormalResolver interface {
	ResolveSubsurfaceNormal(state *core.State) core.Vec3
}

// Layerable is implemented by every material that can be composed by a
// combinator. Resolve methods are called concurrently at shade time and must
// not mutate the material.
type Layerable interface {
	Object
	SubsurfaceNormalResolver

	// ResolveUniformParameters writes the material's frame-constant
	// configuration into u
	ResolveUniformParameters(u *UniformParameters)

	// ResolveParameters writes the shading parameters of one sample into p.
	// It returns false when the material cannot be shaded, in which case
	// p must not be used.
	ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool

	ResolvePresence(state *core.State) float64
	ResolveRefractiveIndex(state *core.State) float64
	ResolveSubsurfaceType(state *core.State) SubsurfaceType
	ResolvePreventLightCulling(state *core.State) bool
	CastsCaustics() bool
	HasGlitter() bool
}

// HairFresnel is implemented by layerables that carry hair lobes
type HairFresnel interface {
	HairFresnelType() HairFresnelType
}

// TraceSetOwner is implemented by materials that restrict subsurface
// tracing to a trace set
type TraceSetOwner interface {
	SubsurfaceTraceSet() *TraceSet
}
