package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-layered-materials/pkg/core"
)

// ErrInvalidHair is returned by Hair.Update for unusable lobe settings
var ErrInvalidHair = errors.New("invalid hair configuration")

// Hair is the leaf material for curves. Lobes is the lobe configuration;
// its color is replaced by Color when a source is bound.
type Hair struct {
	SceneObject

	Caustics            bool
	PreventLightCulling bool
	LightSet            *LightSet
	TraceSet            *TraceSet

	Presence         FloatSource
	Color            ColorSource
	Emission         ColorSource
	ScatteringRadius core.Vec3
	Lobes            HairParameters
}

// NewHair creates a hair material with full specular weight
func NewHair(name string, color core.Vec3) *Hair {
	h := &Hair{SceneObject: newSceneObject(name), Color: NewSolidColor(color)}
	initHairParameters(&h.Lobes)
	h.Lobes.Weight = 1
	return h
}

// Update validates the lobe configuration
func (h *Hair) Update() error {
	if h.Lobes.IOR <= 0 {
		return h.fatal(fmt.Errorf("ior %g: %w", h.Lobes.IOR, ErrInvalidHair))
	}
	if h.Lobes.GlintMinTwists > h.Lobes.GlintMaxTwists {
		return h.fatal(fmt.Errorf("glint twists %g > %g: %w", h.Lobes.GlintMinTwists, h.Lobes.GlintMaxTwists, ErrInvalidHair))
	}
	return nil
}

func (h *Hair) HairFresnelType() HairFresnelType {
	return h.Lobes.FresnelType
}

func (h *Hair) HasGlitter() bool    { return false }
func (h *Hair) CastsCaustics() bool { return h.Caustics }

func (h *Hair) SubsurfaceTraceSet() *TraceSet {
	return h.TraceSet
}

func (h *Hair) ResolveUniformParameters(u *UniformParameters) {
	*u = DefaultUniformParameters()
	u.PreventLightCulling = h.PreventLightCulling
	u.LightSet = h.LightSet
}

func (h *Hair) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	InitParameters(p)
	p.Normal = state.N
	p.DiffuseNormal = state.N
	p.Emission = evalColor(h.Emission, state, core.Vec3{}).ClampMin(0)
	p.CastsCaustics = castsCaustics
	p.Diffuse.ScatteringRadius = h.ScatteringRadius

	p.Hair = h.Lobes
	p.Hair.Color = evalColor(h.Color, state, h.Lobes.Color).Clamp(0, 1)
	p.Hair.Dir = state.DPds.SafeNormalize()
	p.Hair.UV = state.UV
	p.Hair.CastsCaustics = castsCaustics

	p.SubsurfaceTraceSet = h.TraceSet
	p.SubsurfaceNormal = h
	return true
}

func (h *Hair) ResolvePresence(state *core.State) float64 {
	return core.Saturate(evalFloat(h.Presence, state, 1))
}

func (h *Hair) ResolveRefractiveIndex(state *core.State) float64 {
	return h.Lobes.IOR
}

func (h *Hair) ResolveSubsurfaceNormal(state *core.State) core.Vec3 {
	return state.N
}

func (h *Hair) ResolveSubsurfaceType(state *core.State) SubsurfaceType {
	return SubsurfaceNone
}

func (h *Hair) ResolvePreventLightCulling(state *core.State) bool {
	return h.PreventLightCulling
}
