package material

import (
	"fmt"

	"github.com/df07/go-layered-materials/pkg/core"
)

// HairLayer blends two hair materials by a mask. Children with different
// fresnel types raise an error event and are blended with MaterialA's.
type HairLayer struct {
	SceneObject

	MaterialA  Object
	MaterialB  Object
	Mask       FloatSource
	ColorSpace BlendColorSpace
	Fallbacks  Fallbacks
	TraceSet   *TraceSet

	a, b     childSlot
	uniform  UniformParameters
	mismatch bool
	err      error
}

// NewHairLayer creates a layer of hair a over hair b
func NewHairLayer(name string, a, b Object, mask float64) *HairLayer {
	return &HairLayer{
		SceneObject: newSceneObject(name),
		MaterialA:   a,
		MaterialB:   b,
		Mask:        Constant(mask),
		Fallbacks:   DefaultFallbacks(),
		uniform:     DefaultUniformParameters(),
	}
}

// Dependencies returns the bound children
func (l *HairLayer) Dependencies() []Object {
	return nonNil(l.MaterialA, l.MaterialB)
}

// Update binds the children, blends their uniform parameters and checks
// that their fresnel types agree
func (l *HairLayer) Update() error {
	hairLayerEvents.Register(core.Events)
	l.err = nil
	l.mismatch = false
	l.uniform = DefaultUniformParameters()

	if isNilObject(l.MaterialB) {
		l.a, l.b = childSlot{}, childSlot{}
		l.err = l.fatal(fmt.Errorf("material_B: %w", ErrMissingMaterial))
		return l.err
	}
	for _, c := range []struct {
		attr string
		slot *childSlot
		ref  Object
	}{
		{"material_A", &l.a, l.MaterialA},
		{"material_B", &l.b, l.MaterialB},
	} {
		changed, err := c.slot.bind(c.ref)
		if err != nil {
			l.err = fmt.Errorf("%s: %w", c.attr, err)
			if changed {
				l.fatal(l.err)
			}
			return l.err
		}
	}

	a, b := l.a.handle, l.b.handle
	var ua, ub UniformParameters
	b.ResolveUniformParameters(&ub)
	if a == nil {
		l.uniform = ub
		return nil
	}
	a.ResolveUniformParameters(&ua)
	l.uniform = BlendUniformParameters(ua, ub, l.Fallbacks)
	if LightSetConflict(ua, ub) {
		logEvent(&l.SceneObject, hairLayerEvents, eventLightSetConflict)
	}

	fa, okA := a.FresnelType()
	fb, okB := b.FresnelType()
	if okA && okB && fa != fb {
		l.mismatch = true
		logEvent(&l.SceneObject, hairLayerEvents, eventFresnelMismatch)
	}
	return nil
}

// FresnelMismatch reports whether the last Update found children with
// different fresnel types
func (l *HairLayer) FresnelMismatch() bool {
	return l.mismatch
}

// HairFresnelType is MaterialA's fresnel type, or MaterialB's without A
func (l *HairLayer) HairFresnelType() HairFresnelType {
	if t, ok := l.a.handle.FresnelType(); ok {
		return t
	}
	if t, ok := l.b.handle.FresnelType(); ok {
		return t
	}
	return HairFresnelDielectricCylinder
}

func (l *HairLayer) mask(state *core.State) float64 {
	return core.Saturate(evalFloat(l.Mask, state, 0))
}

func (l *HairLayer) HasGlitter() bool {
	return false
}

func (l *HairLayer) CastsCaustics() bool {
	return l.a.handle.CastsCaustics() || l.b.handle.CastsCaustics()
}

func (l *HairLayer) SubsurfaceTraceSet() *TraceSet {
	return l.TraceSet
}

func (l *HairLayer) ResolveUniformParameters(u *UniformParameters) {
	*u = l.uniform
}

func (l *HairLayer) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	if l.err != nil {
		return false
	}
	return BlendHairParameters(state, castsCaustics, p, BlendContext{
		Background: l.b.handle,
		Foreground: l.a.handle,
		Mask:       l.mask(state),
		ColorSpace: l.ColorSpace,
		Self:       l,
	})
}

func (l *HairLayer) ResolvePresence(state *core.State) float64 {
	return BlendPresence(state, l.b.handle, l.a.handle, l.mask(state))
}

func (l *HairLayer) ResolveRefractiveIndex(state *core.State) float64 {
	return BlendRefractiveIndexOf(state, l.b.handle, l.a.handle, l.mask(state))
}

func (l *HairLayer) ResolveSubsurfaceNormal(state *core.State) core.Vec3 {
	if l.b.handle == nil {
		return state.N
	}
	if l.a.handle == nil {
		return l.b.handle.ResolveSubsurfaceNormal(state)
	}
	return BlendSubsurfaceNormal(state, l.b.handle, l.a.handle, l.mask(state))
}

func (l *HairLayer) ResolveSubsurfaceType(state *core.State) SubsurfaceType {
	return l.uniform.Subsurface
}

func (l *HairLayer) ResolvePreventLightCulling(state *core.State) bool {
	return l.uniform.PreventLightCulling
}
