package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-layered-materials/pkg/core"
)

// TwoSided shades the front material where the ray enters the surface and
// the back material where it leaves. The geometry is always treated as thin.
type TwoSided struct {
	SceneObject

	Front     Object
	Back      Object
	Fallbacks Fallbacks
	TraceSet  *TraceSet

	front, back childSlot
	uniform     UniformParameters
	err         error
}

// NewTwoSided creates a two sided material
func NewTwoSided(name string, front, back Object) *TwoSided {
	return &TwoSided{
		SceneObject: newSceneObject(name),
		Front:       front,
		Back:        back,
		Fallbacks:   DefaultFallbacks(),
		uniform:     DefaultUniformParameters(),
	}
}

// Dependencies returns the bound sides
func (t *TwoSided) Dependencies() []Object {
	return nonNil(t.Front, t.Back)
}

// Update binds both sides and blends their uniform parameters once
func (t *TwoSided) Update() error {
	twoSidedEvents.Register(core.Events)
	t.err = nil

	var errs []error
	for _, side := range []struct {
		attr string
		slot *childSlot
		ref  Object
	}{
		{"front_material", &t.front, t.Front},
		{"back_material", &t.back, t.Back},
	} {
		changed, err := side.slot.bind(side.ref)
		if err != nil {
			err = fmt.Errorf("%s: %w", side.attr, err)
			if changed {
				t.fatal(err)
			}
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 && t.front.handle == nil && t.back.handle == nil {
		errs = append(errs, t.fatal(fmt.Errorf("front_material: %w", ErrMissingMaterial)))
	}
	if t.err = errors.Join(errs...); t.err != nil {
		return t.err
	}

	uf, ub := DefaultUniformParameters(), DefaultUniformParameters()
	t.front.handle.ResolveUniformParameters(&uf)
	t.back.handle.ResolveUniformParameters(&ub)
	switch {
	case t.front.handle == nil:
		t.uniform = ub
	case t.back.handle == nil:
		t.uniform = uf
	default:
		t.uniform = BlendUniformParameters(uf, ub, t.Fallbacks)
		if LightSetConflict(uf, ub) {
			logEvent(&t.SceneObject, twoSidedEvents, eventLightSetConflict)
		}
	}
	t.uniform.ThinGeometry = true
	return nil
}

func (t *TwoSided) side(state *core.State) *Handle {
	if state.Entering {
		return t.front.handle
	}
	return t.back.handle
}

func (t *TwoSided) HasGlitter() bool {
	return t.front.handle.HasGlitter() || t.back.handle.HasGlitter()
}

// CastsCaustics is only true when both sides are bound
func (t *TwoSided) CastsCaustics() bool {
	if t.front.handle == nil || t.back.handle == nil {
		return false
	}
	return t.front.handle.CastsCaustics() || t.back.handle.CastsCaustics()
}

func (t *TwoSided) SubsurfaceTraceSet() *TraceSet {
	return t.TraceSet
}

func (t *TwoSided) ResolveUniformParameters(u *UniformParameters) {
	*u = t.uniform
}

func (t *TwoSided) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	if t.err != nil {
		return false
	}
	if !t.side(state).ResolveParameters(state, castsCaustics, p) {
		return false
	}
	p.SubsurfaceNormal = t
	return true
}

func (t *TwoSided) ResolvePresence(state *core.State) float64 {
	return t.side(state).ResolvePresence(state)
}

func (t *TwoSided) ResolveRefractiveIndex(state *core.State) float64 {
	return t.side(state).ResolveRefractiveIndex(state)
}

func (t *TwoSided) ResolveSubsurfaceNormal(state *core.State) core.Vec3 {
	return t.side(state).ResolveSubsurfaceNormal(state)
}

func (t *TwoSided) ResolveSubsurfaceType(state *core.State) SubsurfaceType {
	return t.uniform.Subsurface
}

func (t *TwoSided) ResolvePreventLightCulling(state *core.State) bool {
	return t.uniform.PreventLightCulling
}
