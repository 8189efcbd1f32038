package material

import (
	"fmt"

	"github.com/df07/go-layered-materials/pkg/core"
)

// Layer blends two layerable materials by a mask. MaterialA is shown where
// the mask is 1 and MaterialB where it is 0. MaterialB is required.
type Layer struct {
	SceneObject

	MaterialA  Object
	MaterialB  Object
	Mask       FloatSource
	ColorSpace BlendColorSpace
	Fallbacks  Fallbacks

	// Glitter configures the glitter shared by both children when both of
	// them have glitter
	Glitter  GlitterConfig
	TraceSet *TraceSet

	a, b    childSlot
	uniform UniformParameters
	glitter *Glitter
	err     error
}

// NewLayer creates a layer of a over b
func NewLayer(name string, a, b Object, mask float64) *Layer {
	return &Layer{
		SceneObject: newSceneObject(name),
		MaterialA:   a,
		MaterialB:   b,
		Mask:        Constant(mask),
		Fallbacks:   DefaultFallbacks(),
		Glitter:     DefaultGlitterConfig(),
		uniform:     DefaultUniformParameters(),
	}
}

// Dependencies returns the bound children
func (l *Layer) Dependencies() []Object {
	return nonNil(l.MaterialA, l.MaterialB)
}

// Update binds the children and blends their uniform parameters
func (l *Layer) Update() error {
	layerEvents.Register(core.Events)
	l.err = nil
	l.glitter = nil
	l.uniform = DefaultUniformParameters()

	if isNilObject(l.MaterialB) {
		l.a, l.b = childSlot{}, childSlot{}
		l.err = l.fatal(fmt.Errorf("material_B: %w", ErrMissingMaterial))
		return l.err
	}
	if err := l.bindChild(&l.a, "material_A", l.MaterialA); err != nil {
		return err
	}
	if err := l.bindChild(&l.b, "material_B", l.MaterialB); err != nil {
		return err
	}

	a, b := l.a.handle, l.b.handle
	var ua, ub UniformParameters
	b.ResolveUniformParameters(&ub)
	if a != nil {
		a.ResolveUniformParameters(&ua)
		l.uniform = BlendUniformParameters(ua, ub, l.Fallbacks)
		if LightSetConflict(ua, ub) {
			logEvent(&l.SceneObject, layerEvents, eventLightSetConflict)
		}
	} else {
		l.uniform = ub
	}

	if a.HasGlitter() && b.HasGlitter() {
		g, err := NewGlitter(l.Glitter)
		if err != nil {
			l.err = l.fatal(fmt.Errorf("glitter: %w", err))
			return l.err
		}
		l.glitter = g
	}
	return nil
}

func (l *Layer) bindChild(slot *childSlot, attr string, ref Object) error {
	changed, err := slot.bind(ref)
	if err == nil {
		return nil
	}
	l.err = fmt.Errorf("%s: %w", attr, err)
	if changed {
		l.fatal(l.err)
	}
	return l.err
}

func (l *Layer) mask(state *core.State) float64 {
	return core.Saturate(evalFloat(l.Mask, state, 0))
}

func (l *Layer) HasGlitter() bool {
	return l.a.handle.HasGlitter() || l.b.handle.HasGlitter()
}

func (l *Layer) CastsCaustics() bool {
	return l.a.handle.CastsCaustics() || l.b.handle.CastsCaustics()
}

func (l *Layer) SubsurfaceTraceSet() *TraceSet {
	return l.TraceSet
}

func (l *Layer) ResolveUniformParameters(u *UniformParameters) {
	*u = l.uniform
}

func (l *Layer) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	if l.err != nil {
		return false
	}
	return BlendParameters(state, castsCaustics, p, BlendContext{
		Background: l.b.handle,
		Foreground: l.a.handle,
		Mask:       l.mask(state),
		ColorSpace: l.ColorSpace,
		Glitter:    l.glitter,
		Self:       l,
	})
}

func (l *Layer) ResolvePresence(state *core.State) float64 {
	return BlendPresence(state, l.b.handle, l.a.handle, l.mask(state))
}

func (l *Layer) ResolveRefractiveIndex(state *core.State) float64 {
	return BlendRefractiveIndexOf(state, l.b.handle, l.a.handle, l.mask(state))
}

func (l *Layer) ResolveSubsurfaceNormal(state *core.State) core.Vec3 {
	if l.b.handle == nil {
		return state.N
	}
	if l.a.handle == nil {
		return l.b.handle.ResolveSubsurfaceNormal(state)
	}
	return BlendSubsurfaceNormal(state, l.b.handle, l.a.handle, l.mask(state))
}

func (l *Layer) ResolveSubsurfaceType(state *core.State) SubsurfaceType {
	return l.uniform.Subsurface
}

func (l *Layer) ResolvePreventLightCulling(state *core.State) bool {
	return l.uniform.PreventLightCulling
}

// SharedGlitter returns the glitter built by the last Update, if any
func (l *Layer) SharedGlitter() *Glitter {
	return l.glitter
}

func nonNil(objs ...Object) []Object {
	var out []Object
	for _, o := range objs {
		if !isNilObject(o) {
			out = append(out, o)
		}
	}
	return out
}
