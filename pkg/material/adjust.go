package material

import (
	"github.com/df07/go-layered-materials/pkg/core"
)

// Attribute names Adjust reads from the shading state
const (
	AttrSpecularSet          = "specular_set"
	AttrSpecularSetBlend     = "specular_set_blend"
	AttrSpecularMult         = "specular_mult"
	AttrRoughnessSet         = "roughness_set"
	AttrRoughnessSetBlend    = "roughness_set_blend"
	AttrRoughnessMult        = "roughness_mult"
	AttrRoughnessRemapInMin  = "roughness_remap_in_min"
	AttrRoughnessRemapInMax  = "roughness_remap_in_max"
	AttrRoughnessRemapOutMin = "roughness_remap_out_min"
	AttrRoughnessRemapOutMax = "roughness_remap_out_max"
	AttrPresenceSet          = "presence_set"
	AttrPresenceSetBlend     = "presence_set_blend"
	AttrPresenceMult         = "presence_mult"
	AttrColorHueShift        = "color_hue_shift"
	AttrColorSaturation      = "color_saturation"
	AttrColorGain            = "color_gain"
	AttrColorGainRGB         = "color_gain_rgb"
)

// Adjust overrides parts of its input from per-geometry attributes
type Adjust struct {
	SceneObject
	singleInput

	Input Object
	On    bool
	Mix   FloatSource

	OverrideThinGeometry  AdjustOverride
	OverrideCastsCaustics AdjustOverride

	EnableSpecular  bool
	EnableRoughness bool
	EnablePresence  bool
	EnableColor     bool

	DisableClearcoat bool
	DisableSpecular  bool
	DisableDiffuse   bool

	Emission     ColorSource
	EmissionMode EmissionMode
}

// NewAdjust creates an enabled adjustment of input with every attribute
// group turned on
func NewAdjust(name string, input Object) *Adjust {
	return &Adjust{
		SceneObject:     newSceneObject(name),
		Input:           input,
		On:              true,
		Mix:             Constant(1),
		EnableSpecular:  true,
		EnableRoughness: true,
		EnablePresence:  true,
		EnableColor:     true,
		EmissionMode:    EmissionOff,
	}
}

// Dependencies returns the bound input
func (a *Adjust) Dependencies() []Object {
	return nonNil(a.Input)
}

// Update binds the input and applies the uniform overrides
func (a *Adjust) Update() error {
	if err := a.bind(&a.SceneObject, a.Input); err != nil {
		return err
	}
	if a.input.handle != nil {
		a.uniform.ThinGeometry = a.OverrideThinGeometry.Apply(a.uniform.ThinGeometry)
	}
	return nil
}

func (a *Adjust) CastsCaustics() bool {
	if a.input.handle == nil {
		return false
	}
	return a.OverrideCastsCaustics.Apply(a.input.handle.CastsCaustics())
}

func (a *Adjust) mix(state *core.State) float64 {
	return core.Saturate(evalFloat(a.Mix, state, 1))
}

// adjustScalar applies the set, set-blend and mult attributes of one group
// to every value in xs
func adjustScalar(state *core.State, mix float64, set, setBlend, mult string, clamp bool, xs ...*float64) {
	if v, ok := state.Float(set); ok {
		t := mix
		if blend, ok := state.Float(setBlend); ok {
			t *= blend
		}
		for _, x := range xs {
			*x = core.Lerp(*x, v, t)
			if clamp {
				*x = core.Saturate(*x)
			}
		}
	}
	if m, ok := state.Float(mult); ok {
		for _, x := range xs {
			*x = core.Lerp(*x, *x*m, mix)
			if clamp {
				*x = core.Saturate(*x)
			}
		}
	}
}

func (a *Adjust) ResolvePresence(state *core.State) float64 {
	if a.input.handle == nil {
		return 1
	}
	presence := a.input.handle.ResolvePresence(state)
	if !a.On || !a.EnablePresence {
		return presence
	}
	mix := a.mix(state)
	if core.IsZero(mix) {
		return presence
	}
	adjustScalar(state, mix, AttrPresenceSet, AttrPresenceSetBlend, AttrPresenceMult, false, &presence)
	return presence
}

func (a *Adjust) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	if !a.resolve(state, castsCaustics, p) {
		return false
	}
	p.SubsurfaceNormal = a
	a.modify(state, p)
	return true
}

func (a *Adjust) modify(state *core.State, p *Parameters) {
	if !a.On {
		return
	}
	mix := a.mix(state)

	var emissionMix float64
	switch a.EmissionMode {
	case EmissionUnmasked:
		emissionMix = 1
	case EmissionMasked:
		emissionMix = mix
	}
	emission := evalColor(a.Emission, state, core.Vec3{})
	p.Emission = p.Emission.Add(emission.Multiply(emissionMix)).ClampMin(0)

	if a.DisableClearcoat {
		p.OuterSpecular.Weight = 0
	}
	if a.DisableSpecular {
		p.Specular = 0
		p.OuterSpecular.Weight = 0
		p.Fabric.Specular = 0
	}
	if a.DisableDiffuse {
		p.Diffuse.Albedo = core.Vec3{}
		p.Fabric.WarpColor = core.Vec3{}
		p.Fabric.WeftColor = core.Vec3{}
	}
	if core.IsZero(mix) {
		return
	}

	if a.EnableSpecular {
		adjustScalar(state, mix, AttrSpecularSet, AttrSpecularSetBlend, AttrSpecularMult, true,
			&p.Specular, &p.OuterSpecular.Weight, &p.Fabric.Specular)
	}
	if a.EnableRoughness {
		roughness := []*float64{&p.Roughness, &p.OuterSpecular.Roughness, &p.Fuzz.Roughness}
		adjustScalar(state, mix, AttrRoughnessSet, AttrRoughnessSetBlend, AttrRoughnessMult, true, roughness...)
		remapRoughness(state, mix, roughness)
	}
	if a.EnableColor {
		a.adjustColors(state, mix, p)
	}
}

func remapRoughness(state *core.State, mix float64, xs []*float64) {
	inMin, ok1 := state.Float(AttrRoughnessRemapInMin)
	inMax, ok2 := state.Float(AttrRoughnessRemapInMax)
	outMin, ok3 := state.Float(AttrRoughnessRemapOutMin)
	outMax, ok4 := state.Float(AttrRoughnessRemapOutMax)
	if !ok1 || !ok2 || !ok3 || !ok4 || core.IsZero(inMax-inMin) {
		return
	}
	for _, x := range xs {
		remapped := (*x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
		*x = core.Saturate(core.Lerp(*x, remapped, mix))
	}
}

func (a *Adjust) adjustColors(state *core.State, mix float64, p *Parameters) {
	cc := ColorCorrection{
		HueShift:   state.FloatOr(AttrColorHueShift, 0),
		Saturation: state.FloatOr(AttrColorSaturation, 1),
		Gain:       state.FloatOr(AttrColorGain, 1),
	}
	gainRGB := core.NewVec3(1, 1, 1)
	if c, ok := state.Color(AttrColorGainRGB); ok {
		gainRGB = c
	}
	colors := []*core.Vec3{
		&p.Fuzz.Albedo,
		&p.MetallicColor,
		&p.MetallicEdgeColor,
		&p.Fabric.WarpColor,
		&p.Fabric.WeftColor,
		&p.Transmission.Color,
		&p.Diffuse.Albedo,
		&p.Diffuse.Transmission,
	}
	for _, c := range colors {
		corrected := cc.Color(*c).MultiplyVec(gainRGB)
		*c = core.LerpVec3(*c, corrected, mix).Clamp(0, 1)
	}
}
