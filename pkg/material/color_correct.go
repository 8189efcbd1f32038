package material

import "github.com/df07/go-layered-materials/pkg/core"

// ColorCorrect adjusts the colors its input resolves to. With Deferred set
// the correction is pushed onto the sample's correction stack and applied
// by Shade after every enclosing combinator ran.
type ColorCorrect struct {
	SceneObject
	singleInput

	Input      Object
	On         bool
	Mix        FloatSource
	HueShift   FloatSource
	Saturation FloatSource
	Gain       FloatSource
	TMIEnabled bool
	TMI        core.Vec3
	Deferred   bool

	hair bool
}

// NewColorCorrect creates an enabled identity correction of input
func NewColorCorrect(name string, input Object) *ColorCorrect {
	return &ColorCorrect{
		SceneObject: newSceneObject(name),
		Input:       input,
		On:          true,
		Mix:         Constant(1),
		Saturation:  Constant(1),
		Gain:        Constant(1),
	}
}

// Dependencies returns the bound input
func (c *ColorCorrect) Dependencies() []Object {
	return nonNil(c.Input)
}

// Update binds the input
func (c *ColorCorrect) Update() error {
	return c.bind(&c.SceneObject, c.Input)
}

// Correction evaluates the correction for state
func (c *ColorCorrect) Correction(state *core.State) ColorCorrection {
	cc := ColorCorrection{
		HueShift:   evalFloat(c.HueShift, state, 0),
		Saturation: evalFloat(c.Saturation, state, 1),
		Gain:       evalFloat(c.Gain, state, 1),
		TMIEnabled: c.TMIEnabled,
		TMI:        c.TMI,
		Mix:        core.Saturate(evalFloat(c.Mix, state, 1)),
		Hair:       c.hair,
	}
	if !c.On {
		cc.Mix = 0
	}
	return cc
}

func (c *ColorCorrect) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	return c.correct(c, state, castsCaustics, p)
}

func (c *ColorCorrect) correct(self SubsurfaceNormalResolver, state *core.State, castsCaustics bool, p *Parameters) bool {
	if !c.resolve(state, castsCaustics, p) {
		return false
	}
	p.SubsurfaceNormal = self

	cc := c.Correction(state)
	if core.IsZero(cc.Mix) {
		return true
	}
	if c.Deferred {
		p.ColorCorrections.Push(cc)
		return true
	}
	cc.Apply(p)
	return true
}

// HairColorCorrect adjusts the hair colors and emission of its input
type HairColorCorrect struct {
	ColorCorrect
}

// NewHairColorCorrect creates an enabled identity hair correction of input
func NewHairColorCorrect(name string, input Object) *HairColorCorrect {
	h := &HairColorCorrect{ColorCorrect: *NewColorCorrect(name, input)}
	h.hair = true
	return h
}

func (h *HairColorCorrect) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	return h.correct(h, state, castsCaustics, p)
}
