package material

import (
	"fmt"
	"math"

	"github.com/df07/go-layered-materials/pkg/core"
)

// MaxMixMaterials is the number of Mix inputs
const MaxMixMaterials = 64

// mixFlatSpot snaps mix values this close to a whole number onto it
const mixFlatSpot = 0.001

// Mix blends between consecutive inputs selected by a mix value. Inputs are
// contiguous from slot 0; the first empty or non-layerable slot ends the
// list. A glitter build failure disables the material.
type Mix struct {
	SceneObject

	Materials        [MaxMixMaterials]Object
	Mix              FloatSource
	Interpolation    MixInterpolation
	RemapMixToInputs bool
	ColorSpace       BlendColorSpace
	Fallbacks        Fallbacks
	Glitter          GlitterConfig
	TraceSet         *TraceSet

	slots         [MaxMixMaterials]childSlot
	inputs        []*Handle
	uniform       UniformParameters
	glitter       *Glitter
	glitterCount  int
	castsCaustics bool
	multiplier    float64
	maxMix        float64
	err           error
}

// NewMix creates a mix over materials, filling slots from 0
func NewMix(name string, mix float64, materials ...Object) *Mix {
	m := &Mix{
		SceneObject: newSceneObject(name),
		Mix:         Constant(mix),
		Fallbacks:   DefaultFallbacks(),
		Glitter:     DefaultGlitterConfig(),
		uniform:     DefaultUniformParameters(),
	}
	copy(m.Materials[:], materials)
	return m
}

// Dependencies returns the bound inputs
func (m *Mix) Dependencies() []Object {
	return nonNil(m.Materials[:]...)
}

// Update binds the inputs up to the first empty or invalid slot and folds
// their uniform parameters in slot order
func (m *Mix) Update() error {
	mixEvents.Register(core.Events)
	m.inputs = m.inputs[:0]
	m.err = nil
	m.glitter = nil
	m.glitterCount = 0
	m.castsCaustics = false
	m.uniform = DefaultUniformParameters()

	var bindErr error
	for i := range m.slots {
		changed, err := m.slots[i].bind(m.Materials[i])
		if err != nil && bindErr == nil {
			bindErr = fmt.Errorf("material%d: %w", i, err)
			if changed {
				m.fatal(bindErr)
			}
		}
	}
	for i := range m.slots {
		h := m.slots[i].handle
		if h == nil {
			break
		}
		m.inputs = append(m.inputs, h)
		if h.HasGlitter() {
			m.glitterCount++
		}
		if h.CastsCaustics() {
			m.castsCaustics = true
		}
	}

	for i, h := range m.inputs {
		var u UniformParameters
		h.ResolveUniformParameters(&u)
		if i == 0 {
			m.uniform = u
			continue
		}
		if LightSetConflict(m.uniform, u) {
			logEvent(&m.SceneObject, mixEvents, eventLightSetConflict)
		}
		m.uniform = BlendUniformParameters(m.uniform, u, m.Fallbacks)
	}

	n := float64(max(len(m.inputs)-1, 0))
	if m.RemapMixToInputs {
		m.multiplier, m.maxMix = n, 1
	} else {
		m.multiplier, m.maxMix = 1, n
	}

	if m.glitterCount > 1 {
		g, err := NewGlitter(m.Glitter)
		if err != nil {
			m.err = m.fatal(fmt.Errorf("glitter: %w", err))
			return m.err
		}
		m.glitter = g
	}
	return bindErr
}

// Inputs returns the number of inputs bound at the last Update
func (m *Mix) Inputs() int {
	return len(m.inputs)
}

// InterpolateMix maps a clamped mix value to a fractional input index
func InterpolateMix(mix float64, mode MixInterpolation, multiplier float64) float64 {
	mix *= multiplier
	switch mode {
	case MixHold:
		mix = math.Floor(mix)
	case MixNearest:
		mix = math.Floor(mix + 0.5)
	case MixSmooth:
		x := (mix + 0.5) * 2 * math.Pi
		mix = (math.Sin(x)+x)/(2*math.Pi) - 0.5
	}
	if nearest := math.Trunc(mix + 0.5); math.Abs(nearest-mix) < mixFlatSpot {
		mix = nearest
	}
	return mix
}

// pair returns the inputs to blend for state and the blend fraction
func (m *Mix) pair(state *core.State) (b, a *Handle, frac float64) {
	if len(m.inputs) == 0 {
		return nil, nil, 0
	}
	mix := math.Max(0, math.Min(evalFloat(m.Mix, state, 0), m.maxMix))
	mix = InterpolateMix(mix, m.Interpolation, m.multiplier)
	t0 := int(mix)
	t0 = max(0, min(t0, len(m.inputs)-1))
	b = m.inputs[t0]
	if t0+1 < len(m.inputs) {
		a = m.inputs[t0+1]
	}
	return b, a, mix - float64(t0)
}

func (m *Mix) HasGlitter() bool {
	return m.glitterCount > 0
}

func (m *Mix) CastsCaustics() bool {
	return m.castsCaustics
}

func (m *Mix) SubsurfaceTraceSet() *TraceSet {
	return m.TraceSet
}

// SharedGlitter returns the glitter built by the last Update, if any
func (m *Mix) SharedGlitter() *Glitter {
	return m.glitter
}

func (m *Mix) ResolveUniformParameters(u *UniformParameters) {
	*u = m.uniform
}

func (m *Mix) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	if m.err != nil {
		return false
	}
	b, a, frac := m.pair(state)
	return BlendParameters(state, castsCaustics, p, BlendContext{
		Background: b,
		Foreground: a,
		Mask:       frac,
		ColorSpace: m.ColorSpace,
		Glitter:    m.glitter,
		Self:       m,
	})
}

func (m *Mix) ResolvePresence(state *core.State) float64 {
	b, a, frac := m.pair(state)
	return BlendPresence(state, b, a, frac)
}

func (m *Mix) ResolveRefractiveIndex(state *core.State) float64 {
	b, a, frac := m.pair(state)
	return BlendRefractiveIndexOf(state, b, a, frac)
}

func (m *Mix) ResolveSubsurfaceNormal(state *core.State) core.Vec3 {
	b, a, frac := m.pair(state)
	if b == nil {
		return state.N
	}
	if a == nil {
		return b.ResolveSubsurfaceNormal(state)
	}
	return BlendSubsurfaceNormal(state, b, a, frac)
}

func (m *Mix) ResolveSubsurfaceType(state *core.State) SubsurfaceType {
	return m.uniform.Subsurface
}

func (m *Mix) ResolvePreventLightCulling(state *core.State) bool {
	return m.uniform.PreventLightCulling
}
