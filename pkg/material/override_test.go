package material

import (
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// normalLeaf answers subsurface normal queries with a fixed normal
type normalLeaf struct {
	*Base
	normal core.Vec3
}

func (n *normalLeaf) ResolveSubsurfaceNormal(state *core.State) core.Vec3 {
	return n.normal
}

func (n *normalLeaf) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	if !n.Base.ResolveParameters(state, castsCaustics, p) {
		return false
	}
	p.SubsurfaceNormal = n
	return true
}

type composite interface {
	Layerable
	Updater
}

func newNormalLeaf(name string, albedo, normal core.Vec3) *normalLeaf {
	return &normalLeaf{Base: NewLambertian(name, albedo), normal: normal}
}

// Every combinator nests three levels deep. The outermost combinator must end
// up in the override slot and the callbacks must reach the live selection.
func TestOverrideChain_ThreeLevels(t *testing.T) {
	leafA := newNormalLeaf("leafA", red, core.NewVec3(1, 0, 0))
	leafB := newNormalLeaf("leafB", blue, core.NewVec3(0, 1, 0))
	leafA.Presence = Constant(0.5)
	update(t, leafA.Base, leafB.Base)

	wrappers := []struct {
		name string
		wrap func(inner Object) composite
	}{
		{"layer", func(inner Object) composite { return NewLayer("layer", inner, leafB, 1) }},
		{"switch", func(inner Object) composite { return NewSwitch("switch", 0, inner) }},
		{"two_sided", func(inner Object) composite { return NewTwoSided("two_sided", inner, inner) }},
		{"color_correct", func(inner Object) composite { return NewColorCorrect("color_correct", inner) }},
		{"mix", func(inner Object) composite { return NewMix("mix", 0, inner, leafB) }},
		{"adjust", func(inner Object) composite { return NewAdjust("adjust", inner) }},
	}

	for _, w := range wrappers {
		t.Run(w.name, func(t *testing.T) {
			level1 := w.wrap(leafA)
			level2 := w.wrap(level1)
			level3 := w.wrap(level2)
			update(t, level1, level2, level3)

			state := testState()
			p := resolve(t, level3, state)
			assert.Equal(t, level3, p.SubsurfaceNormal, "outermost combinator owns the override slot")
			vecNear(t, core.NewVec3(1, 0, 0), EvalSubsurfaceNormal(&p, state), "queries reach the selected leaf")
			vecNear(t, red, p.Diffuse.Albedo)

			cb := ResolveCallbacks(level3, state)
			assert.InDelta(t, 0.5, cb.Presence, 1e-12)

			// Changing the leaf is visible through all three levels
			leafA.Presence = Constant(0.25)
			defer func() { leafA.Presence = Constant(0.5) }()
			assert.InDelta(t, 0.25, level3.ResolvePresence(state), 1e-12)
		})
	}
}

func TestOverrideChain_BlendedNormal(t *testing.T) {
	leafA := newNormalLeaf("leafA", red, core.NewVec3(1, 0, 0))
	leafB := newNormalLeaf("leafB", blue, core.NewVec3(0, 1, 0))
	update(t, leafA.Base, leafB.Base)

	inner := NewLayer("inner", leafA, leafB, 0.5)
	outer := NewColorCorrect("outer", inner)
	update(t, inner, outer)

	state := testState()
	p := resolve(t, outer, state)
	require.Equal(t, outer, p.SubsurfaceNormal)
	s := 1 / 1.4142135623730951
	vecNear(t, core.NewVec3(s, s, 0), EvalSubsurfaceNormal(&p, state))
}

func TestEvalSubsurfaceNormal_EmptySlot(t *testing.T) {
	state := testState()
	var p Parameters
	assert.Equal(t, state.N, EvalSubsurfaceNormal(&p, state))
}
