package material

import (
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShade_HandsResolvedParametersToBuilder(t *testing.T) {
	a := NewLambertian("a", red)
	b := NewLambertian("b", blue)
	a.SpecularModel = SpecularBeckmann
	b.SpecularModel = SpecularBeckmann
	layer := NewLayer("layer", a, b, 0.5)
	update(t, a, b, layer)

	var builder recordingBuilder
	require.True(t, Shade(layer, testState(), &builder))
	assert.Equal(t, 1, builder.calls)
	vecNear(t, core.NewVec3(0.5, 0, 0.5), builder.params.Diffuse.Albedo)
	assert.Equal(t, SpecularBeckmann, builder.uniform.SpecularModel)
}

func TestShade_FailedResolveSkipsBuilder(t *testing.T) {
	layer := NewLayer("layer", NewLambertian("a", red), nil, 0.5)
	assert.Error(t, layer.Update())

	var builder recordingBuilder
	assert.False(t, Shade(layer, testState(), &builder))
	assert.Zero(t, builder.calls)
}

func TestResolve_OutermostTraceSetWins(t *testing.T) {
	a := NewLambertian("a", red)
	b := NewLambertian("b", blue)
	a.TraceSet = NewTraceSet("inner", "skin")
	layer := NewLayer("layer", a, b, 1)
	update(t, a, b, layer)

	p, _, ok := Resolve(layer, testState())
	require.True(t, ok)
	assert.Same(t, a.TraceSet, p.SubsurfaceTraceSet, "children keep their own trace set without an override")

	layer.TraceSet = NewTraceSet("outer", "body")
	p, _, ok = Resolve(layer, testState())
	require.True(t, ok)
	assert.Same(t, layer.TraceSet, p.SubsurfaceTraceSet)
}

func TestResolve_AppliesPendingCorrections(t *testing.T) {
	base := NewLambertian("base", core.NewVec3(0.2, 0.2, 0.2))
	cc := NewColorCorrect("cc", base)
	cc.Gain = Constant(2)
	cc.Deferred = true
	update(t, base, cc)

	var p Parameters
	require.True(t, cc.ResolveParameters(testState(), false, &p))
	assert.Equal(t, 1, p.ColorCorrections.Len(), "deferred corrections wait on the stack")
	vecNear(t, core.NewVec3(0.2, 0.2, 0.2), p.Diffuse.Albedo)

	p, _, ok := Resolve(cc, testState())
	require.True(t, ok)
	assert.Zero(t, p.ColorCorrections.Len())
	vecNear(t, core.NewVec3(0.4, 0.4, 0.4), p.Diffuse.Albedo)
}
