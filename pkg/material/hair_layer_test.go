package material

import (
	"bytes"
	"strings"
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHairLayer_FresnelMismatchRaisesEvent(t *testing.T) {
	var errOut bytes.Buffer
	a := NewHair("a", core.NewVec3(0.6, 0.3, 0.1))
	b := NewHair("b", core.NewVec3(0.1, 0.1, 0.1))
	a.Lobes.FresnelType = HairFresnelLayeredCuticles
	b.Lobes.FresnelType = HairFresnelSimpleLongitudinal
	update(t, a, b)

	layer := NewHairLayer("hair_layer", a, b, 0.5)
	layer.SetLogger(core.NewWriterLogger("", false, &bytes.Buffer{}, &errOut))
	update(t, layer)

	assert.True(t, layer.FresnelMismatch())
	assert.Contains(t, errOut.String(), "ERROR: hair_layer: Hair material fresnel types do not match")
	assert.Equal(t, HairFresnelLayeredCuticles, layer.HairFresnelType())

	id := hairLayerEvents.ID(eventFresnelMismatch)
	event, ok := core.Events.Lookup(id)
	require.True(t, ok, "the class table is registered on first update")
	assert.Equal(t, core.SeverityError, event.Severity)

	p := resolve(t, layer, testState())
	assert.Equal(t, HairFresnelLayeredCuticles, p.Hair.FresnelType, "the blend proceeds with material A's fresnel type")
	vecNear(t, core.NewVec3(0.35, 0.2, 0.1), p.Hair.Color)
}

func TestHairLayer_MatchingFresnelIsQuiet(t *testing.T) {
	var errOut bytes.Buffer
	a := NewHair("a", core.NewVec3(0.6, 0.3, 0.1))
	b := NewHair("b", core.NewVec3(0.1, 0.1, 0.1))
	update(t, a, b)

	layer := NewHairLayer("hair_layer", a, b, 0.5)
	layer.SetLogger(core.NewWriterLogger("", false, &bytes.Buffer{}, &errOut))
	update(t, layer)

	assert.False(t, layer.FresnelMismatch())
	assert.False(t, strings.Contains(errOut.String(), "fresnel"))
}

func TestHairLayer_EventTableRegisteredOnce(t *testing.T) {
	a := NewHair("a", core.NewVec3(1, 1, 1))
	b := NewHair("b", core.NewVec3(1, 1, 1))
	update(t, a, b)

	first := NewHairLayer("first", a, b, 0.5)
	update(t, first)
	n := core.Events.Len()

	second := NewHairLayer("second", a, b, 0.5)
	update(t, second, first)
	assert.Equal(t, n, core.Events.Len())
}

func TestHairLayer_PassthroughAndCallbacks(t *testing.T) {
	a := NewHair("a", core.NewVec3(0.6, 0.3, 0.1))
	b := NewHair("b", core.NewVec3(0.1, 0.1, 0.1))
	a.Caustics = true
	update(t, a, b)

	layer := NewHairLayer("hair_layer", a, b, 1)
	update(t, layer)

	state := testState()
	state.DPds = core.NewVec3(0, 2, 0)
	want := resolve(t, a, state)
	want.SubsurfaceNormal = layer
	assert.Equal(t, want, resolve(t, layer, state))
	assert.Equal(t, core.NewVec3(0, 1, 0), want.Hair.Dir)
	assert.True(t, layer.CastsCaustics())
	assert.InDelta(t, 1.45, layer.ResolveRefractiveIndex(state), 1e-12)
}

func TestHairLayer_MissingBackground(t *testing.T) {
	layer := NewHairLayer("hair_layer", NewHair("a", core.NewVec3(1, 1, 1)), nil, 0.5)
	require.ErrorIs(t, layer.Update(), ErrMissingMaterial)

	var p Parameters
	assert.False(t, layer.ResolveParameters(testState(), false, &p))
}

func TestHair_UpdateValidates(t *testing.T) {
	h := NewHair("h", core.NewVec3(1, 1, 1))
	h.Lobes.IOR = 0
	require.ErrorIs(t, h.Update(), ErrInvalidHair)

	h.Lobes.IOR = 1.5
	h.Lobes.GlintMinTwists = 3
	h.Lobes.GlintMaxTwists = 2
	require.ErrorIs(t, h.Update(), ErrInvalidHair)
}
