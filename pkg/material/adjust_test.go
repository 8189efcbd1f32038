package material

import (
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/stretchr/testify/assert"
)

func adjustedBase(t *testing.T) *Base {
	b := NewLambertian("base", core.NewVec3(0.5, 0.5, 0.5))
	b.Specular = Constant(0.8)
	b.Roughness = Constant(0.4)
	b.OuterSpecular.Weight = 0.5
	b.OuterSpecular.Roughness = 0.2
	b.Fuzz.Roughness = 0.6
	b.Fabric.Specular = 0.3
	b.Presence = Constant(0.8)
	update(t, b)
	return b
}

func TestAdjust_UniformOverrides(t *testing.T) {
	b := adjustedBase(t)
	b.ThinGeometry = true
	b.Caustics = true

	tests := []struct {
		name      string
		override  AdjustOverride
		wantThin  bool
		wantCaust bool
	}{
		{"keep", OverrideKeep, true, true},
		{"force true", OverrideTrue, true, true},
		{"force false", OverrideFalse, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := NewAdjust("adjust", b)
			adj.OverrideThinGeometry = tt.override
			adj.OverrideCastsCaustics = tt.override
			update(t, adj)

			var u UniformParameters
			adj.ResolveUniformParameters(&u)
			assert.Equal(t, tt.wantThin, u.ThinGeometry)
			assert.Equal(t, tt.wantCaust, adj.CastsCaustics())
		})
	}

	b.ThinGeometry = false
	b.Caustics = false
	adj := NewAdjust("adjust", b)
	adj.OverrideThinGeometry = OverrideTrue
	adj.OverrideCastsCaustics = OverrideTrue
	update(t, adj)
	var u UniformParameters
	adj.ResolveUniformParameters(&u)
	assert.True(t, u.ThinGeometry)
	assert.True(t, adj.CastsCaustics())
}

func TestAdjust_SetAndMultAttributes(t *testing.T) {
	b := adjustedBase(t)
	adj := NewAdjust("adjust", b)
	update(t, adj)

	state := testState()
	state.SetFloat(AttrSpecularSet, 0.2)
	state.SetFloat(AttrSpecularSetBlend, 0.5)
	state.SetFloat(AttrRoughnessMult, 0.5)

	p := resolve(t, adj, state)
	assert.InDelta(t, 0.5, p.Specular, 1e-12)
	assert.InDelta(t, 0.35, p.OuterSpecular.Weight, 1e-12)
	assert.InDelta(t, 0.25, p.Fabric.Specular, 1e-12)
	assert.InDelta(t, 0.2, p.Roughness, 1e-12)
	assert.InDelta(t, 0.1, p.OuterSpecular.Roughness, 1e-12)
	assert.InDelta(t, 0.3, p.Fuzz.Roughness, 1e-12)
	assert.Equal(t, adj, p.SubsurfaceNormal)
}

func TestAdjust_MixScalesAdjustments(t *testing.T) {
	b := adjustedBase(t)
	adj := NewAdjust("adjust", b)
	adj.Mix = Constant(0.5)
	update(t, adj)

	state := testState()
	state.SetFloat(AttrSpecularMult, 0)
	p := resolve(t, adj, state)
	assert.InDelta(t, 0.4, p.Specular, 1e-12)

	adj.Mix = Constant(0)
	p = resolve(t, adj, state)
	assert.InDelta(t, 0.8, p.Specular, 1e-12)
}

func TestAdjust_DisabledGroupsIgnoreAttributes(t *testing.T) {
	b := adjustedBase(t)
	adj := NewAdjust("adjust", b)
	adj.EnableSpecular = false
	update(t, adj)

	state := testState()
	state.SetFloat(AttrSpecularSet, 0)
	p := resolve(t, adj, state)
	assert.InDelta(t, 0.8, p.Specular, 1e-12)
}

func TestAdjust_RoughnessRemap(t *testing.T) {
	b := adjustedBase(t)
	adj := NewAdjust("adjust", b)
	update(t, adj)

	state := testState()
	state.SetFloat(AttrRoughnessRemapInMin, 0)
	state.SetFloat(AttrRoughnessRemapInMax, 1)
	state.SetFloat(AttrRoughnessRemapOutMin, 0.5)
	p := resolve(t, adj, state)
	assert.InDelta(t, 0.4, p.Roughness, 1e-12, "remap needs all four attributes")

	state.SetFloat(AttrRoughnessRemapOutMax, 1)
	p = resolve(t, adj, state)
	assert.InDelta(t, 0.7, p.Roughness, 1e-12)
	assert.InDelta(t, 0.6, p.OuterSpecular.Roughness, 1e-12)
	assert.InDelta(t, 0.8, p.Fuzz.Roughness, 1e-12)
}

func TestAdjust_Presence(t *testing.T) {
	b := adjustedBase(t)
	adj := NewAdjust("adjust", b)
	update(t, adj)

	state := testState()
	assert.InDelta(t, 0.8, adj.ResolvePresence(state), 1e-12)

	state.SetFloat(AttrPresenceSet, 0.2)
	assert.InDelta(t, 0.2, adj.ResolvePresence(state), 1e-12)

	state.SetFloat(AttrPresenceMult, 0.5)
	assert.InDelta(t, 0.1, adj.ResolvePresence(state), 1e-12)

	adj.On = false
	assert.InDelta(t, 0.8, adj.ResolvePresence(state), 1e-12)
}

func TestAdjust_Colors(t *testing.T) {
	b := adjustedBase(t)
	adj := NewAdjust("adjust", b)
	update(t, adj)

	state := testState()
	state.SetFloat(AttrColorGain, 0.5)
	state.SetColor(AttrColorGainRGB, core.NewVec3(1, 2, 4))
	p := resolve(t, adj, state)
	vecNear(t, core.NewVec3(0.25, 0.5, 1), p.Diffuse.Albedo)
}

func TestAdjust_DisableLobesAndEmission(t *testing.T) {
	b := adjustedBase(t)
	b.Emission = NewSolidColor(core.NewVec3(1, 1, 1))
	adj := NewAdjust("adjust", b)
	adj.DisableSpecular = true
	adj.DisableDiffuse = true
	adj.Emission = NewSolidColor(core.NewVec3(1, -3, 0))
	adj.EmissionMode = EmissionMasked
	adj.Mix = Constant(0.5)
	update(t, adj)

	p := resolve(t, adj, testState())
	assert.Zero(t, p.Specular)
	assert.Zero(t, p.OuterSpecular.Weight)
	assert.Zero(t, p.Fabric.Specular)
	assert.True(t, p.Diffuse.Albedo.IsBlack())
	vecNear(t, core.NewVec3(1.5, 0, 1), p.Emission)

	adj.EmissionMode = EmissionOff
	vecNear(t, core.NewVec3(1, 1, 1), resolve(t, adj, testState()).Emission)
}

func TestAdjust_NoInput(t *testing.T) {
	adj := NewAdjust("adjust", nil)
	adj.OverrideCastsCaustics = OverrideTrue
	update(t, adj)

	var p Parameters
	assert.False(t, adj.ResolveParameters(testState(), false, &p))
	assert.False(t, adj.CastsCaustics())
	assert.Equal(t, 1.0, adj.ResolvePresence(testState()))
}
