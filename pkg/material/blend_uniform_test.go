package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlendUniformParameters_AgreementAndFallback(t *testing.T) {
	fb := Fallbacks{
		SpecularModel:           SpecularBeckmann,
		OuterSpecularModel:      SpecularBeckmann,
		OuterSpecularUseBending: true,
		Subsurface:              SubsurfaceDipole,
	}

	t.Run("agreement is kept", func(t *testing.T) {
		u := DefaultUniformParameters()
		u.Subsurface = SubsurfaceRandomWalk
		got := BlendUniformParameters(u, u, fb)
		assert.Equal(t, SpecularGGX, got.SpecularModel)
		assert.Equal(t, SpecularGGX, got.OuterSpecularModel)
		assert.False(t, got.OuterSpecularUseBending)
		assert.Equal(t, SubsurfaceRandomWalk, got.Subsurface)
	})

	t.Run("disagreement takes the fallback", func(t *testing.T) {
		a := DefaultUniformParameters()
		b := DefaultUniformParameters()
		b.SpecularModel = SpecularBeckmann
		b.OuterSpecularModel = SpecularBeckmann
		b.OuterSpecularUseBending = true
		b.Subsurface = SubsurfaceRandomWalk
		a.Subsurface = SubsurfaceNormalizedDiffusion

		got := BlendUniformParameters(a, b, fb)
		assert.Equal(t, fb.SpecularModel, got.SpecularModel)
		assert.Equal(t, fb.OuterSpecularModel, got.OuterSpecularModel)
		assert.Equal(t, fb.OuterSpecularUseBending, got.OuterSpecularUseBending)
		assert.Equal(t, SubsurfaceDipole, got.Subsurface)
	})
}

func TestBlendUniformParameters_SafetyFlagsAreOred(t *testing.T) {
	for _, tt := range []struct {
		a, b bool
	}{
		{false, false},
		{true, false},
		{false, true},
		{true, true},
	} {
		a := DefaultUniformParameters()
		b := DefaultUniformParameters()
		a.ThinGeometry, b.ThinGeometry = tt.a, tt.b
		a.PreventLightCulling, b.PreventLightCulling = tt.a, tt.b

		got := BlendUniformParameters(a, b, DefaultFallbacks())
		assert.Equal(t, tt.a || tt.b, got.ThinGeometry, "thin geometry %v|%v", tt.a, tt.b)
		assert.Equal(t, tt.a || tt.b, got.PreventLightCulling, "light culling %v|%v", tt.a, tt.b)
	}
}

func TestBlendUniformParameters_LightSet(t *testing.T) {
	key := NewLightSet("key", "sun")
	rim := NewLightSet("rim", "spot")

	a := DefaultUniformParameters()
	b := DefaultUniformParameters()
	assert.Nil(t, BlendUniformParameters(a, b, DefaultFallbacks()).LightSet)
	assert.False(t, LightSetConflict(a, b))

	a.LightSet = key
	assert.Same(t, key, BlendUniformParameters(a, b, DefaultFallbacks()).LightSet)
	assert.False(t, LightSetConflict(a, b))

	b.LightSet = rim
	assert.Same(t, rim, BlendUniformParameters(a, b, DefaultFallbacks()).LightSet)
	assert.True(t, LightSetConflict(a, b))

	b.LightSet = key
	assert.False(t, LightSetConflict(a, b), "the same set bound twice is not a conflict")
}
