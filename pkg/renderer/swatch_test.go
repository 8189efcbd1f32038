package renderer

import (
	"math/rand"
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attributeStates binds one float attribute on every state
type attributeStates struct {
	name  string
	value float64
}

func (a attributeStates) NewState(p, n core.Vec3, uv core.Vec2) *core.State {
	s := core.NewState(p, n, uv)
	s.SetFloat(a.name, a.value)
	return s
}

func centerSample(t *testing.T, m material.Layerable, states StateSource) core.Vec3 {
	t.Helper()
	view := DefaultSwatchConfig()
	view.LightDir = core.NewVec3(0, 0, 1)
	s := NewSwatch(m, states, view)
	c, ok := s.Sample(view.Width/2, view.Height/2, core.NewRandomSampler(rand.New(rand.NewSource(1))), s.NewShader())
	require.True(t, ok)
	return c
}

func TestSwatch_CornerIsBackground(t *testing.T) {
	m := material.NewLambertian("red", core.NewVec3(1, 0, 0))
	require.NoError(t, m.Update())

	view := DefaultSwatchConfig()
	s := NewSwatch(m, nil, view)
	c, ok := s.Sample(0, 0, core.NewRandomSampler(rand.New(rand.NewSource(1))), s.NewShader())
	assert.True(t, ok)
	assert.Equal(t, view.Background, c)
}

func TestSwatch_LitDiffuse(t *testing.T) {
	m := material.NewLambertian("red", core.NewVec3(1, 0, 0))
	require.NoError(t, m.Update())

	c := centerSample(t, m, nil)
	assert.Greater(t, c.X, 0.9, "center faces the light")
	assert.InDelta(t, 0, c.Y, 1e-9)
	assert.InDelta(t, 0, c.Z, 1e-9)
}

func TestSwatch_PresenceBlendsBackground(t *testing.T) {
	m := material.NewLambertian("ghost", core.NewVec3(1, 1, 1))
	m.Presence = material.Constant(0)
	require.NoError(t, m.Update())

	assert.Equal(t, DefaultSwatchConfig().Background, centerSample(t, m, nil))
}

func TestSwatch_StatesCarryAttributes(t *testing.T) {
	red := material.NewLambertian("red", core.NewVec3(1, 0, 0))
	blue := material.NewLambertian("blue", core.NewVec3(0, 0, 1))
	layer := material.NewLayer("layer", red, blue, 0)
	layer.Mask = &material.AttributeFloat{Name: "blend"}
	for _, u := range []material.Updater{red, blue, layer} {
		require.NoError(t, u.Update())
	}

	c := centerSample(t, layer, attributeStates{name: "blend", value: 1})
	assert.Greater(t, c.X, 0.9)
	assert.InDelta(t, 0, c.Z, 1e-9)

	c = centerSample(t, layer, attributeStates{name: "blend", value: 0})
	assert.InDelta(t, 0, c.X, 1e-9)
	assert.Greater(t, c.Z, 0.9)
}

func TestSwatch_UnresolvableMaterial(t *testing.T) {
	layer := material.NewLayer("empty", nil, nil, 0.5)
	require.ErrorIs(t, layer.Update(), material.ErrMissingMaterial)

	view := DefaultSwatchConfig()
	s := NewSwatch(layer, nil, view)
	c, ok := s.Sample(view.Width/2, view.Height/2, core.NewRandomSampler(rand.New(rand.NewSource(1))), s.NewShader())
	assert.False(t, ok)
	assert.Equal(t, errorColor, c)
}

func TestPreviewShader_SpecularModels(t *testing.T) {
	// At normal incidence Beckmann and GGX both peak at 1/(pi a^2)
	a := 0.25 * 0.25
	assert.InDelta(t, 1/(3.141592653589793*a*a), distribution(material.SpecularGGX, 1, 0.25), 1e-6)
	assert.InDelta(t, 1/(3.141592653589793*a*a), distribution(material.SpecularBeckmann, 1, 0.25), 1e-6)
	assert.Zero(t, distribution(material.SpecularGGX, 0, 0.25))
}

func TestPreviewShader_MetalHasNoDiffuse(t *testing.T) {
	shader := NewPreviewShader(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))
	state := core.NewState(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec2(0, 0))

	var p material.Parameters
	material.InitParameters(&p)
	p.Normal = state.N
	p.Diffuse.Albedo = core.NewVec3(1, 1, 1)
	p.Metallic = 1
	u := material.DefaultUniformParameters()

	shader.Build(state, &p, &u)
	assert.Equal(t, core.Vec3{}, shader.Color, "light at grazing angle and no specular weight")
}

func TestVec3ToColor(t *testing.T) {
	c := vec3ToColor(core.NewVec3(0.25, -1, 4))
	assert.Equal(t, uint8(127), c.R, "gamma 2 maps 0.25 to 0.5")
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(255), c.B)
	assert.Equal(t, uint8(255), c.A)
}
