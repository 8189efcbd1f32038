package renderer

import (
	"math"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/material"
	"github.com/go-gl/mathgl/mgl64"
)

// StateSource creates shading states. Scenes implement it to bind their
// attributes on every sample.
type StateSource interface {
	NewState(p, n core.Vec3, uv core.Vec2) *core.State
}

// SwatchConfig describes the preview view of a material: a unit sphere
// seen along -Z and lit by one directional light
type SwatchConfig struct {
	Width      int
	Height     int
	RotationY  float64   // Sphere rotation about +Y in degrees
	LightDir   core.Vec3 // Direction towards the light
	Background core.Vec3 // Color behind the sphere and through absent surfaces
}

// DefaultSwatchConfig returns a square swatch lit from the upper left
func DefaultSwatchConfig() SwatchConfig {
	return SwatchConfig{
		Width:      256,
		Height:     256,
		RotationY:  30,
		LightDir:   core.NewVec3(-1, 1, 1),
		Background: core.NewVec3(0.18, 0.18, 0.2),
	}
}

// errorColor marks samples whose material could not be resolved
var errorColor = core.NewVec3(1, 0, 1)

// Swatch renders one material on the preview sphere
type Swatch struct {
	material material.Layerable
	states   StateSource
	config   SwatchConfig
	rotation mgl64.Mat3
	scale    float64
}

// NewSwatch creates a swatch of m. States are created through states, or
// bare states when states is nil.
func NewSwatch(m material.Layerable, states StateSource, config SwatchConfig) *Swatch {
	if config.Width <= 0 || config.Height <= 0 {
		def := DefaultSwatchConfig()
		config.Width, config.Height = def.Width, def.Height
	}
	if config.LightDir.IsBlack() {
		config.LightDir = DefaultSwatchConfig().LightDir
	}
	// The sphere fills the shorter image side with a small margin
	scale := 1.05 * 2 / float64(min(config.Width, config.Height))

	return &Swatch{
		material: m,
		states:   states,
		config:   config,
		rotation: mgl64.Rotate3DY(mgl64.DegToRad(config.RotationY)),
		scale:    scale,
	}
}

// Config returns the view configuration of the swatch
func (s *Swatch) Config() SwatchConfig {
	return s.config
}

// NewShader creates a preview shader for the swatch's light
func (s *Swatch) NewShader() *PreviewShader {
	return NewPreviewShader(s.config.LightDir, core.NewVec3(0, 0, 1))
}

// Sample shades one jittered sample of pixel (i, j). ok is false when the
// material could not be resolved.
func (s *Swatch) Sample(i, j int, sampler core.Sampler, shader *PreviewShader) (c core.Vec3, ok bool) {
	jitter := sampler.Get2D()
	x := (float64(i) + jitter.X - 0.5*float64(s.config.Width)) * s.scale
	y := (0.5*float64(s.config.Height) - float64(j) - jitter.Y) * s.scale

	r2 := x*x + y*y
	if r2 > 1 {
		return s.config.Background, true
	}

	n := core.NewVec3(x, y, math.Sqrt(1-r2))
	state := s.newState(n)

	if !material.Shade(s.material, state, shader) {
		return errorColor, false
	}
	presence := core.Saturate(s.material.ResolvePresence(state))
	return core.LerpVec3(s.config.Background, shader.Color, presence), true
}

// StateAt returns the shading state at the center of pixel (i, j), or false
// when the pixel misses the sphere
func (s *Swatch) StateAt(i, j int) (*core.State, bool) {
	x := (float64(i) + 0.5 - 0.5*float64(s.config.Width)) * s.scale
	y := (0.5*float64(s.config.Height) - float64(j) - 0.5) * s.scale
	r2 := x*x + y*y
	if r2 > 1 {
		return nil, false
	}
	return s.newState(core.NewVec3(x, y, math.Sqrt(1-r2))), true
}

// newState creates the state of the view-space surface point n. Position and
// uv are taken in object space so textures turn with the sphere.
func (s *Swatch) newState(n core.Vec3) *core.State {
	obj := s.rotation.Mul3x1(mgl64.Vec3{n.X, n.Y, n.Z})
	p := core.NewVec3(obj[0], obj[1], obj[2])

	uv := core.NewVec2(
		0.5+math.Atan2(p.Z, p.X)/(2*math.Pi),
		0.5+math.Asin(max(-1, min(1, p.Y)))/math.Pi,
	)

	var state *core.State
	if s.states != nil {
		state = s.states.NewState(n, n, uv)
	} else {
		state = core.NewState(n, n, uv)
	}
	state.P = p
	state.Ng = n
	state.DPds = core.NewVec3(0, 1, 0).Cross(n).SafeNormalize()
	if state.DPds.IsBlack() {
		state.DPds = core.NewVec3(1, 0, 0)
	}
	return state
}
