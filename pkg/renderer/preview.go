package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/material"
)

// glitterCellScale maps unit sphere positions to flake cells
const glitterCellScale = 64

// PreviewShader is a LobeBuilder that evaluates the resolved lobes of one
// sample under a single directional light. It is not safe for concurrent
// use; each worker owns one.
type PreviewShader struct {
	LightDir core.Vec3 // Direction towards the light
	ViewDir  core.Vec3 // Direction towards the viewer
	Ambient  float64   // Constant fill added to diffuse lobes

	Color core.Vec3 // Result of the last Build
}

// NewPreviewShader creates a shader for a light and viewer direction
func NewPreviewShader(lightDir, viewDir core.Vec3) *PreviewShader {
	return &PreviewShader{
		LightDir: lightDir.SafeNormalize(),
		ViewDir:  viewDir.SafeNormalize(),
		Ambient:  0.05,
	}
}

// Build implements material.LobeBuilder
func (s *PreviewShader) Build(state *core.State, p *material.Parameters, u *material.UniformParameters) {
	n := p.Normal.SafeNormalize()
	if n.IsBlack() {
		n = state.N
	}
	nDotL := math.Max(0, n.Dot(s.LightDir))
	nDotV := math.Max(1e-4, n.Dot(s.ViewDir))
	h := s.LightDir.Add(s.ViewDir).SafeNormalize()
	nDotH := math.Max(0, n.Dot(h))

	result := p.Emission

	// Hair materials carry their own lobe weights
	if p.Hair.Weight > 0 {
		hairLight := s.Ambient + nDotL*(1-p.Hair.Diffuse) + p.Hair.Diffuse*0.5
		result = result.Add(p.Hair.Color.Multiply(hairLight * p.Hair.Weight))
		s.Color = result
		return
	}

	fresnel := material.Reflectance(nDotV, 1/math.Max(p.RefractiveIndex, 1e-3))

	// Energy taken by metal and transmission leaves the diffuse lobe
	diffuseWeight := (1 - core.Saturate(p.Metallic)) * (1 - core.Saturate(p.Transmission.Weight))
	diffuse := p.Diffuse.Albedo.Multiply(diffuseWeight * (nDotL + s.Ambient))
	result = result.Add(diffuse)

	if p.Specular > 0 {
		d := distribution(u.SpecularModel, nDotH, p.Roughness)
		f := fresnel + (1-fresnel)*core.Saturate(p.Metallic)
		tint := core.LerpVec3(core.NewVec3(1, 1, 1), p.MetallicColor, core.Saturate(p.Metallic))
		spec := d * f * nDotL / (4 * math.Max(nDotL, nDotV))
		result = result.Add(tint.Multiply(spec * p.Specular))
	}

	if p.OuterSpecular.Weight > 0 {
		coatFresnel := material.Reflectance(nDotV, 1/math.Max(p.OuterSpecular.RefractiveIndex, 1e-3))
		d := distribution(u.OuterSpecularModel, nDotH, p.OuterSpecular.Roughness)
		coat := d * coatFresnel * nDotL / (4 * math.Max(nDotL, nDotV))
		result = result.MultiplyVec(core.LerpVec3(core.NewVec3(1, 1, 1), p.OuterSpecular.AttenuationColor, p.OuterSpecular.Weight))
		result = result.Add(core.NewVec3(1, 1, 1).Multiply(coat * p.OuterSpecular.Weight))
	}

	if p.Fuzz.Weight > 0 {
		rim := math.Pow(1-nDotV, 2) * (nDotL + s.Ambient)
		result = result.Add(p.Fuzz.Albedo.Multiply(rim * p.Fuzz.Weight))
	}

	if p.Glitter != nil && p.GlitterVarying.Mask > 0 {
		flake := p.Glitter.Flake(state.P.Multiply(glitterCellScale), &p.GlitterVarying)
		result = result.Add(p.GlitterVarying.FlakeColor[0].Multiply(flake * p.GlitterVarying.Mask * nDotL))
	}

	s.Color = result
}

// distribution evaluates the normal distribution of a specular model
func distribution(model material.SpecularModel, nDotH, roughness float64) float64 {
	a := math.Max(roughness*roughness, 1e-3)
	a2 := a * a
	cos2 := nDotH * nDotH
	if cos2 <= 0 {
		return 0
	}

	if model == material.SpecularBeckmann {
		tan2 := (1 - cos2) / cos2
		return math.Exp(-tan2/a2) / (math.Pi * a2 * cos2 * cos2)
	}
	denom := cos2*(a2-1) + 1
	return a2 / (math.Pi * denom * denom)
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.ClampMin(0).GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
