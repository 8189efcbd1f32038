package material

import (
	"fmt"
	"strings"
)

// SpecularModel selects the microfacet distribution of a specular lobe
type SpecularModel int

const (
	SpecularBeckmann SpecularModel = iota
	SpecularGGX
)

func (m SpecularModel) String() string {
	switch m {
	case SpecularBeckmann:
		return "beckmann"
	case SpecularGGX:
		return "ggx"
	default:
		return fmt.Sprintf("SpecularModel(%d)", int(m))
	}
}

// ParseSpecularModel parses a specular model name
func ParseSpecularModel(s string) (SpecularModel, error) {
	switch strings.ToLower(s) {
	case "beckmann":
		return SpecularBeckmann, nil
	case "ggx":
		return SpecularGGX, nil
	}
	return 0, fmt.Errorf("unknown specular model %q", s)
}

// SubsurfaceType selects the subsurface scattering model
type SubsurfaceType int

const (
	SubsurfaceNone SubsurfaceType = iota
	SubsurfaceNormalizedDiffusion
	SubsurfaceDipole
	SubsurfaceRandomWalk
)

func (t SubsurfaceType) String() string {
	switch t {
	case SubsurfaceNone:
		return "none"
	case SubsurfaceNormalizedDiffusion:
		return "normalized_diffusion"
	case SubsurfaceDipole:
		return "dipole_diffusion"
	case SubsurfaceRandomWalk:
		return "random_walk"
	default:
		return fmt.Sprintf("SubsurfaceType(%d)", int(t))
	}
}

// ParseSubsurfaceType parses a subsurface model name
func ParseSubsurfaceType(s string) (SubsurfaceType, error) {
	switch strings.ToLower(s) {
	case "none":
		return SubsurfaceNone, nil
	case "normalized_diffusion":
		return SubsurfaceNormalizedDiffusion, nil
	case "dipole", "dipole_diffusion":
		return SubsurfaceDipole, nil
	case "random_walk":
		return SubsurfaceRandomWalk, nil
	}
	return 0, fmt.Errorf("unknown subsurface type %q", s)
}

// BlendColorSpace is the space in which layered colors are interpolated
type BlendColorSpace int

const (
	BlendRGB BlendColorSpace = iota
	BlendHSV
	BlendHSL
)

func (c BlendColorSpace) String() string {
	switch c {
	case BlendRGB:
		return "rgb"
	case BlendHSV:
		return "hsv"
	case BlendHSL:
		return "hsl"
	default:
		return fmt.Sprintf("BlendColorSpace(%d)", int(c))
	}
}

// ParseBlendColorSpace parses a color space name
func ParseBlendColorSpace(s string) (BlendColorSpace, error) {
	switch strings.ToLower(s) {
	case "rgb":
		return BlendRGB, nil
	case "hsv":
		return BlendHSV, nil
	case "hsl":
		return BlendHSL, nil
	}
	return 0, fmt.Errorf("unknown color space %q", s)
}

// HairFresnelType selects how the fresnel term of hair lobes is computed
type HairFresnelType int

const (
	HairFresnelSimpleLongitudinal HairFresnelType = iota
	HairFresnelDielectricCylinder
	HairFresnelLayeredCuticles
)

func (t HairFresnelType) String() string {
	switch t {
	case HairFresnelSimpleLongitudinal:
		return "simple_longitudinal"
	case HairFresnelDielectricCylinder:
		return "dielectric_cylinder"
	case HairFresnelLayeredCuticles:
		return "layered_cuticles"
	default:
		return fmt.Sprintf("HairFresnelType(%d)", int(t))
	}
}

// ParseHairFresnelType parses a hair fresnel type name
func ParseHairFresnelType(s string) (HairFresnelType, error) {
	switch strings.ToLower(s) {
	case "simple_longitudinal":
		return HairFresnelSimpleLongitudinal, nil
	case "dielectric_cylinder":
		return HairFresnelDielectricCylinder, nil
	case "layered_cuticles":
		return HairFresnelLayeredCuticles, nil
	}
	return 0, fmt.Errorf("unknown hair fresnel type %q", s)
}

// IridescenceApplyTo selects the lobe iridescence modifies
type IridescenceApplyTo int

const (
	IridescencePrimarySpecular IridescenceApplyTo = iota
	IridescenceOuterSpecular
)

func (a IridescenceApplyTo) String() string {
	if a == IridescenceOuterSpecular {
		return "outer_specular"
	}
	return "primary_specular"
}

// AdjustOverride forces a boolean setting of the adjusted material
type AdjustOverride int

const (
	OverrideKeep AdjustOverride = iota
	OverrideTrue
	OverrideFalse
)

func (o AdjustOverride) String() string {
	switch o {
	case OverrideTrue:
		return "true"
	case OverrideFalse:
		return "false"
	default:
		return "keep"
	}
}

// Apply returns the overridden value of v
func (o AdjustOverride) Apply(v bool) bool {
	switch o {
	case OverrideTrue:
		return true
	case OverrideFalse:
		return false
	default:
		return v
	}
}

// ParseAdjustOverride parses keep, true or false
func ParseAdjustOverride(s string) (AdjustOverride, error) {
	switch strings.ToLower(s) {
	case "keep", "no_override", "":
		return OverrideKeep, nil
	case "true", "on":
		return OverrideTrue, nil
	case "false", "off":
		return OverrideFalse, nil
	}
	return 0, fmt.Errorf("unknown override %q", s)
}

// EmissionMode controls how adjusted emission is masked
type EmissionMode int

const (
	EmissionUnmasked EmissionMode = iota
	EmissionMasked
	EmissionOff
)

func (m EmissionMode) String() string {
	switch m {
	case EmissionMasked:
		return "masked"
	case EmissionOff:
		return "off"
	default:
		return "unmasked"
	}
}

// ParseEmissionMode parses unmasked, masked or off
func ParseEmissionMode(s string) (EmissionMode, error) {
	switch strings.ToLower(s) {
	case "unmasked":
		return EmissionUnmasked, nil
	case "masked":
		return EmissionMasked, nil
	case "off":
		return EmissionOff, nil
	}
	return 0, fmt.Errorf("unknown emission mode %q", s)
}

// MixInterpolation shapes the transition between adjacent Mix inputs
type MixInterpolation int

const (
	MixLinear MixInterpolation = iota
	MixHold
	MixNearest
	MixSmooth
)

func (m MixInterpolation) String() string {
	switch m {
	case MixHold:
		return "hold"
	case MixNearest:
		return "nearest"
	case MixSmooth:
		return "smooth"
	default:
		return "linear"
	}
}

// ParseMixInterpolation parses linear, hold, nearest or smooth
func ParseMixInterpolation(s string) (MixInterpolation, error) {
	switch strings.ToLower(s) {
	case "linear":
		return MixLinear, nil
	case "hold":
		return MixHold, nil
	case "nearest":
		return MixNearest, nil
	case "smooth":
		return MixSmooth, nil
	}
	return 0, fmt.Errorf("unknown mix interpolation %q", s)
}

// GlitterSpace is the space glitter flakes are distributed in
type GlitterSpace int

const (
	GlitterObjectSpace GlitterSpace = iota
	GlitterReferenceSpace
	GlitterWorldSpace
)

func (s GlitterSpace) String() string {
	switch s {
	case GlitterObjectSpace:
		return "object"
	case GlitterReferenceSpace:
		return "reference"
	case GlitterWorldSpace:
		return "world"
	default:
		return fmt.Sprintf("GlitterSpace(%d)", int(s))
	}
}

// ParseGlitterSpace parses object, reference or world
func ParseGlitterSpace(s string) (GlitterSpace, error) {
	switch strings.ToLower(s) {
	case "object":
		return GlitterObjectSpace, nil
	case "reference":
		return GlitterReferenceSpace, nil
	case "world":
		return GlitterWorldSpace, nil
	}
	return 0, fmt.Errorf("unknown glitter space %q", s)
}
