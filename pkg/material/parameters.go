package material

import "github.com/df07/go-layered-materials/pkg/core"

// UniformParameters is the per-material configuration fixed for a frame.
// It is written during Update and only read while shading.
type UniformParameters struct {
	SpecularModel           SpecularModel
	OuterSpecularModel      SpecularModel
	OuterSpecularUseBending bool
	Subsurface              SubsurfaceType
	ThinGeometry            bool
	PreventLightCulling     bool
	LightSet                *LightSet
}

// DefaultUniformParameters returns the uniform configuration of a material
// with every optional feature off
func DefaultUniformParameters() UniformParameters {
	return UniformParameters{
		SpecularModel:      SpecularGGX,
		OuterSpecularModel: SpecularGGX,
		Subsurface:         SubsurfaceNone,
	}
}

// Fallbacks resolve uniform choices two blended materials disagree on
type Fallbacks struct {
	SpecularModel           SpecularModel
	OuterSpecularModel      SpecularModel
	OuterSpecularUseBending bool
	Subsurface              SubsurfaceType
}

// DefaultFallbacks returns the fallbacks used when a combinator sets none
func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		SpecularModel:      SpecularGGX,
		OuterSpecularModel: SpecularGGX,
		Subsurface:         SubsurfaceNormalizedDiffusion,
	}
}

// FuzzParameters describe the velvet-like sheen lobe
type FuzzParameters struct {
	Weight             float64
	Roughness          float64
	Albedo             core.Vec3
	Normal             core.Vec3
	UseAbsorbingFibers bool
}

// OuterSpecularParameters describe the clearcoat lobe
type OuterSpecularParameters struct {
	Weight           float64
	RefractiveIndex  float64
	Roughness        float64
	Thickness        float64
	AttenuationColor core.Vec3
	Normal           core.Vec3
	NormalLength     float64
}

// IridescenceParameters describe thin-film coloring of a specular lobe
type IridescenceParameters struct {
	Weight           float64
	ApplyTo          IridescenceApplyTo
	PrimaryColor     core.Vec3
	SecondaryColor   core.Vec3
	FlipHueDirection bool
	Thickness        float64
	Exponent         float64
	At0              float64
	At90             float64
}

// FabricParameters describe the woven-thread specular lobe
type FabricParameters struct {
	Specular        float64
	Tangent         core.Vec3
	WarpColor       core.Vec3
	WarpRoughness   float64
	WeftColor       core.Vec3
	WeftRoughness   float64
	ThreadDirection core.Vec3
	ThreadElevation float64
	ThreadCoverage  float64
}

// TransmissionParameters describe refraction through the surface
type TransmissionParameters struct {
	Weight                        float64
	Color                         core.Vec3
	UseIndependentRefractiveIndex bool
	IndependentRefractiveIndex    float64
	UseIndependentRoughness       bool
	IndependentRoughness          float64
	DispersionAbbeNumber          float64
}

// DiffuseParameters describe the diffuse and subsurface lobes
type DiffuseParameters struct {
	Albedo           core.Vec3
	Roughness        float64
	ScatteringRadius core.Vec3
	Transmission     core.Vec3
}

// GlitterVarying are the per-sample glitter flake parameters
type GlitterVarying struct {
	Mask                  float64
	StyleFrequency        [2]float64
	FlakeColor            [2]core.Vec3
	FlakeSize             [2]float64
	FlakeRoughness        [2]float64
	HSVColorVariation     core.Vec3
	Density               float64
	Jitter                float64
	OrientationRandomness float64
	CompensateDeformation bool
	ApproximateForSecRays bool
}

// HairParameters describe the hair lobes
type HairParameters struct {
	Dir           core.Vec3
	Color         core.Vec3
	Weight        float64
	CastsCaustics bool
	UV            core.Vec2
	IOR           float64
	FresnelType   HairFresnelType

	CuticleLayerThickness float64
	UseOptimizedSampling  bool

	ShowR          bool
	RShift         float64
	RLongRoughness float64
	RTint          core.Vec3

	ShowTT          bool
	TTShift         float64
	TTLongRoughness float64
	TTAzimRoughness float64
	TTTint          core.Vec3
	TTSaturation    float64

	ShowTRT          bool
	TRTShift         float64
	TRTLongRoughness float64
	TRTTint          core.Vec3

	ShowGlint         bool
	GlintRoughness    float64
	GlintMinTwists    float64
	GlintMaxTwists    float64
	GlintEccentricity float64
	GlintSaturation   float64

	ShowTRRT          bool
	TRRTLongRoughness float64

	Diffuse                        float64
	DiffuseUseIndependentFrontBack bool
	DiffuseFrontColor              core.Vec3
	DiffuseBackColor               core.Vec3
	SubsurfaceBlend                float64
}

// Parameters is the resolved shading input of one sample
type Parameters struct {
	Normal        core.Vec3
	NormalLength  float64
	DiffuseNormal core.Vec3
	Emission      core.Vec3
	CastsCaustics bool

	Specular        float64
	Roughness       float64
	Anisotropy      float64
	ShadingTangent  core.Vec2
	RefractiveIndex float64

	Fuzz          FuzzParameters
	OuterSpecular OuterSpecularParameters
	Iridescence   IridescenceParameters

	Metallic          float64
	MetallicColor     core.Vec3
	MetallicEdgeColor core.Vec3

	Fabric            FabricParameters
	FabricAttenuation float64

	Transmission TransmissionParameters
	Diffuse      DiffuseParameters

	GlitterVarying GlitterVarying
	Glitter        *Glitter

	Hair HairParameters

	ColorCorrections   ColorCorrectionStack
	SubsurfaceTraceSet *TraceSet

	// SubsurfaceNormal is the outermost material able to answer subsurface
	// normal queries for this sample
	SubsurfaceNormal SubsurfaceNormalResolver
}

// InitParameters resets p to the state of a material with every lobe off
func InitParameters(p *Parameters) {
	white := core.NewVec3(1, 1, 1)
	*p = Parameters{
		NormalLength:    1,
		RefractiveIndex: 1.5,
		Fuzz: FuzzParameters{
			Albedo: white,
		},
		OuterSpecular: OuterSpecularParameters{
			RefractiveIndex:  1.5,
			AttenuationColor: white,
			NormalLength:     1,
		},
		Iridescence: IridescenceParameters{
			ApplyTo:        IridescencePrimarySpecular,
			PrimaryColor:   white,
			SecondaryColor: white,
			Exponent:       1,
		},
		MetallicColor:     white,
		MetallicEdgeColor: white,
		Fabric: FabricParameters{
			Tangent: core.NewVec3(1, 0, 0),
		},
		FabricAttenuation: 1,
		Transmission: TransmissionParameters{
			IndependentRefractiveIndex: 1.5,
		},
		GlitterVarying: defaultGlitterVarying(),
	}
	initHairParameters(&p.Hair)
}

func defaultGlitterVarying() GlitterVarying {
	white := core.NewVec3(1, 1, 1)
	return GlitterVarying{
		StyleFrequency:        [2]float64{1, 0},
		FlakeColor:            [2]core.Vec3{white, white},
		FlakeSize:             [2]float64{1, 1},
		FlakeRoughness:        [2]float64{0.14, 0.14},
		Density:               1,
		Jitter:                1,
		OrientationRandomness: 0.15,
		CompensateDeformation: true,
		ApproximateForSecRays: true,
	}
}

func initHairParameters(h *HairParameters) {
	white := core.NewVec3(1, 1, 1)
	*h = HairParameters{
		Color:                 white,
		IOR:                   1.45,
		FresnelType:           HairFresnelDielectricCylinder,
		CuticleLayerThickness: 0.1,
		UseOptimizedSampling:  true,

		ShowR:          true,
		RLongRoughness: 0.5,
		RTint:          white,

		ShowTT:          true,
		TTLongRoughness: 0.1,
		TTAzimRoughness: 1,
		TTTint:          white,
		TTSaturation:    1,

		ShowTRT:          true,
		TRTLongRoughness: 0.4,
		TRTTint:          white,

		GlintRoughness:    0.5,
		GlintMinTwists:    1.5,
		GlintMaxTwists:    1.5,
		GlintEccentricity: 0.85,
		GlintSaturation:   0.5,

		ShowTRRT:          true,
		TRRTLongRoughness: 2.0,

		DiffuseFrontColor: white,
		DiffuseBackColor:  white,
		SubsurfaceBlend:   1,
	}
}
