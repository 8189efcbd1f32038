package material

import (
	"fmt"

	"github.com/df07/go-layered-materials/pkg/core"
)

// GlitterSettings enable glitter flakes on a Base material
type GlitterSettings struct {
	Config  GlitterConfig
	Mask    FloatSource
	Varying GlitterVarying
}

// NewGlitterSettings returns full-mask glitter with default flakes
func NewGlitterSettings() *GlitterSettings {
	return &GlitterSettings{
		Config:  DefaultGlitterConfig(),
		Mask:    Constant(1),
		Varying: defaultGlitterVarying(),
	}
}

// Base is the general-purpose leaf material. Every lobe is off until its
// weight is set.
type Base struct {
	SceneObject

	SpecularModel           SpecularModel
	OuterSpecularModel      SpecularModel
	OuterSpecularUseBending bool
	Subsurface              SubsurfaceType
	ThinGeometry            bool
	PreventLightCulling     bool
	Caustics                bool
	LightSet                *LightSet
	TraceSet                *TraceSet

	Presence     FloatSource
	Albedo       ColorSource
	Emission     ColorSource
	Specular     FloatSource
	Roughness    FloatSource
	Metallic     FloatSource
	Transmission FloatSource

	RefractiveIndex     float64
	Anisotropy          float64
	ShadingTangent      core.Vec2
	MetallicColor       core.Vec3
	MetallicEdgeColor   core.Vec3
	DiffuseRoughness    float64
	ScatteringRadius    core.Vec3
	DiffuseTransmission core.Vec3

	Fuzz               FuzzParameters
	OuterSpecular      OuterSpecularParameters
	Iridescence        IridescenceParameters
	Fabric             FabricParameters
	TransmissionParams TransmissionParameters

	Glitter *GlitterSettings

	// ColorCorrections are pushed onto the correction stack of every
	// sample and applied by Shade
	ColorCorrections []ColorCorrection

	glitter *Glitter
}

// NewBase creates a base material with a white diffuse lobe
func NewBase(name string) *Base {
	white := core.NewVec3(1, 1, 1)
	return &Base{
		SceneObject:        newSceneObject(name),
		SpecularModel:      SpecularGGX,
		OuterSpecularModel: SpecularGGX,
		Subsurface:         SubsurfaceNone,
		Albedo:             NewSolidColor(white),
		RefractiveIndex:    1.5,
		MetallicColor:      white,
		MetallicEdgeColor:  white,
		OuterSpecular: OuterSpecularParameters{
			RefractiveIndex:  1.5,
			AttenuationColor: white,
			NormalLength:     1,
		},
		Fuzz: FuzzParameters{Albedo: white},
		Iridescence: IridescenceParameters{
			PrimaryColor:   white,
			SecondaryColor: white,
			Exponent:       1,
		},
		Fabric: FabricParameters{Tangent: core.NewVec3(1, 0, 0)},
		TransmissionParams: TransmissionParameters{
			Color:                      white,
			IndependentRefractiveIndex: 1.5,
		},
	}
}

// Update validates the configuration and builds the glitter tables
func (b *Base) Update() error {
	b.glitter = nil
	if b.Glitter == nil {
		return nil
	}
	g, err := NewGlitter(b.Glitter.Config)
	if err != nil {
		return b.fatal(fmt.Errorf("glitter: %w", err))
	}
	b.glitter = g
	return nil
}

// HasGlitter reports whether glitter was enabled at the last Update
func (b *Base) HasGlitter() bool {
	return b.glitter != nil
}

func (b *Base) CastsCaustics() bool {
	return b.Caustics
}

func (b *Base) SubsurfaceTraceSet() *TraceSet {
	return b.TraceSet
}

func (b *Base) ResolveUniformParameters(u *UniformParameters) {
	*u = UniformParameters{
		SpecularModel:           b.SpecularModel,
		OuterSpecularModel:      b.OuterSpecularModel,
		OuterSpecularUseBending: b.OuterSpecularUseBending,
		Subsurface:              b.Subsurface,
		ThinGeometry:            b.ThinGeometry,
		PreventLightCulling:     b.PreventLightCulling,
		LightSet:                b.LightSet,
	}
}

func (b *Base) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	InitParameters(p)

	p.Normal = state.N
	p.DiffuseNormal = state.N
	p.Emission = evalColor(b.Emission, state, core.Vec3{}).ClampMin(0)
	p.CastsCaustics = castsCaustics

	p.Specular = core.Saturate(evalFloat(b.Specular, state, 0))
	p.Roughness = core.Saturate(evalFloat(b.Roughness, state, 0))
	p.Anisotropy = b.Anisotropy
	p.ShadingTangent = b.ShadingTangent
	p.RefractiveIndex = b.RefractiveIndex

	p.Fuzz = b.Fuzz
	p.Fuzz.Normal = state.N
	p.OuterSpecular = b.OuterSpecular
	p.OuterSpecular.Normal = state.N
	p.Iridescence = b.Iridescence

	p.Metallic = core.Saturate(evalFloat(b.Metallic, state, 0))
	p.MetallicColor = b.MetallicColor
	p.MetallicEdgeColor = b.MetallicEdgeColor

	p.Fabric = b.Fabric
	p.FabricAttenuation = 1 - core.Saturate(b.Fabric.Specular)

	p.Transmission = b.TransmissionParams
	p.Transmission.Weight = core.Saturate(evalFloat(b.Transmission, state, 0))

	p.Diffuse = DiffuseParameters{
		Albedo:           evalColor(b.Albedo, state, core.Vec3{}).Clamp(0, 1),
		Roughness:        b.DiffuseRoughness,
		ScatteringRadius: b.ScatteringRadius,
		Transmission:     b.DiffuseTransmission,
	}

	if b.glitter != nil {
		p.GlitterVarying = b.Glitter.Varying
		p.GlitterVarying.Mask = core.Saturate(evalFloat(b.Glitter.Mask, state, 1))
		p.Glitter = b.glitter
	}

	for _, cc := range b.ColorCorrections {
		p.ColorCorrections.Push(cc)
	}
	p.SubsurfaceTraceSet = b.TraceSet
	p.SubsurfaceNormal = b
	return true
}

func (b *Base) ResolvePresence(state *core.State) float64 {
	return core.Saturate(evalFloat(b.Presence, state, 1))
}

func (b *Base) ResolveRefractiveIndex(state *core.State) float64 {
	return b.RefractiveIndex
}

func (b *Base) ResolveSubsurfaceNormal(state *core.State) core.Vec3 {
	return state.N
}

func (b *Base) ResolveSubsurfaceType(state *core.State) SubsurfaceType {
	return b.Subsurface
}

func (b *Base) ResolvePreventLightCulling(state *core.State) bool {
	return b.PreventLightCulling
}
