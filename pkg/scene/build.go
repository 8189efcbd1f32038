package scene

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/loaders"
	"github.com/df07/go-layered-materials/pkg/material"
)

// LoadScene loads a scene description file and builds its scene. Textures
// are resolved relative to the file's directory.
func LoadScene(path string, logger core.Logger) (*Scene, error) {
	desc, err := loaders.LoadDescription(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene description: %w", err)
	}

	info, err := ParseSceneMetadata(path)
	if err != nil {
		return nil, err
	}

	s, err := NewSceneFromDescription(desc, filepath.Dir(path), logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Name = info.Name
	s.Description = info.Description
	return s, nil
}

// builder converts description statements into scene objects
type builder struct {
	scene    *Scene
	baseDir  string
	textures map[string]material.ColorSource
	links    []func() error
}

// NewSceneFromDescription creates the scene objects of desc. Material
// references may point forward; they are bound once every material exists.
func NewSceneFromDescription(desc *loaders.Description, baseDir string, logger core.Logger) (*Scene, error) {
	b := &builder{
		scene:    New("", logger),
		baseDir:  baseDir,
		textures: make(map[string]material.ColorSource),
	}

	for i := range desc.LightSets {
		stmt := &desc.LightSets[i]
		lights := stmt.GetStringsParam("lights")
		if err := b.scene.Add(material.NewLightSet(stmt.Subtype, lights...)); err != nil {
			return nil, stmtError(stmt, err)
		}
	}
	for i := range desc.TraceSets {
		stmt := &desc.TraceSets[i]
		geometry := stmt.GetStringsParam("geometry")
		if err := b.scene.Add(material.NewTraceSet(stmt.Subtype, geometry...)); err != nil {
			return nil, stmtError(stmt, err)
		}
	}
	for i := range desc.Textures {
		if err := b.convertTexture(&desc.Textures[i]); err != nil {
			return nil, stmtError(&desc.Textures[i], err)
		}
	}
	for i := range desc.Materials {
		stmt := &desc.Materials[i]
		obj, err := b.convertMaterial(stmt)
		if err != nil {
			return nil, stmtError(stmt, err)
		}
		if err := b.scene.Add(obj); err != nil {
			return nil, stmtError(stmt, err)
		}
	}
	for _, link := range b.links {
		if err := link(); err != nil {
			return nil, err
		}
	}
	for i := range desc.Attributes {
		if err := b.convertAttribute(&desc.Attributes[i]); err != nil {
			return nil, stmtError(&desc.Attributes[i], err)
		}
	}

	if desc.Root != "" {
		if err := b.scene.SetRoot(desc.Root); err != nil {
			return nil, err
		}
	} else if len(desc.Materials) > 0 {
		name, _ := desc.Materials[len(desc.Materials)-1].GetStringParam("name")
		b.scene.root = name
	}
	return b.scene, nil
}

func stmtError(stmt *loaders.Statement, err error) error {
	return fmt.Errorf("line %d: %s %q: %w", stmt.Line, stmt.Type, stmt.Subtype, err)
}

func (b *builder) convertTexture(stmt *loaders.Statement) error {
	name, _ := stmt.GetStringParam("name")

	if stmt.Subtype == "image" {
		filename, ok := stmt.GetStringParam("filename")
		if !ok {
			return fmt.Errorf("image texture %s needs a filename", name)
		}
		if !filepath.IsAbs(filename) {
			filename = filepath.Join(b.baseDir, filename)
		}
		img, err := loaders.LoadImage(filename)
		if err != nil {
			return err
		}
		b.textures[name] = material.NewImageTexture(img.Width, img.Height, img.Pixels)
		return nil
	}

	color1, color2 := core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1)
	var err error
	if stmt.Has("color1") {
		if color1, err = stmt.GetColorParam("color1"); err != nil {
			return err
		}
	}
	if stmt.Has("color2") {
		if color2, err = stmt.GetColorParam("color2"); err != nil {
			return err
		}
	}
	size := 64
	if v, ok := stmt.GetIntParam("size"); ok {
		size = v
	}
	tex, err := material.NewProceduralTexture(stmt.Subtype, size, color1, color2)
	if err != nil {
		return err
	}
	b.textures[name] = tex
	return nil
}

func (b *builder) convertAttribute(stmt *loaders.Statement) error {
	for name, param := range stmt.Parameters {
		switch param.Type {
		case "float":
			v, ok := stmt.GetFloatParam(name)
			if !ok {
				return fmt.Errorf("attribute %s: invalid float %v", name, param.Values)
			}
			b.scene.Floats[name] = v
		case "rgb", "color":
			c, err := stmt.GetColorParam(name)
			if err != nil {
				return fmt.Errorf("attribute %s: %w", name, err)
			}
			b.scene.Colors[name] = c
		default:
			return fmt.Errorf("attribute %s: unsupported type %s", name, param.Type)
		}
	}
	return nil
}

// ref binds the material named by parameter param once all materials exist
func (b *builder) ref(stmt *loaders.Statement, param string, set func(material.Object)) {
	name, ok := stmt.GetStringParam(param)
	if !ok {
		return
	}
	b.links = append(b.links, func() error {
		obj, ok := b.scene.Lookup(name)
		if !ok {
			return stmtError(stmt, fmt.Errorf("%s: %w: %q", param, ErrUnknownObject, name))
		}
		set(obj)
		return nil
	})
}

// slots binds material_0 ... material_N into materials
func (b *builder) slots(stmt *loaders.Statement, materials []material.Object) {
	for i := range materials {
		i := i
		b.ref(stmt, "material_"+strconv.Itoa(i), func(o material.Object) { materials[i] = o })
	}
}

func (b *builder) lightSet(stmt *loaders.Statement, param string) (*material.LightSet, error) {
	name, ok := stmt.GetStringParam(param)
	if !ok {
		return nil, nil
	}
	obj, ok := b.scene.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", param, ErrUnknownObject, name)
	}
	ls, ok := obj.(*material.LightSet)
	if !ok {
		return nil, fmt.Errorf("%s: %q is not a light set", param, name)
	}
	return ls, nil
}

func (b *builder) traceSet(stmt *loaders.Statement, param string) (*material.TraceSet, error) {
	name, ok := stmt.GetStringParam(param)
	if !ok {
		return nil, nil
	}
	obj, ok := b.scene.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", param, ErrUnknownObject, name)
	}
	ts, ok := obj.(*material.TraceSet)
	if !ok {
		return nil, fmt.Errorf("%s: %q is not a trace set", param, name)
	}
	return ts, nil
}

// floatSource reads a float parameter given as a number, a geometry
// attribute name or a texture whose luminance drives the value
func (b *builder) floatSource(stmt *loaders.Statement, name string) (material.FloatSource, error) {
	param := stmt.Parameters[name]
	switch param.Type {
	case "float":
		v, ok := stmt.GetFloatParam(name)
		if !ok {
			return nil, fmt.Errorf("%s: invalid float %v", name, param.Values)
		}
		return material.Constant(v), nil
	case "attribute":
		attr, _ := stmt.GetStringParam(name)
		return &material.AttributeFloat{Name: attr}, nil
	case "texture":
		tex, err := b.texture(stmt, name)
		if err != nil {
			return nil, err
		}
		return &material.LuminanceFloat{Source: tex}, nil
	}
	return nil, fmt.Errorf("%s: unsupported float source type %s", name, param.Type)
}

// colorSource reads a color parameter given as rgb values, a color name, a
// geometry attribute name or a texture
func (b *builder) colorSource(stmt *loaders.Statement, name string) (material.ColorSource, error) {
	param := stmt.Parameters[name]
	switch param.Type {
	case "rgb", "color":
		c, err := stmt.GetColorParam(name)
		if err != nil {
			return nil, err
		}
		return material.NewSolidColor(c), nil
	case "attribute":
		attr, _ := stmt.GetStringParam(name)
		return &material.AttributeColor{Name: attr}, nil
	case "texture":
		return b.texture(stmt, name)
	}
	return nil, fmt.Errorf("%s: unsupported color source type %s", name, param.Type)
}

func (b *builder) texture(stmt *loaders.Statement, name string) (material.ColorSource, error) {
	texName, _ := stmt.GetStringParam(name)
	tex, ok := b.textures[texName]
	if !ok {
		return nil, fmt.Errorf("%s: unknown texture %q", name, texName)
	}
	return tex, nil
}

// params applies the optional parameters of a statement through typed
// setters, stopping at the first error
type params struct {
	b    *builder
	stmt *loaders.Statement
	err  error
}

func (p *params) float(name string, dst *float64) {
	if p.err != nil || !p.stmt.Has(name) {
		return
	}
	v, ok := p.stmt.GetFloatParam(name)
	if !ok {
		p.err = fmt.Errorf("%s: invalid float", name)
		return
	}
	*dst = v
}

func (p *params) integer(name string, dst *int) {
	if p.err != nil || !p.stmt.Has(name) {
		return
	}
	v, ok := p.stmt.GetIntParam(name)
	if !ok {
		p.err = fmt.Errorf("%s: invalid integer", name)
		return
	}
	*dst = v
}

func (p *params) boolean(name string, dst *bool) {
	if p.err != nil || !p.stmt.Has(name) {
		return
	}
	v, ok := p.stmt.GetBoolParam(name)
	if !ok {
		p.err = fmt.Errorf("%s: invalid bool", name)
		return
	}
	*dst = v
}

func (p *params) color(name string, dst *core.Vec3) {
	if p.err != nil || !p.stmt.Has(name) {
		return
	}
	*dst, p.err = p.stmt.GetColorParam(name)
}

func (p *params) floatSource(name string, dst *material.FloatSource) {
	if p.err != nil || !p.stmt.Has(name) {
		return
	}
	*dst, p.err = p.b.floatSource(p.stmt, name)
}

func (p *params) colorSource(name string, dst *material.ColorSource) {
	if p.err != nil || !p.stmt.Has(name) {
		return
	}
	*dst, p.err = p.b.colorSource(p.stmt, name)
}

// enum parses a string parameter with parse
func enum[T any](p *params, name string, dst *T, parse func(string) (T, error)) {
	if p.err != nil || !p.stmt.Has(name) {
		return
	}
	s, _ := p.stmt.GetStringParam(name)
	v, err := parse(s)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
		return
	}
	*dst = v
}

func (p *params) lightSet(name string, dst **material.LightSet) {
	if p.err != nil || !p.stmt.Has(name) {
		return
	}
	*dst, p.err = p.b.lightSet(p.stmt, name)
}

func (p *params) traceSet(name string, dst **material.TraceSet) {
	if p.err != nil || !p.stmt.Has(name) {
		return
	}
	*dst, p.err = p.b.traceSet(p.stmt, name)
}

func (p *params) fallbacks(fb *material.Fallbacks) {
	enum(p, "fallback_specular_model", &fb.SpecularModel, material.ParseSpecularModel)
	enum(p, "fallback_outer_specular_model", &fb.OuterSpecularModel, material.ParseSpecularModel)
	p.boolean("fallback_outer_specular_use_bending", &fb.OuterSpecularUseBending)
	enum(p, "fallback_subsurface", &fb.Subsurface, material.ParseSubsurfaceType)
}

func (p *params) glitterConfig(cfg *material.GlitterConfig) {
	p.integer("glitter_seed", &cfg.Seed)
	enum(p, "glitter_space", &cfg.Space, material.ParseGlitterSpace)
	p.float("glitter_randomness", &cfg.Randomness)
	p.float("glitter_lod_quality", &cfg.LODQuality)
	p.float("glitter_search_radius", &cfg.SearchRadius)
}

// convertMaterial creates the material of one statement. References to
// other materials are queued on b.links.
func (b *builder) convertMaterial(stmt *loaders.Statement) (material.Object, error) {
	name, _ := stmt.GetStringParam("name")
	p := &params{b: b, stmt: stmt}

	var obj material.Object
	switch stmt.Subtype {
	case "base", "lambertian", "metal", "dielectric", "emissive":
		obj = b.convertBase(p, name)
	case "hair":
		obj = b.convertHair(p, name)
	case "layer":
		l := material.NewLayer(name, nil, nil, 0)
		p.floatSource("mask", &l.Mask)
		enum(p, "color_space", &l.ColorSpace, material.ParseBlendColorSpace)
		p.fallbacks(&l.Fallbacks)
		p.glitterConfig(&l.Glitter)
		p.traceSet("trace_set", &l.TraceSet)
		b.ref(stmt, "material_A", func(o material.Object) { l.MaterialA = o })
		b.ref(stmt, "material_B", func(o material.Object) { l.MaterialB = o })
		obj = l
	case "hair_layer":
		l := material.NewHairLayer(name, nil, nil, 0)
		p.floatSource("mask", &l.Mask)
		enum(p, "color_space", &l.ColorSpace, material.ParseBlendColorSpace)
		p.fallbacks(&l.Fallbacks)
		p.traceSet("trace_set", &l.TraceSet)
		b.ref(stmt, "material_A", func(o material.Object) { l.MaterialA = o })
		b.ref(stmt, "material_B", func(o material.Object) { l.MaterialB = o })
		obj = l
	case "switch":
		s := material.NewSwitch(name, 0)
		p.integer("choice", &s.Choice)
		b.slots(stmt, s.Materials[:])
		obj = s
	case "two_sided":
		t := material.NewTwoSided(name, nil, nil)
		p.fallbacks(&t.Fallbacks)
		p.traceSet("trace_set", &t.TraceSet)
		b.ref(stmt, "front", func(o material.Object) { t.Front = o })
		b.ref(stmt, "back", func(o material.Object) { t.Back = o })
		obj = t
	case "color_correct":
		c := material.NewColorCorrect(name, nil)
		b.convertColorCorrect(p, c)
		obj = c
	case "hair_color_correct":
		c := material.NewHairColorCorrect(name, nil)
		b.convertColorCorrect(p, &c.ColorCorrect)
		obj = c
	case "mix":
		m := material.NewMix(name, 0)
		p.floatSource("mix", &m.Mix)
		enum(p, "interpolation", &m.Interpolation, material.ParseMixInterpolation)
		p.boolean("remap_mix_to_inputs", &m.RemapMixToInputs)
		enum(p, "color_space", &m.ColorSpace, material.ParseBlendColorSpace)
		p.fallbacks(&m.Fallbacks)
		p.glitterConfig(&m.Glitter)
		p.traceSet("trace_set", &m.TraceSet)
		b.slots(stmt, m.Materials[:])
		obj = m
	case "adjust":
		a := material.NewAdjust(name, nil)
		p.boolean("on", &a.On)
		p.floatSource("mix", &a.Mix)
		enum(p, "override_thin_geometry", &a.OverrideThinGeometry, material.ParseAdjustOverride)
		enum(p, "override_casts_caustics", &a.OverrideCastsCaustics, material.ParseAdjustOverride)
		p.boolean("enable_specular", &a.EnableSpecular)
		p.boolean("enable_roughness", &a.EnableRoughness)
		p.boolean("enable_presence", &a.EnablePresence)
		p.boolean("enable_color", &a.EnableColor)
		p.boolean("disable_clearcoat", &a.DisableClearcoat)
		p.boolean("disable_specular", &a.DisableSpecular)
		p.boolean("disable_diffuse", &a.DisableDiffuse)
		p.colorSource("emission", &a.Emission)
		enum(p, "emission_mode", &a.EmissionMode, material.ParseEmissionMode)
		b.ref(stmt, "input", func(o material.Object) { a.Input = o })
		obj = a
	default:
		return nil, fmt.Errorf("unknown material type %q", stmt.Subtype)
	}

	if p.err != nil {
		return nil, p.err
	}
	return obj, nil
}

func (b *builder) convertColorCorrect(p *params, c *material.ColorCorrect) {
	p.boolean("on", &c.On)
	p.floatSource("mix", &c.Mix)
	p.floatSource("hue_shift", &c.HueShift)
	p.floatSource("saturation", &c.Saturation)
	p.floatSource("gain", &c.Gain)
	p.boolean("tmi_enabled", &c.TMIEnabled)
	p.color("tmi", &c.TMI)
	p.boolean("deferred", &c.Deferred)
	b.ref(p.stmt, "input", func(o material.Object) { c.Input = o })
}

func (b *builder) convertBase(p *params, name string) *material.Base {
	var m *material.Base
	switch p.stmt.Subtype {
	case "lambertian":
		m = material.NewLambertian(name, core.NewVec3(0.5, 0.5, 0.5))
	case "metal":
		roughness := 0.0
		p.float("roughness", &roughness)
		m = material.NewMetal(name, core.NewVec3(0.9, 0.9, 0.9), roughness)
	case "dielectric":
		ior := 1.5
		p.float("ior", &ior)
		m = material.NewDielectric(name, ior)
	case "emissive":
		m = material.NewEmissive(name, core.NewVec3(1, 1, 1))
	default:
		m = material.NewBase(name)
	}

	enum(p, "specular_model", &m.SpecularModel, material.ParseSpecularModel)
	enum(p, "outer_specular_model", &m.OuterSpecularModel, material.ParseSpecularModel)
	p.boolean("outer_specular_use_bending", &m.OuterSpecularUseBending)
	enum(p, "subsurface", &m.Subsurface, material.ParseSubsurfaceType)
	p.boolean("thin_geometry", &m.ThinGeometry)
	p.boolean("prevent_light_culling", &m.PreventLightCulling)
	p.boolean("caustics", &m.Caustics)
	p.lightSet("light_set", &m.LightSet)
	p.traceSet("trace_set", &m.TraceSet)

	p.floatSource("presence", &m.Presence)
	p.colorSource("albedo", &m.Albedo)
	p.colorSource("emission", &m.Emission)
	p.floatSource("specular", &m.Specular)
	p.floatSource("roughness", &m.Roughness)
	p.floatSource("metallic", &m.Metallic)
	p.floatSource("transmission", &m.Transmission)

	p.float("ior", &m.RefractiveIndex)
	p.float("anisotropy", &m.Anisotropy)
	p.color("metallic_color", &m.MetallicColor)
	p.color("metallic_edge_color", &m.MetallicEdgeColor)
	p.float("diffuse_roughness", &m.DiffuseRoughness)
	p.color("scattering_radius", &m.ScatteringRadius)
	p.color("diffuse_transmission", &m.DiffuseTransmission)

	p.float("fuzz_weight", &m.Fuzz.Weight)
	p.float("fuzz_roughness", &m.Fuzz.Roughness)
	p.color("fuzz_albedo", &m.Fuzz.Albedo)
	p.float("coat_weight", &m.OuterSpecular.Weight)
	p.float("coat_roughness", &m.OuterSpecular.Roughness)
	p.float("coat_ior", &m.OuterSpecular.RefractiveIndex)
	p.color("coat_attenuation_color", &m.OuterSpecular.AttenuationColor)

	glitter := false
	p.boolean("glitter", &glitter)
	if glitter {
		settings := material.NewGlitterSettings()
		p.glitterConfig(&settings.Config)
		p.floatSource("glitter_mask", &settings.Mask)
		p.float("glitter_density", &settings.Varying.Density)
		p.float("glitter_flake_size", &settings.Varying.FlakeSize[0])
		p.color("glitter_flake_color", &settings.Varying.FlakeColor[0])
		m.Glitter = settings
	}
	return m
}

func (b *builder) convertHair(p *params, name string) *material.Hair {
	h := material.NewHair(name, core.NewVec3(0.3, 0.2, 0.1))
	p.boolean("caustics", &h.Caustics)
	p.boolean("prevent_light_culling", &h.PreventLightCulling)
	p.lightSet("light_set", &h.LightSet)
	p.traceSet("trace_set", &h.TraceSet)
	p.floatSource("presence", &h.Presence)
	p.colorSource("color", &h.Color)
	p.colorSource("emission", &h.Emission)
	p.color("scattering_radius", &h.ScatteringRadius)
	p.float("ior", &h.Lobes.IOR)
	enum(p, "fresnel_type", &h.Lobes.FresnelType, material.ParseHairFresnelType)
	p.float("weight", &h.Lobes.Weight)
	p.float("diffuse", &h.Lobes.Diffuse)
	p.color("diffuse_front_color", &h.Lobes.DiffuseFrontColor)
	p.color("diffuse_back_color", &h.Lobes.DiffuseBackColor)
	p.boolean("show_glint", &h.Lobes.ShowGlint)
	p.float("glint_min_twists", &h.Lobes.GlintMinTwists)
	p.float("glint_max_twists", &h.Lobes.GlintMaxTwists)
	return h
}
