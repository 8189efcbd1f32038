package scene

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/loaders"
	"github.com/df07/go-layered-materials/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildScene(t *testing.T, content string) *Scene {
	t.Helper()
	desc, err := loaders.ParseDescription(strings.NewReader(content))
	require.NoError(t, err)
	s, err := NewSceneFromDescription(desc, t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Update())
	return s
}

func resolveRoot(t *testing.T, s *Scene) material.Parameters {
	t.Helper()
	m, err := s.Material("")
	require.NoError(t, err)
	state := s.NewState(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec2(0.5, 0.5))
	p, _, ok := material.Resolve(m, state)
	require.True(t, ok)
	return p
}

func TestBuild_RedOverBlue(t *testing.T) {
	s := buildScene(t, `
Material "base" "string name" "red" "rgb albedo" [1 0 0]
Material "base" "string name" "blue" "color albedo" "blue"
Material "layer" "string name" "top" "material material_A" "red" "material material_B" "blue" "float mask" 0.5
Root "top"
`)
	p := resolveRoot(t, s)
	assert.True(t, p.Diffuse.Albedo.Equals(core.NewVec3(0.5, 0, 0.5), 1e-9), "got %v", p.Diffuse.Albedo)
}

func TestBuild_ForwardReferences(t *testing.T) {
	s := buildScene(t, `
Material "layer" "string name" "top" "material material_A" "red" "material material_B" "blue" "float mask" 1
Material "lambertian" "string name" "red" "rgb albedo" [1 0 0]
Material "lambertian" "string name" "blue" "rgb albedo" [0 0 1]
Root "top"
`)
	p := resolveRoot(t, s)
	assert.Equal(t, core.NewVec3(1, 0, 0), p.Diffuse.Albedo)
}

func TestBuild_RootDefaultsToLastMaterial(t *testing.T) {
	s := buildScene(t, `
Material "lambertian" "string name" "a"
Material "lambertian" "string name" "b"
`)
	assert.Equal(t, "b", s.Root())
}

func TestBuild_AttributeSources(t *testing.T) {
	s := buildScene(t, `
Material "layer"
    "string name" "top"
    "material material_A" "red"
    "material material_B" "blue"
    "attribute mask" "blend"
Material "lambertian" "string name" "red" "rgb albedo" [1 0 0]
Material "lambertian" "string name" "blue" "rgb albedo" [0 0 1]
Attribute "float blend" 0.25 "rgb tint" [1 1 0]
Root "top"
`)
	assert.Equal(t, 0.25, s.Floats["blend"])
	assert.Equal(t, core.NewVec3(1, 1, 0), s.Colors["tint"])

	p := resolveRoot(t, s)
	assert.True(t, p.Diffuse.Albedo.Equals(core.NewVec3(0.25, 0, 0.75), 1e-9), "got %v", p.Diffuse.Albedo)
}

func TestBuild_Sets(t *testing.T) {
	s := buildScene(t, `
LightSet "key" "string lights" ["sun"]
TraceSet "skin" "string geometry" ["head" "hands"]
Material "base" "string name" "a" "string light_set" "key" "string trace_set" "skin"
`)
	obj, ok := s.Lookup("a")
	require.True(t, ok)
	b := obj.(*material.Base)
	require.NotNil(t, b.LightSet)
	assert.Equal(t, []string{"sun"}, b.LightSet.Lights)
	require.NotNil(t, b.TraceSet)
	assert.Equal(t, []string{"head", "hands"}, b.TraceSet.Geometry)
}

func TestBuild_EveryCombinator(t *testing.T) {
	s := buildScene(t, `
Material "lambertian" "string name" "a" "rgb albedo" [0.8 0.2 0.2]
Material "metal" "string name" "b" "float roughness" 0.2
Material "hair" "string name" "h1" "rgb color" [0.2 0.1 0.05]
Material "hair" "string name" "h2" "string fresnel_type" "layered_cuticles"
Material "layer" "string name" "layer" "material material_A" "a" "material material_B" "b" "string color_space" "hsv"
Material "hair_layer" "string name" "hair_layer" "material material_A" "h1" "material material_B" "h2"
Material "switch" "string name" "switch" "material material_0" "a" "material material_1" "layer" "integer choice" 1
Material "two_sided" "string name" "two_sided" "material front" "switch" "material back" "b"
Material "color_correct" "string name" "cc" "material input" "two_sided" "float gain" 2 "bool deferred" "true"
Material "hair_color_correct" "string name" "hcc" "material input" "hair_layer"
Material "mix" "string name" "mix" "material material_0" "a" "material material_1" "b" "material material_2" "cc" "float mix" 0.5 "string interpolation" "smooth"
Material "adjust" "string name" "adjust" "material input" "mix" "bool enable_specular" "true" "string override_thin_geometry" "on"
Root "adjust"
`)
	for _, name := range s.MaterialNames() {
		m, err := s.Material(name)
		require.NoError(t, err)
		state := s.NewState(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec2(0, 0))
		_, _, ok := material.Resolve(m, state)
		assert.True(t, ok, name)
	}

	obj, _ := s.Lookup("mix")
	assert.Equal(t, material.MixSmooth, obj.(*material.Mix).Interpolation)
	obj, _ = s.Lookup("h2")
	assert.Equal(t, material.HairFresnelLayeredCuticles, obj.(*material.Hair).Lobes.FresnelType)
	obj, _ = s.Lookup("h1")
	assert.Equal(t, material.HairFresnelDielectricCylinder, obj.(*material.Hair).Lobes.FresnelType)
	obj, _ = s.Lookup("hair_layer")
	assert.True(t, obj.(*material.HairLayer).FresnelMismatch())
}

func TestBuild_Textures(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, "white.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	desc, err := loaders.ParseDescription(strings.NewReader(`
Texture "image" "string name" "white" "string filename" "white.png"
Texture "checkerboard" "string name" "check" "color color1" "black" "color color2" "white" "integer size" 8
Material "base" "string name" "img" "texture albedo" "white"
Material "base" "string name" "lum" "texture presence" "white"
Material "base" "string name" "chk" "texture albedo" "check"
`))
	require.NoError(t, err)
	s, err := NewSceneFromDescription(desc, dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.Update())

	m, err := s.Material("img")
	require.NoError(t, err)
	p, _, ok := material.Resolve(m, s.NewState(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec2(0.5, 0.5)))
	require.True(t, ok)
	assert.True(t, p.Diffuse.Albedo.Equals(core.NewVec3(1, 1, 1), 1e-6), "got %v", p.Diffuse.Albedo)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown material type", `Material "plastic" "string name" "a"`, "unknown material type"},
		{"duplicate name", "Material \"base\" \"string name\" \"a\"\nMaterial \"base\" \"string name\" \"a\"", "duplicate"},
		{"unknown reference", `Material "layer" "string name" "l" "material material_A" "nope"`, "unknown object"},
		{"bad enum", `Material "layer" "string name" "l" "string color_space" "cmyk"`, "unknown color space"},
		{"unknown texture", `Material "base" "string name" "a" "texture albedo" "nope"`, "unknown texture"},
		{"unknown light set", `Material "base" "string name" "a" "string light_set" "nope"`, "unknown object"},
		{"wrong set kind", "TraceSet \"t\"\nMaterial \"base\" \"string name\" \"a\" \"string light_set\" \"t\"", "not a light set"},
		{"bad float source", `Material "base" "string name" "a" "rgb presence" [1 1 1]`, "unsupported float source"},
		{"unknown root", "Material \"base\" \"string name\" \"a\"\nRoot \"b\"", "root"},
		{"missing image", `Texture "image" "string name" "t" "string filename" "missing.png"`, "failed to open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := loaders.ParseDescription(strings.NewReader(tt.content))
			require.NoError(t, err)
			_, err = NewSceneFromDescription(desc, t.TempDir(), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScene_ExampleFiles(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.mtl"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			s, err := LoadScene(file, nil)
			require.NoError(t, err)
			require.NoError(t, s.Update())
			assert.NotEmpty(t, s.Name)
			resolveRoot(t, s)
		})
	}
}
