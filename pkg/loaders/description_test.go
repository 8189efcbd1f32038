package loaders

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const layeredDescription = `# Name: Red over blue
# Description: Two bases blended at half mask

Material "base" "string name" "red" "rgb albedo" [1 0 0]
Material "base" "string name" "blue" "color albedo" "blue"
Material "layer"
    "string name" "top"
    "material material_A" "red"
    "material material_B" "blue"
    "float mask" 0.5
LightSet "key" "string lights" ["sun" "fill"]
Attribute "float specular_mult" 0.5
Root "top"
`

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "subtype only",
			input:    `Root "top"`,
			expected: []string{`Root`, `"top"`},
		},
		{
			name:     "statement with parameters",
			input:    `Material "base" "float roughness" 0.4`,
			expected: []string{`Material`, `"base"`, `"float roughness"`, `0.4`},
		},
		{
			name:     "statement with array",
			input:    `Material "base" "rgb albedo" [0.7 0.3 0.1]`,
			expected: []string{`Material`, `"base"`, `"rgb albedo"`, `[0.7 0.3 0.1]`},
		},
		{
			name:     "quoted strings inside an array",
			input:    `LightSet "key" "string lights" ["sun" "fill"]`,
			expected: []string{`LightSet`, `"key"`, `"string lights"`, `["sun" "fill"]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenize(tt.input))
		})
	}
}

func TestParseStatement(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedType  string
		expectedSub   string
		expectedParam string
		expectedValue []string
	}{
		{
			name:          "material with rgb",
			input:         `Material "base" "rgb albedo" [0.7 0.3 0.1]`,
			expectedType:  "Material",
			expectedSub:   "base",
			expectedParam: "albedo",
			expectedValue: []string{"0.7", "0.3", "0.1"},
		},
		{
			name:          "attribute has no subtype",
			input:         `Attribute "float specular_mult" 0.5`,
			expectedType:  "Attribute",
			expectedSub:   "",
			expectedParam: "specular_mult",
			expectedValue: []string{"0.5"},
		},
		{
			name:          "material reference",
			input:         `Material "layer" "material material_A" "red"`,
			expectedType:  "Material",
			expectedSub:   "layer",
			expectedParam: "material_A",
			expectedValue: []string{"red"},
		},
		{
			name:          "string array",
			input:         `TraceSet "skin" "string geometry" ["head" "hands"]`,
			expectedType:  "TraceSet",
			expectedSub:   "skin",
			expectedParam: "geometry",
			expectedValue: []string{"head", "hands"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parseStatement(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedType, stmt.Type)
			assert.Equal(t, tt.expectedSub, stmt.Subtype)
			require.True(t, stmt.Has(tt.expectedParam))
			assert.Equal(t, tt.expectedValue, stmt.Parameters[tt.expectedParam].Values)
		})
	}
}

func TestParseStatement_Errors(t *testing.T) {
	for _, input := range []string{
		`Material`,
		`Material "base" "float roughness"`,
		`Material "base" "float" 0.4`,
		`Material "base" 0.4`,
	} {
		_, err := parseStatement(input)
		assert.Error(t, err, input)
	}
}

func TestParseDescription(t *testing.T) {
	desc, err := ParseDescription(strings.NewReader(layeredDescription))
	require.NoError(t, err)

	require.Len(t, desc.Materials, 3)
	assert.Len(t, desc.LightSets, 1)
	assert.Len(t, desc.Attributes, 1)
	assert.Equal(t, "top", desc.Root)

	layer := desc.Materials[2]
	assert.Equal(t, "layer", layer.Subtype)
	assert.Equal(t, 6, layer.Line, "multi-line statements report their first line")
	mask, ok := layer.GetFloatParam("mask")
	assert.True(t, ok)
	assert.Equal(t, 0.5, mask)
	ref, _ := layer.GetStringParam("material_A")
	assert.Equal(t, "red", ref)
	assert.Equal(t, "material", layer.ParamType("material_B"))

	assert.Equal(t, []string{"sun", "fill"}, desc.LightSets[0].GetStringsParam("lights"))
}

func TestParseDescription_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"continuation without statement", "    \"float mask\" 0.5", "line 1: unexpected continuation"},
		{"material without name", `Material "base" "float roughness" 0.5`, "has no name"},
		{"attribute without parameters", `Attribute "x"`, "has no parameters"},
		{"bad parameter on a later line", "Material \"base\" \"string name\" \"a\"\n\nMaterial \"base\" 0.5", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescription(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetColorParam(t *testing.T) {
	stmt, err := parseStatement(`Material "base" "rgb a" [0.1 0.2 0.3] "color b" "Orange" "color c" "nosuchcolor" "float d" 1 "rgb e" [1 2]`)
	require.NoError(t, err)

	c, err := stmt.GetColorParam("a")
	require.NoError(t, err)
	assert.Equal(t, core.NewVec3(0.1, 0.2, 0.3), c)

	c, err = stmt.GetColorParam("b")
	require.NoError(t, err)
	assert.True(t, c.Equals(core.NewVec3(1, 165.0/255, 0), 1e-12), "got %v", c)

	for _, name := range []string{"c", "d", "e", "missing"} {
		_, err = stmt.GetColorParam(name)
		assert.Error(t, err, name)
	}
}

func TestTypedGetters(t *testing.T) {
	stmt, err := parseStatement(`Material "mix" "integer seed" 7 "bool on" "true" "bool bad" "maybe" "integer frac" 1.5`)
	require.NoError(t, err)

	seed, ok := stmt.GetIntParam("seed")
	assert.True(t, ok)
	assert.Equal(t, 7, seed)

	on, ok := stmt.GetBoolParam("on")
	assert.True(t, ok)
	assert.True(t, on)

	_, ok = stmt.GetBoolParam("bad")
	assert.False(t, ok)
	_, ok = stmt.GetIntParam("frac")
	assert.False(t, ok)
	_, ok = stmt.GetFloatParam("missing")
	assert.False(t, ok)
}

func TestValidateFilePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"scenes/layered.mtl", false},
		{"scenes/layered.mtl.gz", false},
		{"../scenes/layered.mtl", false},
		{filepath.Join(os.TempDir(), "x.mtl"), false},
		{"", true},
		{"/etc/passwd", true},
		{"scenes/layered.pbrt", true},
		{"scenes/a\x00.mtl", true},
		{"scenes/" + strings.Repeat("a", 600) + ".mtl", true},
	}

	for _, tt := range tests {
		err := ValidateFilePath(tt.path)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidPath, "path %q", tt.path)
		} else {
			assert.NoError(t, err, "path %q", tt.path)
		}
	}
}

func TestLoadDescription_Gzip(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "layered.mtl")
	require.NoError(t, os.WriteFile(plain, []byte(layeredDescription), 0o644))

	compressed := filepath.Join(dir, "layered.mtl.gz")
	f, err := os.Create(compressed)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(layeredDescription))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	a, err := LoadDescription(plain)
	require.NoError(t, err)
	b, err := LoadDescription(compressed)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	r, err := OpenDescription(compressed)
	require.NoError(t, err)
	defer r.Close()
	buf := make([]byte, 7)
	_, err = io.ReadFull(r, buf)
	require.NoError(t, err)
	assert.Equal(t, "# Name:", string(buf))
}

func TestLoadDescription_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mtl.gz")
	require.NoError(t, os.WriteFile(path, []byte(layeredDescription), 0o644))

	_, err := LoadDescription(path)
	assert.Error(t, err)
}
