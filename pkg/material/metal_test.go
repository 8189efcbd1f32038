package material

import (
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
)

func TestNewMetal_RoughnessClamp(t *testing.T) {
	tests := []struct {
		name      string
		roughness float64
		expected  float64
	}{
		{"Negative roughness", -0.5, 0.0},
		{"Zero roughness", 0.0, 0.0},
		{"Valid roughness", 0.5, 0.5},
		{"Max roughness", 1.0, 1.0},
		{"Excessive roughness", 1.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal("metal", core.NewVec3(0.8, 0.8, 0.8), tt.roughness)
			update(t, metal)
			p := resolve(t, metal, testState())
			if p.Roughness != tt.expected {
				t.Errorf("Expected roughness %f, got %f", tt.expected, p.Roughness)
			}
		})
	}
}

func TestMetal_ResolvesMetallicLobe(t *testing.T) {
	gold := core.NewVec3(1, 0.8, 0.3)
	metal := NewMetal("gold", gold, 0.2)
	update(t, metal)

	p := resolve(t, metal, testState())
	if p.Metallic != 1 {
		t.Errorf("metallic: expected 1, got %v", p.Metallic)
	}
	if !p.MetallicColor.Equals(gold, 1e-12) || !p.MetallicEdgeColor.Equals(gold, 1e-12) {
		t.Errorf("metallic colors: expected %v, got %v / %v", gold, p.MetallicColor, p.MetallicEdgeColor)
	}
	if !p.Diffuse.Albedo.IsBlack() {
		t.Errorf("metal should have no diffuse albedo, got %v", p.Diffuse.Albedo)
	}
}
