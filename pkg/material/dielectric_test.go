package material

import (
	"testing"
)

func TestDielectric_ResolvesTransmission(t *testing.T) {
	glass := NewDielectric("glass", 1.5)
	update(t, glass)

	p := resolve(t, glass, testState())
	if p.Transmission.Weight != 1 {
		t.Errorf("transmission: expected 1, got %v", p.Transmission.Weight)
	}
	if p.RefractiveIndex != 1.5 {
		t.Errorf("refractive index: expected 1.5, got %v", p.RefractiveIndex)
	}
	if !glass.CastsCaustics() || !p.CastsCaustics {
		t.Error("glass should cast caustics")
	}
	if got := glass.ResolveRefractiveIndex(testState()); got != 1.5 {
		t.Errorf("refractive index callback: expected 1.5, got %v", got)
	}
}

func TestReflectanceFunction(t *testing.T) {
	// Test Schlick's approximation - just verify reasonable behavior

	// Normal incidence (0°) - should be low for air->glass
	r0 := Reflectance(1.0, 1.0/1.5)
	if r0 < 0.03 || r0 > 0.06 {
		t.Errorf("Normal incidence reflectance = %.3f, expected ~0.04", r0)
	}

	// Grazing incidence (90°) - should be close to 1
	r90 := Reflectance(0.0, 1.0/1.5)
	if r90 < 0.95 {
		t.Errorf("Grazing incidence reflectance = %.3f, expected close to 1.0", r90)
	}

	// 45° incidence - should be between normal and grazing
	r45 := Reflectance(0.707, 1.0/1.5) // cos(45°) ≈ 0.707
	if r45 < r0 || r45 > 0.2 {
		t.Errorf("45° reflectance = %.3f, expected between %.3f and 0.2", r45, r0)
	}

	// Verify monotonic behavior: reflectance should increase as angle increases
	if r45 <= r0 || r90 <= r45 {
		t.Errorf("Reflectance should increase with angle: R(0°)=%.3f, R(45°)=%.3f, R(90°)=%.3f", r0, r45, r90)
	}
}
