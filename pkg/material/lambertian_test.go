package material

import (
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
)

func TestLambertian_ResolvesAlbedo(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.8, 0.8)
	lambertian := NewLambertian("diffuse", albedo)
	update(t, lambertian)

	p := resolve(t, lambertian, testState())
	if !p.Diffuse.Albedo.Equals(albedo, 1e-12) {
		t.Errorf("albedo: expected %v, got %v", albedo, p.Diffuse.Albedo)
	}
	if p.Specular != 0 || p.Metallic != 0 || p.Transmission.Weight != 0 {
		t.Errorf("only the diffuse lobe should be on: specular %v metallic %v transmission %v",
			p.Specular, p.Metallic, p.Transmission.Weight)
	}
	if p.SubsurfaceNormal != lambertian {
		t.Error("a leaf answers its own subsurface normal queries")
	}
}

func TestLambertian_EnergyConservation(t *testing.T) {
	// Albedo above one is clamped so the lobe cannot add energy
	lambertian := NewLambertian("hot", core.NewVec3(1.5, 0.5, -0.2))
	update(t, lambertian)

	p := resolve(t, lambertian, testState())
	expected := core.NewVec3(1, 0.5, 0)
	if !p.Diffuse.Albedo.Equals(expected, 1e-12) {
		t.Errorf("albedo: expected %v, got %v", expected, p.Diffuse.Albedo)
	}
}

func TestTexturedLambertian_SamplesAtStateUV(t *testing.T) {
	tex := NewImageTexture(2, 1, []core.Vec3{core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1)})
	lambertian := NewTexturedLambertian("textured", tex)
	update(t, lambertian)

	state := testState()
	state.UV = core.NewVec2(0.75, 0.5)
	p := resolve(t, lambertian, state)
	if !p.Diffuse.Albedo.Equals(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("albedo: expected blue, got %v", p.Diffuse.Albedo)
	}
}
