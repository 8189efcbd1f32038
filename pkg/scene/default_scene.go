package scene

import (
	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/material"
)

// NewDefaultScene creates a red base layered over a blue base by a
// checkerboard mask, brightened by a color correction
func NewDefaultScene(logger core.Logger) (*Scene, error) {
	s := New("Layered Materials", logger)

	checker, err := material.NewProceduralTexture("checkerboard", 256, core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))
	if err != nil {
		return nil, err
	}

	red := material.NewLambertian("red", core.NewVec3(0.8, 0.1, 0.1))
	red.Specular = material.Constant(0.5)
	red.Roughness = material.Constant(0.3)

	blue := material.NewMetal("blue", core.NewVec3(0.1, 0.2, 0.8), 0.2)

	layer := material.NewLayer("checker_layer", red, blue, 0)
	layer.Mask = &material.LuminanceFloat{Source: checker}

	cc := material.NewColorCorrect("brighten", layer)
	cc.Gain = material.Constant(1.2)
	cc.Saturation = material.Constant(1.1)

	if err := s.Add(red, blue, layer, cc); err != nil {
		return nil, err
	}
	if err := s.SetRoot(cc.Name()); err != nil {
		return nil, err
	}
	return s, nil
}

// NewGlitterScene mixes three glitter bases. The mix owns one flake table
// shared by all of its inputs.
func NewGlitterScene(logger core.Logger) (*Scene, error) {
	s := New("Glitter Mix", logger)

	colors := []core.Vec3{
		core.NewVec3(0.9, 0.75, 0.3),
		core.NewVec3(0.8, 0.2, 0.5),
		core.NewVec3(0.3, 0.6, 0.9),
	}
	names := []string{"gold_glitter", "pink_glitter", "blue_glitter"}

	var inputs []material.Object
	for i, c := range colors {
		b := material.NewMetal(names[i], c, 0.35)
		b.Glitter = material.NewGlitterSettings()
		b.Glitter.Config.Seed = i + 1
		b.Glitter.Varying.FlakeColor[0] = c
		b.Glitter.Varying.Density = 0.6
		inputs = append(inputs, b)
		if err := s.Add(b); err != nil {
			return nil, err
		}
	}

	mix := material.NewMix("glitter_mix", 0, inputs...)
	mix.Mix = &material.AttributeFloat{Name: "glitter_mix", Default: 0.5}
	mix.Interpolation = material.MixSmooth
	mix.RemapMixToInputs = true
	mix.Glitter.Seed = 7

	if err := s.Add(mix); err != nil {
		return nil, err
	}
	s.Floats["glitter_mix"] = 0.5
	if err := s.SetRoot(mix.Name()); err != nil {
		return nil, err
	}
	return s, nil
}

// NewHairScene blends a dark and a blonde hair through a hair layer with a
// hair color correction on top
func NewHairScene(logger core.Logger) (*Scene, error) {
	s := New("Hair Layer", logger)

	dark := material.NewHair("dark_hair", core.NewVec3(0.1, 0.06, 0.04))
	blonde := material.NewHair("blonde_hair", core.NewVec3(0.85, 0.7, 0.45))
	blonde.Lobes.ShowGlint = true

	layer := material.NewHairLayer("hair_blend", dark, blonde, 0.3)
	cc := material.NewHairColorCorrect("hair_tint", layer)
	cc.HueShift = material.Constant(0.02)

	if err := s.Add(dark, blonde, layer, cc); err != nil {
		return nil, err
	}
	if err := s.SetRoot(cc.Name()); err != nil {
		return nil, err
	}
	return s, nil
}
