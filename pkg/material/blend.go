package material

import (
	"math"

	"github.com/df07/go-layered-materials/pkg/core"
)

// BlendContext is what a two-input combinator hands to BlendParameters
type BlendContext struct {
	Background *Handle // B, shown where the mask is 0
	Foreground *Handle // A, shown where the mask is 1
	Mask       float64
	ColorSpace BlendColorSpace

	// Glitter is the combinator's shared glitter, required when both
	// children have glitter
	Glitter *Glitter

	// Self is written into the subsurface normal slot of every result
	Self SubsurfaceNormalResolver
}

// ColorSpaceLerp interpolates two colors in the given space
func ColorSpaceLerp(c0, c1 core.Vec3, t float64, space BlendColorSpace) core.Vec3 {
	switch space {
	case BlendHSV:
		return core.HSVToRGB(core.LerpVec3(core.RGBToHSV(c0), core.RGBToHSV(c1), t))
	case BlendHSL:
		return core.HSLToRGB(core.LerpVec3(core.RGBToHSL(c0), core.RGBToHSL(c1), t))
	default:
		return core.LerpVec3(c0, c1, t)
	}
}

func safeNormalize2(v core.Vec2) core.Vec2 {
	l := math.Sqrt(v.X*v.X + v.Y*v.Y)
	if l < core.Epsilon {
		return v
	}
	return core.Vec2{X: v.X / l, Y: v.Y / l}
}

// resolveSingle resolves one child on a passthrough path. A shared glitter
// replaces the child's own.
func resolveSingle(h *Handle, state *core.State, castsCaustics bool, p *Parameters, glitter *Glitter) bool {
	if !h.ResolveParameters(state, castsCaustics, p) {
		return false
	}
	if glitter != nil && h.HasGlitter() {
		p.Glitter = glitter
	}
	return true
}

// BlendParameters resolves both children of ctx and writes lerp(B, A, mask)
// into p. Mask 0 and 1 resolve a single child. A feature group is only
// interpolated when both children use it, otherwise the side that uses it
// is copied.
func BlendParameters(state *core.State, castsCaustics bool, p *Parameters, ctx BlendContext) bool {
	b, a := ctx.Background, ctx.Foreground
	if b == nil {
		return false
	}
	mask := core.Saturate(ctx.Mask)
	if b.HasGlitter() && a.HasGlitter() && ctx.Glitter == nil {
		return false
	}

	var ok bool
	switch {
	case a == nil, core.IsZero(mask):
		ok = resolveSingle(b, state, castsCaustics, p, ctx.Glitter)
	case core.IsOne(mask):
		ok = resolveSingle(a, state, castsCaustics, p, ctx.Glitter)
	default:
		var p0, p1 Parameters
		if !b.ResolveParameters(state, castsCaustics, &p0) || !a.ResolveParameters(state, castsCaustics, &p1) {
			return false
		}
		blendSurface(ctx.ColorSpace, mask, ctx.Glitter, &p0, &p1, p)
		ok = true
	}
	if !ok {
		return false
	}
	if ctx.Self != nil {
		p.SubsurfaceNormal = ctx.Self
	}
	return true
}

// blendSurface writes the blend of p0 (mask 0) and p1 (mask 1) into p
func blendSurface(space BlendColorSpace, mask float64, glitter *Glitter, p0, p1, p *Parameters) {
	InitParameters(p)

	blendGlitter(space, mask, glitter, p0, p1, p)
	blendCommon(space, mask, p0, p1, p)
	blendFuzz(space, mask, p0, p1, p)
	blendOuterSpecular(space, mask, p0, p1, p)
	blendCommonSpecular(mask, p0, p1, p)
	blendIridescence(space, mask, p0, p1, p)
	blendMetallic(space, mask, p0, p1, p)

	// Transmission, diffuse and refractive index read the blended attenuation
	p.FabricAttenuation = core.Lerp(p0.FabricAttenuation, p1.FabricAttenuation, mask)

	blendFabric(space, mask, p0, p1, p)
	blendRefractiveIndex(mask, p0, p1, p)
	blendTransmission(space, mask, p0, p1, p)
	blendDiffuse(space, mask, p0, p1, p)

	p.ColorCorrections = p0.ColorCorrections
	p.ColorCorrections.Append(&p1.ColorCorrections)

	p.SubsurfaceTraceSet = p1.SubsurfaceTraceSet
	if p.SubsurfaceTraceSet == nil {
		p.SubsurfaceTraceSet = p0.SubsurfaceTraceSet
	}
}

func blendCommon(space BlendColorSpace, mask float64, p0, p1, p *Parameters) {
	p.DiffuseNormal = core.LerpVec3(p0.DiffuseNormal, p1.DiffuseNormal, mask).SafeNormalize()
	p.Normal = core.LerpVec3(p0.Normal, p1.Normal, mask).SafeNormalize()
	p.NormalLength = core.Lerp(p0.NormalLength, p1.NormalLength, mask)
	p.Emission = ColorSpaceLerp(p0.Emission, p1.Emission, mask, space)
	p.CastsCaustics = p0.CastsCaustics || p1.CastsCaustics
}

func blendFuzz(space BlendColorSpace, mask float64, p0, p1, p *Parameters) {
	f0, f1 := &p0.Fuzz, &p1.Fuzz
	p.Fuzz.Weight = core.Lerp(f0.Weight, f1.Weight, mask)
	if core.IsZero(p.Fuzz.Weight) {
		return
	}
	switch {
	case !core.IsZero(f0.Weight) && !core.IsZero(f1.Weight):
		p.Fuzz.Roughness = core.Lerp(f0.Roughness, f1.Roughness, mask)
		p.Fuzz.Albedo = ColorSpaceLerp(f0.Albedo, f1.Albedo, mask, space)
		p.Fuzz.Normal = core.LerpVec3(f0.Normal, f1.Normal, mask).SafeNormalize()
		p.Fuzz.UseAbsorbingFibers = f0.UseAbsorbingFibers || f1.UseAbsorbingFibers
	case !core.IsZero(f1.Weight):
		copyFuzz(f1, &p.Fuzz)
	default:
		copyFuzz(f0, &p.Fuzz)
	}
}

func copyFuzz(src, dst *FuzzParameters) {
	weight := dst.Weight
	*dst = *src
	dst.Weight = weight
}

func blendOuterSpecular(space BlendColorSpace, mask float64, p0, p1, p *Parameters) {
	o0, o1 := &p0.OuterSpecular, &p1.OuterSpecular
	o := &p.OuterSpecular
	o.Weight = core.Lerp(o0.Weight, o1.Weight, mask)
	if core.IsZero(o.Weight) {
		return
	}
	switch {
	case !core.IsZero(o0.Weight) && !core.IsZero(o1.Weight):
		o.RefractiveIndex = core.Lerp(o0.RefractiveIndex, o1.RefractiveIndex, mask)
		o.Roughness = core.Lerp(o0.Roughness, o1.Roughness, mask)
		o.Thickness = core.Lerp(o0.Thickness, o1.Thickness, mask)
		o.AttenuationColor = ColorSpaceLerp(o0.AttenuationColor, o1.AttenuationColor, mask, space)
		o.Normal = core.LerpVec3(o0.Normal, o1.Normal, mask).SafeNormalize()
		o.NormalLength = core.Lerp(o0.NormalLength, o1.NormalLength, mask)
	case !core.IsZero(o1.Weight):
		copyOuterSpecular(o1, o)
	default:
		copyOuterSpecular(o0, o)
	}
}

func copyOuterSpecular(src, dst *OuterSpecularParameters) {
	weight := dst.Weight
	*dst = *src
	dst.Weight = weight
}

func blendGlitter(space BlendColorSpace, mask float64, glitter *Glitter, p0, p1, p *Parameters) {
	v0, v1 := &p0.GlitterVarying, &p1.GlitterVarying
	v := &p.GlitterVarying
	v.Mask = core.Lerp(v0.Mask, v1.Mask, mask)
	if core.IsZero(v.Mask) {
		return
	}

	switch {
	case !core.IsZero(v0.Mask) && !core.IsZero(v1.Mask):
		if glitter == nil {
			return
		}
		p.Glitter = glitter
		for i := 0; i < 2; i++ {
			v.StyleFrequency[i] = core.Lerp(v0.StyleFrequency[i], v1.StyleFrequency[i], mask)
			v.FlakeColor[i] = ColorSpaceLerp(v0.FlakeColor[i], v1.FlakeColor[i], mask, space)
			v.FlakeSize[i] = core.Lerp(v0.FlakeSize[i], v1.FlakeSize[i], mask)
			v.FlakeRoughness[i] = core.Lerp(v0.FlakeRoughness[i], v1.FlakeRoughness[i], mask)
		}
		v.HSVColorVariation = core.LerpVec3(v0.HSVColorVariation, v1.HSVColorVariation, mask)
		v.Density = core.Lerp(v0.Density, v1.Density, mask)
		v.Jitter = core.Lerp(v0.Jitter, v1.Jitter, mask)
		v.OrientationRandomness = core.Lerp(v0.OrientationRandomness, v1.OrientationRandomness, mask)
		v.CompensateDeformation = v0.CompensateDeformation || v1.CompensateDeformation
		v.ApproximateForSecRays = v0.ApproximateForSecRays || v1.ApproximateForSecRays
	case !core.IsZero(v0.Mask):
		if p.Glitter = p0.Glitter; glitter != nil {
			p.Glitter = glitter
		}
		if p.Glitter == nil {
			return
		}
		copyGlitterVarying(v0, v)
	default:
		if p.Glitter = p1.Glitter; glitter != nil {
			p.Glitter = glitter
		}
		if p.Glitter == nil {
			return
		}
		copyGlitterVarying(v1, v)
	}
}

func copyGlitterVarying(src, dst *GlitterVarying) {
	m := dst.Mask
	*dst = *src
	dst.Mask = m
}

func blendCommonSpecular(mask float64, p0, p1, p *Parameters) {
	p.Specular = core.Lerp(p0.Specular, p1.Specular, mask)
	if core.IsZero(p.Specular) {
		return
	}
	switch {
	case !core.IsZero(p0.Specular) && !core.IsZero(p1.Specular):
		p.Roughness = core.Lerp(p0.Roughness, p1.Roughness, mask)
		switch {
		case !core.IsZero(p0.Anisotropy) && !core.IsZero(p1.Anisotropy):
			p.Anisotropy = core.Lerp(p0.Anisotropy, p1.Anisotropy, mask)
			p.ShadingTangent = safeNormalize2(core.LerpVec2(p0.ShadingTangent, p1.ShadingTangent, mask))
		case !core.IsZero(p1.Anisotropy):
			p.Anisotropy = p1.Anisotropy * mask
			p.ShadingTangent = p1.ShadingTangent
		case !core.IsZero(p0.Anisotropy):
			p.Anisotropy = p0.Anisotropy * (1 - mask)
			p.ShadingTangent = p0.ShadingTangent
		}
	case !core.IsZero(p1.Specular):
		p.Roughness = p1.Roughness
		p.Anisotropy = p1.Anisotropy
		p.ShadingTangent = p1.ShadingTangent
	default:
		p.Roughness = p0.Roughness
		p.Anisotropy = p0.Anisotropy
		p.ShadingTangent = p0.ShadingTangent
	}
}

func blendIridescence(space BlendColorSpace, mask float64, p0, p1, p *Parameters) {
	if core.IsZero(p.Specular) {
		return
	}
	i0, i1 := &p0.Iridescence, &p1.Iridescence
	ir := &p.Iridescence
	ir.Weight = core.Lerp(i0.Weight, i1.Weight, mask)
	if core.IsZero(ir.Weight) {
		return
	}
	switch {
	case !core.IsZero(i0.Weight) && !core.IsZero(i1.Weight):
		// Mixed targets apply to the outer specular lobe
		if i0.ApplyTo != i1.ApplyTo {
			ir.ApplyTo = IridescenceOuterSpecular
		} else {
			ir.ApplyTo = i1.ApplyTo
		}
		ir.PrimaryColor = ColorSpaceLerp(i0.PrimaryColor, i1.PrimaryColor, mask, space)
		ir.SecondaryColor = ColorSpaceLerp(i0.SecondaryColor, i1.SecondaryColor, mask, space)
		if mask >= 0.5 {
			ir.FlipHueDirection = i1.FlipHueDirection
		} else {
			ir.FlipHueDirection = i0.FlipHueDirection
		}
		ir.Thickness = core.Lerp(i0.Thickness, i1.Thickness, mask)
		ir.Exponent = core.Lerp(i0.Exponent, i1.Exponent, mask)
		ir.At0 = core.Lerp(i0.At0, i1.At0, mask)
		ir.At90 = core.Lerp(i0.At90, i1.At90, mask)
	case !core.IsZero(i0.Weight):
		copyIridescence(i0, ir)
	default:
		copyIridescence(i1, ir)
	}
}

func copyIridescence(src, dst *IridescenceParameters) {
	w := dst.Weight
	*dst = *src
	dst.Weight = w
}

func blendMetallic(space BlendColorSpace, mask float64, p0, p1, p *Parameters) {
	if core.IsZero(p.Specular) {
		return
	}
	p.Metallic = core.Lerp(p0.Metallic, p1.Metallic, mask)
	if core.IsZero(p.Metallic) {
		return
	}
	switch {
	case !core.IsZero(p0.Metallic) && !core.IsZero(p1.Metallic):
		p.MetallicColor = ColorSpaceLerp(p0.MetallicColor, p1.MetallicColor, mask, space)
		p.MetallicEdgeColor = ColorSpaceLerp(p0.MetallicEdgeColor, p1.MetallicEdgeColor, mask, space)
	case !core.IsZero(p0.Metallic):
		p.MetallicColor = p0.MetallicColor
		p.MetallicEdgeColor = p0.MetallicEdgeColor
	default:
		p.MetallicColor = p1.MetallicColor
		p.MetallicEdgeColor = p1.MetallicEdgeColor
	}
}

func blendFabric(space BlendColorSpace, mask float64, p0, p1, p *Parameters) {
	if core.IsOne(p.Metallic) {
		return
	}
	f0, f1 := &p0.Fabric, &p1.Fabric
	f := &p.Fabric
	f.Specular = core.Lerp(f0.Specular, f1.Specular, mask)
	if core.IsZero(f.Specular) {
		return
	}
	switch {
	case !core.IsZero(f0.Specular) && !core.IsZero(f1.Specular):
		f.WarpColor = ColorSpaceLerp(f0.WarpColor, f1.WarpColor, mask, space)
		f.WarpRoughness = core.Lerp(f0.WarpRoughness, f1.WarpRoughness, mask)
		f.Tangent = core.LerpVec3(f0.Tangent, f1.Tangent, mask)
		f.WeftColor = ColorSpaceLerp(f0.WeftColor, f1.WeftColor, mask, space)
		f.WeftRoughness = core.Lerp(f0.WeftRoughness, f1.WeftRoughness, mask)
		f.ThreadDirection = core.LerpVec3(f0.ThreadDirection, f1.ThreadDirection, mask).SafeNormalize()
		f.ThreadElevation = core.Lerp(f0.ThreadElevation, f1.ThreadElevation, mask)
		f.ThreadCoverage = core.Lerp(f0.ThreadCoverage, f1.ThreadCoverage, mask)
	case !core.IsZero(f0.Specular):
		copyFabric(f0, f)
	default:
		copyFabric(f1, f)
	}
}

func copyFabric(src, dst *FabricParameters) {
	s := dst.Specular
	*dst = *src
	dst.Specular = s
}

func usesRefractiveIndex(p *Parameters) bool {
	return !core.IsOne(p.Metallic) &&
		(!core.IsZero(p.Specular) || !core.IsZero(p.Transmission.Weight)) &&
		!core.IsOne(p.Fabric.Specular)
}

func blendRefractiveIndex(mask float64, p0, p1, p *Parameters) {
	if core.IsZero(p0.FabricAttenuation) && core.IsZero(p1.FabricAttenuation) {
		return
	}
	uses0, uses1 := usesRefractiveIndex(p0), usesRefractiveIndex(p1)
	switch {
	case uses0 && uses1:
		p.RefractiveIndex = core.Lerp(p0.RefractiveIndex, p1.RefractiveIndex, mask)
	case uses1:
		p.RefractiveIndex = p1.RefractiveIndex
	case uses0:
		p.RefractiveIndex = p0.RefractiveIndex
	}
}

func blendTransmission(space BlendColorSpace, mask float64, p0, p1, p *Parameters) {
	if core.IsOne(p.Metallic) || core.IsZero(p.FabricAttenuation) {
		return
	}
	t0, t1 := &p0.Transmission, &p1.Transmission
	t := &p.Transmission
	t.Weight = core.Lerp(t0.Weight, t1.Weight, mask)
	if core.IsZero(t.Weight) {
		return
	}

	has0, has1 := !core.IsZero(t0.Weight), !core.IsZero(t1.Weight)
	switch {
	case has0 && has1:
		t.Color = ColorSpaceLerp(t0.Color, t1.Color, mask, space)
	case has0:
		t.Color = t0.Color
	default:
		t.Color = t1.Color
	}

	// A side without its own transmission IOR contributes its specular IOR,
	// unless it does not transmit at all
	switch {
	case t0.UseIndependentRefractiveIndex && t1.UseIndependentRefractiveIndex:
		t.UseIndependentRefractiveIndex = true
		t.IndependentRefractiveIndex = core.Lerp(t0.IndependentRefractiveIndex, t1.IndependentRefractiveIndex, mask)
	case t0.UseIndependentRefractiveIndex:
		t.UseIndependentRefractiveIndex = true
		if !has1 {
			t.IndependentRefractiveIndex = t0.IndependentRefractiveIndex
		} else {
			t.IndependentRefractiveIndex = core.Lerp(t0.IndependentRefractiveIndex, p1.RefractiveIndex, mask)
		}
	case t1.UseIndependentRefractiveIndex:
		t.UseIndependentRefractiveIndex = true
		if !has0 {
			t.IndependentRefractiveIndex = t1.IndependentRefractiveIndex
		} else {
			t.IndependentRefractiveIndex = core.Lerp(p0.RefractiveIndex, t1.IndependentRefractiveIndex, mask)
		}
	default:
		t.UseIndependentRefractiveIndex = false
	}

	switch {
	case t0.UseIndependentRoughness && t1.UseIndependentRoughness:
		t.UseIndependentRoughness = true
		t.IndependentRoughness = core.Lerp(t0.IndependentRoughness, t1.IndependentRoughness, mask)
	case t0.UseIndependentRoughness:
		t.UseIndependentRoughness = true
		if !has1 {
			t.IndependentRoughness = t0.IndependentRoughness
		} else {
			t.IndependentRoughness = core.Lerp(t0.IndependentRoughness, p1.Roughness, mask)
		}
	case t1.UseIndependentRoughness:
		t.UseIndependentRoughness = true
		if !has0 {
			t.IndependentRoughness = t1.IndependentRoughness
		} else {
			t.IndependentRoughness = core.Lerp(p0.Roughness, t1.IndependentRoughness, mask)
		}
	default:
		t.UseIndependentRoughness = false
	}

	switch {
	case !core.IsZero(t0.DispersionAbbeNumber) && !core.IsZero(t1.DispersionAbbeNumber):
		t.DispersionAbbeNumber = core.Lerp(t0.DispersionAbbeNumber, t1.DispersionAbbeNumber, mask)
	case !core.IsZero(t0.DispersionAbbeNumber):
		t.DispersionAbbeNumber = t0.DispersionAbbeNumber
	case !core.IsZero(t1.DispersionAbbeNumber):
		t.DispersionAbbeNumber = t1.DispersionAbbeNumber
	}
}

func blendDiffuse(space BlendColorSpace, mask float64, p0, p1, p *Parameters) {
	d0, d1 := &p0.Diffuse, &p1.Diffuse
	d := &p.Diffuse
	has0, has1 := !d0.Albedo.IsBlack(), !d1.Albedo.IsBlack()
	blocked := core.IsOne(p.Metallic) || core.IsZero(p.FabricAttenuation) || core.IsOne(p.Transmission.Weight)
	if blocked || (!has0 && !has1) {
		return
	}

	d.Albedo = ColorSpaceLerp(d0.Albedo, d1.Albedo, mask, space)
	d.Transmission = core.LerpVec3(d0.Transmission, d1.Transmission, mask)
	switch {
	case has0 && has1:
		d.ScatteringRadius = ColorSpaceLerp(d0.ScatteringRadius, d1.ScatteringRadius, mask, space)
		d.Roughness = core.Lerp(d0.Roughness, d1.Roughness, mask)
	case has1:
		d.ScatteringRadius = d1.ScatteringRadius
		d.Roughness = d1.Roughness
	default:
		d.ScatteringRadius = d0.ScatteringRadius
		d.Roughness = d0.Roughness
	}
}

// BlendPresence returns lerp(B, A, mask) of the children's presence
func BlendPresence(state *core.State, b, a *Handle, mask float64) float64 {
	if b == nil {
		return 1
	}
	if a == nil {
		return b.ResolvePresence(state)
	}
	mask = core.Saturate(mask)
	switch {
	case core.IsZero(mask):
		return b.ResolvePresence(state)
	case core.IsOne(mask):
		return a.ResolvePresence(state)
	}
	return core.Lerp(b.ResolvePresence(state), a.ResolvePresence(state), mask)
}

// BlendRefractiveIndexOf returns lerp(B, A, mask) of the children's
// refractive index
func BlendRefractiveIndexOf(state *core.State, b, a *Handle, mask float64) float64 {
	if b == nil {
		return 1
	}
	if a == nil {
		return b.ResolveRefractiveIndex(state)
	}
	mask = core.Saturate(mask)
	switch {
	case core.IsZero(mask):
		return b.ResolveRefractiveIndex(state)
	case core.IsOne(mask):
		return a.ResolveRefractiveIndex(state)
	}
	return core.Lerp(b.ResolveRefractiveIndex(state), a.ResolveRefractiveIndex(state), mask)
}

// BlendSubsurfaceNormal returns the normalized blend of the children's
// subsurface normals. A missing child contributes the state normal.
func BlendSubsurfaceNormal(state *core.State, b, a *Handle, mask float64) core.Vec3 {
	mask = core.Saturate(mask)
	switch {
	case core.IsZero(mask):
		return b.ResolveSubsurfaceNormal(state)
	case core.IsOne(mask):
		return a.ResolveSubsurfaceNormal(state)
	}
	n0 := b.ResolveSubsurfaceNormal(state)
	n1 := a.ResolveSubsurfaceNormal(state)
	return core.LerpVec3(n0, n1, mask).SafeNormalize()
}
