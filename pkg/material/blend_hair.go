package material

import "github.com/df07/go-layered-materials/pkg/core"

// BlendHairParameters is BlendParameters for hair materials. Children whose
// hair lobes disagree on the fresnel type are blended with A's fresnel type.
func BlendHairParameters(state *core.State, castsCaustics bool, p *Parameters, ctx BlendContext) bool {
	b, a := ctx.Background, ctx.Foreground
	if b == nil {
		return false
	}
	mask := core.Saturate(ctx.Mask)

	var ok bool
	switch {
	case a == nil, core.IsZero(mask):
		ok = b.ResolveParameters(state, castsCaustics, p)
	case core.IsOne(mask):
		ok = a.ResolveParameters(state, castsCaustics, p)
	default:
		var p0, p1 Parameters
		if !b.ResolveParameters(state, castsCaustics, &p0) || !a.ResolveParameters(state, castsCaustics, &p1) {
			return false
		}
		blendHair(ctx.ColorSpace, mask, &p0, &p1, p)
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

func blendHair(space BlendColorSpace, mask float64, p0, p1, p *Parameters) {
	InitParameters(p)

	p.Emission = ColorSpaceLerp(p0.Emission, p1.Emission, mask, space)
	p.CastsCaustics = p0.CastsCaustics || p1.CastsCaustics

	h0, h1 := &p0.Hair, &p1.Hair
	h := &p.Hair
	h.CastsCaustics = h0.CastsCaustics || h1.CastsCaustics
	// Both sides shade the same curve
	h.Dir = h1.Dir

	blendHairSpecular(space, mask, h0, h1, h)
	blendHairDiffuse(space, mask, p0, p1, p)

	p.ColorCorrections = p0.ColorCorrections
	p.ColorCorrections.Append(&p1.ColorCorrections)
}

func copyHairR(src, dst *HairParameters) {
	dst.ShowR = src.ShowR
	dst.RShift = src.RShift
	dst.RLongRoughness = src.RLongRoughness
	dst.RTint = src.RTint
}

func copyHairTT(src, dst *HairParameters) {
	dst.ShowTT = src.ShowTT
	dst.TTShift = src.TTShift
	dst.TTLongRoughness = src.TTLongRoughness
	dst.TTAzimRoughness = src.TTAzimRoughness
	dst.TTTint = src.TTTint
	dst.TTSaturation = src.TTSaturation
}

func copyHairTRT(src, dst *HairParameters) {
	dst.ShowTRT = src.ShowTRT
	dst.TRTShift = src.TRTShift
	dst.TRTLongRoughness = src.TRTLongRoughness
	dst.TRTTint = src.TRTTint
}

func copyHairGlint(src, dst *HairParameters) {
	dst.ShowGlint = src.ShowGlint
	dst.GlintRoughness = src.GlintRoughness
	dst.GlintMinTwists = src.GlintMinTwists
	dst.GlintMaxTwists = src.GlintMaxTwists
	dst.GlintEccentricity = src.GlintEccentricity
	dst.GlintSaturation = src.GlintSaturation
}

func copyHairTRRT(src, dst *HairParameters) {
	dst.ShowTRRT = src.ShowTRRT
	dst.TRRTLongRoughness = src.TRRTLongRoughness
}

func copyHairSpecular(src, dst *HairParameters) {
	dst.UV = src.UV
	dst.IOR = src.IOR
	dst.FresnelType = src.FresnelType
	dst.CuticleLayerThickness = src.CuticleLayerThickness
	dst.UseOptimizedSampling = src.UseOptimizedSampling
	dst.Color = src.Color
	copyHairR(src, dst)
	copyHairTT(src, dst)
	copyHairTRT(src, dst)
	copyHairTRRT(src, dst)
}

func blendHairSpecular(space BlendColorSpace, mask float64, h0, h1, h *HairParameters) {
	h.Weight = core.Lerp(h0.Weight, h1.Weight, mask)
	if core.IsZero(h.Weight) {
		return
	}
	if core.IsZero(h1.Weight) {
		copyHairSpecular(h0, h)
		return
	}
	if core.IsZero(h0.Weight) {
		copyHairSpecular(h1, h)
		return
	}

	h.FresnelType = h1.FresnelType
	h.UV = core.LerpVec2(h0.UV, h1.UV, mask)
	h.IOR = core.Lerp(h0.IOR, h1.IOR, mask)
	h.CuticleLayerThickness = core.Lerp(h0.CuticleLayerThickness, h1.CuticleLayerThickness, mask)
	h.UseOptimizedSampling = h0.UseOptimizedSampling || h1.UseOptimizedSampling
	h.TTAzimRoughness = core.Lerp(h0.TTAzimRoughness, h1.TTAzimRoughness, mask)

	switch {
	case h0.ShowR && h1.ShowR:
		h.ShowR = true
		h.RShift = core.Lerp(h0.RShift, h1.RShift, mask)
		h.RLongRoughness = core.Lerp(h0.RLongRoughness, h1.RLongRoughness, mask)
		h.RTint = ColorSpaceLerp(h0.RTint, h1.RTint, mask, space)
	case h0.ShowR:
		copyHairR(h0, h)
	default:
		copyHairR(h1, h)
	}

	switch {
	case h0.ShowTT && h1.ShowTT:
		h.ShowTT = true
		h.TTShift = core.Lerp(h0.TTShift, h1.TTShift, mask)
		h.TTLongRoughness = core.Lerp(h0.TTLongRoughness, h1.TTLongRoughness, mask)
		h.TTTint = ColorSpaceLerp(h0.TTTint, h1.TTTint, mask, space)
		h.TTSaturation = core.Lerp(h0.TTSaturation, h1.TTSaturation, mask)
	case h0.ShowTT:
		copyHairTT(h0, h)
	default:
		copyHairTT(h1, h)
	}

	switch {
	case h0.ShowTRT && h1.ShowTRT:
		h.ShowTRT = true
		h.TRTShift = core.Lerp(h0.TRTShift, h1.TRTShift, mask)
		h.TRTLongRoughness = core.Lerp(h0.TRTLongRoughness, h1.TRTLongRoughness, mask)
		h.TRTTint = ColorSpaceLerp(h0.TRTTint, h1.TRTTint, mask, space)
		switch {
		case h0.ShowGlint && h1.ShowGlint:
			h.ShowGlint = true
			h.GlintRoughness = core.Lerp(h0.GlintRoughness, h1.GlintRoughness, mask)
			h.GlintMinTwists = core.Lerp(h0.GlintMinTwists, h1.GlintMinTwists, mask)
			h.GlintMaxTwists = core.Lerp(h0.GlintMaxTwists, h1.GlintMaxTwists, mask)
			h.GlintEccentricity = core.Lerp(h0.GlintEccentricity, h1.GlintEccentricity, mask)
			h.GlintSaturation = core.Lerp(h0.GlintSaturation, h1.GlintSaturation, mask)
		case h0.ShowGlint:
			copyHairGlint(h0, h)
		default:
			copyHairGlint(h1, h)
		}
	case h0.ShowTRT:
		copyHairTRT(h0, h)
	default:
		copyHairTRT(h1, h)
	}

	switch {
	case h0.ShowTRRT && h1.ShowTRRT:
		h.ShowTRRT = true
		h.TRRTLongRoughness = core.Lerp(h0.TRRTLongRoughness, h1.TRRTLongRoughness, mask)
	case h0.ShowTRRT:
		copyHairTRRT(h0, h)
	default:
		copyHairTRRT(h1, h)
	}

	switch {
	case !core.IsOne(h0.Diffuse) && !core.IsOne(h1.Diffuse):
		h.Color = ColorSpaceLerp(h0.Color, h1.Color, mask, space)
	case !core.IsOne(h0.Diffuse):
		h.Color = h0.Color
	default:
		h.Color = h1.Color
	}
}

func copyHairDiffuse(src, dst *HairParameters) {
	dst.DiffuseFrontColor = src.DiffuseFrontColor
	dst.DiffuseBackColor = src.DiffuseBackColor
	dst.DiffuseUseIndependentFrontBack = src.DiffuseUseIndependentFrontBack
}

func blendHairDiffuse(space BlendColorSpace, mask float64, p0, p1, p *Parameters) {
	h0, h1 := &p0.Hair, &p1.Hair
	h := &p.Hair
	h.Diffuse = core.Lerp(h0.Diffuse, h1.Diffuse, mask)

	switch {
	case core.IsZero(h1.Diffuse) && !core.IsZero(h0.Diffuse):
		copyHairDiffuse(h0, h)
		p.Normal = p0.Normal
	case core.IsZero(h0.Diffuse) && !core.IsZero(h1.Diffuse):
		copyHairDiffuse(h1, h)
		p.Normal = p1.Normal
	default:
		h.DiffuseUseIndependentFrontBack = h0.DiffuseUseIndependentFrontBack || h1.DiffuseUseIndependentFrontBack
		h.DiffuseFrontColor = ColorSpaceLerp(h0.DiffuseFrontColor, h1.DiffuseFrontColor, mask, space)
		h.DiffuseBackColor = ColorSpaceLerp(h0.DiffuseBackColor, h1.DiffuseBackColor, mask, space)
		p.Normal = core.LerpVec3(p0.Normal, p1.Normal, mask).SafeNormalize()
	}

	// A diffuse side without scattering pulls the subsurface blend toward
	// Kajiya-Kay in proportion to its diffuse weight
	scatter0 := !p0.Diffuse.ScatteringRadius.IsBlack() && !core.IsZero(h0.SubsurfaceBlend)
	scatter1 := !p1.Diffuse.ScatteringRadius.IsBlack() && !core.IsZero(h1.SubsurfaceBlend)
	switch {
	case scatter0 && !scatter1:
		p.Diffuse.ScatteringRadius = p0.Diffuse.ScatteringRadius
		if core.IsZero(h1.Diffuse) {
			h.SubsurfaceBlend = h0.SubsurfaceBlend
		} else {
			h.SubsurfaceBlend = core.Lerp(h0.SubsurfaceBlend, 0, h1.Diffuse*mask)
		}
	case scatter1 && !scatter0:
		p.Diffuse.ScatteringRadius = p1.Diffuse.ScatteringRadius
		if core.IsZero(h0.Diffuse) {
			h.SubsurfaceBlend = h1.SubsurfaceBlend
		} else {
			h.SubsurfaceBlend = core.Lerp(h1.SubsurfaceBlend, 0, h0.Diffuse*(1-mask))
		}
	default:
		p.Diffuse.ScatteringRadius = ColorSpaceLerp(p0.Diffuse.ScatteringRadius, p1.Diffuse.ScatteringRadius, mask, space)
		h.SubsurfaceBlend = core.Lerp(h0.SubsurfaceBlend, h1.SubsurfaceBlend, mask)
	}
}
