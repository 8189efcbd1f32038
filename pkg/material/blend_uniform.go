package material

// BlendUniformParameters folds the uniform configuration of two blended
// materials. A is the baseline. Model choices both sides agree on are kept
// and disagreements take the fallback. Safety flags are OR'd so the stricter
// side always wins. B's light set wins when both supply one.
func BlendUniformParameters(a, b UniformParameters, fb Fallbacks) UniformParameters {
	u := a
	if a.SpecularModel != b.SpecularModel {
		u.SpecularModel = fb.SpecularModel
	}
	if a.OuterSpecularModel != b.OuterSpecularModel {
		u.OuterSpecularModel = fb.OuterSpecularModel
	}
	if a.OuterSpecularUseBending != b.OuterSpecularUseBending {
		u.OuterSpecularUseBending = fb.OuterSpecularUseBending
	}
	if a.Subsurface != b.Subsurface {
		u.Subsurface = fb.Subsurface
	}
	u.ThinGeometry = a.ThinGeometry || b.ThinGeometry
	u.PreventLightCulling = a.PreventLightCulling || b.PreventLightCulling
	if b.LightSet != nil {
		u.LightSet = b.LightSet
	}
	return u
}

// LightSetConflict reports whether a and b both bind different light sets
func LightSetConflict(a, b UniformParameters) bool {
	return a.LightSet != nil && b.LightSet != nil && a.LightSet.ID() != b.LightSet.ID()
}
