package material

import "github.com/df07/go-layered-materials/pkg/core"

// EvalSubsurfaceNormal answers the renderer's subsurface normal query for a
// resolved sample. The query goes to the material recorded in the override
// slot, which is the outermost combinator that produced p.
func EvalSubsurfaceNormal(p *Parameters, state *core.State) core.Vec3 {
	if p.SubsurfaceNormal == nil {
		return state.N
	}
	return p.SubsurfaceNormal.ResolveSubsurfaceNormal(state)
}

// Callbacks are the renderer queries issued against the material bound to
// the geometry. Each combinator re-traverses its live child selection.
type Callbacks struct {
	Presence            float64
	RefractiveIndex     float64
	SubsurfaceType      SubsurfaceType
	PreventLightCulling bool
	CastsCaustics       bool
}

// ResolveCallbacks issues every renderer callback against m
func ResolveCallbacks(m Layerable, state *core.State) Callbacks {
	return Callbacks{
		Presence:            core.Saturate(m.ResolvePresence(state)),
		RefractiveIndex:     m.ResolveRefractiveIndex(state),
		SubsurfaceType:      m.ResolveSubsurfaceType(state),
		PreventLightCulling: m.ResolvePreventLightCulling(state),
		CastsCaustics:       m.CastsCaustics(),
	}
}
