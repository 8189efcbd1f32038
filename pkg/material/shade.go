package material

import "github.com/df07/go-layered-materials/pkg/core"

// LobeBuilder turns resolved parameters into the lobes of one sample
type LobeBuilder interface {
	Build(state *core.State, p *Parameters, u *UniformParameters)
}

// Resolve resolves the uniform and per-sample parameters of the material
// bound to the geometry. Pending color corrections are applied and the
// outermost trace set replaces the ones resolved by children.
func Resolve(m Layerable, state *core.State) (Parameters, UniformParameters, bool) {
	u := DefaultUniformParameters()
	m.ResolveUniformParameters(&u)

	var p Parameters
	if !m.ResolveParameters(state, m.CastsCaustics(), &p) {
		return p, u, false
	}
	if owner, ok := m.(TraceSetOwner); ok {
		if ts := owner.SubsurfaceTraceSet(); ts != nil {
			p.SubsurfaceTraceSet = ts
		}
	}
	p.ColorCorrections.Apply(&p)
	return p, u, true
}

// Shade resolves m for state and hands the result to builder. It returns
// false, without calling builder, when m cannot be resolved.
func Shade(m Layerable, state *core.State, builder LobeBuilder) bool {
	p, u, ok := Resolve(m, state)
	if !ok {
		return false
	}
	builder.Build(state, &p, &u)
	return true
}
