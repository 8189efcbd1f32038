package material

import (
	"fmt"

	"github.com/df07/go-layered-materials/pkg/core"
)

// singleInput is the child binding shared by combinators that modify one
// input material. Queries it does not modify are delegated unchanged.
type singleInput struct {
	input   childSlot
	uniform UniformParameters
	err     error
}

// bind registers ref and caches its uniform parameters. A missing input is
// not an error; the combinator then resolves to nothing.
func (s *singleInput) bind(o *SceneObject, ref Object) error {
	s.err = nil
	s.uniform = DefaultUniformParameters()
	changed, err := s.input.bind(ref)
	if err != nil {
		s.err = fmt.Errorf("input_material: %w", err)
		if changed {
			o.fatal(s.err)
		}
		return s.err
	}
	s.input.handle.ResolveUniformParameters(&s.uniform)
	return nil
}

func (s *singleInput) resolve(state *core.State, castsCaustics bool, p *Parameters) bool {
	if s.err != nil {
		return false
	}
	return s.input.handle.ResolveParameters(state, castsCaustics, p)
}

func (s *singleInput) HasGlitter() bool {
	return s.input.handle.HasGlitter()
}

func (s *singleInput) CastsCaustics() bool {
	return s.input.handle.CastsCaustics()
}

func (s *singleInput) ResolveUniformParameters(u *UniformParameters) {
	*u = s.uniform
}

func (s *singleInput) ResolvePresence(state *core.State) float64 {
	return s.input.handle.ResolvePresence(state)
}

func (s *singleInput) ResolveRefractiveIndex(state *core.State) float64 {
	return s.input.handle.ResolveRefractiveIndex(state)
}

func (s *singleInput) ResolveSubsurfaceNormal(state *core.State) core.Vec3 {
	return s.input.handle.ResolveSubsurfaceNormal(state)
}

func (s *singleInput) ResolveSubsurfaceType(state *core.State) SubsurfaceType {
	return s.input.handle.ResolveSubsurfaceType(state)
}

func (s *singleInput) ResolvePreventLightCulling(state *core.State) bool {
	return s.input.handle.ResolvePreventLightCulling(state)
}
