package core

// State is the shading state for one sample. It is built by the caller and
// only read while materials resolve their parameters.
type State struct {
	P        Vec3 // Shading point
	N        Vec3 // Shading normal
	Ng       Vec3 // Geometric normal
	DPds     Vec3 // Surface derivative along s, the hair direction for curves
	UV       Vec2
	Entering bool // True when the incoming ray enters the surface (front face)

	// Primitive attributes bound on the geometry, looked up by name
	Floats map[string]float64
	Colors map[string]Vec3
}

// NewState creates a front-facing state at point p with normal n
func NewState(p, n Vec3, uv Vec2) *State {
	return &State{
		P:        p,
		N:        n,
		Ng:       n,
		UV:       uv,
		Entering: true,
	}
}

// Float returns a float attribute and whether it was provided
func (s *State) Float(name string) (float64, bool) {
	if s.Floats == nil {
		return 0, false
	}
	v, ok := s.Floats[name]
	return v, ok
}

// FloatOr returns a float attribute, or fallback when it was not provided
func (s *State) FloatOr(name string, fallback float64) float64 {
	if v, ok := s.Float(name); ok {
		return v
	}
	return fallback
}

// Color returns a color attribute and whether it was provided
func (s *State) Color(name string) (Vec3, bool) {
	if s.Colors == nil {
		return Vec3{}, false
	}
	v, ok := s.Colors[name]
	return v, ok
}

// SetFloat binds a float attribute
func (s *State) SetFloat(name string, v float64) {
	if s.Floats == nil {
		s.Floats = make(map[string]float64)
	}
	s.Floats[name] = v
}

// SetColor binds a color attribute
func (s *State) SetColor(name string, v Vec3) {
	if s.Colors == nil {
		s.Colors = make(map[string]Vec3)
	}
	s.Colors[name] = v
}
