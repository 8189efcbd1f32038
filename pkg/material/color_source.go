package material

import (
	"github.com/df07/go-layered-materials/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	// Evaluate returns the color at the shading point of state
	Evaluate(state *core.State) core.Vec3
}

// FloatSource provides spatially-varying scalars for materials
type FloatSource interface {
	EvaluateFloat(state *core.State) float64
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of the shading point
func (s *SolidColor) Evaluate(state *core.State) core.Vec3 {
	return s.Color
}

// AttributeColor reads a color bound on the geometry, or Default when the
// attribute is absent
type AttributeColor struct {
	Name    string
	Default core.Vec3
}

func (a *AttributeColor) Evaluate(state *core.State) core.Vec3 {
	if c, ok := state.Color(a.Name); ok {
		return c
	}
	return a.Default
}

// Constant is a FloatSource with a single value
type Constant float64

func (c Constant) EvaluateFloat(state *core.State) float64 {
	return float64(c)
}

// AttributeFloat reads a float bound on the geometry, or Default when the
// attribute is absent
type AttributeFloat struct {
	Name    string
	Default float64
}

func (a *AttributeFloat) EvaluateFloat(state *core.State) float64 {
	return state.FloatOr(a.Name, a.Default)
}

// LuminanceFloat drives a scalar input from the luminance of a color source
type LuminanceFloat struct {
	Source ColorSource
}

func (l *LuminanceFloat) EvaluateFloat(state *core.State) float64 {
	return l.Source.Evaluate(state).Luminance()
}

func evalColor(src ColorSource, state *core.State, fallback core.Vec3) core.Vec3 {
	if src == nil {
		return fallback
	}
	return src.Evaluate(state)
}

func evalFloat(src FloatSource, state *core.State, fallback float64) float64 {
	if src == nil {
		return fallback
	}
	return src.EvaluateFloat(state)
}
