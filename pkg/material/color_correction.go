package material

import (
	"math"

	"github.com/df07/go-layered-materials/pkg/core"
)

// MaxColorCorrections is the capacity of a ColorCorrectionStack
const MaxColorCorrections = 8

// ColorCorrection is one hue/saturation/gain/TMI adjustment
type ColorCorrection struct {
	HueShift   float64 // In turns
	Saturation float64
	Gain       float64
	TMIEnabled bool
	TMI        core.Vec3 // Temperature, magenta, intensity in stops
	Mix        float64
	Hair       bool // Correct hair colors instead of surface colors
}

// NewColorCorrection creates an identity correction at full mix
func NewColorCorrection() ColorCorrection {
	return ColorCorrection{Saturation: 1, Gain: 1, Mix: 1}
}

// IsIdentity reports whether applying c leaves every color unchanged
func (c ColorCorrection) IsIdentity() bool {
	if core.IsZero(c.Mix) {
		return true
	}
	return core.IsZero(c.HueShift) && core.IsOne(c.Saturation) && core.IsOne(c.Gain) &&
		(!c.TMIEnabled || c.TMI.IsBlack())
}

// Color applies the correction to col without mixing or clamping
func (c ColorCorrection) Color(col core.Vec3) core.Vec3 {
	if !core.IsZero(c.HueShift) {
		col = core.HueShift(col, c.HueShift)
	}
	saturation := math.Max(0, c.Saturation)
	if !core.IsOne(saturation) {
		col = core.Saturation(col, saturation)
	}
	col = col.Multiply(c.Gain)
	if c.TMIEnabled {
		col = core.ApplyTMI(col, c.TMI)
	}
	return col
}

// reflectance corrects a reflectance or transmission color, clamped to [0,1]
func (c ColorCorrection) reflectance(col core.Vec3, mix float64) core.Vec3 {
	return core.LerpVec3(col, c.Color(col), mix).Clamp(0, 1)
}

// emission corrects an emission color, clamped only from below
func (c ColorCorrection) emission(col core.Vec3, mix float64) core.Vec3 {
	return core.LerpVec3(col, c.Color(col), mix).ClampMin(0)
}

// Apply corrects the color-correctable fields of p
func (c ColorCorrection) Apply(p *Parameters) {
	mix := core.Saturate(c.Mix)
	if core.IsZero(mix) {
		return
	}
	if c.Hair {
		h := &p.Hair
		h.Color = c.reflectance(h.Color, mix)
		h.DiffuseFrontColor = c.reflectance(h.DiffuseFrontColor, mix)
		h.DiffuseBackColor = c.reflectance(h.DiffuseBackColor, mix)
	} else {
		p.Fuzz.Albedo = c.reflectance(p.Fuzz.Albedo, mix)
		p.MetallicColor = c.reflectance(p.MetallicColor, mix)
		p.MetallicEdgeColor = c.reflectance(p.MetallicEdgeColor, mix)
		p.Fabric.WarpColor = c.reflectance(p.Fabric.WarpColor, mix)
		p.Fabric.WeftColor = c.reflectance(p.Fabric.WeftColor, mix)
		p.Transmission.Color = c.reflectance(p.Transmission.Color, mix)
		p.Diffuse.Albedo = c.reflectance(p.Diffuse.Albedo, mix)
		p.Diffuse.Transmission = c.reflectance(p.Diffuse.Transmission, mix)
	}
	p.Emission = c.emission(p.Emission, mix)
}

// ColorCorrectionStack is a bounded, ordered list of pending corrections.
// It is a value type so parameters can be copied without allocating.
type ColorCorrectionStack struct {
	entries [MaxColorCorrections]ColorCorrection
	n       int
}

// Len returns the number of pending corrections
func (s *ColorCorrectionStack) Len() int { return s.n }

// At returns the i-th correction in push order
func (s *ColorCorrectionStack) At(i int) ColorCorrection {
	if i < 0 || i >= s.n {
		panic("material: color correction index out of range")
	}
	return s.entries[i]
}

// Push appends c. It returns false and drops c when the stack is full.
func (s *ColorCorrectionStack) Push(c ColorCorrection) bool {
	if s.n >= MaxColorCorrections {
		return false
	}
	s.entries[s.n] = c
	s.n++
	return true
}

// Append pushes every entry of other in order, dropping what does not fit.
// It returns the number of entries dropped.
func (s *ColorCorrectionStack) Append(other *ColorCorrectionStack) int {
	dropped := 0
	for i := 0; i < other.n; i++ {
		if !s.Push(other.entries[i]) {
			dropped++
		}
	}
	return dropped
}

// Reset empties the stack
func (s *ColorCorrectionStack) Reset() {
	s.n = 0
}

// Apply runs every pending correction against p in push order and empties
// the stack
func (s *ColorCorrectionStack) Apply(p *Parameters) {
	entries, n := s.entries, s.n
	s.n = 0
	for i := 0; i < n; i++ {
		entries[i].Apply(p)
	}
}
