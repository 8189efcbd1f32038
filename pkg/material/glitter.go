package material

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/google/uuid"
)

const (
	glitterTableSize       = 256
	glitterMaxSearchPoints = 2000
	glitterMinBlendStart   = 100
	glitterMaxBlendStart   = 900
)

// ErrGlitterSpace is returned for glitter configured in an unsupported space
var ErrGlitterSpace = errors.New("glitter supports only object and reference space")

// GlitterConfig are the uniform glitter settings fixed at update time
type GlitterConfig struct {
	Seed         int
	Space        GlitterSpace
	Randomness   float64
	LODQuality   float64
	SearchRadius float64
}

// DefaultGlitterConfig returns the settings used when none are given
func DefaultGlitterConfig() GlitterConfig {
	return GlitterConfig{
		Space:        GlitterObjectSpace,
		Randomness:   0.5,
		LODQuality:   0.5,
		SearchRadius: 1,
	}
}

// Glitter is the uniform glitter state shared by every sample of a material.
// Combinators whose children both use glitter own a single instance so the
// flake tables stay consistent across the blend.
type Glitter struct {
	id              string
	config          GlitterConfig
	flakeRandomness float64
	table           [glitterTableSize]float64
	blendStart      float64
	blendEnd        float64
}

// NewGlitter builds the flake tables for cfg
func NewGlitter(cfg GlitterConfig) (*Glitter, error) {
	if cfg.Space != GlitterObjectSpace && cfg.Space != GlitterReferenceSpace {
		return nil, fmt.Errorf("%w: got %s", ErrGlitterSpace, cfg.Space)
	}

	g := &Glitter{
		id:     uuid.NewString(),
		config: cfg,
		// Flake normals past 0.6 are replaced by the shading normal, so more
		// randomness reads as less random
		flakeRandomness: 0.6 * core.Saturate(cfg.Randomness),
	}

	rng := rand.New(rand.NewSource(int64(cfg.Seed) + 100))
	for i := range g.table {
		g.table[i] = rng.Float64()
	}

	quality := core.Saturate(cfg.LODQuality)
	g.blendStart = glitterMinBlendStart + quality*(glitterMaxBlendStart-glitterMinBlendStart)
	g.blendEnd = math.Min(g.blendStart+3*g.blendStart, glitterMaxSearchPoints)
	return g, nil
}

// ID returns the unique id of this glitter instance
func (g *Glitter) ID() string { return g.id }

// Config returns the settings the glitter was built from
func (g *Glitter) Config() GlitterConfig { return g.config }

// FlakeRandomness returns the capped flake orientation randomness
func (g *Glitter) FlakeRandomness() float64 { return g.flakeRandomness }

// LODBlendRange returns the flake counts between which dense glitter is
// blended into a microfacet approximation
func (g *Glitter) LODBlendRange() (start, end float64) {
	return g.blendStart, g.blendEnd
}

// Flake returns the sparkle intensity in [0,1] of the flake cell containing p.
// Cells have unit size scaled by the flake size.
func (g *Glitter) Flake(p core.Vec3, v *GlitterVarying) float64 {
	size := v.FlakeSize[0]
	if size <= 0 {
		size = 1
	}
	density := core.Saturate(v.Density)
	x := int(math.Floor(p.X / size))
	y := int(math.Floor(p.Y / size))
	z := int(math.Floor(p.Z / size))

	h := uint32(x)*73856093 ^ uint32(y)*19349663 ^ uint32(z)*83492791
	r := g.table[h&(glitterTableSize-1)]
	if r > density {
		return 0
	}
	return g.table[(h>>8)&(glitterTableSize-1)]
}
