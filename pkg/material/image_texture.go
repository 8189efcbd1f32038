package material

import (
	"github.com/df07/go-layered-materials/pkg/core"
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Evaluate samples the texture at the state's UV using nearest-neighbor filtering
func (t *ImageTexture) Evaluate(state *core.State) core.Vec3 {
	return t.Sample(state.UV)
}

// Sample returns the texel under uv. UVs wrap, V=0 is the bottom row.
func (t *ImageTexture) Sample(uv core.Vec2) core.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return core.Vec3{}
	}
	u := wrap01(uv.X)
	v := wrap01(uv.Y)

	x := clampIndex(int(u*float64(t.Width)), t.Width)
	y := clampIndex(int((1.0-v)*float64(t.Height)), t.Height)
	return t.Pixels[y*t.Width+x]
}

func wrap01(x float64) float64 {
	x -= float64(int(x))
	if x < 0 {
		x += 1.0
	}
	return x
}

func clampIndex(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
