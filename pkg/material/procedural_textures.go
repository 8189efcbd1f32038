package material

import (
	"fmt"

	"github.com/df07/go-layered-materials/pkg/core"
)

func fillTexture(width, height int, texel func(x, y int) core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = texel(x, y)
		}
	}
	return NewImageTexture(width, height, pixels)
}

// NewCheckerboardTexture creates a checkerboard of checkSize-pixel squares
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Vec3) *ImageTexture {
	if checkSize < 1 {
		checkSize = 1
	}
	return fillTexture(width, height, func(x, y int) core.Vec3 {
		if (x/checkSize+y/checkSize)%2 == 0 {
			return color1
		}
		return color2
	})
}

// NewUVDebugTexture maps U to red and V to green
func NewUVDebugTexture(width, height int) *ImageTexture {
	return fillTexture(width, height, func(x, y int) core.Vec3 {
		return core.NewVec3(unitCoord(x, width), unitCoord(y, height), 0)
	})
}

// NewGradientTexture creates a vertical gradient from color1 (top) to color2 (bottom)
func NewGradientTexture(width, height int, color1, color2 core.Vec3) *ImageTexture {
	return fillTexture(width, height, func(x, y int) core.Vec3 {
		return core.LerpVec3(color1, color2, unitCoord(y, height))
	})
}

func unitCoord(i, n int) float64 {
	if n < 2 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// NewProceduralTexture builds one of the named procedural textures:
// checkerboard, uv or gradient
func NewProceduralTexture(kind string, size int, color1, color2 core.Vec3) (*ImageTexture, error) {
	if size < 2 {
		size = 2
	}
	switch kind {
	case "checkerboard", "checker":
		return NewCheckerboardTexture(size, size, max(1, size/8), color1, color2), nil
	case "uv":
		return NewUVDebugTexture(size, size), nil
	case "gradient":
		return NewGradientTexture(size, size, color1, color2), nil
	}
	return nil, fmt.Errorf("unknown procedural texture %q", kind)
}
