package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RGBToHSV converts an RGB color to hue, saturation, value packed in X, Y, Z.
// Hue is in [0, 1).
func RGBToHSV(c Vec3) Vec3 {
	maxC := max(c.X, c.Y, c.Z)
	minC := min(c.X, c.Y, c.Z)
	delta := maxC - minC

	v := maxC
	if maxC <= 0 || delta <= 0 {
		return Vec3{X: 0, Y: 0, Z: v}
	}
	s := delta / maxC

	var h float64
	switch maxC {
	case c.X:
		h = (c.Y - c.Z) / delta
	case c.Y:
		h = 2 + (c.Z-c.X)/delta
	default:
		h = 4 + (c.X-c.Y)/delta
	}
	h /= 6
	if h < 0 {
		h += 1
	}
	return Vec3{X: h, Y: s, Z: v}
}

// HSVToRGB converts hue, saturation, value packed in X, Y, Z back to RGB
func HSVToRGB(hsv Vec3) Vec3 {
	h, s, v := wrapUnit(hsv.X), hsv.Y, hsv.Z
	if s <= 0 {
		return Vec3{X: v, Y: v, Z: v}
	}

	h6 := h * 6
	sector := math.Floor(h6)
	f := h6 - sector
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch int(sector) % 6 {
	case 0:
		return Vec3{X: v, Y: t, Z: p}
	case 1:
		return Vec3{X: q, Y: v, Z: p}
	case 2:
		return Vec3{X: p, Y: v, Z: t}
	case 3:
		return Vec3{X: p, Y: q, Z: v}
	case 4:
		return Vec3{X: t, Y: p, Z: v}
	default:
		return Vec3{X: v, Y: p, Z: q}
	}
}

// RGBToHSL converts an RGB color to hue, saturation, lightness packed in X, Y, Z
func RGBToHSL(c Vec3) Vec3 {
	maxC := max(c.X, c.Y, c.Z)
	minC := min(c.X, c.Y, c.Z)
	l := (maxC + minC) / 2
	delta := maxC - minC
	if delta <= 0 {
		return Vec3{X: 0, Y: 0, Z: l}
	}

	var s float64
	if l < 0.5 {
		s = delta / (maxC + minC)
	} else {
		s = delta / (2 - maxC - minC)
	}

	hsv := RGBToHSV(c)
	return Vec3{X: hsv.X, Y: s, Z: l}
}

// HSLToRGB converts hue, saturation, lightness packed in X, Y, Z back to RGB
func HSLToRGB(hsl Vec3) Vec3 {
	h, s, l := wrapUnit(hsl.X), hsl.Y, hsl.Z
	if s <= 0 {
		return Vec3{X: l, Y: l, Z: l}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return Vec3{
		X: hueToChannel(p, q, h+1.0/3),
		Y: hueToChannel(p, q, h),
		Z: hueToChannel(p, q, h-1.0/3),
	}
}

func hueToChannel(p, q, t float64) float64 {
	t = wrapUnit(t)
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func wrapUnit(x float64) float64 {
	return x - math.Floor(x)
}

// HueShift rotates the hue of c by shift turns (1.0 is a full rotation)
func HueShift(c Vec3, shift float64) Vec3 {
	hsv := RGBToHSV(c)
	hsv.X = wrapUnit(hsv.X + shift)
	return HSVToRGB(hsv)
}

// Saturation scales the chroma of c around its luminance. 1 leaves c unchanged, 0 is gray.
func Saturation(c Vec3, saturation float64) Vec3 {
	lum := c.Luminance()
	gray := Vec3{X: lum, Y: lum, Z: lum}
	return LerpVec3(gray, c, saturation)
}

// tmiStops maps (temperature, magenta, intensity) to per-channel exposure stops.
// Temperature pushes red against blue, magenta pushes red and blue against green.
var tmiStops = mgl64.Mat3FromCols(
	mgl64.Vec3{0.5, 0, -0.5},
	mgl64.Vec3{1.0 / 3, -2.0 / 3, 1.0 / 3},
	mgl64.Vec3{1, 1, 1},
)

// ApplyTMI applies a temperature/magenta/intensity correction, all expressed in stops
func ApplyTMI(c Vec3, tmi Vec3) Vec3 {
	stops := tmiStops.Mul3x1(mgl64.Vec3{tmi.X, tmi.Y, tmi.Z})
	return Vec3{
		X: c.X * math.Exp2(stops[0]),
		Y: c.Y * math.Exp2(stops[1]),
		Z: c.Z * math.Exp2(stops[2]),
	}
}
