package core

import "math"

// Epsilon is the tolerance used by IsZero and IsOne
const Epsilon = 1e-9

// IsZero reports whether x is zero within Epsilon
func IsZero(x float64) bool {
	return math.Abs(x) < Epsilon
}

// IsOne reports whether x is one within Epsilon
func IsOne(x float64) bool {
	return math.Abs(x-1) < Epsilon
}

// Lerp interpolates from a (t=0) to b (t=1)
func Lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}

// Saturate clamps x to [0, 1]. NaN maps to 0.
func Saturate(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
