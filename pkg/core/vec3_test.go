package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_SafeNormalize(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected Vec3
	}{
		{
			name:     "Unit vector unchanged",
			vector:   NewVec3(0, 0, 1),
			expected: NewVec3(0, 0, 1),
		},
		{
			name:     "Scaled vector normalized",
			vector:   NewVec3(3, 0, 4),
			expected: NewVec3(0.6, 0, 0.8),
		},
		{
			name:     "Zero vector returned as is",
			vector:   NewVec3(0, 0, 0),
			expected: NewVec3(0, 0, 0),
		},
		{
			name:     "Opposite normals averaged to zero stay zero",
			vector:   LerpVec3(NewVec3(0, 0, 1), NewVec3(0, 0, -1), 0.5),
			expected: NewVec3(0, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.SafeNormalize()

			const tolerance = 1e-9
			assert.True(t, result.Equals(tt.expected, tolerance), "expected %v, got %v", tt.expected, result)
		})
	}
}

func TestLerpEndpointsAreExact(t *testing.T) {
	a := NewVec3(0.1, 0.7, 1e6)
	b := NewVec3(-3, 0.3, math.Pi)

	assert.Equal(t, a, LerpVec3(a, b, 0))
	assert.Equal(t, b, LerpVec3(a, b, 1))
	assert.Equal(t, 0.25, Lerp(0, 1, 0.25))
}

func TestSaturate(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.4, 0.4},
		{1, 1},
		{7, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Saturate(tt.in), "Saturate(%v)", tt.in)
	}
}

func TestVec3_ClampMinKeepsLargeValues(t *testing.T) {
	v := NewVec3(-0.5, 2.5, 0.3).ClampMin(0)
	assert.Equal(t, NewVec3(0, 2.5, 0.3), v)
}

func TestVec3_IsBlack(t *testing.T) {
	assert.True(t, NewVec3(0, 0, 0).IsBlack())
	assert.False(t, NewVec3(0, 0.1, 0).IsBlack())
}
