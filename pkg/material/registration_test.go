package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("nil reference is no child", func(t *testing.T) {
		h, err := Register(nil)
		assert.NoError(t, err)
		assert.Nil(t, h)

		state := testState()
		assert.Equal(t, 1.0, h.ResolvePresence(state))
		assert.Equal(t, state.N, h.ResolveSubsurfaceNormal(state))
		assert.False(t, h.HasGlitter())
		assert.Nil(t, h.Material())
		_, ok := h.FresnelType()
		assert.False(t, ok)
	})

	t.Run("nil pointer reference is no child", func(t *testing.T) {
		var base *Base
		h, err := Register(base)
		assert.NoError(t, err)
		assert.Nil(t, h)
	})

	t.Run("non-layerable reference", func(t *testing.T) {
		h, err := Register(newOpaque("camera"))
		assert.ErrorIs(t, err, ErrNotLayerable)
		assert.Contains(t, err.Error(), "camera")
		assert.Nil(t, h)
	})

	t.Run("hair exposes its fresnel type", func(t *testing.T) {
		hair := NewHair("hair", red)
		hair.Lobes.FresnelType = HairFresnelLayeredCuticles
		h, err := Register(hair)
		require.NoError(t, err)
		ft, ok := h.FresnelType()
		assert.True(t, ok)
		assert.Equal(t, HairFresnelLayeredCuticles, ft)
		assert.Equal(t, "hair", h.Name())
	})
}

func TestChildSlot_BindsOnlyOnChange(t *testing.T) {
	b := newGlitterBase("b", red)
	require.NoError(t, b.Update())

	var slot childSlot
	changed, err := slot.bind(b)
	require.NoError(t, err)
	assert.True(t, changed)
	first := slot.handle
	assert.True(t, first.HasGlitter())

	b.Glitter = nil
	require.NoError(t, b.Update())
	changed, err = slot.bind(b)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, first, slot.handle, "an unchanged reference keeps its handle")
	assert.False(t, slot.handle.HasGlitter(), "flags are re-read on every bind")

	other := NewLambertian("other", blue)
	changed, err = slot.bind(other)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "other", slot.handle.Name())
}

func TestChildSlot_ErrorRepeatsUntilReferenceChanges(t *testing.T) {
	bad := newOpaque("bad")
	var slot childSlot

	changed, err := slot.bind(bad)
	assert.True(t, changed)
	assert.ErrorIs(t, err, ErrNotLayerable)

	changed, err = slot.bind(bad)
	assert.False(t, changed)
	assert.ErrorIs(t, err, ErrNotLayerable)

	changed, err = slot.bind(nil)
	assert.True(t, changed)
	assert.NoError(t, err)
	assert.Nil(t, slot.handle)
}

func TestSameObject(t *testing.T) {
	a := NewLambertian("a", red)
	b := NewLambertian("a", red)
	assert.True(t, sameObject(nil, nil))
	assert.True(t, sameObject(a, a))
	assert.False(t, sameObject(a, b), "objects with one name are still distinct")
	assert.False(t, sameObject(a, nil))
}
