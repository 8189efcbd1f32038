package material

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/df07/go-layered-materials/pkg/core"
)

var (
	// ErrMissingMaterial is returned when a required child is not set
	ErrMissingMaterial = errors.New("required material is not set")
	// ErrNotLayerable is returned when a child does not implement Layerable
	ErrNotLayerable = errors.New("material is not layerable")
	// ErrUnsetSlot is returned when a selected slot holds no material
	ErrUnsetSlot = errors.New("selected material slot is not set")
)

// Handle binds a child reference to its Layerable capability. A nil
// *Handle stands for "no child" and every method returns the defaults.
type Handle struct {
	material   Layerable
	hasGlitter bool
	fresnel    HairFresnelType
	hasFresnel bool
}

// Register binds ref. A nil ref, including a nil pointer held in the
// interface, yields a nil handle and no error.
func Register(ref Object) (*Handle, error) {
	if isNilObject(ref) {
		return nil, nil
	}
	m, ok := ref.(Layerable)
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref.Name(), ErrNotLayerable)
	}
	h := &Handle{material: m}
	h.refresh()
	return h, nil
}

// refresh re-reads the flags the child computes in its own Update
func (h *Handle) refresh() {
	if h == nil {
		return
	}
	h.hasGlitter = h.material.HasGlitter()
	if hf, ok := h.material.(HairFresnel); ok {
		h.fresnel = hf.HairFresnelType()
		h.hasFresnel = true
	}
}

// Material returns the bound layerable, or nil
func (h *Handle) Material() Layerable {
	if h == nil {
		return nil
	}
	return h.material
}

// Name returns the bound material's name, or "" for no child
func (h *Handle) Name() string {
	if h == nil {
		return ""
	}
	return h.material.Name()
}

// HasGlitter reports whether the child had glitter when it was registered
func (h *Handle) HasGlitter() bool {
	return h != nil && h.hasGlitter
}

// FresnelType returns the child's hair fresnel type, if it has one
func (h *Handle) FresnelType() (HairFresnelType, bool) {
	if h == nil {
		return 0, false
	}
	return h.fresnel, h.hasFresnel
}

func (h *Handle) ResolveUniformParameters(u *UniformParameters) {
	if h == nil {
		return
	}
	h.material.ResolveUniformParameters(u)
}

func (h *Handle) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	if h == nil {
		return false
	}
	return h.material.ResolveParameters(state, castsCaustics, p)
}

func (h *Handle) ResolvePresence(state *core.State) float64 {
	if h == nil {
		return 1
	}
	return h.material.ResolvePresence(state)
}

func (h *Handle) ResolveRefractiveIndex(state *core.State) float64 {
	if h == nil {
		return 1
	}
	return h.material.ResolveRefractiveIndex(state)
}

func (h *Handle) ResolveSubsurfaceNormal(state *core.State) core.Vec3 {
	if h == nil {
		return state.N
	}
	return h.material.ResolveSubsurfaceNormal(state)
}

func (h *Handle) ResolveSubsurfaceType(state *core.State) SubsurfaceType {
	if h == nil {
		return SubsurfaceNone
	}
	return h.material.ResolveSubsurfaceType(state)
}

func (h *Handle) ResolvePreventLightCulling(state *core.State) bool {
	if h == nil {
		return false
	}
	return h.material.ResolvePreventLightCulling(state)
}

func (h *Handle) CastsCaustics() bool {
	return h != nil && h.material.CastsCaustics()
}

// childSlot tracks one child reference and the handle bound to it
type childSlot struct {
	ref    Object
	handle *Handle
	err    error
	bound  bool
}

// bind registers ref when it differs from the reference bound last time.
// A failed registration leaves the handle nil and is reported on every call
// until the reference changes.
func (s *childSlot) bind(ref Object) (changed bool, err error) {
	if s.bound && sameObject(s.ref, ref) {
		s.handle.refresh()
		return false, s.err
	}
	s.ref, s.bound = ref, true
	s.handle, s.err = Register(ref)
	return true, s.err
}

// isNilObject reports whether ref is nil or wraps a nil pointer
func isNilObject(ref Object) bool {
	if ref == nil {
		return true
	}
	v := reflect.ValueOf(ref)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func sameObject(a, b Object) bool {
	aNil, bNil := isNilObject(a), isNilObject(b)
	if aNil || bNil {
		return aNil && bNil
	}
	return a.ID() == b.ID()
}
