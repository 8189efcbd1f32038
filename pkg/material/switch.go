package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-layered-materials/pkg/core"
)

// MaxSwitchMaterials is the number of Switch slots
const MaxSwitchMaterials = 64

// Switch delegates every query to the material in the chosen slot
type Switch struct {
	SceneObject

	Materials [MaxSwitchMaterials]Object
	Choice    int

	slots    [MaxSwitchMaterials]childSlot
	chosen   *Handle
	selected int
	err      error
}

// NewSwitch creates a switch over materials, filling slots from 0
func NewSwitch(name string, choice int, materials ...Object) *Switch {
	s := &Switch{SceneObject: newSceneObject(name), Choice: choice}
	copy(s.Materials[:], materials)
	return s
}

// SwitchIndex reduces choice to a slot index. Negative choices wrap.
func SwitchIndex(choice int) int {
	return ((choice % MaxSwitchMaterials) + MaxSwitchMaterials) % MaxSwitchMaterials
}

// Dependencies returns the bound slots
func (s *Switch) Dependencies() []Object {
	return nonNil(s.Materials[:]...)
}

// Update binds every slot and selects the chosen one. Errors in unchosen
// slots are reported but do not disable the switch.
func (s *Switch) Update() error {
	s.err = nil
	s.chosen = nil

	idx := SwitchIndex(s.Choice)
	s.selected = idx
	var errs []error
	for i := range s.slots {
		changed, err := s.slots[i].bind(s.Materials[i])
		if err == nil {
			continue
		}
		err = fmt.Errorf("material%d: %w", i, err)
		if changed {
			s.fatal(err)
		}
		if i == idx {
			s.err = err
		}
		errs = append(errs, err)
	}

	s.chosen = s.slots[idx].handle
	if s.err == nil && s.chosen == nil {
		s.err = s.fatal(fmt.Errorf("material%d: %w", idx, ErrUnsetSlot))
		errs = append(errs, s.err)
	}
	return errors.Join(errs...)
}

// Selected returns the slot index chosen at the last Update
func (s *Switch) Selected() int {
	return s.selected
}

func (s *Switch) HasGlitter() bool {
	return s.chosen.HasGlitter()
}

func (s *Switch) CastsCaustics() bool {
	return s.chosen.CastsCaustics()
}

func (s *Switch) ResolveUniformParameters(u *UniformParameters) {
	s.chosen.ResolveUniformParameters(u)
}

func (s *Switch) ResolveParameters(state *core.State, castsCaustics bool, p *Parameters) bool {
	if s.err != nil || s.chosen == nil {
		return false
	}
	if !s.chosen.ResolveParameters(state, castsCaustics, p) {
		return false
	}
	p.SubsurfaceNormal = s
	return true
}

func (s *Switch) ResolvePresence(state *core.State) float64 {
	return s.chosen.ResolvePresence(state)
}

func (s *Switch) ResolveRefractiveIndex(state *core.State) float64 {
	return s.chosen.ResolveRefractiveIndex(state)
}

func (s *Switch) ResolveSubsurfaceNormal(state *core.State) core.Vec3 {
	return s.chosen.ResolveSubsurfaceNormal(state)
}

func (s *Switch) ResolveSubsurfaceType(state *core.State) SubsurfaceType {
	return s.chosen.ResolveSubsurfaceType(state)
}

func (s *Switch) ResolvePreventLightCulling(state *core.State) bool {
	return s.chosen.ResolvePreventLightCulling(state)
}
