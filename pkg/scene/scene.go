package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/material"
)

var (
	// ErrDuplicateName is returned when two objects share a scene name
	ErrDuplicateName = errors.New("duplicate object name")
	// ErrUnknownObject is returned for lookups of names not in the scene
	ErrUnknownObject = errors.New("unknown object")
	// ErrDependencyCycle is returned when objects depend on each other
	ErrDependencyCycle = errors.New("dependency cycle")
)

// Scene owns the materials of one description and prepares them for shading
type Scene struct {
	Name        string
	Description string

	// Attributes are bound on every shading state the scene creates
	Floats map[string]float64
	Colors map[string]core.Vec3

	objects []material.Object
	byName  map[string]material.Object
	byID    map[string]material.Object
	root    string
	logger  core.Logger
}

// loggerSetter is implemented by objects that accept the scene's logger
type loggerSetter interface {
	SetLogger(logger core.Logger)
}

// New creates an empty scene
func New(name string, logger core.Logger) *Scene {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &Scene{
		Name:   name,
		Floats: make(map[string]float64),
		Colors: make(map[string]core.Vec3),
		byName: make(map[string]material.Object),
		byID:   make(map[string]material.Object),
		logger: logger,
	}
}

// Add registers objects with the scene and hands them the scene's logger
func (s *Scene) Add(objs ...material.Object) error {
	for _, obj := range objs {
		if _, exists := s.byName[obj.Name()]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateName, obj.Name())
		}
		s.objects = append(s.objects, obj)
		s.byName[obj.Name()] = obj
		s.byID[obj.ID()] = obj
		if ls, ok := obj.(loggerSetter); ok {
			ls.SetLogger(s.logger)
		}
	}
	return nil
}

// SetLogger replaces the logger of the scene and every object it owns
func (s *Scene) SetLogger(logger core.Logger) {
	s.logger = logger
	for _, obj := range s.objects {
		if ls, ok := obj.(loggerSetter); ok {
			ls.SetLogger(logger)
		}
	}
}

// Logger returns the scene's logger
func (s *Scene) Logger() core.Logger {
	return s.logger
}

// Lookup finds an object by scene name
func (s *Scene) Lookup(name string) (material.Object, bool) {
	obj, ok := s.byName[name]
	return obj, ok
}

// LookupID finds an object by instance id
func (s *Scene) LookupID(id string) (material.Object, bool) {
	obj, ok := s.byID[id]
	return obj, ok
}

// Objects returns every object in the order it was added
func (s *Scene) Objects() []material.Object {
	return s.objects
}

// MaterialNames returns the sorted names of every layerable object
func (s *Scene) MaterialNames() []string {
	var names []string
	for _, obj := range s.objects {
		if _, ok := obj.(material.Layerable); ok {
			names = append(names, obj.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Material returns the named object as a layerable material. An empty name
// selects the root material.
func (s *Scene) Material(name string) (material.Layerable, error) {
	if name == "" {
		name = s.root
	}
	obj, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObject, name)
	}
	m, ok := obj.(material.Layerable)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, material.ErrNotLayerable)
	}
	return m, nil
}

// SetRoot selects the material bound to the preview geometry
func (s *Scene) SetRoot(name string) error {
	if _, ok := s.byName[name]; !ok {
		return fmt.Errorf("root: %w: %q", ErrUnknownObject, name)
	}
	s.root = name
	return nil
}

// Root returns the name of the root material
func (s *Scene) Root() string {
	return s.root
}

// NewState creates a shading state carrying the scene's attributes
func (s *Scene) NewState(p, n core.Vec3, uv core.Vec2) *core.State {
	state := core.NewState(p, n, uv)
	for k, v := range s.Floats {
		state.SetFloat(k, v)
	}
	for k, v := range s.Colors {
		state.SetColor(k, v)
	}
	return state
}

// Update prepares every object for shading. Objects are updated one
// dependency level at a time, leaves first, and objects of one level run
// concurrently. Every object is updated even when others fail; the errors
// are joined.
func (s *Scene) Update() error {
	start := time.Now()

	levels, err := s.levels()
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	for _, level := range levels {
		var wg sync.WaitGroup
		for _, u := range level {
			wg.Add(1)
			go func(u material.Updater) {
				defer wg.Done()
				if err := u.Update(); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}(u)
		}
		wg.Wait()
	}

	s.logger.Debugf("scene %s: updated %d objects in %d levels (%v)", s.Name, len(s.objects), len(levels), time.Since(start))
	if len(errs) > 0 {
		s.logger.Errorf("scene %s: %d objects failed to update", s.Name, len(errs))
	}
	return errors.Join(errs...)
}

// levels groups the scene's updaters by dependency depth
func (s *Scene) levels() ([][]material.Updater, error) {
	depths := make(map[string]int, len(s.objects))
	visiting := make(map[string]bool)

	var depth func(obj material.Object) (int, error)
	depth = func(obj material.Object) (int, error) {
		if d, ok := depths[obj.ID()]; ok {
			return d, nil
		}
		if visiting[obj.ID()] {
			return 0, fmt.Errorf("%w through %s", ErrDependencyCycle, obj.Name())
		}
		visiting[obj.ID()] = true
		defer delete(visiting, obj.ID())

		d := 0
		if dep, ok := obj.(material.Dependent); ok {
			for _, child := range dep.Dependencies() {
				cd, err := depth(child)
				if err != nil {
					return 0, err
				}
				d = max(d, cd+1)
			}
		}
		depths[obj.ID()] = d
		return d, nil
	}

	var levels [][]material.Updater
	for _, obj := range s.objects {
		d, err := depth(obj)
		if err != nil {
			return nil, err
		}
		u, ok := obj.(material.Updater)
		if !ok {
			continue
		}
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], u)
	}
	return levels, nil
}
