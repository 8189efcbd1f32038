package material

import (
	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/google/uuid"
)

// Object is anything a scene can reference by name
type Object interface {
	Name() string
	ID() string
}

// Updater is implemented by objects that prepare themselves once per frame
type Updater interface {
	Update() error
}

// Dependent is implemented by objects that reference other scene objects.
// The scene updates dependencies before their dependents.
type Dependent interface {
	Dependencies() []Object
}

// SceneObject carries the identity and logger shared by all scene objects
type SceneObject struct {
	name   string
	id     string
	logger core.Logger
}

func newSceneObject(name string) SceneObject {
	return SceneObject{name: name, id: uuid.NewString(), logger: core.NewNopLogger()}
}

// Name returns the scene name of the object
func (o *SceneObject) Name() string { return o.name }

// ID returns the unique instance id of the object
func (o *SceneObject) ID() string { return o.id }

// SetLogger sets the logger used for configuration diagnostics
func (o *SceneObject) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	o.logger = logger
}

// Logger returns the object's logger
func (o *SceneObject) Logger() core.Logger {
	if o.logger == nil {
		return core.NewNopLogger()
	}
	return o.logger
}

// fatal logs a configuration error and returns it
func (o *SceneObject) fatal(err error) error {
	core.LogSeverity(o.Logger(), core.SeverityFatal, "%s: %v", o.name, err)
	return err
}

// LightSet is a named group of lights that a material restricts itself to
type LightSet struct {
	SceneObject
	Lights []string
}

// NewLightSet creates a light set
func NewLightSet(name string, lights ...string) *LightSet {
	return &LightSet{SceneObject: newSceneObject(name), Lights: lights}
}

// TraceSet is a named group of geometry used by subsurface tracing
type TraceSet struct {
	SceneObject
	Geometry []string
}

// NewTraceSet creates a trace set
func NewTraceSet(name string, geometry ...string) *TraceSet {
	return &TraceSet{SceneObject: newSceneObject(name), Geometry: geometry}
}
