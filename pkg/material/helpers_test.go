package material

import (
	"testing"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/stretchr/testify/require"
)

func testState() *core.State {
	return core.NewState(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec2(0.5, 0.5))
}

// update runs Update on every object in order and fails the test on error
func update(t *testing.T, objs ...Updater) {
	t.Helper()
	for _, o := range objs {
		require.NoError(t, o.Update())
	}
}

// resolve resolves m for state and fails the test if it cannot be resolved
func resolve(t *testing.T, m Layerable, state *core.State) Parameters {
	t.Helper()
	var p Parameters
	require.True(t, m.ResolveParameters(state, m.CastsCaustics(), &p), "%s should resolve", m.Name())
	return p
}

func vecNear(t *testing.T, want, got core.Vec3, msgAndArgs ...any) {
	t.Helper()
	if !got.Equals(want, 1e-9) {
		require.Failf(t, "vectors differ", "want %v, got %v %v", want, got, msgAndArgs)
	}
}

// recordingBuilder captures what Shade hands to the lobe builder
type recordingBuilder struct {
	calls   int
	params  Parameters
	uniform UniformParameters
}

func (r *recordingBuilder) Build(state *core.State, p *Parameters, u *UniformParameters) {
	r.calls++
	r.params = *p
	r.uniform = *u
}

// opaque is a scene object that is not a material
type opaque struct {
	SceneObject
}

func newOpaque(name string) *opaque {
	return &opaque{SceneObject: newSceneObject(name)}
}

func newGlitterBase(name string, albedo core.Vec3) *Base {
	b := NewLambertian(name, albedo)
	b.Glitter = NewGlitterSettings()
	return b
}
