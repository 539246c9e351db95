package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/skyisle"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedAutopilotCompiles(t *testing.T) {
	pilot, err := Load(DefaultScript)
	require.NoError(t, err)

	c, err := pilot.Step(State{Tick: 10, OnGround: true})
	require.NoError(t, err)
	assert.True(t, c.Forward)
	assert.False(t, c.Back)
	assert.True(t, c.Rotate)
}

func TestAutopilotJumpsOnlyOnGround(t *testing.T) {
	pilot, err := Load(DefaultScript)
	require.NoError(t, err)

	c, err := pilot.Step(State{Tick: 45, OnGround: true})
	require.NoError(t, err)
	assert.True(t, c.Jump)

	c, err = pilot.Step(State{Tick: 45, OnGround: false})
	require.NoError(t, err)
	assert.False(t, c.Jump)
}

func TestAutopilotSteersBackInward(t *testing.T) {
	pilot, err := Load(DefaultScript)
	require.NoError(t, err)

	c, err := pilot.Step(State{Tick: 150, Position: mgl32.Vec3{15, 0, 0}})
	require.NoError(t, err)
	assert.True(t, c.Left)
	assert.False(t, c.Right)
}

func TestMissingGlobalsReadAsZero(t *testing.T) {
	pilot, err := Compile("partial", []byte(`forward := x > 1.0`))
	require.NoError(t, err)

	c, err := pilot.Step(State{Position: mgl32.Vec3{2, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, Controls{Forward: true}, c)
}

func TestCompileError(t *testing.T) {
	_, err := Compile("broken", []byte(`forward := (`))
	assert.Error(t, err)
}

func TestSourceMapsControlsToKeys(t *testing.T) {
	pilot, err := Compile("all", []byte(`
forward := true
sprint := true
jump := tick == 3
rotate := true
look_dx := 5
look_dy := -2.5
scroll := 1.0
`))
	require.NoError(t, err)

	src := NewSource(pilot, func() State { return State{Tick: 3} }, nil)
	var frame skyisle.InputFrame
	src.Poll(&frame)

	assert.True(t, frame.Held[skyisle.KeyW])
	assert.True(t, frame.Held[skyisle.KeyShift])
	assert.True(t, frame.Held[skyisle.KeySpace])
	assert.True(t, frame.Held[skyisle.MouseButtonRight])
	assert.False(t, frame.Held[skyisle.KeyS])
	assert.Equal(t, 5.0, frame.MouseDeltaX)
	assert.Equal(t, -2.5, frame.MouseDeltaY)
	assert.Equal(t, 1.0, frame.ScrollDelta)
}

func TestSourceStopsOnRuntimeErrorUntilReplaced(t *testing.T) {
	bad, err := Compile("bad", []byte(`
forward := 10 / (tick - 5) > 0
`))
	require.NoError(t, err)
	good, err := Compile("good", []byte(`forward := true`))
	require.NoError(t, err)

	tick := uint64(5)
	src := NewSource(bad, func() State { return State{Tick: tick} }, nil)

	var frame skyisle.InputFrame
	src.Poll(&frame)
	assert.False(t, frame.Held[skyisle.KeyW])
	assert.True(t, src.failed)

	src.Replace(good)
	src.Poll(&frame)
	assert.True(t, frame.Held[skyisle.KeyW])
}

func TestStepReportsVMPanicsAsErrors(t *testing.T) {
	pilot, err := Compile("div", []byte(`forward := 10 / tick > 0`))
	require.NoError(t, err)

	_, err = pilot.Step(State{Tick: 0})
	assert.Error(t, err)

	c, err := pilot.Step(State{Tick: 2})
	require.NoError(t, err, "the script keeps working after a failed run")
	assert.True(t, c.Forward)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.tengo")
	require.NoError(t, os.WriteFile(path, []byte(`back := true`), 0o644))

	pilot, err := Load(path)
	require.NoError(t, err)
	c, err := pilot.Step(State{})
	require.NoError(t, err)
	assert.True(t, c.Back)
}
