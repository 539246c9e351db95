package skyisle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputApplyEdges(t *testing.T) {
	var in Input

	in.Apply(HeldFrame(KeyW))
	assert.True(t, in.Pressed[KeyW])
	assert.True(t, in.JustPressed[KeyW])
	assert.False(t, in.JustReleased[KeyW])

	in.Apply(HeldFrame(KeyW))
	assert.True(t, in.Pressed[KeyW])
	assert.False(t, in.JustPressed[KeyW], "held keys press once")

	in.Apply(InputFrame{})
	assert.False(t, in.Pressed[KeyW])
	assert.True(t, in.JustReleased[KeyW])

	in.Apply(InputFrame{})
	assert.False(t, in.JustReleased[KeyW])
}

func TestInputApplyDropsNonFiniteDeltas(t *testing.T) {
	var in Input
	in.Apply(InputFrame{
		MouseDeltaX: math.NaN(),
		MouseDeltaY: math.Inf(1),
		ScrollDelta: 2,
	})
	assert.Zero(t, in.MouseDeltaX)
	assert.Zero(t, in.MouseDeltaY)
	assert.Equal(t, 2.0, in.ScrollDelta)
}

func TestScriptedSourceReplaysThenGoesQuiet(t *testing.T) {
	src := &ScriptedSource{Frames: []InputFrame{HeldFrame(KeyW), {MouseDeltaX: 5}}}

	var f InputFrame
	src.Poll(&f)
	assert.True(t, f.Held[KeyW])

	f = InputFrame{}
	src.Poll(&f)
	assert.False(t, f.Held[KeyW])
	assert.Equal(t, 5.0, f.MouseDeltaX)

	f = InputFrame{}
	src.Poll(&f)
	assert.Equal(t, InputFrame{}, f)
}

func TestInputSystemMergesSources(t *testing.T) {
	a := &ScriptedSource{Frames: []InputFrame{{Held: HeldFrame(KeyW).Held, MouseDeltaX: 1}}}
	b := &ScriptedSource{Frames: []InputFrame{{Held: HeldFrame(KeyShift).Held, MouseDeltaX: 2, CloseRequested: true}}}
	app := NewAppBuilder().UseModule(InputModule{Sources: []InputSource{a, b}}).Build()

	input := MustResource[Input](app)
	sources := MustResource[InputSources](app)
	assert.Equal(t, 2, sources.Len())

	inputSystem(input, sources)
	assert.True(t, input.Pressed[KeyW])
	assert.True(t, input.Pressed[KeyShift])
	assert.Equal(t, 3.0, input.MouseDeltaX)
	assert.True(t, input.CloseRequested)
}

func TestTabTogglesCapture(t *testing.T) {
	var in Input
	in.Apply(HeldFrame(KeyTab))
	inputCaptureSystem(&in)
	assert.True(t, in.MouseCaptured)

	in.Apply(HeldFrame(KeyTab))
	inputCaptureSystem(&in)
	assert.True(t, in.MouseCaptured, "only the press edge toggles")

	in.Apply(InputFrame{})
	in.Apply(HeldFrame(KeyTab))
	inputCaptureSystem(&in)
	assert.False(t, in.MouseCaptured)
}

func TestKeysFromInputMirrorsArrows(t *testing.T) {
	var in Input
	in.Apply(HeldFrame(KeyUp, KeyLeft, KeyShift, KeySpace))
	k := KeysFromInput(&in)
	assert.True(t, k.Forward)
	assert.True(t, k.Left)
	assert.True(t, k.Sprint)
	assert.True(t, k.Jump)
	assert.False(t, k.Back)
	assert.False(t, k.Right)
}
