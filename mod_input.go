package skyisle

import (
	"math"
)

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyMinus
	KeyEqual
	KeyKPPlus
	KeyKPMinus
	KeyShift
	KeyControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

// KeyCount bounds the key index space shared by every input source.
const KeyCount = 256

type Input struct {
	Pressed [KeyCount]bool

	JustPressed  [KeyCount]bool
	JustReleased [KeyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollDelta              float64
	MouseCaptured            bool

	WindowWidth, WindowHeight int
	CloseRequested            bool
}

// InputFrame is what sources report for one poll: held state and deltas since the last poll.
type InputFrame struct {
	Held                      [KeyCount]bool
	MouseX, MouseY            float64
	MouseDeltaX, MouseDeltaY  float64
	ScrollDelta               float64
	WindowWidth, WindowHeight int
	CloseRequested            bool
	// MouseCaptured is the current capture request, for sources that own a cursor.
	MouseCaptured bool
}

// InputSource is a device or driver feeding the shared Input resource.
type InputSource interface {
	Poll(frame *InputFrame)
}

// InputSources is the resource listing every installed source. Sources are merged:
// a key is held if any source holds it and deltas are summed.
type InputSources struct {
	sources []InputSource
}

func (s *InputSources) Add(src InputSource) {
	s.sources = append(s.sources, src)
}

func (s *InputSources) Len() int {
	return len(s.sources)
}

type InputModule struct {
	Sources []InputSource
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	sources := &InputSources{}
	for _, src := range mod.Sources {
		sources.Add(src)
	}
	cmd.AddResources(&Input{}, sources)
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(inputCaptureSystem).
			InStage(Update).
			RunAlways(),
	)
}

func inputSystem(input *Input, sources *InputSources) {
	frame := InputFrame{
		MouseCaptured: input.MouseCaptured,
		MouseX:        input.MouseX,
		MouseY:        input.MouseY,
		WindowWidth:   input.WindowWidth,
		WindowHeight:  input.WindowHeight,
	}
	for _, src := range sources.sources {
		src.Poll(&frame)
	}
	input.Apply(frame)
}

// Apply folds a polled frame into the input state, deriving press and release edges.
func (input *Input) Apply(frame InputFrame) {
	for key := 0; key < KeyCount; key++ {
		held := frame.Held[key]
		input.JustPressed[key] = held && !input.Pressed[key]
		input.JustReleased[key] = !held && input.Pressed[key]
		input.Pressed[key] = held
	}

	input.MouseX, input.MouseY = frame.MouseX, frame.MouseY
	input.MouseDeltaX = finiteOrZero(frame.MouseDeltaX)
	input.MouseDeltaY = finiteOrZero(frame.MouseDeltaY)
	input.ScrollDelta = finiteOrZero(frame.ScrollDelta)
	input.WindowWidth, input.WindowHeight = frame.WindowWidth, frame.WindowHeight
	input.CloseRequested = frame.CloseRequested
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func inputCaptureSystem(input *Input) {
	if input.JustPressed[KeyTab] {
		input.MouseCaptured = !input.MouseCaptured
	}
}

// ScriptedSource replays a fixed list of frames, then reports nothing. Useful for tests and demos.
type ScriptedSource struct {
	Frames []InputFrame
	pos    int
}

func (s *ScriptedSource) Poll(frame *InputFrame) {
	if s.pos >= len(s.Frames) {
		return
	}
	f := s.Frames[s.pos]
	s.pos++
	mergeFrame(frame, &f)
}

func mergeFrame(dst, src *InputFrame) {
	for k := range src.Held {
		dst.Held[k] = dst.Held[k] || src.Held[k]
	}
	dst.MouseDeltaX += src.MouseDeltaX
	dst.MouseDeltaY += src.MouseDeltaY
	dst.ScrollDelta += src.ScrollDelta
	dst.CloseRequested = dst.CloseRequested || src.CloseRequested
}

// HeldFrame builds a frame with the given keys held.
func HeldFrame(keys ...int) InputFrame {
	var f InputFrame
	for _, k := range keys {
		f.Held[k] = true
	}
	return f
}
