package platform

import (
	"github.com/gekko3d/skyisle"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// InputSource polls glfw events and reports the window's keyboard and mouse.
type InputSource struct {
	state *WindowState

	scroll   float64
	lastX    float64
	lastY    float64
	hasLast  bool
	captured bool
}

func NewInputSource(ws *WindowState) *InputSource {
	src := &InputSource{state: ws}
	ws.Window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		src.scroll += yoff
	})
	return src
}

func (src *InputSource) Poll(frame *skyisle.InputFrame) {
	win := src.state.Window
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		if win.GetKey(glfwKey) == glfw.Press {
			frame.Held[key] = true
		}
	}
	for key, glfwKey := range altKeyToGlfw {
		if win.GetKey(glfwKey) == glfw.Press {
			frame.Held[key] = true
		}
	}
	for btn, glfwBtn := range buttonToGlfw {
		if win.GetMouseButton(glfwBtn) == glfw.Press {
			frame.Held[btn] = true
		}
	}

	mx, my := win.GetCursorPos()
	if src.hasLast {
		frame.MouseDeltaX += mx - src.lastX
		frame.MouseDeltaY += my - src.lastY
	}
	src.lastX, src.lastY, src.hasLast = mx, my, true
	frame.MouseX, frame.MouseY = mx, my

	frame.ScrollDelta += src.scroll
	src.scroll = 0

	frame.WindowWidth, frame.WindowHeight = src.state.FramebufferSize()
	frame.CloseRequested = frame.CloseRequested || win.ShouldClose()

	if frame.MouseCaptured != src.captured {
		src.captured = frame.MouseCaptured
		src.state.SetCaptured(src.captured)
	}
}

var buttonToGlfw = map[int]glfw.MouseButton{
	skyisle.MouseButtonLeft:   glfw.MouseButtonLeft,
	skyisle.MouseButtonRight:  glfw.MouseButtonRight,
	skyisle.MouseButtonMiddle: glfw.MouseButtonMiddle,
}

// right-hand modifiers report as the shared modifier key
var altKeyToGlfw = map[int]glfw.Key{
	skyisle.KeyShift:   glfw.KeyRightShift,
	skyisle.KeyControl: glfw.KeyRightControl,
}

var keyToGlfw = map[int]glfw.Key{
	skyisle.KeyA:         glfw.KeyA,
	skyisle.KeyB:         glfw.KeyB,
	skyisle.KeyC:         glfw.KeyC,
	skyisle.KeyD:         glfw.KeyD,
	skyisle.KeyE:         glfw.KeyE,
	skyisle.KeyF:         glfw.KeyF,
	skyisle.KeyG:         glfw.KeyG,
	skyisle.KeyH:         glfw.KeyH,
	skyisle.KeyI:         glfw.KeyI,
	skyisle.KeyJ:         glfw.KeyJ,
	skyisle.KeyK:         glfw.KeyK,
	skyisle.KeyL:         glfw.KeyL,
	skyisle.KeyM:         glfw.KeyM,
	skyisle.KeyN:         glfw.KeyN,
	skyisle.KeyO:         glfw.KeyO,
	skyisle.KeyP:         glfw.KeyP,
	skyisle.KeyQ:         glfw.KeyQ,
	skyisle.KeyR:         glfw.KeyR,
	skyisle.KeyS:         glfw.KeyS,
	skyisle.KeyT:         glfw.KeyT,
	skyisle.KeyU:         glfw.KeyU,
	skyisle.KeyV:         glfw.KeyV,
	skyisle.KeyW:         glfw.KeyW,
	skyisle.KeyX:         glfw.KeyX,
	skyisle.KeyY:         glfw.KeyY,
	skyisle.KeyZ:         glfw.KeyZ,
	skyisle.Key0:         glfw.Key0,
	skyisle.Key1:         glfw.Key1,
	skyisle.Key2:         glfw.Key2,
	skyisle.Key3:         glfw.Key3,
	skyisle.Key4:         glfw.Key4,
	skyisle.Key5:         glfw.Key5,
	skyisle.Key6:         glfw.Key6,
	skyisle.Key7:         glfw.Key7,
	skyisle.Key8:         glfw.Key8,
	skyisle.Key9:         glfw.Key9,
	skyisle.KeySpace:     glfw.KeySpace,
	skyisle.KeyEnter:     glfw.KeyEnter,
	skyisle.KeyEscape:    glfw.KeyEscape,
	skyisle.KeyTab:       glfw.KeyTab,
	skyisle.KeyBackspace: glfw.KeyBackspace,
	skyisle.KeyInsert:    glfw.KeyInsert,
	skyisle.KeyDelete:    glfw.KeyDelete,
	skyisle.KeyRight:     glfw.KeyRight,
	skyisle.KeyLeft:      glfw.KeyLeft,
	skyisle.KeyDown:      glfw.KeyDown,
	skyisle.KeyUp:        glfw.KeyUp,
	skyisle.KeyF1:        glfw.KeyF1,
	skyisle.KeyF2:        glfw.KeyF2,
	skyisle.KeyF3:        glfw.KeyF3,
	skyisle.KeyF4:        glfw.KeyF4,
	skyisle.KeyF5:        glfw.KeyF5,
	skyisle.KeyF6:        glfw.KeyF6,
	skyisle.KeyF7:        glfw.KeyF7,
	skyisle.KeyF8:        glfw.KeyF8,
	skyisle.KeyF9:        glfw.KeyF9,
	skyisle.KeyF10:       glfw.KeyF10,
	skyisle.KeyF11:       glfw.KeyF11,
	skyisle.KeyF12:       glfw.KeyF12,
	skyisle.KeyMinus:     glfw.KeyMinus,
	skyisle.KeyEqual:     glfw.KeyEqual,
	skyisle.KeyKPPlus:    glfw.KeyKPAdd,
	skyisle.KeyKPMinus:   glfw.KeyKPSubtract,
	skyisle.KeyShift:     glfw.KeyLeftShift,
	skyisle.KeyControl:   glfw.KeyLeftControl,
	skyisle.KeyLeftAlt:   glfw.KeyLeftAlt,
}
