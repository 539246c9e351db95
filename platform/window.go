package platform

import (
	"fmt"
	"runtime"

	"github.com/gekko3d/skyisle"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ClientAPI selects what the window's surface is created for.
type ClientAPI int

const (
	// NoAPI leaves the surface to WebGPU.
	NoAPI ClientAPI = iota
	OpenGL
)

type WindowState struct {
	Window *glfw.Window
	Width  int
	Height int
	Title  string
	API    ClientAPI
}

// NewWindowState initializes glfw and opens the shared window. It must be called
// from the main goroutine.
func NewWindowState(width, height int, title string, api ClientAPI, vsync bool) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	switch api {
	case OpenGL:
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	default:
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	if api == OpenGL {
		win.MakeContextCurrent()
		if vsync {
			glfw.SwapInterval(1)
		} else {
			glfw.SwapInterval(0)
		}
	}

	return &WindowState{
		Window: win,
		Width:  width,
		Height: height,
		Title:  title,
		API:    api,
	}, nil
}

// FramebufferSize is the drawable size in pixels, which differs from the window
// size on high-DPI displays.
func (s *WindowState) FramebufferSize() (int, int) {
	return s.Window.GetFramebufferSize()
}

func (s *WindowState) SetCaptured(captured bool) {
	if captured {
		s.Window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		s.Window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

func (s *WindowState) Close() error {
	s.Window.Destroy()
	glfw.Terminate()
	return nil
}

// WindowModule opens the shared window and registers it as an input source.
// Install it after skyisle.InputModule. Installing it twice keeps the first window.
type WindowModule struct {
	Width  int
	Height int
	Title  string
	API    ClientAPI
	VSync  bool
}

func (m WindowModule) Install(app *skyisle.App, cmd *skyisle.Commands) {
	if _, ok := skyisle.Resource[WindowState](app); ok {
		return
	}
	width, height, title := m.Width, m.Height, m.Title
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Sky Isle"
	}

	ws, err := NewWindowState(width, height, title, m.API, m.VSync)
	if err != nil {
		panic(err)
	}
	cmd.AddResources(ws)
	app.Logger().Infof("created window (%dx%d) %q", width, height, title)

	sources := skyisle.MustResource[skyisle.InputSources](app)
	sources.Add(NewInputSource(ws))
}
