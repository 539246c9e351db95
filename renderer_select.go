package skyisle

import (
	"fmt"
)

// RendererName identifies a concrete renderer module.
type RendererName string

const (
	RendererWGPU     RendererName = "wgpu"
	RendererOpenGL   RendererName = "opengl"
	RendererTerminal RendererName = "terminal"
	RendererNone     RendererName = "none"
)

func ParseRendererName(s string) (RendererName, error) {
	switch n := RendererName(s); n {
	case RendererWGPU, RendererOpenGL, RendererTerminal, RendererNone:
		return n, nil
	}
	return "", fmt.Errorf("unknown renderer %q", s)
}

// Renderer is an alias to Module for semantic clarity in APIs.
type Renderer interface {
	Module
}

// UseRenderer installs exactly one renderer module. A nil module records the
// choice without drawing anything, which is what headless runs use.
//
//	app.UseRenderer(RendererWGPU, wgpurender.Module{})
func (app *App) UseRenderer(name RendererName, mod Renderer) *App {
	ensureSingleRenderer(app, name)
	app.Logger().Infof("renderer selected: %s", name)
	if mod != nil {
		app.UseModules(DrawListModule{}, mod)
	}
	return app
}
