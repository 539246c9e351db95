// Package glrender draws the scene with OpenGL 4.1 core into the shared glfw window.
package glrender

import (
	"fmt"

	"github.com/gekko3d/skyisle"
	"github.com/gekko3d/skyisle/platform"
	"github.com/gekko3d/skyisle/shaders"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type renderState struct {
	shader *Shader
	meshes map[skyisle.AssetId]*Mesh
	window *platform.WindowState
}

// Module is the OpenGL renderer. Install it through App.UseRenderer after
// platform.WindowModule{API: platform.OpenGL}.
type Module struct{}

func (Module) Install(app *skyisle.App, cmd *skyisle.Commands) {
	ws := skyisle.MustResource[platform.WindowState](app)
	rs, err := newRenderState(ws, skyisle.MustResource[skyisle.AssetServer](app))
	if err != nil {
		panic(err)
	}
	app.Logger().Infof("opengl: %s, %d meshes uploaded", gl.GoStr(gl.GetString(gl.VERSION)), len(rs.meshes))

	cmd.AddResources(rs)
	app.UseSystem(
		skyisle.System(renderSystem).
			InStage(skyisle.Render).
			RunAlways(),
	)
}

func newRenderState(ws *platform.WindowState, server *skyisle.AssetServer) (*renderState, error) {
	if ws.API != platform.OpenGL {
		return nil, fmt.Errorf("opengl needs a window with an OpenGL context")
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	// the view matrix mirrors X, which flips winding
	gl.Disable(gl.CULL_FACE)

	shader, err := NewShader(shaders.LitVert, shaders.LitFrag)
	if err != nil {
		return nil, err
	}

	rs := &renderState{
		shader: shader,
		meshes: make(map[skyisle.AssetId]*Mesh),
		window: ws,
	}
	for id, asset := range server.Meshes() {
		rs.meshes[id] = NewMesh(asset)
	}
	return rs, nil
}

func renderSystem(rs *renderState, list *skyisle.DrawList) {
	width, height := rs.window.FramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))

	sky := shaders.SkyColor
	gl.ClearColor(sky.X(), sky.Y(), sky.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	rs.shader.Use()
	rs.shader.SetMat4("uViewProj", list.ViewProj())
	rs.shader.SetVec3("uLightDir", shaders.LightDirection)
	rs.shader.SetFloat("uAmbient", shaders.Ambient)

	for _, item := range list.Items {
		mesh, ok := rs.meshes[item.Mesh]
		if !ok {
			continue
		}
		rs.shader.SetMat4("uModel", item.Model)
		rs.shader.SetMat4("uNormal", shaders.NormalMatrix(item.Model))
		rs.shader.SetVec3("uColor", shaders.Albedo(item.Color))
		mesh.Draw()
	}

	rs.window.Window.SwapBuffers()
}

func (rs *renderState) Close() error {
	for _, m := range rs.meshes {
		m.Delete()
	}
	rs.shader.Delete()
	glfw.DetachCurrentContext()
	return nil
}
