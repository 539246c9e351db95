// Package wgpurender draws the scene with WebGPU into the shared glfw window.
package wgpurender

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/skyisle"
	"github.com/gekko3d/skyisle/platform"
	"github.com/gekko3d/skyisle/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

type frameUniform struct {
	ViewProj mgl32.Mat4
	LightDir mgl32.Vec4
	Ambient  mgl32.Vec4
}

type objectUniform struct {
	Model    mgl32.Mat4
	NormalMx mgl32.Mat4
	Color    mgl32.Vec4
}

type gpuMesh struct {
	vertexBuf  *wgpu.Buffer
	indexBuf   *wgpu.Buffer
	indexCount uint32
}

type gpuObject struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

type renderState struct {
	gpu        *gpuState
	pipeline   *wgpu.RenderPipeline
	meshes     map[skyisle.AssetId]gpuMesh
	frameBuf   *wgpu.Buffer
	frameGroup *wgpu.BindGroup
	objects    []gpuObject
}

// clipDepth maps OpenGL clip depth [-1,1] onto the [0,1] range WebGPU expects.
var clipDepth = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Module is the WebGPU renderer. Install it through App.UseRenderer after
// platform.WindowModule{API: platform.NoAPI}.
type Module struct{}

func (Module) Install(app *skyisle.App, cmd *skyisle.Commands) {
	ws := skyisle.MustResource[platform.WindowState](app)
	gs, err := createGpuState(ws)
	if err != nil {
		panic(err)
	}

	pipeline, err := createRenderPipeline("Lit", shaders.LitWGSL, skyisle.Vertex{}, gs)
	if err != nil {
		panic(err)
	}
	frameBuf, err := createUniformBuffer("Frame", uint64(unsafe.Sizeof(frameUniform{})), gs.device)
	if err != nil {
		panic(err)
	}
	frameGroup, err := createBindGroup(0, frameBuf, pipeline, gs.device)
	if err != nil {
		panic(err)
	}

	rs := &renderState{
		gpu:        gs,
		pipeline:   pipeline,
		meshes:     make(map[skyisle.AssetId]gpuMesh),
		frameBuf:   frameBuf,
		frameGroup: frameGroup,
	}
	server := skyisle.MustResource[skyisle.AssetServer](app)
	for id, mesh := range server.Meshes() {
		if err := rs.upload(id, mesh); err != nil {
			panic(err)
		}
	}
	app.Logger().Infof("wgpu: %d meshes uploaded, surface format %v", len(rs.meshes), gs.surfaceConfig.Format)

	cmd.AddResources(rs)
	app.UseSystem(
		skyisle.System(renderSystem).
			InStage(skyisle.Render).
			RunAlways(),
	)
}

func (rs *renderState) upload(id skyisle.AssetId, mesh skyisle.MeshAsset) error {
	vb, ib, err := createVertexIndexBuffers(mesh.Name, wgpu.ToBytes(mesh.Vertices), mesh.Indices, rs.gpu.device)
	if err != nil {
		return err
	}
	rs.meshes[id] = gpuMesh{vertexBuf: vb, indexBuf: ib, indexCount: uint32(len(mesh.Indices))}
	return nil
}

// object returns the uniform slot for draw i, growing the pool as needed.
func (rs *renderState) object(i int) (gpuObject, error) {
	for len(rs.objects) <= i {
		buf, err := createUniformBuffer("Object", uint64(unsafe.Sizeof(objectUniform{})), rs.gpu.device)
		if err != nil {
			return gpuObject{}, err
		}
		group, err := createBindGroup(1, buf, rs.pipeline, rs.gpu.device)
		if err != nil {
			return gpuObject{}, err
		}
		rs.objects = append(rs.objects, gpuObject{buffer: buf, bindGroup: group})
	}
	return rs.objects[i], nil
}

func renderSystem(rs *renderState, list *skyisle.DrawList, ws *platform.WindowState, cmd *skyisle.Commands) {
	if err := rs.draw(list, ws); err != nil {
		cmd.Logger().Errorf("wgpu frame: %v", err)
	}
}

func (rs *renderState) draw(list *skyisle.DrawList, ws *platform.WindowState) error {
	gs := rs.gpu
	if err := gs.resize(ws.FramebufferSize()); err != nil {
		return err
	}

	frame := frameUniform{
		ViewProj: clipDepth.Mul4(list.ViewProj()),
		LightDir: shaders.LightDirection.Vec4(0),
		Ambient:  mgl32.Vec4{shaders.Ambient, 0, 0, 0},
	}
	if err := gs.queue.WriteBuffer(rs.frameBuf, 0, wgpu.ToBytes([]frameUniform{frame})); err != nil {
		return err
	}
	for i, item := range list.Items {
		obj, err := rs.object(i)
		if err != nil {
			return err
		}
		u := objectUniform{
			Model:    item.Model,
			NormalMx: shaders.NormalMatrix(item.Model),
			Color:    shaders.Albedo(item.Color).Vec4(1),
		}
		if err := gs.queue.WriteBuffer(obj.buffer, 0, wgpu.ToBytes([]objectUniform{u})); err != nil {
			return err
		}
	}

	nextTexture, err := gs.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer nextTexture.Release()
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := gs.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	sky := shaders.SkyColor
	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: float64(sky[0]), G: float64(sky[1]), B: float64(sky[2]), A: 1.0},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            gs.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	defer renderPass.Release()

	renderPass.SetPipeline(rs.pipeline)
	renderPass.SetBindGroup(0, rs.frameGroup, nil)
	for i, item := range list.Items {
		mesh, ok := rs.meshes[item.Mesh]
		if !ok {
			continue
		}
		renderPass.SetBindGroup(1, rs.objects[i].bindGroup, nil)
		renderPass.SetVertexBuffer(0, mesh.vertexBuf, 0, wgpu.WholeSize)
		renderPass.SetIndexBuffer(mesh.indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		renderPass.DrawIndexed(mesh.indexCount, 1, 0, 0, 0)
	}
	if err := renderPass.End(); err != nil {
		return err
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	gs.queue.Submit(cmdBuffer)
	gs.surface.Present()
	return nil
}

// Close releases GPU objects. The app calls it on stop.
func (rs *renderState) Close() error {
	for _, o := range rs.objects {
		o.bindGroup.Release()
		o.buffer.Release()
	}
	for _, m := range rs.meshes {
		m.vertexBuf.Release()
		m.indexBuf.Release()
	}
	rs.frameGroup.Release()
	rs.frameBuf.Release()
	rs.pipeline.Release()
	rs.gpu.release()
	return nil
}
