package glrender

import (
	"unsafe"

	"github.com/gekko3d/skyisle"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Mesh owns the VAO and buffers of one uploaded mesh asset.
type Mesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

const vertexStride = int32(unsafe.Sizeof(skyisle.Vertex{}))

func NewMesh(asset skyisle.MeshAsset) *Mesh {
	m := &Mesh{indexCount: int32(len(asset.Indices))}
	if len(asset.Vertices) == 0 || len(asset.Indices) == 0 {
		return m
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(asset.Vertices)*int(vertexStride), gl.Ptr(asset.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(asset.Indices)*2, gl.Ptr(asset.Indices), gl.STATIC_DRAW)

	// position
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(0))
	// normal
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(3*4))

	gl.BindVertexArray(0)
	return m
}

func (m *Mesh) Draw() {
	if m.vao == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_SHORT, nil)
	gl.BindVertexArray(0)
}

func (m *Mesh) Delete() {
	if m.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}
