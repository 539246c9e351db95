package skyisle

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// Vertex is the layout shared by every renderer: position then normal.
type Vertex struct {
	Position mgl32.Vec3 `gekko:"layout" location:"0" format:"float3"`
	Normal   mgl32.Vec3 `gekko:"layout" location:"1" format:"float3"`
}

type MeshAsset struct {
	Name     string
	Vertices []Vertex
	Indices  []uint16
}

// Bounds is the local-space box around the vertices.
func (m MeshAsset) Bounds() AABB {
	if len(m.Vertices) == 0 {
		return AABB{}
	}
	b := AABB{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], v.Position[i])
			b.Max[i] = max(b.Max[i], v.Position[i])
		}
	}
	return b
}

type AssetServer struct {
	mu     sync.RWMutex
	meshes map[AssetId]MeshAsset
	shapes map[Shape]AssetId
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		meshes: make(map[AssetId]MeshAsset),
		shapes: make(map[Shape]AssetId),
	}
}

func (server *AssetServer) LoadMesh(name string, vertices []Vertex, indices []uint16) AssetId {
	id := makeAssetId()

	server.mu.Lock()
	server.meshes[id] = MeshAsset{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	server.mu.Unlock()

	return id
}

func (server *AssetServer) Mesh(id AssetId) (MeshAsset, bool) {
	server.mu.RLock()
	defer server.mu.RUnlock()
	m, ok := server.meshes[id]
	return m, ok
}

// Meshes returns a snapshot of every mesh id, for renderers uploading at startup.
func (server *AssetServer) Meshes() map[AssetId]MeshAsset {
	server.mu.RLock()
	defer server.mu.RUnlock()
	out := make(map[AssetId]MeshAsset, len(server.meshes))
	for id, m := range server.meshes {
		out[id] = m
	}
	return out
}

// UnitMesh returns the shared unit-sized mesh for a shape, building it on first use.
func (server *AssetServer) UnitMesh(shape Shape) (AssetId, error) {
	server.mu.RLock()
	id, ok := server.shapes[shape]
	server.mu.RUnlock()
	if ok {
		return id, nil
	}

	var vertices []Vertex
	var indices []uint16
	switch shape {
	case ShapeBox:
		vertices, indices = BoxMesh()
	case ShapeSphere:
		vertices, indices = SphereMesh(24, 16)
	case ShapeCylinder:
		vertices, indices = CylinderMesh(24)
	case ShapeCapsule:
		vertices, indices = CapsuleMesh(0.5, 1, 24, 8)
	default:
		return "", fmt.Errorf("no mesh for shape %q", shape)
	}

	id = server.LoadMesh(string(shape), vertices, indices)
	server.mu.Lock()
	server.shapes[shape] = id
	server.mu.Unlock()
	return id, nil
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[AssetServer](app); ok {
		return
	}
	cmd.AddResources(NewAssetServer())
}
