package skyisle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitMeshesAreShared(t *testing.T) {
	server := NewAssetServer()
	a, err := server.UnitMesh(ShapeBox)
	require.NoError(t, err)
	b, err := server.UnitMesh(ShapeBox)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = server.UnitMesh(Shape("cone"))
	assert.ErrorContains(t, err, `no mesh for shape "cone"`)
	assert.Len(t, server.Meshes(), 1)
}

func TestUnitMeshBounds(t *testing.T) {
	server := NewAssetServer()
	half := mgl32.Vec3{0.5, 0.5, 0.5}
	for _, shape := range []Shape{ShapeBox, ShapeSphere, ShapeCylinder} {
		id, err := server.UnitMesh(shape)
		require.NoError(t, err)
		mesh, ok := server.Mesh(id)
		require.True(t, ok)
		b := mesh.Bounds()
		for i := 0; i < 3; i++ {
			assert.InDelta(t, half[i], b.Max[i], 1e-5, "%s max %d", shape, i)
			assert.InDelta(t, -half[i], b.Min[i], 1e-5, "%s min %d", shape, i)
		}
	}

	id, err := server.UnitMesh(ShapeCapsule)
	require.NoError(t, err)
	mesh, _ := server.Mesh(id)
	assert.InDelta(t, 1.5, mesh.Bounds().Max.Y(), 1e-5, "the capsule matches the default body")
}

func TestMeshIndicesInRange(t *testing.T) {
	meshes := map[string]func() ([]Vertex, []uint16){
		"box":      BoxMesh,
		"sphere":   func() ([]Vertex, []uint16) { return SphereMesh(12, 8) },
		"cylinder": func() ([]Vertex, []uint16) { return CylinderMesh(12) },
		"capsule":  func() ([]Vertex, []uint16) { return CapsuleMesh(0.5, 1, 12, 4) },
	}
	for name, build := range meshes {
		vertices, indices := build()
		if len(indices)%3 != 0 {
			t.Errorf("%s: %d indices is not a triangle list", name, len(indices))
		}
		for _, i := range indices {
			if int(i) >= len(vertices) {
				t.Errorf("%s: index %d out of %d vertices", name, i, len(vertices))
				break
			}
		}
	}
}

func TestAssetServerModuleKeepsExisting(t *testing.T) {
	server := NewAssetServer()
	app := NewAppBuilder().UseResources(server).UseModule(AssetServerModule{}).Build()
	assert.Same(t, server, MustResource[AssetServer](app))
}
