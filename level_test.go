package skyisle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultLevel(t *testing.T) *Level {
	t.Helper()
	spec, err := LoadLevel("")
	require.NoError(t, err)
	level, err := BuildLevel(spec, NewAssetServer())
	require.NoError(t, err)
	return level
}

func propByName(l *Level, name string) (Prop, bool) {
	for _, p := range l.Props {
		if p.Name == name {
			return p, true
		}
	}
	return Prop{}, false
}

func TestDefaultLevel(t *testing.T) {
	level := defaultLevel(t)
	assert.Equal(t, "floating-island", level.Name)
	assert.Len(t, level.Props, 36)
	assert.Len(t, level.Colliders(), 27)

	island, ok := propByName(level, "island")
	require.True(t, ok)
	assert.Equal(t, float32(0), island.Bounds().Max.Y(), "the island top is the ground plane")

	for _, p := range level.Props {
		assert.NotEmpty(t, p.Mesh, p.Name)
	}
}

func TestRingRadiusCycles(t *testing.T) {
	level := defaultLevel(t)
	radius := func(name string) float32 {
		p, ok := propByName(level, name)
		require.True(t, ok, name)
		return mgl32.Vec2{p.Center.X(), p.Center.Z()}.Len()
	}
	assert.InDelta(t, 15, radius("rock-0"), 1e-4)
	assert.InDelta(t, 17, radius("rock-1"), 1e-4)
	assert.InDelta(t, 19, radius("rock-2"), 1e-4)
	assert.InDelta(t, 15, radius("rock-3"), 1e-4)
	assert.InDelta(t, 12, radius("trunk-5"), 1e-4)
}

func TestPlatformSizesCycle(t *testing.T) {
	level := defaultLevel(t)
	p0, _ := propByName(level, "platform-0")
	p1, _ := propByName(level, "platform-1")
	p2, _ := propByName(level, "platform-2")
	assert.Equal(t, mgl32.Vec3{6, 1, 6}, p0.Size)
	assert.Equal(t, mgl32.Vec3{10, 1, 10}, p1.Size)
	assert.Equal(t, mgl32.Vec3{6, 1, 6}, p2.Size)
	assert.True(t, p0.Solid)
	assert.Equal(t, ShapeBox, p0.Shape)
}

func TestLevelBounds(t *testing.T) {
	b := defaultLevel(t).Bounds()
	assert.InDelta(t, -30, b.Min.X(), 1e-4)
	assert.InDelta(t, 28, b.Max.X(), 1e-4)
	assert.InDelta(t, -2, b.Min.Y(), 1e-4)
	assert.InDelta(t, 12.5, b.Max.Y(), 1e-4)

	assert.Equal(t, AABB{}, (&Level{}).Bounds())
}

func TestPropModelMapsUnitCube(t *testing.T) {
	p := Prop{Center: mgl32.Vec3{1, 2, 3}, Size: mgl32.Vec3{4, 2, 6}}
	corner := p.Model().Mul4x1(mgl32.Vec4{0.5, 0.5, 0.5, 1}).Vec3()
	assert.Equal(t, p.Bounds().Max, corner)
}

func TestParseLevelValidates(t *testing.T) {
	_, err := ParseLevel([]byte(`
name: broken
props:
  - name: blob
    shape: torus
    size: [1, 0, 1]
rings:
  - name: r
    count: -1
    prop: {shape: box, size: [1, 1, 1]}
platforms:
  positions: [[0, 0, 0]]
`))
	require.Error(t, err)
	for _, want := range []string{`unknown shape "torus"`, "size must be positive", "negative count", "platforms"} {
		assert.Contains(t, err.Error(), want)
	}

	_, err = ParseLevel([]byte("props: {"))
	assert.ErrorContains(t, err, "parse level")
}

func TestLoadLevelFromDisk(t *testing.T) {
	path := writeFile(t, "tiny.yaml", `
name: tiny
props:
  - {name: floor, shape: box, center: [0, -0.5, 0], size: [10, 1, 10], solid: true}
  - {name: ball, shape: sphere, center: [0, 1, 0], size: [1, 1, 1]}
`)
	spec, err := LoadLevel(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", spec.Name)
	assert.Len(t, spec.Props, 2)
	assert.Len(t, spec.Expand(), 2, "a level without rings or platforms expands to its props")

	server := NewAssetServer()
	level, err := BuildLevel(spec, server)
	require.NoError(t, err)
	assert.Len(t, level.Props, 2)
	assert.Len(t, level.Colliders(), 1)
	assert.Len(t, server.Meshes(), 2, "one shared mesh per shape")
}
