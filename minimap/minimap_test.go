package minimap

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/gekko3d/skyisle"
	"github.com/gekko3d/skyisle/shaders"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

func testLevel() *skyisle.Level {
	return &skyisle.Level{
		Name: "test",
		Props: []skyisle.Prop{
			{Name: "ground", Shape: skyisle.ShapeBox, Center: mgl32.Vec3{0, -1, 0}, Size: mgl32.Vec3{20, 2, 20}, Color: mgl32.Vec3{0.3, 0.6, 0.3}},
			{Name: "tower", Shape: skyisle.ShapeBox, Center: mgl32.Vec3{5, 2, 5}, Size: mgl32.Vec3{2, 4, 2}, Color: mgl32.Vec3{0.6, 0.4, 0.2}},
		},
	}
}

func TestRenderSizeAndLayers(t *testing.T) {
	opts := Options{Scale: 4, Margin: 10}
	img := Render(testLevel(), mgl32.Vec3{-5, 0, -5}, opts)

	assert.Equal(t, 20*4+2*10, img.Bounds().Dx())
	assert.Equal(t, 20*4+2*10, img.Bounds().Dy())

	m := mapper{bounds: testLevel().Bounds(), scale: 4, margin: 10}

	sky := toColor(shaders.SkyColor)
	assert.Equal(t, sky, img.RGBAAt(2, 2))

	ground := toColor(shaders.Shade(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0.3, 0.6, 0.3}))
	p := m.point(-8, 8)
	assert.Equal(t, ground, img.RGBAAt(p.X, p.Y))

	tower := toColor(shaders.Shade(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0.6, 0.4, 0.2}))
	p = m.point(5, 5)
	assert.Equal(t, tower, img.RGBAAt(p.X, p.Y), "taller props are drawn on top")

	p = m.point(-5, -5)
	r, g, b, _ := colornames.Crimson.RGBA()
	got := img.RGBAAt(p.X, p.Y)
	assert.Equal(t, [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}, [3]uint8{got.R, got.G, got.B})
}

func TestMapperOrientation(t *testing.T) {
	m := mapper{bounds: testLevel().Bounds(), scale: 2}
	origin := m.point(0, 0)
	assert.Greater(t, m.point(5, 0).X, origin.X)
	assert.Less(t, m.point(0, 5).Y, origin.Y)
}

func TestRoundShapesAreDiscs(t *testing.T) {
	level := &skyisle.Level{Props: []skyisle.Prop{
		{Name: "rock", Shape: skyisle.ShapeSphere, Size: mgl32.Vec3{10, 10, 10}, Color: mgl32.Vec3{1, 1, 1}},
	}}
	img := Render(level, mgl32.Vec3{100, 0, 100}, Options{Scale: 4})

	sky := toColor(shaders.SkyColor)
	assert.NotEqual(t, sky, img.RGBAAt(20, 20), "center is filled")
	assert.Equal(t, sky, img.RGBAAt(0, 0), "corner stays empty")
}

func TestLabelsDrawText(t *testing.T) {
	level := testLevel()
	level.Props[1].Name = "platform-0"

	plain := Render(level, mgl32.Vec3{}, Options{Scale: 4, Margin: 10})
	labeled := Render(level, mgl32.Vec3{}, Options{Scale: 4, Margin: 10, Labels: true})
	assert.NotEqual(t, plain.Pix, labeled.Pix)
}

func TestExportWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, Export(path, testLevel(), mgl32.Vec3{}, DefaultOptions()))

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, Render(testLevel(), mgl32.Vec3{}, DefaultOptions())))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 20*8+2*16, img.Bounds().Dx())
}
