package term

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/skyisle"
	"github.com/gekko3d/skyisle/rig"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct {
	r     rune
	style tcell.Style
}

// recordingScreen keeps what was drawn so tests can read it back.
type recordingScreen struct {
	tcell.Screen
	width, height int
	cells         map[[2]int]cell
}

func newRecordingScreen(w, h int) *recordingScreen {
	return &recordingScreen{width: w, height: h, cells: make(map[[2]int]cell)}
}

func (s *recordingScreen) Size() (int, int) { return s.width, s.height }
func (s *recordingScreen) Clear()           { s.cells = make(map[[2]int]cell) }
func (s *recordingScreen) Show()            {}
func (s *recordingScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	s.cells[[2]int{x, y}] = cell{mainc, style}
}

func (s *recordingScreen) row(y int) string {
	var b strings.Builder
	for x := 0; x < s.width; x++ {
		if c, ok := s.cells[[2]int{x, y}]; ok {
			b.WriteRune(c.r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func testScene() (*skyisle.DrawList, *skyisle.Player, *skyisle.CameraRig) {
	player := skyisle.NewPlayer(skyisle.DefaultPlayerTuning())
	player.Position = mgl32.Vec3{0, 1.5, 0}
	player.Facing = mgl32.Vec3{1, 0, 0}

	camera := skyisle.NewCameraRig(rig.Orbit{Distance: 8}, rig.DefaultOrbitLimits(), skyisle.DefaultCameraTuning())
	camera.Snap(player.Position)

	list := &skyisle.DrawList{
		Items: []skyisle.DrawItem{
			{Name: "island", Shape: skyisle.ShapeBox, Color: mgl32.Vec3{0.3, 0.6, 0.3},
				Bounds: skyisle.AABB{Min: mgl32.Vec3{-20, -2, -20}, Max: mgl32.Vec3{20, 0, 20}}},
			{Name: "player", Bounds: player.Bounds(skyisle.DefaultPlayerTuning())},
		},
		PlayerAt: 1,
		Eye:      camera.View.Position,
	}
	return list, player, camera
}

func TestDrawShowsPlayerCameraAndHud(t *testing.T) {
	scr := newRecordingScreen(80, 24)
	list, player, camera := testScene()

	Draw(scr, list, list.Items[0].Bounds, player, camera, false)

	assert.Contains(t, scr.row(0), "playing")
	assert.Contains(t, scr.row(0), "dist 8.0")

	radar := FitRadar(list.Items[0].Bounds, 80, 23)
	col, row := radar.Project(0, 0)
	assert.Equal(t, '→', scr.cells[[2]int{col, row + 1}].r)

	eye := list.Eye
	col, row = radar.Project(eye.X(), eye.Z())
	assert.Equal(t, 'C', scr.cells[[2]int{col, row + 1}].r)

	col, row = radar.Project(-10, -10)
	_, bg, _ := scr.cells[[2]int{col, row + 1}].style.Decompose()
	assert.Equal(t, rgb(CellColor(list.Items[0])), bg)
}

func TestDrawPausedHud(t *testing.T) {
	scr := newRecordingScreen(80, 24)
	list, player, camera := testScene()

	Draw(scr, list, list.Items[0].Bounds, player, camera, true)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(scr.row(0)), "paused"))
}

func TestDrawTinyScreen(t *testing.T) {
	scr := newRecordingScreen(10, 1)
	list, player, camera := testScene()

	Draw(scr, list, list.Items[0].Bounds, player, camera, false)
	assert.Empty(t, scr.cells)
}

func TestOpenScreenSimulation(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	scr, err := OpenScreen(sim)
	require.NoError(t, err)
	sim.SetSize(80, 24)

	w, h := scr.Size()
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	require.NoError(t, scr.Close())
	require.NoError(t, scr.Close())
}
