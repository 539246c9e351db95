package skyisle

import (
	"github.com/go-gl/mathgl/mgl32"
)

var PlayerColor = mgl32.Vec3{0.8, 0.2, 0.2}

type DrawItem struct {
	Name  string
	Mesh  AssetId
	Model mgl32.Mat4
	Color mgl32.Vec3
	// Bounds is the world-space box, used by the top-down views.
	Bounds AABB
	Shape  Shape
}

// DrawList is what every renderer consumes: the scene flattened for one frame.
type DrawList struct {
	Items    []DrawItem
	View     mgl32.Mat4
	Proj     mgl32.Mat4
	Eye      mgl32.Vec3
	Aspect   float32
	PlayerAt int
}

func (d *DrawList) ViewProj() mgl32.Mat4 {
	return d.Proj.Mul4(d.View)
}

// PlayerModel maps the shared capsule mesh (radius 0.5, half height 1.5) onto the body.
func PlayerModel(p *Player, t PlayerTuning) mgl32.Mat4 {
	h := t.HalfExtents
	return mgl32.Translate3D(p.Position[0], p.Position[1], p.Position[2]).
		Mul4(p.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(h.X()/0.5, h.Y()/1.5, h.Z()/0.5))
}

// Rebuild refills the list, reusing its backing array.
func (d *DrawList) Rebuild(level *Level, playerMesh AssetId, player *Player, tuning PlayerTuning, camera *CameraRig, aspect float32) {
	d.Items = d.Items[:0]
	for _, p := range level.Props {
		d.Items = append(d.Items, DrawItem{
			Name:   p.Name,
			Mesh:   p.Mesh,
			Model:  p.Model(),
			Color:  p.Color,
			Bounds: p.Bounds(),
			Shape:  p.Shape,
		})
	}
	d.PlayerAt = len(d.Items)
	d.Items = append(d.Items, DrawItem{
		Name:   "player",
		Mesh:   playerMesh,
		Model:  PlayerModel(player, tuning),
		Color:  PlayerColor,
		Bounds: player.Bounds(tuning),
		Shape:  ShapeCapsule,
	})

	if aspect <= 0 {
		aspect = 16.0 / 9.0
	}
	d.Aspect = aspect
	d.View = camera.ViewMatrix()
	d.Proj = camera.ProjectionMatrix(aspect)
	d.Eye = camera.View.Position
}

// DrawListModule rebuilds the DrawList resource every frame in PreRender.
type DrawListModule struct{}

type drawListState struct {
	playerMesh AssetId
}

func (DrawListModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[DrawList](app); ok {
		return
	}
	server, ok := Resource[AssetServer](app)
	if !ok {
		server = NewAssetServer()
		cmd.AddResources(server)
	}
	mesh, err := server.UnitMesh(ShapeCapsule)
	if err != nil {
		panic(err)
	}
	cmd.AddResources(&DrawList{}, &drawListState{playerMesh: mesh})
	app.UseSystem(
		System(drawListSystem).
			InStage(PreRender).
			RunAlways(),
	)
}

func drawListSystem(list *DrawList, state *drawListState, level *Level, player *Player, tuning *PlayerTuning, camera *CameraRig, input *Input) {
	aspect := float32(0)
	if input.WindowHeight > 0 {
		aspect = float32(input.WindowWidth) / float32(input.WindowHeight)
	}
	list.Rebuild(level, state.playerMesh, player, *tuning, camera, aspect)
}
