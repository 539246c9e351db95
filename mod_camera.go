package skyisle

import (
	"github.com/gekko3d/skyisle/rig"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraTuning struct {
	// Height lifts the look target above the player center.
	Height            float32
	Smoothing         float32
	RotateSensitivity float32
	ZoomSensitivity   float32
	InvertY           bool
	Fov               float32
	Near              float32
	Far               float32
}

func DefaultCameraTuning() CameraTuning {
	return CameraTuning{
		Height:            3,
		Smoothing:         5,
		RotateSensitivity: 0.005,
		ZoomSensitivity:   0.5,
		Fov:               60,
		Near:              0.1,
		Far:               500,
	}
}

// CameraRig is the third-person camera: accumulated orbit plus the smoothed view.
type CameraRig struct {
	Orbit  rig.Orbit
	Limits rig.OrbitLimits
	Tuning CameraTuning
	Follow *rig.Follow
	View   rig.View
}

func NewCameraRig(orbit rig.Orbit, limits rig.OrbitLimits, tuning CameraTuning) *CameraRig {
	orbit.Clamp(limits)
	return &CameraRig{
		Orbit:  orbit,
		Limits: limits,
		Tuning: tuning,
		Follow: rig.NewFollow(tuning.Smoothing),
	}
}

// ApplyInput folds one frame of mouse and scroll input into the orbit.
// Rotation only happens while the right button is held or the cursor is captured.
func (c *CameraRig) ApplyInput(input *Input) {
	if input.Pressed[MouseButtonRight] || input.MouseCaptured {
		dy := float32(input.MouseDeltaY)
		if c.Tuning.InvertY {
			dy = -dy
		}
		c.Orbit.Rotate(float32(input.MouseDeltaX), dy, c.Tuning.RotateSensitivity, c.Limits)
	}
	if input.ScrollDelta != 0 {
		c.Orbit.Zoom(float32(input.ScrollDelta), c.Tuning.ZoomSensitivity, c.Limits)
	}
}

func (c *CameraRig) Desired(target mgl32.Vec3) rig.View {
	return c.Orbit.Desired(target, c.Tuning.Height)
}

// Track eases the view toward the desired view around target.
func (c *CameraRig) Track(target mgl32.Vec3, dt float32) rig.View {
	c.Follow.Rate = c.Tuning.Smoothing
	c.View = c.Follow.Update(c.Desired(target), dt)
	return c.View
}

// Snap places the view on target immediately.
func (c *CameraRig) Snap(target mgl32.Vec3) {
	c.Follow.Snap(c.Desired(target))
	c.View = c.Follow.View()
}

func (c *CameraRig) ViewMatrix() mgl32.Mat4 {
	return c.View.Matrix()
}

func (c *CameraRig) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 16.0 / 9.0
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Tuning.Fov), aspect, c.Tuning.Near, c.Tuning.Far)
}

func (c *CameraRig) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.ProjectionMatrix(aspect).Mul4(c.ViewMatrix())
}

type CameraModule struct {
	Orbit  *rig.Orbit
	Limits *rig.OrbitLimits
	Tuning *CameraTuning
}

func (m CameraModule) Install(app *App, cmd *Commands) {
	tuning := DefaultCameraTuning()
	if m.Tuning != nil {
		tuning = *m.Tuning
	}
	limits := rig.DefaultOrbitLimits()
	if m.Limits != nil {
		limits = *m.Limits
	}
	orbit := rig.Orbit{Pitch: mgl32.DegToRad(20), Distance: 8}
	if m.Orbit != nil {
		orbit = *m.Orbit
	}
	cmd.AddResources(NewCameraRig(orbit, limits, tuning))

	app.UseSystem(
		System(cameraInputSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(cameraFollowSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(cameraRespawnSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

func cameraInputSystem(input *Input, camera *CameraRig) {
	camera.ApplyInput(input)
}

// cameraFollowSystem uses the frame delta, so a paused game leaves the view in place.
func cameraFollowSystem(t *Time, camera *CameraRig, player *Player) {
	camera.Track(player.Position, t.Seconds())
}

func cameraRespawnSystem(camera *CameraRig, player *Player, events *PlayerEvents) {
	if events.Respawned {
		camera.Snap(player.Position)
	}
}
