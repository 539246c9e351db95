package skyisle

import (
	"github.com/gekko3d/skyisle/rig"
	"github.com/go-gl/mathgl/mgl32"
)

type PlayerTuning struct {
	Speed            float32
	SprintMultiplier float32
	JumpForce        float32
	RotationSpeed    float32
	// IdleDamping scales horizontal velocity every fixed step without movement input.
	IdleDamping float32
	Spawn       mgl32.Vec3
	HalfExtents mgl32.Vec3
}

func DefaultPlayerTuning() PlayerTuning {
	return PlayerTuning{
		Speed:            8,
		SprintMultiplier: 1.5,
		JumpForce:        12,
		RotationSpeed:    10,
		IdleDamping:      0.9,
		Spawn:            mgl32.Vec3{0, 2, 0},
		HalfExtents:      mgl32.Vec3{0.5, 1.5, 0.5},
	}
}

func (t PlayerTuning) Motion() rig.MotionConfig {
	return rig.MotionConfig{BaseSpeed: t.Speed, SprintMultiplier: t.SprintMultiplier}
}

type Player struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	// Facing is the horizontal direction the body is turning toward.
	Facing   mgl32.Vec3
	Rotation mgl32.Quat
	OnGround bool
	Keys     rig.Keys

	jumpQueued bool
}

func NewPlayer(t PlayerTuning) *Player {
	return &Player{
		Position: t.Spawn,
		Facing:   mgl32.Vec3{0, 0, 1},
		Rotation: mgl32.QuatIdent(),
	}
}

func (p *Player) Bounds(t PlayerTuning) AABB {
	return AABBFromCenter(p.Position, t.HalfExtents)
}

// HorizontalSpeed ignores the vertical component.
func (p *Player) HorizontalSpeed() float32 {
	return mgl32.Vec2{p.Velocity.X(), p.Velocity.Z()}.Len()
}

// PlayerEvents are per-frame notifications, cleared in Finale.
type PlayerEvents struct {
	Jumped    bool
	Landed    bool
	Respawned bool
}

type PlayerModule struct {
	Tuning *PlayerTuning
}

func (m PlayerModule) Install(app *App, cmd *Commands) {
	tuning := DefaultPlayerTuning()
	if m.Tuning != nil {
		tuning = *m.Tuning
	}
	cmd.AddResources(&tuning, NewPlayer(tuning), &PlayerEvents{})

	app.UseSystem(
		app.whilePlaying(System(playerIntentSystem).InStage(Update)),
	)
	app.UseSystem(
		app.whilePlaying(System(playerMotionSystem).InStage(Fixed)),
	)
	app.UseSystem(
		System(clearPlayerEventsSystem).
			InStage(Finale).
			RunAlways(),
	)
}

// KeysFromInput maps the shared key layout onto movement keys. Arrows mirror WASD.
func KeysFromInput(input *Input) rig.Keys {
	return rig.Keys{
		Forward: input.Pressed[KeyW] || input.Pressed[KeyUp],
		Back:    input.Pressed[KeyS] || input.Pressed[KeyDown],
		Left:    input.Pressed[KeyA] || input.Pressed[KeyLeft],
		Right:   input.Pressed[KeyD] || input.Pressed[KeyRight],
		Sprint:  input.Pressed[KeyShift],
		Jump:    input.Pressed[KeySpace],
	}
}

func playerIntentSystem(input *Input, player *Player) {
	player.Keys = KeysFromInput(input)
	// latched until the next fixed step consumes it
	if input.JustPressed[KeySpace] {
		player.jumpQueued = true
	}
}

func playerMotionSystem(t *Time, player *Player, tuning *PlayerTuning, camera *CameraRig) {
	dt := t.FixedSeconds()
	m := rig.InputToMotion(player.Keys, camera.Orbit.Yaw, tuning.Motion(), player.Facing)

	if m.FacingChanged {
		player.Velocity[0] = m.Velocity.X()
		player.Velocity[2] = m.Velocity.Z()
		player.Facing = m.Facing
	} else {
		player.Velocity[0] *= tuning.IdleDamping
		player.Velocity[2] *= tuning.IdleDamping
	}
	player.Rotation = rig.TurnToward(player.Rotation, player.Facing, tuning.RotationSpeed, dt)
}

func clearPlayerEventsSystem(events *PlayerEvents) {
	*events = PlayerEvents{}
}
