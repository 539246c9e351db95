package skyisle

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// DebugModule logs player and camera state at fixed wall-clock intervals.
// A zero interval disables that line.
type DebugModule struct {
	PlayerInterval time.Duration
	CameraInterval time.Duration
}

type debugState struct {
	playerInterval time.Duration
	cameraInterval time.Duration
	sincePlayer    time.Duration
	sinceCamera    time.Duration
}

func (m DebugModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&debugState{
		playerInterval: m.PlayerInterval,
		cameraInterval: m.CameraInterval,
	})
	app.UseSystem(
		System(debugLogSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

func debugLogSystem(t *Time, state *debugState, player *Player, tuning *PlayerTuning, camera *CameraRig, events *PlayerEvents, cmd *Commands) {
	log := cmd.Logger()
	if events.Jumped {
		log.Debugf("jump at %v", player.Position)
	}
	if events.Landed {
		log.Debugf("landed at %v", player.Position)
	}

	state.sincePlayer += t.Dt
	state.sinceCamera += t.Dt

	if state.playerInterval > 0 && state.sincePlayer >= state.playerInterval {
		state.sincePlayer = 0
		p, v := player.Position, player.Velocity
		log.Infof("player pos=(%.2f, %.2f, %.2f) vel=(%.2f, %.2f, %.2f) speed=%.2f grounded=%v jump_force=%.1f",
			p.X(), p.Y(), p.Z(), v.X(), v.Y(), v.Z(), player.HorizontalSpeed(), player.OnGround, tuning.JumpForce)
	}
	if state.cameraInterval > 0 && state.sinceCamera >= state.cameraInterval {
		state.sinceCamera = 0
		v := camera.View.Position
		log.Infof("camera pos=(%.2f, %.2f, %.2f) distance=%.2f height=%.2f yaw=%.1f° pitch=%.1f°",
			v.X(), v.Y(), v.Z(), camera.Orbit.Distance, camera.Tuning.Height,
			mgl32.RadToDeg(camera.Orbit.Yaw), mgl32.RadToDeg(camera.Orbit.Pitch))
	}
}
