package skyisle

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PhysicsModule steps the player body against the level. Install it after PlayerModule
// so the body moves with the velocity chosen in the same fixed step, and after LevelModule
// so the level colliders are known.
type PhysicsModule struct {
	World *PhysicsWorld
}

func (m PhysicsModule) Install(app *App, cmd *Commands) {
	world := m.World
	if world == nil {
		world = NewPhysicsWorld(4)
	}
	if level, ok := Resource[Level](app); ok {
		world.SetColliders(level.Colliders())
		app.Logger().Debugf("physics: %d static colliders", len(world.Colliders()))
	}
	cmd.AddResources(world)

	app.UseSystem(
		app.whilePlaying(System(characterPhysicsSystem).InStage(Fixed)),
	)
}

func characterPhysicsSystem(t *Time, player *Player, tuning *PlayerTuning, world *PhysicsWorld, events *PlayerEvents, cmd *Commands) {
	StepCharacter(player, *tuning, world, t.FixedSeconds(), events)
	if events.Respawned {
		cmd.Logger().Infof("player fell below %.1f, respawned at %v", world.KillY, tuning.Spawn)
	}
}

// StepCharacter advances the player body by one fixed step: jump, gravity, collision,
// ground probe and the kill plane.
func StepCharacter(p *Player, tuning PlayerTuning, w *PhysicsWorld, dt float32, events *PlayerEvents) {
	if dt <= 0 {
		return
	}
	wasGrounded := p.OnGround

	if p.jumpQueued {
		if p.OnGround {
			p.Velocity[1] = tuning.JumpForce
			p.OnGround = false
			events.Jumped = true
		}
		p.jumpQueued = false
	}

	p.Velocity[1] += w.Gravity * dt
	if w.MaxFallSpeed > 0 && p.Velocity[1] < -w.MaxFallSpeed {
		p.Velocity[1] = -w.MaxFallSpeed
	}

	falling := p.Velocity[1] < 0
	p.Position, p.Velocity = w.MoveBox(p.Position, tuning.HalfExtents, p.Velocity, dt)
	blockedBelow := falling && p.Velocity[1] == 0

	p.OnGround = p.Velocity[1] <= 0 && (blockedBelow || w.Grounded(p.Position, tuning.HalfExtents.Y()))
	if p.OnGround && !wasGrounded {
		events.Landed = true
	}

	if p.Position.Y() < w.KillY {
		Respawn(p, tuning)
		events.Respawned = true
	}
}

// Respawn teleports the player to the spawn point at rest.
func Respawn(p *Player, tuning PlayerTuning) {
	p.Position = tuning.Spawn
	p.Velocity = mgl32.Vec3{}
	p.OnGround = false
	p.jumpQueued = false
}
