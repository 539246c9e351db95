package skyisle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDt = float32(1.0 / 60)

func floorWorld() *PhysicsWorld {
	w := NewPhysicsWorld(4)
	w.SetColliders([]Collider{
		{Name: "floor", Box: AABB{Min: mgl32.Vec3{-20, -2, -20}, Max: mgl32.Vec3{20, 0, 20}}},
		{Name: "wall", Box: AABB{Min: mgl32.Vec3{4, 0, -20}, Max: mgl32.Vec3{5, 10, 20}}},
	})
	return w
}

func settle(p *Player, tuning PlayerTuning, w *PhysicsWorld, steps int) PlayerEvents {
	var all PlayerEvents
	for i := 0; i < steps; i++ {
		var ev PlayerEvents
		StepCharacter(p, tuning, w, testDt, &ev)
		all.Jumped = all.Jumped || ev.Jumped
		all.Landed = all.Landed || ev.Landed
		all.Respawned = all.Respawned || ev.Respawned
	}
	return all
}

func TestRaycastNearestHit(t *testing.T) {
	w := floorWorld()

	hit, ok := w.Raycast(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0}, 10)
	require.True(t, ok)
	assert.Equal(t, "floor", w.Colliders()[hit.Collider].Name)
	assert.InDelta(t, 5, hit.Distance, 1e-5)
	assert.InDelta(t, 0, hit.Point.Y(), 1e-5)

	hit, ok = w.Raycast(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, 10)
	require.True(t, ok)
	assert.Equal(t, "wall", w.Colliders()[hit.Collider].Name)
	assert.InDelta(t, 4, hit.Distance, 1e-5)

	_, ok = w.Raycast(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0}, 4)
	assert.False(t, ok, "out of range")

	_, ok = w.Raycast(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 1, 0}, 100)
	assert.False(t, ok, "pointing away")
}

func TestRayStartingInsideHitsAtZero(t *testing.T) {
	tHit, ok := rayAABB(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, -1, 0},
		AABB{Min: mgl32.Vec3{-1, -2, -1}, Max: mgl32.Vec3{1, 0, 1}})
	assert.True(t, ok)
	assert.Zero(t, tHit)
}

func TestMoveBoxStopsAtWall(t *testing.T) {
	w := floorWorld()
	half := mgl32.Vec3{0.5, 1.5, 0.5}

	pos, vel := w.MoveBox(mgl32.Vec3{3, 1.5, 0}, half, mgl32.Vec3{60, 0, 3}, testDt)
	assert.InDelta(t, 4-0.5, pos.X(), 1e-3)
	assert.Zero(t, vel.X(), "blocked axis loses its velocity")
	assert.Equal(t, float32(3), vel.Z(), "free axis keeps sliding")
	assert.InDelta(t, 3*testDt, pos.Z(), 1e-6)
}

func TestPlayerLandsOnFloor(t *testing.T) {
	w := floorWorld()
	tuning := DefaultPlayerTuning()
	p := NewPlayer(tuning)

	ev := settle(p, tuning, w, 120)
	assert.True(t, ev.Landed)
	assert.True(t, p.OnGround)
	assert.InDelta(t, tuning.HalfExtents.Y(), p.Position.Y(), 0.01)
	assert.Zero(t, p.Velocity.Y())
}

func TestJumpOnlyWhenGrounded(t *testing.T) {
	w := floorWorld()
	tuning := DefaultPlayerTuning()
	p := NewPlayer(tuning)

	// spawn is above the floor, so the first queued jump is dropped
	p.jumpQueued = true
	var ev PlayerEvents
	StepCharacter(p, tuning, w, testDt, &ev)
	assert.False(t, ev.Jumped)
	assert.False(t, p.jumpQueued, "a jump in the air is not buffered")

	settle(p, tuning, w, 120)
	require.True(t, p.OnGround)

	p.jumpQueued = true
	ev = PlayerEvents{}
	StepCharacter(p, tuning, w, testDt, &ev)
	assert.True(t, ev.Jumped)
	assert.False(t, p.OnGround)
	assert.Greater(t, p.Velocity.Y(), float32(0))

	ev = settle(p, tuning, w, 240)
	assert.True(t, ev.Landed)
	assert.InDelta(t, tuning.HalfExtents.Y(), p.Position.Y(), 0.01)
}

func TestRespawnBelowKillPlane(t *testing.T) {
	w := NewPhysicsWorld(4)
	tuning := DefaultPlayerTuning()
	p := NewPlayer(tuning)
	p.Velocity = mgl32.Vec3{3, 0, 0}

	ev := settle(p, tuning, w, 600)
	assert.True(t, ev.Respawned)
	assert.Greater(t, p.Position.Y(), w.KillY)
}

func TestRespawnResetsBody(t *testing.T) {
	tuning := DefaultPlayerTuning()
	p := NewPlayer(tuning)
	p.Position = mgl32.Vec3{5, -40, 5}
	p.Velocity = mgl32.Vec3{1, -20, 1}
	p.OnGround = true
	p.jumpQueued = true

	Respawn(p, tuning)
	assert.Equal(t, tuning.Spawn, p.Position)
	assert.Equal(t, mgl32.Vec3{}, p.Velocity)
	assert.False(t, p.OnGround)
	assert.False(t, p.jumpQueued)
}

func TestFallSpeedIsCapped(t *testing.T) {
	w := NewPhysicsWorld(4)
	w.KillY = -1e6
	tuning := DefaultPlayerTuning()
	p := NewPlayer(tuning)

	settle(p, tuning, w, 600)
	assert.InDelta(t, -w.MaxFallSpeed, p.Velocity.Y(), 1e-3)
}

func TestZeroDtDoesNothing(t *testing.T) {
	w := floorWorld()
	tuning := DefaultPlayerTuning()
	p := NewPlayer(tuning)
	before := *p

	var ev PlayerEvents
	StepCharacter(p, tuning, w, 0, &ev)
	assert.Equal(t, before, *p)
}
