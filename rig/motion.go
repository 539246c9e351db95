// Package rig holds the control math of the third-person player: turning held
// keys and camera yaw into motion, and placing an orbiting follow camera.
// Everything here is pure; callers pass the tick context in explicitly.
package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-6

var Up = mgl32.Vec3{0, 1, 0}

// Keys is the raw directional and action key state for one tick.
// Missing input is simply false.
type Keys struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Sprint  bool
	Jump    bool
}

type PlayerIntent struct {
	// MoveDirection is zero or a unit vector in the XZ plane.
	MoveDirection mgl32.Vec3
	Sprint        bool
	JumpRequested bool
}

type MotionConfig struct {
	BaseSpeed        float32
	SprintMultiplier float32
}

type Motion struct {
	// Velocity is horizontal; Y is always zero and left to physics.
	Velocity mgl32.Vec3
	Facing   mgl32.Vec3
	// FacingChanged is false when there was no intent and Facing is the previous one.
	FacingChanged bool
	Jump          bool
}

// LocalAxes sums the held keys into a local vector: +Z forward, +X right.
// Opposing keys cancel on their axis. The result is not normalized.
func LocalAxes(k Keys) mgl32.Vec3 {
	var v mgl32.Vec3
	if k.Forward {
		v[2] += 1
	}
	if k.Back {
		v[2] -= 1
	}
	if k.Right {
		v[0] += 1
	}
	if k.Left {
		v[0] -= 1
	}
	return v
}

// SafeNormalize returns the unit vector of v, or zero when v has no length.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < epsilon || math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// RotateYaw rotates v about +Y. Positive yaw turns +Z toward +X.
func RotateYaw(v mgl32.Vec3, yaw float32) mgl32.Vec3 {
	s, c := math.Sincos(float64(yaw))
	sin, cos := float32(s), float32(c)
	return mgl32.Vec3{
		v[0]*cos + v[2]*sin,
		v[1],
		-v[0]*sin + v[2]*cos,
	}
}

// YawForward is the horizontal forward direction for a yaw.
func YawForward(yaw float32) mgl32.Vec3 {
	return RotateYaw(mgl32.Vec3{0, 0, 1}, yaw)
}

// YawRight is the horizontal right direction for a yaw.
func YawRight(yaw float32) mgl32.Vec3 {
	return RotateYaw(mgl32.Vec3{1, 0, 0}, yaw)
}

// NewIntent derives the world-space intent from keys and the camera yaw.
// Pitch never enters here, so looking up or down does not change the walk direction.
func NewIntent(k Keys, yaw float32) PlayerIntent {
	local := SafeNormalize(LocalAxes(k))
	dir := mgl32.Vec3{}
	if local != (mgl32.Vec3{}) {
		dir = SafeNormalize(YawForward(yaw).Mul(local[2]).Add(YawRight(yaw).Mul(local[0])))
	}
	return PlayerIntent{
		MoveDirection: dir,
		Sprint:        k.Sprint,
		JumpRequested: k.Jump,
	}
}

// Idle reports whether the intent carries no movement.
func (pi PlayerIntent) Idle() bool {
	return pi.MoveDirection == (mgl32.Vec3{})
}

// Apply scales the intent into a desired horizontal velocity and facing.
func (pi PlayerIntent) Apply(cfg MotionConfig, prevFacing mgl32.Vec3) Motion {
	m := Motion{Facing: prevFacing, Jump: pi.JumpRequested}
	if pi.Idle() {
		return m
	}

	speed := cfg.BaseSpeed
	if pi.Sprint && cfg.SprintMultiplier > 0 {
		speed *= cfg.SprintMultiplier
	}
	m.Velocity = pi.MoveDirection.Mul(speed)

	if facing := SafeNormalize(mgl32.Vec3{m.Velocity[0], 0, m.Velocity[2]}); facing != (mgl32.Vec3{}) {
		m.Facing = facing
		m.FacingChanged = true
	}
	return m
}

// InputToMotion turns held keys and camera yaw into a desired horizontal velocity
// and facing. With no movement intent the velocity is zero and prevFacing is kept.
func InputToMotion(k Keys, yaw float32, cfg MotionConfig, prevFacing mgl32.Vec3) Motion {
	return NewIntent(k, yaw).Apply(cfg, prevFacing)
}

// FacingRotation is the rotation about +Y that maps +Z onto facing.
func FacingRotation(facing mgl32.Vec3) mgl32.Quat {
	f := SafeNormalize(mgl32.Vec3{facing[0], 0, facing[2]})
	if f == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	angle := float32(math.Atan2(float64(f[0]), float64(f[2])))
	return mgl32.QuatRotate(angle, Up)
}

// TurnToward slerps current toward the rotation facing target at rate per second.
func TurnToward(current mgl32.Quat, target mgl32.Vec3, rate, dt float32) mgl32.Quat {
	t := clamp01(rate * dt)
	if t == 0 {
		return current
	}
	return mgl32.QuatSlerp(current, FacingRotation(target), t).Normalize()
}

func clamp01(v float32) float32 {
	if math.IsNaN(float64(v)) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return v
}
