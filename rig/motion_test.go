package rig

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allKeys enumerates every combination of the five movement keys.
func allKeys() []Keys {
	var out []Keys
	for mask := 0; mask < 32; mask++ {
		out = append(out, Keys{
			Forward: mask&1 != 0,
			Back:    mask&2 != 0,
			Left:    mask&4 != 0,
			Right:   mask&8 != 0,
			Sprint:  mask&16 != 0,
		})
	}
	return out
}

var testYaws = []float32{0, 0.3, math.Pi / 2, -2.1, math.Pi, 17.5}

func TestInputToMotion_SpeedNeverExceedsSprintCap(t *testing.T) {
	cfg := MotionConfig{BaseSpeed: 5, SprintMultiplier: 2}
	for _, yaw := range testYaws {
		for _, k := range allKeys() {
			m := InputToMotion(k, yaw, cfg, mgl32.Vec3{0, 0, 1})
			assert.LessOrEqual(t, m.Velocity.Len(), cfg.BaseSpeed*cfg.SprintMultiplier+1e-4, "keys %+v yaw %v", k, yaw)
			assert.Equal(t, float32(0), m.Velocity.Y(), "velocity must stay horizontal")
		}
	}
}

func TestInputToMotion_OpposingKeysCancel(t *testing.T) {
	cfg := MotionConfig{BaseSpeed: 5, SprintMultiplier: 2}

	m := InputToMotion(Keys{Forward: true, Back: true}, 0, cfg, mgl32.Vec3{1, 0, 0})
	assert.Equal(t, mgl32.Vec3{}, m.Velocity)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, m.Facing)
	assert.False(t, m.FacingChanged)

	m = InputToMotion(Keys{Forward: true, Left: true, Right: true}, 0, cfg, mgl32.Vec3{})
	assert.InDelta(t, 0, m.Velocity.X(), 1e-6)
	assert.InDelta(t, 5, m.Velocity.Z(), 1e-5)

	axes := LocalAxes(Keys{Forward: true, Back: true, Left: true, Right: true})
	assert.Equal(t, mgl32.Vec3{}, axes)
}

func TestInputToMotion_FacingIsUnitOrUnchanged(t *testing.T) {
	cfg := MotionConfig{BaseSpeed: 8, SprintMultiplier: 1.5}
	prev := mgl32.Vec3{0.6, 0, 0.8}
	for _, yaw := range testYaws {
		for _, k := range allKeys() {
			m := InputToMotion(k, yaw, cfg, prev)
			if m.FacingChanged {
				assert.InDelta(t, 1, m.Facing.Len(), 1e-5)
			} else {
				assert.Equal(t, prev, m.Facing)
				assert.Equal(t, mgl32.Vec3{}, m.Velocity)
			}
		}
	}
}

func TestInputToMotion_SprintDiagonalAtZeroYaw(t *testing.T) {
	cfg := MotionConfig{BaseSpeed: 5, SprintMultiplier: 2}
	m := InputToMotion(Keys{Forward: true, Right: true, Sprint: true}, 0, cfg, mgl32.Vec3{})

	assert.InDelta(t, 10, m.Velocity.Len(), 1e-4)
	want := mgl32.Vec3{1, 0, 1}.Normalize()
	got := m.Velocity.Normalize()
	assert.InDelta(t, want.X(), got.X(), 1e-5)
	assert.InDelta(t, want.Z(), got.Z(), 1e-5)
}

func TestInputToMotion_SprintWithoutIntentIsIdle(t *testing.T) {
	cfg := MotionConfig{BaseSpeed: 5, SprintMultiplier: 2}
	m := InputToMotion(Keys{Sprint: true}, 1, cfg, mgl32.Vec3{0, 0, -1})
	assert.Equal(t, mgl32.Vec3{}, m.Velocity)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, m.Facing)
}

func TestNewIntent_YawRotatesForward(t *testing.T) {
	intent := NewIntent(Keys{Forward: true}, math.Pi/2)
	assert.InDelta(t, 1, intent.MoveDirection.X(), 1e-5)
	assert.InDelta(t, 0, intent.MoveDirection.Z(), 1e-5)

	intent = NewIntent(Keys{Right: true}, math.Pi/2)
	assert.InDelta(t, 0, intent.MoveDirection.X(), 1e-5)
	assert.InDelta(t, -1, intent.MoveDirection.Z(), 1e-5)

	assert.True(t, NewIntent(Keys{}, 1).Idle())
	assert.True(t, NewIntent(Keys{Jump: true}, 0).JumpRequested)
}

func TestSafeNormalize_Zero(t *testing.T) {
	v := SafeNormalize(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{}, v)
	for _, c := range v {
		assert.False(t, math.IsNaN(float64(c)))
	}
	nan := float32(math.NaN())
	assert.Equal(t, mgl32.Vec3{}, SafeNormalize(mgl32.Vec3{nan, 0, 0}))
}

func TestTurnToward(t *testing.T) {
	start := mgl32.QuatIdent()
	target := mgl32.Vec3{1, 0, 0}

	same := TurnToward(start, target, 10, 0)
	assert.Equal(t, start, same, "no time means no turn")

	full := TurnToward(start, target, 10, 1)
	facing := full.Rotate(mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, 1, facing.X(), 1e-4)
	assert.InDelta(t, 0, facing.Z(), 1e-4)

	q := start
	prevAngle := float32(math.Pi / 2)
	for i := 0; i < 20; i++ {
		q = TurnToward(q, target, 10, 1.0/60)
		f := q.Rotate(mgl32.Vec3{0, 0, 1})
		angle := float32(math.Acos(float64(mgl32.Clamp(f.Dot(target), -1, 1))))
		require.LessOrEqual(t, angle, prevAngle+1e-4)
		prevAngle = angle
	}
}

func TestFacingRotation_MapsForward(t *testing.T) {
	for _, yaw := range testYaws {
		dir := YawForward(yaw)
		got := FacingRotation(dir).Rotate(mgl32.Vec3{0, 0, 1})
		assert.InDelta(t, dir.X(), got.X(), 1e-4)
		assert.InDelta(t, dir.Z(), got.Z(), 1e-4)
	}
	assert.Equal(t, mgl32.QuatIdent(), FacingRotation(mgl32.Vec3{0, 1, 0}))
}

func TestInputToMotion_StrafeFollowsCameraRight(t *testing.T) {
	cfg := MotionConfig{BaseSpeed: 4, SprintMultiplier: 1}
	for _, yaw := range testYaws {
		m := InputToMotion(Keys{Right: true}, yaw, cfg, mgl32.Vec3{0, 0, 1})
		want := YawRight(yaw).Mul(4)
		for i := 0; i < 3; i++ {
			assert.InDelta(t, want[i], m.Velocity[i], 1e-5, "yaw %v axis %d", yaw, i)
		}
		assert.InDelta(t, 0, YawRight(yaw).Dot(YawForward(yaw)), 1e-6, "right is perpendicular to forward")
	}

	left := InputToMotion(Keys{Left: true}, math.Pi/2, cfg, mgl32.Vec3{0, 0, 1})
	assert.InDelta(t, 4, left.Velocity.Z(), 1e-5, "at a quarter turn left points to +Z")
}
