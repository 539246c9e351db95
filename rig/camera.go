package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orbit is the accumulated camera placement around the follow target.
// Yaw is unwrapped radians, Pitch is radians, positive above the target.
type Orbit struct {
	Yaw      float32
	Pitch    float32
	Distance float32
}

type OrbitLimits struct {
	MinPitch    float32
	MaxPitch    float32
	MinDistance float32
	MaxDistance float32
}

// DefaultOrbitLimits keeps pitch just short of the poles.
func DefaultOrbitLimits() OrbitLimits {
	return OrbitLimits{
		MinPitch:    mgl32.DegToRad(-89),
		MaxPitch:    mgl32.DegToRad(89),
		MinDistance: 3,
		MaxDistance: 15,
	}
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Rotate adds mouse deltas to yaw and pitch. Non-finite deltas are dropped.
func (o *Orbit) Rotate(dx, dy, sensitivity float32, lim OrbitLimits) {
	if finite(dx) && finite(dx*sensitivity) {
		o.Yaw += dx * sensitivity
	}
	if finite(dy) && finite(dy*sensitivity) {
		o.Pitch += dy * sensitivity
	}
	o.Clamp(lim)
}

// Zoom moves the camera in for positive scroll and out for negative scroll.
func (o *Orbit) Zoom(scroll, sensitivity float32, lim OrbitLimits) {
	if finite(scroll) && finite(scroll*sensitivity) {
		o.Distance -= scroll * sensitivity
	}
	o.Clamp(lim)
}

func (o *Orbit) Clamp(lim OrbitLimits) {
	o.Pitch = mgl32.Clamp(o.Pitch, lim.MinPitch, lim.MaxPitch)
	o.Distance = mgl32.Clamp(o.Distance, lim.MinDistance, lim.MaxDistance)
}

// Offset is the vector from the look target to the camera.
func (o Orbit) Offset() mgl32.Vec3 {
	sp, cp := math.Sincos(float64(o.Pitch))
	back := YawForward(o.Yaw).Mul(-float32(cp) * o.Distance)
	return back.Add(Up.Mul(float32(sp) * o.Distance))
}

// Desired places the camera behind target, lifted by height.
func (o Orbit) Desired(target mgl32.Vec3, height float32) View {
	lookAt := target.Add(Up.Mul(height))
	return View{
		Position: lookAt.Add(o.Offset()),
		LookAt:   lookAt,
		Up:       Up,
	}
}

type View struct {
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
	Up       mgl32.Vec3
}

// mirrorX flips view-space X so that world +X renders on the right when looking down +Z.
var mirrorX = mgl32.Scale3D(-1, 1, 1)

// Matrix builds the view matrix. Triangle winding is flipped by the mirror,
// so renderers draw with culling disabled.
func (v View) Matrix() mgl32.Mat4 {
	up := v.Up
	if up == (mgl32.Vec3{}) {
		up = Up
	}
	return mirrorX.Mul4(mgl32.LookAtV(v.Position, v.LookAt, up))
}

// SmoothingFactor is the fraction of the remaining gap closed in dt seconds
// at the given rate. It is always in [0,1] and zero for dt <= 0.
func SmoothingFactor(rate, dt float32) float32 {
	if !(dt > 0) || !(rate > 0) {
		return 0
	}
	return clamp01(1 - float32(math.Exp(-float64(rate)*float64(dt))))
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Follow exponentially eases a view toward a moving desired view.
// The first update takes the desired view as is.
type Follow struct {
	Rate        float32
	view        View
	initialized bool
}

func NewFollow(rate float32) *Follow {
	return &Follow{Rate: rate}
}

func (f *Follow) Update(desired View, dt float32) View {
	if !f.initialized {
		f.Snap(desired)
		return f.view
	}
	k := SmoothingFactor(f.Rate, dt)
	f.view = View{
		Position: lerp(f.view.Position, desired.Position, k),
		LookAt:   lerp(f.view.LookAt, desired.LookAt, k),
		Up:       desired.Up,
	}
	return f.view
}

// Snap jumps straight to desired, used on spawn and respawn teleports.
func (f *Follow) Snap(desired View) {
	f.view = desired
	f.initialized = true
}

func (f *Follow) View() View {
	return f.view
}

func (f *Follow) Initialized() bool {
	return f.initialized
}
