package skyisle

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// skin keeps resolved bodies a hair away from surfaces so resting contact is not an overlap.
const skin = 1e-4

type Collider struct {
	Name string
	Box  AABB
}

type RayHit struct {
	Collider ColliderId
	Distance float32
	Point    mgl32.Vec3
}

// PhysicsWorld is the static collision world for the kinematic character.
type PhysicsWorld struct {
	Gravity      float32
	GroundProbe  float32
	KillY        float32
	MaxFallSpeed float32

	colliders []Collider
	grid      *SpatialHashGrid
}

func NewPhysicsWorld(cellSize float32) *PhysicsWorld {
	return &PhysicsWorld{
		Gravity:      -9.81 * 2,
		GroundProbe:  0.1,
		KillY:        -30,
		MaxFallSpeed: 50,
		grid:         NewSpatialHashGrid(cellSize),
	}
}

// SetColliders replaces the static colliders and rebuilds the broadphase.
func (w *PhysicsWorld) SetColliders(colliders []Collider) {
	w.colliders = append(w.colliders[:0], colliders...)
	w.grid.Clear()
	for i, c := range w.colliders {
		w.grid.Insert(ColliderId(i), c.Box)
	}
}

func (w *PhysicsWorld) Colliders() []Collider {
	return w.colliders
}

// Overlapping returns the colliders strictly overlapping box.
func (w *PhysicsWorld) Overlapping(box AABB) []ColliderId {
	var out []ColliderId
	for _, id := range w.grid.QueryAABB(box) {
		if w.colliders[id].Box.Overlaps(box) {
			out = append(out, id)
		}
	}
	return out
}

// Raycast finds the nearest collider hit by the ray within maxDist. dir must be normalized.
func (w *PhysicsWorld) Raycast(origin, dir mgl32.Vec3, maxDist float32) (RayHit, bool) {
	end := origin.Add(dir.Mul(maxDist))
	query := AABB{
		Min: mgl32.Vec3{min(origin[0], end[0]), min(origin[1], end[1]), min(origin[2], end[2])},
		Max: mgl32.Vec3{max(origin[0], end[0]), max(origin[1], end[1]), max(origin[2], end[2])},
	}

	best := RayHit{Collider: -1, Distance: maxDist}
	found := false
	for _, id := range w.grid.QueryAABB(query) {
		t, ok := rayAABB(origin, dir, w.colliders[id].Box)
		if !ok || t > best.Distance {
			continue
		}
		if !found || t < best.Distance {
			best = RayHit{Collider: id, Distance: t, Point: origin.Add(dir.Mul(t))}
			found = true
		}
	}
	return best, found
}

// rayAABB is the slab test. Rays starting inside the box hit at t=0.
func rayAABB(origin, dir mgl32.Vec3, box AABB) (float32, bool) {
	tMin := float32(0)
	tMax := float32(math.MaxFloat32)
	for axis := 0; axis < 3; axis++ {
		if math.Abs(float64(dir[axis])) < 1e-8 {
			if origin[axis] < box.Min[axis] || origin[axis] > box.Max[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[axis]
		t1 := (box.Min[axis] - origin[axis]) * inv
		t2 := (box.Max[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = max(tMin, t1)
		tMax = min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// Grounded casts down from the body center; the probe reaches just past the feet.
func (w *PhysicsWorld) Grounded(center mgl32.Vec3, halfHeight float32) bool {
	_, ok := w.Raycast(center, mgl32.Vec3{0, -1, 0}, halfHeight+w.GroundProbe)
	return ok
}

// MoveBox moves an axis-aligned body by vel*dt, resolving one axis at a time against
// the static colliders. Velocity on a blocked axis is zeroed. Horizontal axes go first
// so walking into a wall does not cancel a fall.
func (w *PhysicsWorld) MoveBox(center, half, vel mgl32.Vec3, dt float32) (mgl32.Vec3, mgl32.Vec3) {
	for _, axis := range [3]int{0, 2, 1} {
		delta := vel[axis] * dt
		if delta == 0 {
			continue
		}
		center[axis] += delta

		hits := w.Overlapping(AABBFromCenter(center, half))
		if len(hits) == 0 {
			continue
		}
		limit := center[axis]
		for _, id := range hits {
			box := w.colliders[id].Box
			if delta > 0 {
				limit = min(limit, box.Min[axis]-half[axis]-skin)
			} else {
				limit = max(limit, box.Max[axis]+half[axis]+skin)
			}
		}
		center[axis] = limit
		vel[axis] = 0
	}
	return center, vel
}
