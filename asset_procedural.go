package skyisle

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Procedural meshes are unit sized and centered on the origin: a box of side 1,
// a sphere and cylinder of diameter 1 and height 1. Props scale them by their size.

func BoxMesh() ([]Vertex, []uint16) {
	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}

	var vertices []Vertex
	var indices []uint16
	for _, f := range faces {
		base := uint16(len(vertices))
		center := f.normal.Mul(0.5)
		for _, c := range [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}} {
			pos := center.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			vertices = append(vertices, Vertex{Position: pos, Normal: f.normal})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return vertices, indices
}

// SphereMesh builds a UV sphere of radius 0.5.
func SphereMesh(sectors, stacks int) ([]Vertex, []uint16) {
	var vertices []Vertex
	for i := 0; i <= stacks; i++ {
		phi := math.Pi/2 - math.Pi*float64(i)/float64(stacks)
		y := math.Sin(phi)
		r := math.Cos(phi)
		for j := 0; j <= sectors; j++ {
			theta := 2 * math.Pi * float64(j) / float64(sectors)
			n := mgl32.Vec3{float32(r * math.Cos(theta)), float32(y), float32(r * math.Sin(theta))}
			vertices = append(vertices, Vertex{Position: n.Mul(0.5), Normal: n})
		}
	}
	return vertices, gridIndices(sectors, stacks)
}

// CylinderMesh builds a capped cylinder of radius 0.5 and height 1 along Y.
func CylinderMesh(sectors int) ([]Vertex, []uint16) {
	var vertices []Vertex
	for i := 0; i <= 1; i++ {
		y := float32(0.5 - float64(i))
		for j := 0; j <= sectors; j++ {
			theta := 2 * math.Pi * float64(j) / float64(sectors)
			n := mgl32.Vec3{float32(math.Cos(theta)), 0, float32(math.Sin(theta))}
			vertices = append(vertices, Vertex{Position: mgl32.Vec3{n[0] * 0.5, y, n[2] * 0.5}, Normal: n})
		}
	}
	indices := gridIndices(sectors, 1)

	for _, y := range []float32{0.5, -0.5} {
		normal := mgl32.Vec3{0, y * 2, 0}
		center := uint16(len(vertices))
		vertices = append(vertices, Vertex{Position: mgl32.Vec3{0, y, 0}, Normal: normal})
		for j := 0; j <= sectors; j++ {
			theta := 2 * math.Pi * float64(j) / float64(sectors)
			pos := mgl32.Vec3{float32(math.Cos(theta)) * 0.5, y, float32(math.Sin(theta)) * 0.5}
			vertices = append(vertices, Vertex{Position: pos, Normal: normal})
		}
		for j := 0; j < sectors; j++ {
			a := center + 1 + uint16(j)
			if y > 0 {
				indices = append(indices, center, a+1, a)
			} else {
				indices = append(indices, center, a, a+1)
			}
		}
	}
	return vertices, indices
}

// CapsuleMesh builds a capsule along Y with the given radius and cylinder half height.
func CapsuleMesh(radius, halfHeight float32, sectors, capStacks int) ([]Vertex, []uint16) {
	var vertices []Vertex
	rows := 0
	addRing := func(phi float64, yOffset float32) {
		y := math.Sin(phi)
		r := math.Cos(phi)
		for j := 0; j <= sectors; j++ {
			theta := 2 * math.Pi * float64(j) / float64(sectors)
			n := mgl32.Vec3{float32(r * math.Cos(theta)), float32(y), float32(r * math.Sin(theta))}
			pos := n.Mul(radius).Add(mgl32.Vec3{0, yOffset, 0})
			vertices = append(vertices, Vertex{Position: pos, Normal: n})
		}
		rows++
	}

	for i := 0; i <= capStacks; i++ {
		addRing(math.Pi/2-math.Pi/2*float64(i)/float64(capStacks), halfHeight)
	}
	for i := 0; i <= capStacks; i++ {
		addRing(-math.Pi/2*float64(i)/float64(capStacks), -halfHeight)
	}
	return vertices, gridIndices(sectors, rows-1)
}

// gridIndices triangulates (stacks+1) rows of (sectors+1) vertices.
func gridIndices(sectors, stacks int) []uint16 {
	var indices []uint16
	for i := 0; i < stacks; i++ {
		row := uint16(i * (sectors + 1))
		next := row + uint16(sectors+1)
		for j := 0; j < sectors; j++ {
			a, b := row+uint16(j), next+uint16(j)
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return indices
}
