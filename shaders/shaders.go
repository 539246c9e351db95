package shaders

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
)

//go:embed lit.wgsl
var LitWGSL string

//go:embed lit.vert
var LitVert string

//go:embed lit.frag
var LitFrag string

//go:embed lit.hlsl
var LitHLSL string

// Scene lighting: one directional light shining from LightPosition toward the
// origin, plus a flat ambient term.
var (
	LightPosition = mgl32.Vec3{10, 10, 10}
	// LightDirection points from the light toward the origin.
	LightDirection = LightPosition.Mul(-1).Normalize()
	SkyColor       = mgl32.Vec3{0.53, 0.72, 0.9}
	// GrassAlbedo is used for draws that carry no color of their own.
	GrassAlbedo = mgl32.Vec3{0.2, 0.8, 0.2}
)

const Ambient float32 = 0.3

// Shade is the lit shaders' lighting model evaluated on the CPU, for the
// terminal view and the minimap.
func Shade(normal, albedo mgl32.Vec3) mgl32.Vec3 {
	albedo = Albedo(albedo)
	k := Ambient
	if l := normal.Len(); l > 0 {
		diffuse := max(0, normal.Mul(1/l).Dot(LightDirection.Mul(-1)))
		k += (1 - Ambient) * diffuse
	}
	return albedo.Mul(k)
}

// NormalMatrix is the inverse transpose of model, for non-uniformly scaled meshes.
func NormalMatrix(model mgl32.Mat4) mgl32.Mat4 {
	if model.Det() == 0 {
		return mgl32.Ident4()
	}
	return model.Inv().Transpose()
}

func Albedo(c mgl32.Vec3) mgl32.Vec3 {
	if c == (mgl32.Vec3{}) {
		return GrassAlbedo
	}
	return c
}
