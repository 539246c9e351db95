package term

import (
	"math"

	"github.com/gekko3d/skyisle"
	"github.com/gekko3d/skyisle/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// cellAspect is how many columns make up one row's height on a typical terminal.
const cellAspect = 2

// Radar maps the XZ plane onto terminal cells. +X is right and +Z is up on screen.
type Radar struct {
	Center mgl32.Vec2
	// Scale is rows per world unit.
	Scale      float32
	Cols, Rows int
}

// FitRadar frames bounds into a cols×rows area with a one-cell margin.
func FitRadar(bounds skyisle.AABB, cols, rows int) Radar {
	r := Radar{
		Center: mgl32.Vec2{(bounds.Min.X() + bounds.Max.X()) / 2, (bounds.Min.Z() + bounds.Max.Z()) / 2},
		Cols:   cols,
		Rows:   rows,
		Scale:  1,
	}
	w := bounds.Max.X() - bounds.Min.X()
	d := bounds.Max.Z() - bounds.Min.Z()
	if w <= 0 || d <= 0 || cols < 3 || rows < 3 {
		return r
	}
	r.Scale = min(float32(rows-2)/d, float32(cols-2)/(w*cellAspect))
	return r
}

func (r Radar) Project(x, z float32) (col, row int) {
	fc := float32(r.Cols)/2 + (x-r.Center.X())*r.Scale*cellAspect
	fr := float32(r.Rows)/2 - (z-r.Center.Y())*r.Scale
	return int(math.Floor(float64(fc))), int(math.Floor(float64(fr)))
}

// Unproject returns the world XZ at the center of a cell.
func (r Radar) Unproject(col, row int) (x, z float32) {
	x = r.Center.X() + (float32(col)+0.5-float32(r.Cols)/2)/(r.Scale*cellAspect)
	z = r.Center.Y() - (float32(row)+0.5-float32(r.Rows)/2)/r.Scale
	return x, z
}

func (r Radar) Inside(col, row int) bool {
	return col >= 0 && col < r.Cols && row >= 0 && row < r.Rows
}

// TopItem is the tallest draw item covering world (x, z), skipping the player.
func TopItem(list *skyisle.DrawList, x, z float32) (skyisle.DrawItem, bool) {
	var best skyisle.DrawItem
	found := false
	for i, item := range list.Items {
		if i == list.PlayerAt {
			continue
		}
		b := item.Bounds
		if x < b.Min.X() || x > b.Max.X() || z < b.Min.Z() || z > b.Max.Z() {
			continue
		}
		if !found || b.Max.Y() > best.Bounds.Max.Y() {
			best, found = item, true
		}
	}
	return best, found
}

// FacingGlyph picks an arrow for a horizontal direction as seen on the radar.
func FacingGlyph(facing mgl32.Vec3) rune {
	angle := math.Atan2(float64(facing.X()), float64(facing.Z()))
	arrows := []rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}
	i := int(math.Round(angle/(math.Pi/4))) % 8
	if i < 0 {
		i += 8
	}
	return arrows[i]
}

// CellColor is the lit top-face color of an item.
func CellColor(item skyisle.DrawItem) mgl32.Vec3 {
	return shaders.Shade(mgl32.Vec3{0, 1, 0}, item.Color)
}
