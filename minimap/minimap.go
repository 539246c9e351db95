// Package minimap renders the level seen from above into a PNG.
package minimap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gekko3d/skyisle"
	"github.com/gekko3d/skyisle/shaders"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type Options struct {
	// Scale is pixels per world unit.
	Scale  float32
	Margin int
	Labels bool
}

func DefaultOptions() Options {
	return Options{Scale: 8, Margin: 16, Labels: true}
}

// mapper converts world XZ to image pixels, +X right and +Z up.
type mapper struct {
	bounds skyisle.AABB
	scale  float32
	margin int
}

func (m mapper) point(x, z float32) image.Point {
	return image.Pt(
		m.margin+int((x-m.bounds.Min.X())*m.scale),
		m.margin+int((m.bounds.Max.Z()-z)*m.scale),
	)
}

func (m mapper) rect(b skyisle.AABB) image.Rectangle {
	return image.Rectangle{
		Min: m.point(b.Min.X(), b.Max.Z()),
		Max: m.point(b.Max.X(), b.Min.Z()),
	}
}

// Render draws every prop lowest first, so taller props cover what lies under them.
func Render(level *skyisle.Level, spawn mgl32.Vec3, opts Options) *image.RGBA {
	if opts.Scale <= 0 {
		opts.Scale = DefaultOptions().Scale
	}
	bounds := level.Bounds()
	m := mapper{bounds: bounds, scale: opts.Scale, margin: opts.Margin}
	size := m.point(bounds.Max.X(), bounds.Min.Z()).Add(image.Pt(opts.Margin, opts.Margin))

	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(toColor(shaders.SkyColor)), image.Point{}, draw.Src)

	props := append([]skyisle.Prop(nil), level.Props...)
	sort.SliceStable(props, func(i, j int) bool {
		return props[i].Bounds().Max.Y() < props[j].Bounds().Max.Y()
	})
	for _, p := range props {
		fill := toColor(shaders.Shade(mgl32.Vec3{0, 1, 0}, p.Color))
		r := m.rect(p.Bounds())
		switch p.Shape {
		case skyisle.ShapeBox:
			draw.Draw(img, r, image.NewUniform(fill), image.Point{}, draw.Over)
		default:
			fillEllipse(img, r, fill)
		}
	}

	marker(img, m.point(spawn.X(), spawn.Z()), colornames.Crimson)

	if opts.Labels {
		for _, p := range props {
			if !strings.HasPrefix(p.Name, "platform") {
				continue
			}
			label(img, m.point(p.Center.X(), p.Center.Z()), fmt.Sprintf("%s y%.0f", p.Name, p.Center.Y()))
		}
		label(img, image.Pt(size.X/2, opts.Margin), "+Z")
	}
	return img
}

func fillEllipse(img *image.RGBA, r image.Rectangle, c color.Color) {
	cx := float32(r.Min.X+r.Max.X) / 2
	cy := float32(r.Min.Y+r.Max.Y) / 2
	rx := float32(r.Dx()) / 2
	ry := float32(r.Dy()) / 2
	if rx < 1 || ry < 1 {
		img.Set(int(cx), int(cy), c)
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dx := (float32(x) + 0.5 - cx) / rx
			dy := (float32(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				img.Set(x, y, c)
			}
		}
	}
}

func marker(img *image.RGBA, at image.Point, c color.Color) {
	for d := -3; d <= 3; d++ {
		img.Set(at.X+d, at.Y, c)
		img.Set(at.X, at.Y+d, c)
	}
}

// label centers text horizontally on at.
func label(img *image.RGBA, at image.Point, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colornames.White),
		Face: face,
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: fixed.I(at.X) - width/2,
		Y: fixed.I(at.Y + face.Ascent/2),
	}
	d.DrawString(text)
}

func toColor(c mgl32.Vec3) color.RGBA {
	ch := func(v float32) uint8 {
		return uint8(mgl32.Clamp(v, 0, 1) * 255)
	}
	return color.RGBA{R: ch(c.X()), G: ch(c.Y()), B: ch(c.Z()), A: 255}
}

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Export renders the level and writes it to path.
func Export(path string, level *skyisle.Level, spawn mgl32.Vec3, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePNG(f, Render(level, spawn, opts)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
