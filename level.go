package skyisle

import (
	"errors"
	"fmt"
	"math"

	"github.com/gekko3d/skyisle/assets"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type Shape string

const (
	ShapeBox      Shape = "box"
	ShapeSphere   Shape = "sphere"
	ShapeCylinder Shape = "cylinder"
	ShapeCapsule  Shape = "capsule"
)

// Prop is one static piece of scenery. Size is the full extent of its bounding box.
type Prop struct {
	Name   string
	Shape  Shape
	Center mgl32.Vec3
	Size   mgl32.Vec3
	Color  mgl32.Vec3
	Solid  bool
	Mesh   AssetId
}

func (p Prop) Bounds() AABB {
	return AABBFromCenter(p.Center, p.Size.Mul(0.5))
}

// Model is the transform from the unit mesh to the world.
func (p Prop) Model() mgl32.Mat4 {
	return mgl32.Translate3D(p.Center[0], p.Center[1], p.Center[2]).
		Mul4(mgl32.Scale3D(p.Size[0], p.Size[1], p.Size[2]))
}

type PropSpec struct {
	Name   string     `yaml:"name"`
	Shape  Shape      `yaml:"shape"`
	Center [3]float32 `yaml:"center"`
	Size   [3]float32 `yaml:"size"`
	Color  [3]float32 `yaml:"color"`
	Solid  bool       `yaml:"solid"`
}

// RingSpec places Count copies of Prop evenly on a circle around the origin.
// The radius of copy i is Radius + (i mod RadiusCycle) * RadiusStep.
type RingSpec struct {
	Name        string   `yaml:"name"`
	Count       int      `yaml:"count"`
	Radius      float32  `yaml:"radius"`
	RadiusStep  float32  `yaml:"radius_step"`
	RadiusCycle int      `yaml:"radius_cycle"`
	Y           float32  `yaml:"y"`
	Prop        PropSpec `yaml:"prop"`
}

// PlatformSpec lists floating slabs; slab i is Size + (i mod SizeCycle) * SizeStep wide.
type PlatformSpec struct {
	Color     [3]float32   `yaml:"color"`
	Thickness float32      `yaml:"thickness"`
	Size      float32      `yaml:"size"`
	SizeStep  float32      `yaml:"size_step"`
	SizeCycle int          `yaml:"size_cycle"`
	Positions [][3]float32 `yaml:"positions"`
}

type LevelSpec struct {
	Name      string       `yaml:"name"`
	Props     []PropSpec   `yaml:"props"`
	Rings     []RingSpec   `yaml:"rings"`
	Platforms PlatformSpec `yaml:"platforms"`
}

func ParseLevel(data []byte) (*LevelSpec, error) {
	spec := &LevelSpec{}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// LoadLevel reads a level file, or the bundled floating island when path is empty.
func LoadLevel(path string) (*LevelSpec, error) {
	name := assets.LevelFile
	if path != "" {
		name = path
	}
	data, err := assets.Load(name)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", name, err)
	}
	return ParseLevel(data)
}

func validShape(s Shape) bool {
	switch s {
	case ShapeBox, ShapeSphere, ShapeCylinder, ShapeCapsule:
		return true
	}
	return false
}

func (s *LevelSpec) Validate() error {
	var errs []error
	check := func(where string, p PropSpec) {
		if !validShape(p.Shape) {
			errs = append(errs, fmt.Errorf("%s: unknown shape %q", where, p.Shape))
		}
		for _, v := range p.Size {
			if v <= 0 {
				errs = append(errs, fmt.Errorf("%s: size must be positive, got %v", where, p.Size))
				break
			}
		}
	}
	for i, p := range s.Props {
		check(fmt.Sprintf("props[%d] %s", i, p.Name), p)
	}
	for i, r := range s.Rings {
		check(fmt.Sprintf("rings[%d] %s", i, r.Name), r.Prop)
		if r.Count < 0 {
			errs = append(errs, fmt.Errorf("rings[%d] %s: negative count", i, r.Name))
		}
	}
	if len(s.Platforms.Positions) > 0 && (s.Platforms.Size <= 0 || s.Platforms.Thickness <= 0) {
		errs = append(errs, errors.New("platforms: size and thickness must be positive"))
	}
	return errors.Join(errs...)
}

// Expand turns rings and platforms into concrete props. Meshes are not assigned.
func (s *LevelSpec) Expand() []Prop {
	var props []Prop
	for _, p := range s.Props {
		props = append(props, propFromSpec(p.Name, p, mgl32.Vec3(p.Center)))
	}

	for _, r := range s.Rings {
		for i := 0; i < r.Count; i++ {
			angle := float64(i) * 2 * math.Pi / float64(r.Count)
			radius := r.Radius
			if r.RadiusCycle > 0 {
				radius += float32(i%r.RadiusCycle) * r.RadiusStep
			}
			center := mgl32.Vec3{
				float32(math.Cos(angle)) * radius,
				r.Y,
				float32(math.Sin(angle)) * radius,
			}
			props = append(props, propFromSpec(fmt.Sprintf("%s-%d", r.Name, i), r.Prop, center))
		}
	}

	pl := s.Platforms
	for i, pos := range pl.Positions {
		size := pl.Size
		if pl.SizeCycle > 0 {
			size += float32(i%pl.SizeCycle) * pl.SizeStep
		}
		props = append(props, Prop{
			Name:   fmt.Sprintf("platform-%d", i),
			Shape:  ShapeBox,
			Center: mgl32.Vec3(pos),
			Size:   mgl32.Vec3{size, pl.Thickness, size},
			Color:  mgl32.Vec3(pl.Color),
			Solid:  true,
		})
	}
	return props
}

func propFromSpec(name string, p PropSpec, center mgl32.Vec3) Prop {
	return Prop{
		Name:   name,
		Shape:  p.Shape,
		Center: center,
		Size:   mgl32.Vec3(p.Size),
		Color:  mgl32.Vec3(p.Color),
		Solid:  p.Solid,
	}
}

// Level is the built scene: props with meshes assigned.
type Level struct {
	Name  string
	Props []Prop
}

// BuildLevel expands spec and assigns each prop its shared unit mesh.
func BuildLevel(spec *LevelSpec, server *AssetServer) (*Level, error) {
	props := spec.Expand()
	for i := range props {
		id, err := server.UnitMesh(props[i].Shape)
		if err != nil {
			return nil, fmt.Errorf("prop %s: %w", props[i].Name, err)
		}
		props[i].Mesh = id
	}
	return &Level{Name: spec.Name, Props: props}, nil
}

// Colliders are the boxes around every solid prop.
func (l *Level) Colliders() []Collider {
	var out []Collider
	for _, p := range l.Props {
		if p.Solid {
			out = append(out, Collider{Name: p.Name, Box: p.Bounds()})
		}
	}
	return out
}

// Bounds covers every prop, used by top-down views.
func (l *Level) Bounds() AABB {
	if len(l.Props) == 0 {
		return AABB{}
	}
	b := l.Props[0].Bounds()
	for _, p := range l.Props[1:] {
		pb := p.Bounds()
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], pb.Min[i])
			b.Max[i] = max(b.Max[i], pb.Max[i])
		}
	}
	return b
}

// LevelModule builds the level into the AssetServer and adds it as a resource.
// Install it before PhysicsModule.
type LevelModule struct {
	Spec *LevelSpec
}

func (m LevelModule) Install(app *App, cmd *Commands) {
	spec := m.Spec
	if spec == nil {
		var err error
		if spec, err = LoadLevel(""); err != nil {
			panic(err)
		}
	}
	server, ok := Resource[AssetServer](app)
	if !ok {
		server = NewAssetServer()
		cmd.AddResources(server)
	}
	level, err := BuildLevel(spec, server)
	if err != nil {
		panic(err)
	}
	cmd.AddResources(level)
	app.Logger().Infof("level %q: %d props, %d colliders", level.Name, len(level.Props), len(level.Colliders()))
}
