// Package script drives the player from a tengo program instead of a keyboard.
package script

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/gekko3d/skyisle/assets"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultScript is the embedded autopilot.
const DefaultScript = "autopilot"

// State is what a script can see each poll.
type State struct {
	Tick     uint64
	Position mgl32.Vec3
	Yaw      float32
	OnGround bool
}

// Controls is what a script decides. Missing globals read as false or zero.
type Controls struct {
	Forward, Back, Left, Right bool
	Sprint, Jump               bool
	// Rotate holds the camera rotate button so LookDX and LookDY turn the orbit.
	Rotate         bool
	LookDX, LookDY float64
	Scroll         float64
}

// Autopilot is a compiled script, run once per poll with fresh inputs.
type Autopilot struct {
	Name     string
	compiled *tengo.Compiled
}

var inputNames = []string{"tick", "x", "y", "z", "yaw", "on_ground"}

// Compile checks src once; later runs only swap the input globals.
func Compile(name string, src []byte) (*Autopilot, error) {
	s := tengo.NewScript(src)
	_ = s.Add("tick", 0)
	_ = s.Add("x", 0.0)
	_ = s.Add("y", 0.0)
	_ = s.Add("z", 0.0)
	_ = s.Add("yaw", 0.0)
	_ = s.Add("on_ground", false)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &Autopilot{Name: name, compiled: compiled}, nil
}

// Load compiles a script by bare embedded name or disk path.
func Load(name string) (*Autopilot, error) {
	src, err := assets.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", name, err)
	}
	return Compile(name, src)
}

func (a *Autopilot) Step(st State) (Controls, error) {
	c := a.compiled
	values := []any{int64(st.Tick), float64(st.Position.X()), float64(st.Position.Y()), float64(st.Position.Z()),
		float64(st.Yaw), st.OnGround}
	for i, name := range inputNames {
		if err := c.Set(name, values[i]); err != nil {
			return Controls{}, fmt.Errorf("%s: set %s: %w", a.Name, name, err)
		}
	}
	// RunContext turns VM panics such as integer division by zero into errors.
	if err := c.RunContext(context.Background()); err != nil {
		return Controls{}, fmt.Errorf("%s: %w", a.Name, err)
	}

	return Controls{
		Forward: a.boolean("forward"),
		Back:    a.boolean("back"),
		Left:    a.boolean("left"),
		Right:   a.boolean("right"),
		Sprint:  a.boolean("sprint"),
		Jump:    a.boolean("jump"),
		Rotate:  a.boolean("rotate"),
		LookDX:  a.float("look_dx"),
		LookDY:  a.float("look_dy"),
		Scroll:  a.float("scroll"),
	}, nil
}

func (a *Autopilot) boolean(name string) bool {
	if !a.compiled.IsDefined(name) {
		return false
	}
	return a.compiled.Get(name).Bool()
}

func (a *Autopilot) float(name string) float64 {
	if !a.compiled.IsDefined(name) {
		return 0
	}
	return a.compiled.Get(name).Float()
}
