package script

import (
	"os"

	"github.com/gekko3d/skyisle"
)

// Source is an InputSource fed by an Autopilot. A failing script is logged
// once and then reports nothing until it is replaced.
type Source struct {
	pilot  *Autopilot
	state  func() State
	log    skyisle.Logger
	failed bool
}

func NewSource(pilot *Autopilot, state func() State, log skyisle.Logger) *Source {
	if log == nil {
		log = skyisle.NewNopLogger()
	}
	return &Source{pilot: pilot, state: state, log: log}
}

// Replace swaps in a new script, clearing a previous failure.
func (s *Source) Replace(pilot *Autopilot) {
	s.pilot = pilot
	s.failed = false
}

func (s *Source) Poll(frame *skyisle.InputFrame) {
	if s.failed || s.pilot == nil {
		return
	}
	c, err := s.pilot.Step(s.state())
	if err != nil {
		s.failed = true
		s.log.Errorf("autopilot stopped: %v", err)
		return
	}
	press := func(on bool, key int) {
		if on {
			frame.Held[key] = true
		}
	}
	press(c.Forward, skyisle.KeyW)
	press(c.Back, skyisle.KeyS)
	press(c.Left, skyisle.KeyA)
	press(c.Right, skyisle.KeyD)
	press(c.Sprint, skyisle.KeyShift)
	press(c.Jump, skyisle.KeySpace)
	press(c.Rotate, skyisle.MouseButtonRight)
	frame.MouseDeltaX += c.LookDX
	frame.MouseDeltaY += c.LookDY
	frame.ScrollDelta += c.Scroll
}

// Module adds the autopilot as an input source. Install it after the player
// and camera modules, and after HotReloadModule to reload a script file on save.
type Module struct {
	// Path is a script file, or empty for the embedded autopilot.
	Path string
}

func (m Module) Install(app *skyisle.App, cmd *skyisle.Commands) {
	name := m.Path
	if name == "" {
		name = DefaultScript
	}
	pilot, err := Load(name)
	if err != nil {
		panic(err)
	}

	player := skyisle.MustResource[skyisle.Player](app)
	camera := skyisle.MustResource[skyisle.CameraRig](app)
	t := skyisle.MustResource[skyisle.Time](app)
	src := NewSource(pilot, func() State {
		return State{
			Tick:     t.Tick,
			Position: player.Position,
			Yaw:      camera.Orbit.Yaw,
			OnGround: player.OnGround,
		}
	}, app.Logger())

	skyisle.MustResource[skyisle.InputSources](app).Add(src)
	cmd.AddResources(src)
	app.Logger().Infof("autopilot %s driving the player", name)

	hr, ok := skyisle.Resource[skyisle.HotReload](app)
	if !ok || m.Path == "" {
		return
	}
	if _, err := os.Stat(m.Path); err != nil {
		return
	}
	if err := hr.Watch(m.Path, func(path string) error {
		next, err := Load(path)
		if err != nil {
			return err
		}
		src.Replace(next)
		return nil
	}); err != nil {
		app.Logger().Warnf("cannot watch %s: %v", m.Path, err)
	}
}
