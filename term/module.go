// Package term shows the island as a top-down radar in the terminal and reads
// keyboard and mouse input from it.
package term

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/skyisle"
	"github.com/go-gl/mathgl/mgl32"
)

// Screen owns the tcell screen and the goroutine pumping its events.
type Screen struct {
	tcell.Screen
	events chan tcell.Event
	done   chan struct{}
	once   sync.Once
}

// OpenScreen initializes s and starts polling it. A nil s opens the real terminal.
func OpenScreen(s tcell.Screen) (*Screen, error) {
	if s == nil {
		var err error
		if s, err = tcell.NewScreen(); err != nil {
			return nil, fmt.Errorf("failed to create screen: %w", err)
		}
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	s.EnableMouse()
	s.HideCursor()
	s.Clear()

	scr := &Screen{
		Screen: s,
		events: make(chan tcell.Event, 100),
		done:   make(chan struct{}),
	}
	go scr.pump()
	return scr, nil
}

func (s *Screen) pump() {
	defer close(s.events)
	for {
		ev := s.PollEvent()
		// nil after Fini
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func (s *Screen) Events() <-chan tcell.Event {
	return s.events
}

func (s *Screen) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.Fini()
	})
	return nil
}

// Module is the terminal renderer. Install it through App.UseRenderer after
// skyisle.InputModule; it also feeds the terminal's keys into Input.
type Module struct {
	// Screen defaults to the process terminal.
	Screen  tcell.Screen
	HoldFor time.Duration
}

func (m Module) Install(app *skyisle.App, cmd *skyisle.Commands) {
	scr, err := OpenScreen(m.Screen)
	if err != nil {
		panic(err)
	}
	src := NewInputSource(scr.Events())
	if m.HoldFor > 0 {
		src.HoldFor = m.HoldFor
	}
	skyisle.MustResource[skyisle.InputSources](app).Add(src)

	cmd.AddResources(scr)
	app.UseSystem(
		skyisle.System(renderSystem).
			InStage(skyisle.Render).
			RunAlways(),
	)
}

func renderSystem(scr *Screen, list *skyisle.DrawList, level *skyisle.Level, player *skyisle.Player, camera *skyisle.CameraRig, t *skyisle.Time) {
	Draw(scr.Screen, list, level.Bounds(), player, camera, t.Paused)
	scr.Show()
}

// Draw paints the HUD on the first row and the radar below it.
func Draw(s tcell.Screen, list *skyisle.DrawList, bounds skyisle.AABB, player *skyisle.Player, camera *skyisle.CameraRig, paused bool) {
	cols, rows := s.Size()
	s.Clear()
	if rows < 2 || cols < 1 {
		return
	}
	radar := FitRadar(bounds, cols, rows-1)

	for row := 0; row < radar.Rows; row++ {
		for col := 0; col < radar.Cols; col++ {
			x, z := radar.Unproject(col, row)
			item, ok := TopItem(list, x, z)
			if !ok {
				continue
			}
			s.SetContent(col, row+1, shapeGlyph(item.Shape), nil,
				tcell.StyleDefault.Background(rgb(CellColor(item))).Foreground(tcell.ColorBlack))
		}
	}

	if col, row := radar.Project(list.Eye.X(), list.Eye.Z()); radar.Inside(col, row) {
		s.SetContent(col, row+1, 'C', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	}
	if col, row := radar.Project(player.Position.X(), player.Position.Z()); radar.Inside(col, row) {
		style := tcell.StyleDefault.Foreground(rgb(skyisle.PlayerColor)).Bold(true).Reverse(true)
		s.SetContent(col, row+1, FacingGlyph(player.Facing), nil, style)
	}

	drawText(s, 0, 0, cols, hudLine(player, camera, paused), tcell.StyleDefault.Reverse(true))
}

func hudLine(player *skyisle.Player, camera *skyisle.CameraRig, paused bool) string {
	p := player.Position
	state := "playing"
	if paused {
		state = "paused"
	}
	ground := "air"
	if player.OnGround {
		ground = "ground"
	}
	return fmt.Sprintf(" %s  pos %.1f %.1f %.1f  %s  speed %.1f  yaw %.0f° pitch %.0f° dist %.1f ",
		state, p.X(), p.Y(), p.Z(), ground, player.HorizontalSpeed(),
		mgl32.RadToDeg(camera.Orbit.Yaw), mgl32.RadToDeg(camera.Orbit.Pitch), camera.Orbit.Distance)
}

func drawText(s tcell.Screen, x, y, maxCols int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxCols {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func shapeGlyph(shape skyisle.Shape) rune {
	switch shape {
	case skyisle.ShapeSphere:
		return 'o'
	case skyisle.ShapeCylinder:
		return '|'
	}
	return ' '
}

func rgb(c mgl32.Vec3) tcell.Color {
	channel := func(v float32) int32 {
		return int32(mgl32.Clamp(v, 0, 1) * 255)
	}
	return tcell.NewRGBColor(channel(c.X()), channel(c.Y()), channel(c.Z()))
}
