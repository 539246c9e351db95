package skyisle

import (
	"time"
)

// Clock abstracts wall time so headless runs and tests can step deterministically.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// StepClock advances by Step on every read.
type StepClock struct {
	T    time.Time
	Step time.Duration
}

func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{T: time.Unix(0, 0), Step: step}
}

func (c *StepClock) Now() time.Time {
	c.T = c.T.Add(c.Step)
	return c.T
}

type Time struct {
	Time time.Time
	// Dt is the frame delta; zero while paused.
	Dt          time.Duration
	FixedDt     time.Duration
	Accumulator time.Duration
	// Steps is how many fixed steps run this frame.
	Steps    int
	MaxSteps int
	MaxFrame time.Duration
	Frame    uint64
	Tick     uint64
	Paused   bool

	clock Clock
}

// Seconds is Dt in seconds.
func (t *Time) Seconds() float32 {
	return float32(t.Dt.Seconds())
}

// FixedSeconds is FixedDt in seconds.
func (t *Time) FixedSeconds() float32 {
	return float32(t.FixedDt.Seconds())
}

type TimeModule struct {
	FixedHz          float64
	MaxFrame         time.Duration
	MaxStepsPerFrame int
	Clock            Clock
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := mod.Clock
	if clock == nil {
		clock = RealClock{}
	}
	hz := mod.FixedHz
	if hz <= 0 {
		hz = 60
	}
	maxFrame := mod.MaxFrame
	if maxFrame <= 0 {
		maxFrame = 250 * time.Millisecond
	}
	maxSteps := mod.MaxStepsPerFrame
	if maxSteps <= 0 {
		maxSteps = 5
	}

	cmd.AddResources(&Time{
		Time:     clock.Now(),
		Dt:       0,
		FixedDt:  time.Duration(float64(time.Second) / hz),
		MaxSteps: maxSteps,
		MaxFrame: maxFrame,
		clock:    clock,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func timeSystem(timeResource *Time, cmd *Commands) {
	now := timeResource.clock.Now()
	dt := now.Sub(timeResource.Time)
	timeResource.Time = now
	timeResource.Frame++

	if dt < 0 {
		dt = 0
	}
	if dt > timeResource.MaxFrame {
		dt = timeResource.MaxFrame
	}
	if timeResource.Paused {
		timeResource.Dt = 0
		timeResource.Steps = 0
		return
	}
	timeResource.Dt = dt
	timeResource.Accumulator += dt

	steps := 0
	for timeResource.Accumulator >= timeResource.FixedDt && timeResource.FixedDt > 0 {
		timeResource.Accumulator -= timeResource.FixedDt
		steps++
	}
	if steps > timeResource.MaxSteps {
		cmd.Logger().Debugf("dropping %d fixed steps", steps-timeResource.MaxSteps)
		steps = timeResource.MaxSteps
	}
	timeResource.Steps = steps
}

// pauseTime and resumeTime bracket the paused state.
func pauseTime(t *Time) {
	t.Paused = true
	t.Accumulator = 0
}

func resumeTime(t *Time) {
	t.Paused = false
	if t.clock != nil {
		t.Time = t.clock.Now()
	}
}
