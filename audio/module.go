package audio

import (
	"sync"
	"time"

	"github.com/gekko3d/skyisle"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Cues mixes event sounds into the speaker. Play is a no-op until Open succeeds.
type Cues struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	open   bool
}

func NewCues(volume float64) *Cues {
	return &Cues{mixer: &beep.Mixer{}, volume: volume}
}

func (c *Cues) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.open = true
	return nil
}

func (c *Cues) SetVolume(v float64) {
	c.mu.Lock()
	c.volume = v
	c.mu.Unlock()
}

func (c *Cues) Play(cue Cue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return
	}
	s := NewCue(cue, c.volume, SampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

func (c *Cues) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	c.open = false
	return nil
}

// Module plays jump, land and respawn cues. Without an audio device it logs a
// warning and installs nothing.
type Module struct {
	Volume float64
}

func (m Module) Install(app *skyisle.App, cmd *skyisle.Commands) {
	cues := NewCues(m.Volume)
	if err := cues.Open(); err != nil {
		app.Logger().Warnf("audio disabled: %v", err)
		return
	}
	cmd.AddResources(cues)
	app.UseSystem(
		skyisle.System(cueSystem).
			InStage(skyisle.PostUpdate).
			RunAlways(),
	)
}

func cueSystem(cues *Cues, events *skyisle.PlayerEvents) {
	switch {
	case events.Respawned:
		cues.Play(CueRespawn)
	case events.Jumped:
		cues.Play(CueJump)
	case events.Landed:
		cues.Play(CueLand)
	}
}
