// Package audio plays short synthesized cues for player events.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const SampleRate = beep.SampleRate(44100)

type Cue int

const (
	CueJump Cue = iota
	CueLand
	CueRespawn
)

func (c Cue) String() string {
	switch c {
	case CueJump:
		return "jump"
	case CueLand:
		return "land"
	case CueRespawn:
		return "respawn"
	}
	return "unknown"
}

// glide is a sine whose pitch slides linearly from `from` to `to` Hz over its
// length, shaped by a linear attack and release.
type glide struct {
	from, to float64
	phase    float64
	position int
	total    int
	attack   int
	release  int
	rate     beep.SampleRate
}

func newGlide(from, to float64, length, attack, release time.Duration, rate beep.SampleRate) *glide {
	return &glide{
		from:    from,
		to:      to,
		total:   rate.N(length),
		attack:  rate.N(attack),
		release: rate.N(release),
		rate:    rate,
	}
}

func (g *glide) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.position >= g.total {
			return i, i > 0
		}
		progress := float64(g.position) / float64(g.total)
		freq := g.from + (g.to-g.from)*progress

		val := math.Sin(2*math.Pi*g.phase) * g.gain()
		samples[i][0] = val
		samples[i][1] = val

		g.phase += freq / float64(g.rate)
		g.phase -= math.Floor(g.phase)
		g.position++
	}
	return len(samples), true
}

func (g *glide) gain() float64 {
	if g.attack > 0 && g.position < g.attack {
		return float64(g.position) / float64(g.attack)
	}
	if left := g.total - g.position; g.release > 0 && left < g.release {
		return float64(left) / float64(g.release)
	}
	return 1
}

func (g *glide) Err() error { return nil }

// newVolume maps a linear volume onto effects.Volume; zero is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// NewCue builds the sound for a cue at the given linear volume.
func NewCue(c Cue, volume float64, rate beep.SampleRate) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueJump:
		s = newGlide(330, 660, 140*time.Millisecond, 5*time.Millisecond, 60*time.Millisecond, rate)
	case CueLand:
		s = newGlide(160, 70, 90*time.Millisecond, 2*time.Millisecond, 70*time.Millisecond, rate)
	case CueRespawn:
		s = beep.Seq(
			newGlide(523.25, 523.25, 80*time.Millisecond, 5*time.Millisecond, 20*time.Millisecond, rate),
			newGlide(783.99, 783.99, 160*time.Millisecond, 5*time.Millisecond, 100*time.Millisecond, rate),
		)
	default:
		return nil
	}
	return newVolume(s, volume)
}
