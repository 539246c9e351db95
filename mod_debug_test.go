package skyisle

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebugLogIntervals(t *testing.T) {
	var buf bytes.Buffer
	app := NewAppBuilder().UseModule(
		LoggingModule{Level: "debug", Output: &buf},
		CameraModule{},
		PlayerModule{},
		DebugModule{PlayerInterval: time.Second},
	).Build()

	tm := &Time{Dt: 600 * time.Millisecond}
	state := MustResource[debugState](app)
	player := MustResource[Player](app)
	tuning := MustResource[PlayerTuning](app)
	camera := MustResource[CameraRig](app)
	events := &PlayerEvents{Jumped: true}

	debugLogSystem(tm, state, player, tuning, camera, events, app.Commands())
	assert.Contains(t, buf.String(), "jump at")
	assert.NotContains(t, buf.String(), "player pos=")

	debugLogSystem(tm, state, player, tuning, camera, &PlayerEvents{}, app.Commands())
	assert.Contains(t, buf.String(), "player pos=(0.00, 2.00, 0.00)")
	assert.NotContains(t, buf.String(), "camera pos=", "zero interval disables the line")
	assert.Zero(t, state.sincePlayer)
}
