package skyisle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRenderer struct{ installs *int }

func (r countingRenderer) Install(app *App, cmd *Commands) { *r.installs++ }

func TestParseRendererName(t *testing.T) {
	for _, s := range []string{"wgpu", "opengl", "terminal", "none"} {
		n, err := ParseRendererName(s)
		require.NoError(t, err)
		assert.Equal(t, RendererName(s), n)
	}
	_, err := ParseRendererName("vulkan")
	assert.ErrorContains(t, err, `unknown renderer "vulkan"`)
}

func TestUseRendererInstallsDrawList(t *testing.T) {
	installs := 0
	app := NewAppBuilder().UseModule(TimeModule{Clock: NewStepClock(time.Millisecond)}, InputModule{}).Build()
	app.UseRenderer(RendererTerminal, countingRenderer{&installs})

	assert.Equal(t, 1, installs)
	_, ok := Resource[DrawList](app)
	assert.True(t, ok)
	assert.Equal(t, RendererTerminal, MustResource[RendererTag](app).Name)

	app.UseRenderer(RendererTerminal, nil)
	assert.Panics(t, func() { app.UseRenderer(RendererOpenGL, countingRenderer{&installs}) })
	assert.Equal(t, 1, installs)
}

func TestHeadlessRendererDrawsNothing(t *testing.T) {
	app := NewApp()
	app.UseRenderer(RendererNone, nil)
	_, ok := Resource[DrawList](app)
	assert.False(t, ok)
}
