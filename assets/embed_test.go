package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := LoadEmbedded(ConfigFile)
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "camera:")

	lvl, err := Load("assets/" + LevelFile)
	require.NoError(t, err)
	assert.Contains(t, string(lvl), "floating-island")
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"autopilot", "autopilot.tengo", "scripts/autopilot.tengo", "assets/scripts/autopilot"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "forward")
	}

	_, err := LoadScript("missing")
	assert.Error(t, err)
}

func TestCleanPaths(t *testing.T) {
	assert.Equal(t, "", cleanDataPath(""))
	assert.Equal(t, "level.yaml", cleanDataPath("assets/level.yaml"))
	assert.Equal(t, "scripts/a.tengo", cleanScriptPath("a"))
	assert.Equal(t, "scripts/a.tengo", cleanScriptPath("assets/scripts/a.tengo"))
}
