package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "shapesim.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(write(t, `
[simulation]
tick_rate = "50ms"
reseed_on_load = true
level_count = 3
start_level = 3

[storage]
driver = "sqlite"
path = "saves.db"

[logging]
format = "json"
`))
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.TickRate)
	assert.True(t, cfg.Simulation.ReseedOnLoad)
	assert.Equal(t, 3, cfg.Simulation.StartLevel)
	assert.Equal(t, int32(7), cfg.Simulation.SaveVersion, "untouched keys keep defaults")
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "default", cfg.Storage.Slot)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "scripts", cfg.Scripting.Dir)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"driver":      "[storage]\ndriver = \"mongo\"\n",
		"start level": "[simulation]\nstart_level = 9\n",
		"tick rate":   "[simulation]\ntick_rate = \"0s\"\n",
		"syntax":      "[simulation\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().validate())
}
