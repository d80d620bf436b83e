package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"flightlog": { "type": "sqlite", "flushTicks": 10 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lander.cfg.json"), []byte(cfg), 0644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", GetString("db.host"))
	assert.Equal(t, "5433", GetString("db.port"))

	fl := Flightlog()
	assert.Equal(t, "sqlite", fl.Type)
	assert.Equal(t, 10, fl.FlushTicks)
	assert.Equal(t, "./flights", fl.OutputDir, "unset keys keep defaults")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, "memory", Flightlog().Type)
	assert.Equal(t, 50, Flightlog().FlushTicks)
	assert.False(t, GetBool("influx.enabled"))
	assert.InDelta(t, 3.711, GetFloat("sim.gravity"), 1e-9)
	assert.Equal(t, "ws://localhost:5001/stream", Websocket().URL)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lander.cfg.json"), []byte("{not json"), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
