//go:build !(rp2040 || rp2350)

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/errcode"
	"envmon-go/setup"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, setup.SensorDHT22, cfg.Plan.Sensor.Kind)
	assert.Equal(t, time.Second, cfg.Plan.Period)
	assert.Equal(t, "info", cfg.Plan.LogLevel)
	assert.Equal(t, uint16(0x3C), cfg.Plan.Display.Addr)
	assert.InDelta(t, 22.5, cfg.Sensor.BaseTemp, 1e-6)
	assert.Equal(t, 60, cfg.Sensor.Period)
	assert.False(t, cfg.Render)
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load([]string{
		"--sensor", "aht20", "--period", "250ms", "--step-timeout", "100ms",
		"--sim.fail-every", "3", "--sim.timeouts", "--render", "--log-level", "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, setup.SensorAHT20, cfg.Plan.Sensor.Kind)
	assert.Equal(t, "i2c0", cfg.Plan.Sensor.Bus)
	assert.Equal(t, 250*time.Millisecond, cfg.Plan.Period)
	assert.Equal(t, 100*time.Millisecond, cfg.Plan.StepTimeout)
	assert.Equal(t, 3, cfg.Sensor.FailEvery)
	assert.True(t, cfg.Sensor.Timeouts)
	assert.True(t, cfg.Render)
	assert.Equal(t, "debug", cfg.Plan.LogLevel)
}

func TestLoadEnvAndPrecedence(t *testing.T) {
	t.Setenv("ENVMON_SIM_FAIL_EVERY", "5")
	t.Setenv("ENVMON_DISPLAY_INIT_FAILURES", "2")
	t.Setenv("ENVMON_PERIOD", "2s")

	cfg, err := Load([]string{"--period", "500ms"})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Sensor.FailEvery)
	assert.Equal(t, 2, cfg.DisplayInitFaults)
	assert.Equal(t, 500*time.Millisecond, cfg.Plan.Period, "flags win over env")
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sensor: shtc3\nsim:\n  temp: 30\n"), 0o600))

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, setup.SensorSHTC3, cfg.Plan.Sensor.Kind)
	assert.InDelta(t, 30, cfg.Sensor.BaseTemp, 1e-6)
}

func TestConfigFileChangeRetunesHeartbeat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("heartbeat: 45s\n"), 0o600))

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Plan.Heartbeat)

	out := make(chan time.Duration, 1)
	require.NoError(t, os.WriteFile(path, []byte("heartbeat: 5s\n"), 0o600))
	require.NoError(t, cfg.v.ReadInConfig())
	cfg.sendHeartbeat(out)
	assert.Equal(t, 5*time.Second, <-out)

	// Zero or a full channel never blocks the watcher.
	require.NoError(t, os.WriteFile(path, []byte("heartbeat: 0s\n"), 0o600))
	require.NoError(t, cfg.v.ReadInConfig())
	cfg.sendHeartbeat(out)
	assert.Empty(t, out)
}

func TestWatchHeartbeatWithoutFileIsNoop(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	out := make(chan time.Duration, 1)
	cfg.WatchHeartbeat(out)
	assert.Empty(t, out)
}

func TestLoadRejects(t *testing.T) {
	_, err := Load([]string{"--sensor", "bme280"})
	assert.ErrorIs(t, err, errcode.InvalidParams)

	_, err = Load([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}
