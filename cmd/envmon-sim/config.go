//go:build !(rp2040 || rp2350)

package main

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"envmon-go/devices/simsensor"
	"envmon-go/setup"
)

// SimConfig is everything the simulator needs besides the board plan.
type SimConfig struct {
	Plan   setup.Plan
	Sensor simsensor.Config

	Render            bool          // print each flushed frame to stdout
	DisplayFailEvery  int           // every Nth flush fails
	DisplayInitFaults int           // first N display bring-ups fail
	RunFor            time.Duration // 0 runs until interrupted

	v          *viper.Viper
	configFile string
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("envmon-sim", pflag.ContinueOnError)
	fs.String("config", "", "optional config file (yaml, toml or json)")

	fs.String("sensor", string(setup.SensorDHT22), "sensor kind to simulate: dht22, aht20, shtc3, sim")
	fs.Duration("period", setup.DefaultPeriod, "monitor loop period")
	fs.Duration("step-timeout", 0, "sensor read deadline (0 = none)")
	fs.Duration("boot-delay", 0, "delay before the first log line")
	fs.Duration("heartbeat", setup.DefaultHeartbeat, "heartbeat log interval (0 = off)")
	fs.String("log-level", "info", "minimum log level: debug, info, warn, error")

	fs.Float32("sim.temp", 22.5, "base temperature in °C")
	fs.Float32("sim.humi", 50, "base relative humidity in %")
	fs.Float32("sim.swing", 2.5, "waveform amplitude")
	fs.Int("sim.wave", 60, "samples per waveform period")
	fs.Int("sim.fail-every", 0, "every Nth sensor read fails (0 = never)")
	fs.Bool("sim.timeouts", false, "scheduled sensor failures are timeouts")
	fs.Duration("sim.latency", 0, "simulated conversion time")

	fs.Bool("render", false, "print each flushed frame")
	fs.Int("display.fail-every", 0, "every Nth flush fails (0 = never)")
	fs.Int("display.init-failures", 0, "number of failed display bring-ups")
	fs.Duration("run-for", 0, "stop after this long (0 = until interrupted)")
	return fs
}

// Load resolves flags, ENVMON_* environment variables and an optional config
// file, in that order of precedence.
func Load(args []string) (SimConfig, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return SimConfig{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("envmon")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return SimConfig{}, err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return SimConfig{}, err
		}
	}

	cfg := SimConfig{
		Plan: setup.Plan{
			Name:        "host_sim",
			I2C:         setup.I2CPlan{ID: "i2c0"},
			Sensor:      setup.SensorPlan{Kind: setup.SensorKind(v.GetString("sensor")), Pin: 15},
			Period:      v.GetDuration("period"),
			StepTimeout: v.GetDuration("step-timeout"),
			BootDelay:   v.GetDuration("boot-delay"),
			Heartbeat:   v.GetDuration("heartbeat"),
			LogLevel:    v.GetString("log-level"),
		},
		Sensor: simsensor.Config{
			BaseTemp:  float32(v.GetFloat64("sim.temp")),
			BaseHumi:  float32(v.GetFloat64("sim.humi")),
			Swing:     float32(v.GetFloat64("sim.swing")),
			Period:    v.GetInt("sim.wave"),
			FailEvery: v.GetInt("sim.fail-every"),
			Timeouts:  v.GetBool("sim.timeouts"),
			Latency:   v.GetDuration("sim.latency"),
		},
		Render:            v.GetBool("render"),
		DisplayFailEvery:  v.GetInt("display.fail-every"),
		DisplayInitFaults: v.GetInt("display.init-failures"),
		RunFor:            v.GetDuration("run-for"),

		v:          v,
		configFile: v.GetString("config"),
	}
	cfg.Plan = cfg.Plan.WithDefaults()
	return cfg, cfg.Plan.Validate()
}

// WatchHeartbeat sends the heartbeat interval to out each time the config
// file changes. Without a config file it does nothing; a --heartbeat flag
// pins the value.
func (c SimConfig) WatchHeartbeat(out chan<- time.Duration) {
	if c.configFile == "" {
		return
	}
	c.v.OnConfigChange(func(fsnotify.Event) { c.sendHeartbeat(out) })
	c.v.WatchConfig()
}

func (c SimConfig) sendHeartbeat(out chan<- time.Duration) {
	d := c.v.GetDuration("heartbeat")
	if d <= 0 {
		return
	}
	select {
	case out <- d:
	default:
	}
}
