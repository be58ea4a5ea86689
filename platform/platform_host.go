//go:build !(rp2040 || rp2350)

// Package platform builds the collaborators for the target: real peripherals
// on RP2 boards, simulated ones on the host.
package platform

import (
	"errors"
	"io"
	"os"
	"time"

	"envmon-go/devices/framebuf"
	"envmon-go/devices/oled"
	"envmon-go/devices/simsensor"
	"envmon-go/services/monitor"
	"envmon-go/setup"
	"envmon-go/types"
)

var ErrInitInjected = errors.New("platform: injected display init failure")

// Host stands in for the board: every sensor kind is simulated and the panel
// is an in-memory frame.
type Host struct {
	SimConfig   simsensor.Config
	FrameConfig framebuf.Config
	// Logs receives the log stream; nil selects stderr.
	Logs io.Writer
	// InitFailures makes the first N display bring-ups fail.
	InitFailures int
	// Heartbeat delivers runtime heartbeat interval changes; nil means none.
	Heartbeat <-chan time.Duration

	sensor *simsensor.Sensor
	frame  *framebuf.Frame
}

// Default is a quiet host: logs on stderr, frames kept in memory.
func Default(plan setup.Plan) *Host {
	return &Host{SimConfig: simsensor.DefaultConfig()}
}

func (h *Host) LogWriters() []io.Writer {
	if h.Logs == nil {
		return []io.Writer{os.Stderr}
	}
	return []io.Writer{h.Logs}
}

func (h *Host) OpenSensor(p setup.SensorPlan) (monitor.Sensor, types.SensorInfo, error) {
	h.sensor = simsensor.New(h.SimConfig)
	info := types.SensorInfo{Sensor: "sim(" + string(p.Kind) + ")", Addr: p.Addr, Bus: p.Bus}
	if info.Bus == "" {
		info.Bus = "host"
	}
	return h.sensor, info, nil
}

func (h *Host) OpenDisplay(p setup.DisplayPlan) *oled.Panel {
	cfg := h.FrameConfig
	cfg.Width, cfg.Height = p.Width, p.Height
	h.frame = framebuf.New(cfg)
	fails := h.InitFailures
	frame := h.frame
	// Bring-up blanks the frame as the SSD1306 init does.
	return oled.New(frame, p.Width, p.Height, func() error {
		frame.ClearBuffer()
		if fails > 0 {
			fails--
			return ErrInitInjected
		}
		return nil
	})
}

func (h *Host) HeartbeatUpdates() <-chan time.Duration { return h.Heartbeat }

// Frame is the panel memory built by OpenDisplay, nil before.
func (h *Host) Frame() *framebuf.Frame { return h.frame }

// Sensor is the simulated sensor built by OpenSensor, nil before.
func (h *Host) Sensor() *simsensor.Sensor { return h.sensor }

// Halt returns; the host process exits from main.
func Halt() {}
