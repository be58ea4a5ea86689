// Package setup holds the compile-time board plans. Exactly one plan is
// selected by build tags (see board_*.go); the host simulator builds its
// own from flags.
package setup

import (
	"time"

	"envmon-go/errcode"
	"envmon-go/logsink"
)

type SensorKind string

const (
	SensorDHT22 SensorKind = "dht22"
	SensorAHT20 SensorKind = "aht20"
	SensorSHTC3 SensorKind = "shtc3"
	SensorSim   SensorKind = "sim"
)

func (k SensorKind) String() string { return string(k) }

// Plan specifies wiring and operating parameters for one board.
type Plan struct {
	Name    string
	I2C     I2CPlan
	Sensor  SensorPlan
	Display DisplayPlan
	// UART lists log mirrors next to USB CDC.
	UART []UARTPlan

	BootDelay   time.Duration // lets USB CDC enumerate before the banner
	Period      time.Duration
	StepTimeout time.Duration // sensor read deadline; 0 means none
	LogLevel    string
	Heartbeat   time.Duration // 0 disables the heartbeat log
}

type I2CPlan struct {
	ID  string // "i2c0" or "i2c1"
	SDA int    // GPIO number
	SCL int    // GPIO number
	Hz  uint32
}

type SensorPlan struct {
	Kind SensorKind
	Bus  string // I2C parts: bus ID
	Addr uint16 // I2C parts: 0 selects the part default
	Pin  int    // single-wire parts: GPIO number
}

type DisplayPlan struct {
	Bus    string
	Addr   uint16
	Width  int16
	Height int16
}

type UARTPlan struct {
	ID   string // "uart0" or "uart1"
	TX   int
	RX   int
	Baud uint32
}

// Defaults shared by every board.
const (
	DefaultBootDelay   = 3 * time.Second
	DefaultPeriod      = time.Second
	DefaultI2CHz       = 400_000
	DefaultDisplayAddr = 0x3C
	DefaultHeartbeat   = 30 * time.Second
)

// WithDefaults fills zero fields.
func (p Plan) WithDefaults() Plan {
	if p.Period <= 0 {
		p.Period = DefaultPeriod
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.I2C.Hz == 0 {
		p.I2C.Hz = DefaultI2CHz
	}
	if p.Display.Addr == 0 {
		p.Display.Addr = DefaultDisplayAddr
	}
	if p.Display.Width == 0 {
		p.Display.Width = 128
	}
	if p.Display.Height == 0 {
		p.Display.Height = 64
	}
	if p.Display.Bus == "" {
		p.Display.Bus = p.I2C.ID
	}
	if p.Sensor.Bus == "" && p.Sensor.Kind != SensorDHT22 {
		p.Sensor.Bus = p.I2C.ID
	}
	for i := range p.UART {
		if p.UART[i].Baud == 0 {
			p.UART[i].Baud = 115_200
		}
	}
	return p
}

// Validate rejects plans the platform cannot build.
func (p Plan) Validate() error {
	fail := func(msg string) error { return errcode.New(errcode.InvalidParams, "setup", msg) }

	switch p.Sensor.Kind {
	case SensorDHT22:
		if p.Sensor.Pin < 0 || p.Sensor.Pin > 29 {
			return fail("dht22 pin out of range")
		}
	case SensorAHT20, SensorSHTC3:
		if p.Sensor.Bus != p.I2C.ID {
			return fail("sensor bus " + p.Sensor.Bus + " is not planned")
		}
	case SensorSim:
	default:
		return fail("unknown sensor kind " + string(p.Sensor.Kind))
	}

	if p.I2C.ID != "i2c0" && p.I2C.ID != "i2c1" {
		return fail("unknown i2c bus " + p.I2C.ID)
	}
	if p.Display.Bus != p.I2C.ID {
		return fail("display bus " + p.Display.Bus + " is not planned")
	}
	if p.Display.Width <= 0 || p.Display.Height <= 0 || p.Display.Height%8 != 0 {
		return fail("display geometry must be positive with a height in whole pages")
	}
	for _, u := range p.UART {
		if u.ID != "uart0" && u.ID != "uart1" {
			return fail("unknown uart " + u.ID)
		}
	}
	if _, ok := logsink.ParseLevel(p.LogLevel); !ok {
		return fail("unknown log level " + p.LogLevel)
	}
	if p.StepTimeout < 0 || p.BootDelay < 0 {
		return fail("negative duration")
	}
	return nil
}

// Level is the parsed LogLevel; Validate guarantees it parses.
func (p Plan) Level() logsink.Level {
	l, _ := logsink.ParseLevel(p.LogLevel)
	return l
}
