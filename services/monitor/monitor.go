// Package monitor is the sensing and rendering loop: once per period it
// reads the sensor, formats two status lines into fixed buffers and redraws
// the display. Every step is best effort; a failure is logged and the cycle
// carries on with whatever it can still do.
package monitor

import (
	"context"
	"time"

	"envmon-go/bus"
	"envmon-go/errcode"
	"envmon-go/logsink"
	"envmon-go/types"
	"envmon-go/x/fmtbuf"
	"envmon-go/x/timex"
)

// Sensor yields one reading per call. Implementations should honor ctx where
// the hardware allows it.
type Sensor interface {
	Read(ctx context.Context) (types.Reading, error)
}

// Display draws into an off-device frame; only Flush touches the bus.
type Display interface {
	Clear() error
	DrawText(at types.Point, style types.TextStyle, text string) error
	Flush() error
}

const (
	lineTemp = 0
	lineHumi = 1

	tempPrefix = "Temp: "
	humiPrefix = "Humi: "
	tempUnit   = "°C"
	humiUnit   = "%"
	errorText  = "Error"
)

var (
	TopicTemperature = bus.Topic{"env", "temperature"}
	TopicHumidity    = bus.Topic{"env", "humidity"}
	TopicStatus      = bus.Topic{"monitor", "status"}
)

type Config struct {
	Period      time.Duration // 0 selects 1s
	StepTimeout time.Duration // sensor read deadline; 0 means none
	Style       types.TextStyle
	TempAt      types.Point // baseline anchor of the temperature line
	HumiAt      types.Point // baseline anchor of the humidity line
}

// DefaultConfig places the two lines for a 128x64 panel with an 8pt font.
func DefaultConfig() Config {
	return Config{
		Period: time.Second,
		Style:  types.TextStyle{Color: types.White},
		TempAt: types.Point{X: 3, Y: 14},
		HumiAt: types.Point{X: 3, Y: 50},
	}
}

type Monitor struct {
	cfg     Config
	sensor  Sensor
	display Display
	log     logsink.Logger
	conn    *bus.Connection // nil disables publication

	mem   [2][fmtbuf.LineCap]byte
	lines [2]fmtbuf.Buf

	cycle           uint32
	sensorFailures  uint32
	displayFailures uint32
}

// New wires the loop to its collaborators. log may be nil (discard) and conn
// may be nil (no bus publication).
func New(cfg Config, s Sensor, d Display, log logsink.Logger, conn *bus.Connection) *Monitor {
	if cfg.Period <= 0 {
		cfg.Period = time.Second
	}
	if log == nil {
		log = logsink.Noop()
	}
	m := &Monitor{cfg: cfg, sensor: s, display: d, log: log, conn: conn}
	for i := range m.lines {
		m.lines[i] = fmtbuf.New(m.mem[i][:])
	}
	return m
}

// Run waits one period, runs a cycle, and repeats until ctx is done. It
// never stops on a cycle failure.
func (m *Monitor) Run(ctx context.Context) error {
	t := time.NewTimer(m.cfg.Period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		m.RunCycle(ctx)
		timex.ResetTimer(t, m.cfg.Period)
	}
}

// RunCycle performs Clear, Sample, Format, Draw and Flush once.
func (m *Monitor) RunCycle(ctx context.Context) Outcome {
	m.cycle++
	out := Outcome{Cycle: m.cycle}

	if err := m.display.Clear(); err != nil {
		out.Clear = errcode.Display("clear", err)
		m.log.Errorf("cycle %d: %v", m.cycle, out.Clear)
	}

	for i := range m.lines {
		m.lines[i].Reset()
	}

	r, err := m.read(ctx)
	if err != nil {
		out.Sensor = errcode.Sensor("sensor.read", err)
		m.log.Errorf("cycle %d: %v", m.cycle, out.Sensor)
		m.placeholder(lineTemp, tempPrefix)
		m.placeholder(lineHumi, humiPrefix)
	} else {
		out.Reading = r
		out.Format = m.format(r)
		if out.Format != nil {
			m.log.Errorf("cycle %d: %v", m.cycle, out.Format)
		}
		m.log.Infof("temp=%.2fC humi=%.2f%%", r.Temperature, r.Humidity)
	}

	out.Draw[lineTemp] = m.draw("draw.temp", m.cfg.TempAt, lineTemp)
	out.Draw[lineHumi] = m.draw("draw.humi", m.cfg.HumiAt, lineHumi)

	if err := m.display.Flush(); err != nil {
		out.Flush = errcode.Display("flush", err)
		m.log.Errorf("cycle %d: %v", m.cycle, out.Flush)
	} else {
		m.log.Debugf("cycle %d: flushed", m.cycle)
	}

	m.track(out)
	m.publish(out)
	return out
}

// Lines returns the text rendered by the last cycle, temperature first.
func (m *Monitor) Lines() [2]string {
	return [2]string{m.lines[lineTemp].String(), m.lines[lineHumi].String()}
}

// Failures returns the consecutive failed cycles per collaborator.
func (m *Monitor) Failures() (sensor, display uint32) {
	return m.sensorFailures, m.displayFailures
}

func (m *Monitor) read(ctx context.Context) (types.Reading, error) {
	if m.cfg.StepTimeout <= 0 {
		return m.sensor.Read(ctx)
	}
	rctx, cancel := context.WithTimeout(ctx, m.cfg.StepTimeout)
	defer cancel()
	return m.sensor.Read(rctx)
}

// format renders both lines with two fractional digits. A line that does not
// fit its buffer degrades to the placeholder; the other line is unaffected.
func (m *Monitor) format(r types.Reading) error {
	var first error
	if err := m.formatLine(lineTemp, tempPrefix, r.Temperature, tempUnit); err != nil {
		first = errcode.Wrap(errcode.BufferFull, "format.temp", err)
		m.placeholder(lineTemp, tempPrefix)
	}
	if err := m.formatLine(lineHumi, humiPrefix, r.Humidity, humiUnit); err != nil {
		err = errcode.Wrap(errcode.BufferFull, "format.humi", err)
		if first == nil {
			first = err
		} else {
			m.log.Errorf("cycle %d: %v", m.cycle, err)
		}
		m.placeholder(lineHumi, humiPrefix)
	}
	return first
}

func (m *Monitor) formatLine(i int, prefix string, v float32, unit string) error {
	b := &m.lines[i]
	if _, err := b.WriteString(prefix); err != nil {
		return err
	}
	if err := b.WriteFixed(float64(v), 2); err != nil {
		return err
	}
	_, err := b.WriteString(unit)
	return err
}

func (m *Monitor) placeholder(i int, prefix string) {
	b := &m.lines[i]
	b.Reset()
	if _, err := b.WriteString(prefix + errorText); err != nil {
		// Only a buffer narrower than the placeholder gets here.
		b.Reset()
		_, _ = b.WriteString(errorText)
	}
}

func (m *Monitor) draw(op string, at types.Point, i int) error {
	text := m.lines[i].String()
	if err := m.display.DrawText(at, m.cfg.Style, text); err != nil {
		err = errcode.Display(op, err)
		m.log.Errorf("cycle %d: %v", m.cycle, err)
		return err
	}
	m.log.Debugf("cycle %d: drew %q at (%d,%d)", m.cycle, text, at.X, at.Y)
	return nil
}

func (m *Monitor) track(out Outcome) {
	if out.Sensor != nil {
		m.sensorFailures++
	} else if m.sensorFailures > 0 {
		m.log.Infof("sensor recovered after %d failed cycles", m.sensorFailures)
		m.sensorFailures = 0
	}

	if out.DisplayErr() != nil {
		m.displayFailures++
	} else if m.displayFailures > 0 {
		m.log.Infof("display recovered after %d failed cycles", m.displayFailures)
		m.displayFailures = 0
	}
}

func (m *Monitor) publish(out Outcome) {
	if m.conn == nil {
		return
	}
	if out.Sensor == nil {
		m.conn.Publish(m.conn.NewMessage(TopicTemperature, out.Reading.TemperatureValue(), true))
		m.conn.Publish(m.conn.NewMessage(TopicHumidity, out.Reading.HumidityValue(), true))
	}

	st := types.MonitorStatus{
		Cycle:           out.Cycle,
		Status:          string(out.Status()),
		Sensor:          link(out.Sensor == nil, m.sensorFailures),
		Display:         link(out.DisplayErr() == nil, m.displayFailures),
		SensorFailures:  m.sensorFailures,
		DisplayFailures: m.displayFailures,
		TS:              timex.Uptime().Milliseconds(),
	}
	if err := out.Err(); err != nil {
		st.Error = string(errcode.Of(err))
	}
	m.conn.Publish(m.conn.NewMessage(TopicStatus, st, true))
}

// link is degraded for an isolated failure and down once failures repeat.
func link(ok bool, failures uint32) types.Link {
	switch {
	case ok:
		return types.LinkUp
	case failures > 1:
		return types.LinkDown
	}
	return types.LinkDegraded
}
