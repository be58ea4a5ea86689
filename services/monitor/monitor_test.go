package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/bus"
	"envmon-go/errcode"
	"envmon-go/logsink"
	"envmon-go/types"
)

// scriptSensor returns the scripted results in order, repeating the last.
type scriptSensor struct {
	script []result
	calls  int
}

type result struct {
	r   types.Reading
	err error
}

func (s *scriptSensor) Read(ctx context.Context) (types.Reading, error) {
	i := s.calls
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.calls++
	return s.script[i].r, s.script[i].err
}

func okReading(t, h float32) result { return result{r: types.Reading{Temperature: t, Humidity: h}} }

// fakeDisplay records calls and fails the steps named in fail.
type fakeDisplay struct {
	calls []string
	drawn []drawCall
	fail  map[string]error
}

type drawCall struct {
	at   types.Point
	text string
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{fail: map[string]error{}}
}

func (d *fakeDisplay) Clear() error {
	d.calls = append(d.calls, "clear")
	return d.fail["clear"]
}

func (d *fakeDisplay) DrawText(at types.Point, _ types.TextStyle, text string) error {
	d.calls = append(d.calls, "draw")
	d.drawn = append(d.drawn, drawCall{at: at, text: text})
	if strings.HasPrefix(text, "Temp") {
		return d.fail["draw.temp"]
	}
	return d.fail["draw.humi"]
}

func (d *fakeDisplay) Flush() error {
	d.calls = append(d.calls, "flush")
	return d.fail["flush"]
}

func newMonitor(s Sensor, d Display, log logsink.Logger) *Monitor {
	return New(DefaultConfig(), s, d, log, nil)
}

func TestCycleRendersReading(t *testing.T) {
	d := newFakeDisplay()
	log := logsink.NewBuffer()
	m := newMonitor(&scriptSensor{script: []result{okReading(23.456, 55.1)}}, d, log)

	out := m.RunCycle(context.Background())

	require.NoError(t, out.Err())
	assert.Equal(t, StatusOK, out.Status())
	assert.Equal(t, [2]string{"Temp: 23.46°C", "Humi: 55.10%"}, m.Lines())
	assert.Equal(t, []string{"clear", "draw", "draw", "flush"}, d.calls)
	require.Len(t, d.drawn, 2)
	assert.Equal(t, "Temp: 23.46°C", d.drawn[0].text)
	assert.Equal(t, "Humi: 55.10%", d.drawn[1].text)
	assert.Less(t, d.drawn[0].at.Y, d.drawn[1].at.Y, "temperature is drawn above humidity")
	assert.True(t, log.Contains(logsink.LevelInfo, "temp=23.46C humi=55.10%"))
	assert.Empty(t, log.At(logsink.LevelError))
}

func TestCycleSensorTimeout(t *testing.T) {
	d := newFakeDisplay()
	log := logsink.NewBuffer()
	s := &scriptSensor{script: []result{{err: context.DeadlineExceeded}}}
	m := newMonitor(s, d, log)

	out := m.RunCycle(context.Background())

	assert.Equal(t, StatusSensorError, out.Status())
	assert.ErrorIs(t, out.Sensor, errcode.SensorTimeout)
	assert.Equal(t, []string{"clear", "draw", "draw", "flush"}, d.calls, "draw and flush still attempted")
	for _, line := range m.Lines() {
		assert.Contains(t, line, "Error")
	}
	assert.Equal(t, [2]string{"Temp: Error", "Humi: Error"}, m.Lines())
	assert.True(t, log.Contains(logsink.LevelError, "sensor_timeout"))
}

func TestCycleSensorReadError(t *testing.T) {
	log := logsink.NewBuffer()
	s := &scriptSensor{script: []result{{err: errors.New("checksum mismatch")}}}
	m := newMonitor(s, newFakeDisplay(), log)

	out := m.RunCycle(context.Background())

	assert.ErrorIs(t, out.Sensor, errcode.SensorRead)
	assert.True(t, log.Contains(logsink.LevelError, "checksum mismatch"))
}

func TestClearFailureDoesNotStopCycle(t *testing.T) {
	d := newFakeDisplay()
	d.fail["clear"] = errors.New("i2c nack")
	log := logsink.NewBuffer()
	m := newMonitor(&scriptSensor{script: []result{okReading(20, 40)}}, d, log)

	out := m.RunCycle(context.Background())

	assert.ErrorIs(t, out.Clear, errcode.DisplayIO)
	assert.NoError(t, out.Sensor)
	assert.Equal(t, StatusDisplayError, out.Status())
	assert.Equal(t, []string{"clear", "draw", "draw", "flush"}, d.calls)
	assert.Equal(t, [2]string{"Temp: 20.00°C", "Humi: 40.00%"}, m.Lines())
	assert.True(t, log.Contains(logsink.LevelError, "clear: display_io: i2c nack"))
}

func TestDrawsAreIndependent(t *testing.T) {
	d := newFakeDisplay()
	d.fail["draw.temp"] = errcode.OutOfBounds
	m := newMonitor(&scriptSensor{script: []result{okReading(1, 2)}}, d, nil)

	out := m.RunCycle(context.Background())

	assert.ErrorIs(t, out.Draw[0], errcode.OutOfBounds)
	assert.EqualError(t, out.Draw[0], "draw.temp: out_of_bounds")
	assert.NoError(t, out.Draw[1])
	require.Len(t, d.drawn, 2, "second line attempted after the first failed")
	assert.Equal(t, "Humi: 2.00%", d.drawn[1].text)
	assert.Equal(t, "flush", d.calls[len(d.calls)-1])
}

func TestFlushFailureIsNotRetried(t *testing.T) {
	d := newFakeDisplay()
	d.fail["flush"] = errors.New("bus error")
	m := newMonitor(&scriptSensor{script: []result{okReading(1, 2)}}, d, nil)

	out := m.RunCycle(context.Background())

	assert.ErrorIs(t, out.Flush, errcode.DisplayIO)
	flushes := 0
	for _, c := range d.calls {
		if c == "flush" {
			flushes++
		}
	}
	assert.Equal(t, 1, flushes)
}

func TestFormatOverflowDegradesOneLine(t *testing.T) {
	log := logsink.NewBuffer()
	m := newMonitor(&scriptSensor{script: []result{okReading(1e13, 55.1)}}, newFakeDisplay(), log)

	out := m.RunCycle(context.Background())

	assert.ErrorIs(t, out.Format, errcode.BufferFull)
	assert.Equal(t, StatusFormatError, out.Status())
	assert.Equal(t, [2]string{"Temp: Error", "Humi: 55.10%"}, m.Lines())
	assert.True(t, log.Contains(logsink.LevelError, "format.temp: buffer_full"))
}

func TestNoResidueBetweenCycles(t *testing.T) {
	s := &scriptSensor{script: []result{
		okReading(-12.5, 99.99),
		{err: errors.New("no response")},
		okReading(5, 6),
	}}
	m := newMonitor(s, newFakeDisplay(), nil)

	m.RunCycle(context.Background())
	assert.Equal(t, [2]string{"Temp: -12.50°C", "Humi: 99.99%"}, m.Lines())
	m.RunCycle(context.Background())
	assert.Equal(t, [2]string{"Temp: Error", "Humi: Error"}, m.Lines())
	m.RunCycle(context.Background())
	assert.Equal(t, [2]string{"Temp: 5.00°C", "Humi: 6.00%"}, m.Lines())
}

func TestFailureCountersAndRecovery(t *testing.T) {
	log := logsink.NewBuffer()
	bad := result{err: errors.New("no response")}
	s := &scriptSensor{script: []result{bad, bad, bad, okReading(1, 1)}}
	m := newMonitor(s, newFakeDisplay(), log)

	for i := 0; i < 3; i++ {
		m.RunCycle(context.Background())
	}
	sf, df := m.Failures()
	assert.Equal(t, uint32(3), sf)
	assert.Zero(t, df)

	out := m.RunCycle(context.Background())
	assert.Equal(t, uint32(4), out.Cycle)
	sf, _ = m.Failures()
	assert.Zero(t, sf)
	assert.True(t, log.Contains(logsink.LevelInfo, "sensor recovered after 3 failed cycles"))
}

// slowSensor blocks until ctx is done.
type slowSensor struct{}

func (slowSensor) Read(ctx context.Context) (types.Reading, error) {
	<-ctx.Done()
	return types.Reading{}, ctx.Err()
}

func TestStepTimeoutBoundsSensorRead(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepTimeout = 10 * time.Millisecond
	d := newFakeDisplay()
	m := New(cfg, slowSensor{}, d, nil, nil)

	start := time.Now()
	out := m.RunCycle(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, out.Sensor, errcode.SensorTimeout)
	assert.Equal(t, "flush", d.calls[len(d.calls)-1])
}

func TestPublishesRetainedState(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("monitor")
	m := New(DefaultConfig(), &scriptSensor{script: []result{okReading(23.456, 55.1), {err: errors.New("x")}}}, newFakeDisplay(), nil, conn)

	m.RunCycle(context.Background())
	m.RunCycle(context.Background())

	obs := b.NewConnection("obs")
	temp := <-obs.Subscribe(TopicTemperature).Channel()
	assert.Equal(t, types.TemperatureValue{DeciC: 235}, temp.Payload, "last good reading stays retained")
	humi := <-obs.Subscribe(TopicHumidity).Channel()
	assert.Equal(t, types.HumidityValue{RHx100: 5510}, humi.Payload)

	st := (<-obs.Subscribe(TopicStatus).Channel()).Payload.(types.MonitorStatus)
	assert.Equal(t, uint32(2), st.Cycle)
	assert.Equal(t, string(StatusSensorError), st.Status)
	assert.Equal(t, types.LinkDegraded, st.Sensor)
	assert.Equal(t, types.LinkUp, st.Display)
	assert.Equal(t, string(errcode.SensorRead), st.Error)
}

func TestRunLoopsUntilCancelled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Period = 5 * time.Millisecond
	s := &scriptSensor{script: []result{okReading(1, 2)}}
	m := New(cfg, s, newFakeDisplay(), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	err := m.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, s.calls, 3)
}

func TestOutcomeStatusPriority(t *testing.T) {
	o := Outcome{Flush: errcode.DisplayIO, Format: errcode.BufferFull}
	assert.Equal(t, StatusFormatError, o.Status())
	o.Sensor = errcode.SensorRead
	assert.Equal(t, StatusSensorError, o.Status())
	assert.Error(t, o.DisplayErr())
	assert.NoError(t, Outcome{}.Err())
}
