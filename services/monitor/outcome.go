package monitor

import (
	"errors"

	"envmon-go/types"
)

// Status condenses an Outcome for logs and the retained status topic.
type Status string

const (
	StatusOK           Status = "ok"
	StatusSensorError  Status = "sensor_error"
	StatusFormatError  Status = "format_error"
	StatusDisplayError Status = "display_error"
)

func (s Status) String() string { return string(s) }

// Outcome records what happened in one cycle. Every field is independent:
// a failed step never suppresses the steps after it.
type Outcome struct {
	Cycle   uint32
	Reading types.Reading // valid when Sensor is nil

	Sensor error
	Format error
	Clear  error
	Draw   [2]error // temperature, humidity
	Flush  error
}

// Status reports the most significant failure: sensor, then format, then
// display.
func (o Outcome) Status() Status {
	switch {
	case o.Sensor != nil:
		return StatusSensorError
	case o.Format != nil:
		return StatusFormatError
	case o.DisplayErr() != nil:
		return StatusDisplayError
	}
	return StatusOK
}

// DisplayErr joins the clear, draw and flush failures.
func (o Outcome) DisplayErr() error {
	return errors.Join(o.Clear, o.Draw[0], o.Draw[1], o.Flush)
}

// Err joins every failure of the cycle; nil means a clean cycle.
func (o Outcome) Err() error {
	return errors.Join(o.Sensor, o.Format, o.DisplayErr())
}
