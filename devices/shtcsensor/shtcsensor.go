// Package shtcsensor adapts the SHTC3 driver to the monitor's Sensor. The
// part is woken for each measurement and put back to sleep after it.
package shtcsensor

import (
	"context"

	"envmon-go/errcode"
	"envmon-go/types"
)

// Device matches *shtc3.Device.
type Device interface {
	WakeUp() error
	Sleep() error
	ReadTemperatureHumidity() (tempMilliCelsius int32, relativeHumidity int16, err error)
}

// Plausible range from the datasheet. The driver ignores bus errors, so an
// all-zero frame (-45 °C, 0 %) is how a missing part shows up.
const (
	minMilliC = -40_000
	maxMilliC = 125_000
)

type Sensor struct {
	dev Device
}

func New(dev Device) *Sensor { return &Sensor{dev: dev} }

func (s *Sensor) Read(ctx context.Context) (types.Reading, error) {
	if err := ctx.Err(); err != nil {
		return types.Reading{}, errcode.Sensor("shtc3.read", err)
	}
	if err := s.dev.WakeUp(); err != nil {
		return types.Reading{}, errcode.Sensor("shtc3.wake", err)
	}
	mC, rh, err := s.dev.ReadTemperatureHumidity()
	_ = s.dev.Sleep()
	if err != nil {
		return types.Reading{}, errcode.Sensor("shtc3.read", err)
	}
	if mC < minMilliC || mC > maxMilliC {
		return types.Reading{}, errcode.New(errcode.SensorRead, "shtc3.read", "implausible temperature")
	}
	// rh is in hundredths of a percent.
	return types.FromMilli(mC, int32(rh)*10), nil
}
