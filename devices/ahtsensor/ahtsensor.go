// Package ahtsensor adapts the AHT20 driver to the monitor's Sensor.
package ahtsensor

import (
	"context"
	"errors"

	"envmon-go/drivers/aht20"
	"envmon-go/errcode"
	"envmon-go/types"
)

// Device is the part of aht20.Device the adapter uses.
type Device interface {
	Read(ctx context.Context) (aht20.Sample, error)
}

type Sensor struct {
	dev Device
}

func New(dev Device) *Sensor { return &Sensor{dev: dev} }

func (s *Sensor) Read(ctx context.Context) (types.Reading, error) {
	sample, err := s.dev.Read(ctx)
	if err != nil {
		if errors.Is(err, aht20.ErrTimeout) {
			return types.Reading{}, errcode.Wrap(errcode.SensorTimeout, "aht20.read", err)
		}
		return types.Reading{}, errcode.Sensor("aht20.read", err)
	}
	return types.FromMilli(sample.MilliCelsius(), sample.MilliRelHumidity()), nil
}
