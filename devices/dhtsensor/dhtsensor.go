// Package dhtsensor adapts a DHT22 single-wire sensor to the monitor's
// Sensor. The driver itself only builds for TinyGo targets, see open_rp2.go.
package dhtsensor

import (
	"context"

	"envmon-go/errcode"
	"envmon-go/types"
)

// Measurer matches dht.Device: tenths of °C and tenths of %RH.
type Measurer interface {
	Measurements() (temperature int16, humidity uint16, err error)
}

// DHT22 datasheet range.
const (
	minDeciC  = -400
	maxDeciC  = 800
	maxDeciRH = 1000
)

type Sensor struct {
	dev Measurer
}

func New(dev Measurer) *Sensor { return &Sensor{dev: dev} }

// Read returns the latest measurement. The driver refreshes at most every
// 2 s, so consecutive 1 s cycles may see the same sample.
func (s *Sensor) Read(ctx context.Context) (types.Reading, error) {
	if err := ctx.Err(); err != nil {
		return types.Reading{}, errcode.Sensor("dht22.read", err)
	}
	t, h, err := s.dev.Measurements()
	if err != nil {
		return types.Reading{}, errcode.Sensor("dht22.read", err)
	}
	if t < minDeciC || t > maxDeciC || h > maxDeciRH {
		return types.Reading{}, errcode.New(errcode.SensorRead, "dht22.read", "implausible sample")
	}
	return types.FromDeci(t, h), nil
}
