package types

import (
	"math"

	"envmon-go/x/mathx"
)

// ------------------------
// Temperature & humidity
// ------------------------

// SensorInfo is published retained on env/info once the sensor is opened.
type SensorInfo struct {
	Sensor string `json:"sensor"` // "dht22", "aht20", "shtc3", "sim"
	Addr   uint16 `json:"addr"`   // I2C address, 0 for single-wire parts
	Bus    string `json:"bus"`    // "i2c0", "gp15", ...
}

// Reading is one successful sensor sample.
type Reading struct {
	Temperature float32 // °C
	Humidity    float32 // %RH
}

type TemperatureValue struct {
	// Tenths of °C (e.g. 231 => 23.1°C).
	DeciC int16 `json:"deci_c"`
}

type HumidityValue struct {
	// Hundredths of %RH (0..10000 for 0..100.00%).
	RHx100 uint16 `json:"rh_x100"`
}

// TemperatureValue rounds to the nearest tenth of a degree.
func (r Reading) TemperatureValue() TemperatureValue {
	v := math.Round(float64(r.Temperature) * 10)
	v = mathx.Clamp(v, math.MinInt16, math.MaxInt16)
	return TemperatureValue{DeciC: int16(v)}
}

// HumidityValue rounds to the nearest hundredth and clamps to 0..100 %.
func (r Reading) HumidityValue() HumidityValue {
	v := math.Round(float64(r.Humidity) * 100)
	v = mathx.Clamp(v, 0, 10000)
	return HumidityValue{RHx100: uint16(v)}
}

// FromMilli builds a Reading from milli-°C and milli-%RH integers, the
// native units of most I2C humidity parts.
func FromMilli(mC, mRH int32) Reading {
	return Reading{
		Temperature: float32(mC) / 1000,
		Humidity:    float32(mRH) / 1000,
	}
}

// FromDeci builds a Reading from deci-°C and deci-%RH, as reported by
// single-wire DHT parts.
func FromDeci(dC int16, dRH uint16) Reading {
	return Reading{
		Temperature: float32(dC) / 10,
		Humidity:    float32(dRH) / 10,
	}
}

// Float returns the value in °C.
func (t TemperatureValue) Float() float32 { return float32(t.DeciC) / 10 }

// Float returns the value in %RH.
func (h HumidityValue) Float() float32 { return float32(h.RHx100) / 100 }

// RoundedDeciC converts milli-°C to tenths with half-away-from-zero rounding.
func RoundedDeciC(mC int32) int16 {
	return int16(mathx.Clamp(mathx.RoundDiv(mC, 100), math.MinInt16, math.MaxInt16))
}
