// Package simsensor produces deterministic temperature and humidity
// readings for host runs and tests, with a scripted fault schedule.
package simsensor

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"envmon-go/errcode"
	"envmon-go/types"
)

var ErrNoResponse = errors.New("sim: no response")

type Config struct {
	BaseTemp  float32 // °C
	BaseHumi  float32 // %RH
	Swing     float32 // peak deviation of both waves
	Period    int     // samples per full wave; 0 selects 60
	FailEvery int     // every Nth read fails; 0 disables
	// Timeouts makes the scheduled failures time out instead of reporting
	// a read error.
	Timeouts bool
	// Latency simulates conversion time; the read honours ctx meanwhile.
	Latency time.Duration
}

func DefaultConfig() Config {
	return Config{BaseTemp: 22.5, BaseHumi: 50, Swing: 2.5, Period: 60}
}

type Sensor struct {
	mu  sync.Mutex
	cfg Config
	n   int
}

func New(cfg Config) *Sensor {
	if cfg.Period <= 0 {
		cfg.Period = 60
	}
	return &Sensor{cfg: cfg}
}

// Read returns the next point on the waveform.
func (s *Sensor) Read(ctx context.Context) (types.Reading, error) {
	s.mu.Lock()
	s.n++
	n := s.n
	cfg := s.cfg
	s.mu.Unlock()

	if cfg.Latency > 0 {
		t := time.NewTimer(cfg.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return types.Reading{}, ctx.Err()
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return types.Reading{}, err
	}

	if cfg.FailEvery > 0 && n%cfg.FailEvery == 0 {
		if cfg.Timeouts {
			return types.Reading{}, errcode.Wrap(errcode.SensorTimeout, "sim.read", ErrNoResponse)
		}
		return types.Reading{}, errcode.Wrap(errcode.SensorRead, "sim.read", ErrNoResponse)
	}

	phase := 2 * math.Pi * float64(n-1) / float64(cfg.Period)
	swing := float64(cfg.Swing)
	return types.Reading{
		Temperature: cfg.BaseTemp + float32(swing*math.Sin(phase)),
		Humidity:    cfg.BaseHumi + float32(2*swing*math.Cos(phase)),
	}, nil
}

// Reads is the number of Read calls so far.
func (s *Sensor) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
