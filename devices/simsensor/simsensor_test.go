package simsensor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/errcode"
)

func TestWaveformIsDeterministic(t *testing.T) {
	a, b := New(DefaultConfig()), New(DefaultConfig())
	for i := 0; i < 10; i++ {
		ra, err := a.Read(context.Background())
		require.NoError(t, err)
		rb, _ := b.Read(context.Background())
		assert.Equal(t, ra, rb)
		assert.InDelta(t, 22.5, ra.Temperature, 2.5+1e-4)
		assert.InDelta(t, 50, ra.Humidity, 5+1e-4)
	}
}

func TestFirstSampleIsBase(t *testing.T) {
	s := New(Config{BaseTemp: 23.456, BaseHumi: 55.1, Swing: 0})
	r, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float32(23.456), r.Temperature)
	assert.Equal(t, float32(55.1), r.Humidity)
}

func TestFaultSchedule(t *testing.T) {
	s := New(Config{BaseTemp: 20, FailEvery: 3})
	for i := 1; i <= 6; i++ {
		_, err := s.Read(context.Background())
		if i%3 == 0 {
			assert.ErrorIs(t, err, errcode.SensorRead, "read %d", i)
			assert.ErrorIs(t, err, ErrNoResponse)
		} else {
			assert.NoError(t, err, "read %d", i)
		}
	}

	s = New(Config{FailEvery: 1, Timeouts: true})
	_, err := s.Read(context.Background())
	assert.ErrorIs(t, err, errcode.SensorTimeout)
}

func TestLatencyHonoursContext(t *testing.T) {
	s := New(Config{Latency: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Read(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, s.Reads())
}
