package ahtsensor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/drivers/aht20"
	"envmon-go/errcode"
)

type fakeDev struct {
	s   aht20.Sample
	err error
}

func (f fakeDev) Read(context.Context) (aht20.Sample, error) { return f.s, f.err }

func TestConvertsSample(t *testing.T) {
	s := New(fakeDev{s: aht20.Sample{RawTemp: 393_216, RawHumidity: 576_717}})
	r, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 25.0, r.Temperature, 1e-3)
	assert.InDelta(t, 55.0, r.Humidity, 1e-3)
}

func TestClassifiesErrors(t *testing.T) {
	_, err := New(fakeDev{err: aht20.ErrTimeout}).Read(context.Background())
	assert.ErrorIs(t, err, errcode.SensorTimeout)

	_, err = New(fakeDev{err: aht20.ErrChecksum}).Read(context.Background())
	assert.ErrorIs(t, err, errcode.SensorRead)
	assert.ErrorIs(t, err, aht20.ErrChecksum)

	_, err = New(fakeDev{err: context.DeadlineExceeded}).Read(context.Background())
	assert.ErrorIs(t, err, errcode.SensorTimeout)

	_, err = New(fakeDev{err: errors.New("nack")}).Read(context.Background())
	assert.EqualError(t, err, "aht20.read: sensor_read: nack")
}
