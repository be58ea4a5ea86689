package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/errcode"
	"envmon-go/logsink"
)

func TestSelectedPlanIsValid(t *testing.T) {
	p := Selected.WithDefaults()
	require.NoError(t, p.Validate())
	assert.Equal(t, DefaultPeriod, p.Period)
	assert.Equal(t, logsink.LevelInfo, p.Level())
}

func TestDefaultBoardWiring(t *testing.T) {
	if Selected.Name != "pico_oled_dht22" {
		t.Skip("non-default board selected")
	}
	assert.Equal(t, I2CPlan{ID: "i2c0", SDA: 8, SCL: 9, Hz: 400_000}, Selected.I2C)
	assert.Equal(t, SensorPlan{Kind: SensorDHT22, Pin: 15}, Selected.Sensor)
	assert.Equal(t, uint16(0x3C), Selected.Display.Addr)
	assert.Equal(t, DefaultBootDelay, Selected.BootDelay)
}

func TestWithDefaults(t *testing.T) {
	p := Plan{
		I2C:    I2CPlan{ID: "i2c1"},
		Sensor: SensorPlan{Kind: SensorAHT20},
		UART:   []UARTPlan{{ID: "uart1"}},
	}.WithDefaults()

	assert.Equal(t, uint32(DefaultI2CHz), p.I2C.Hz)
	assert.Equal(t, "i2c1", p.Sensor.Bus)
	assert.Equal(t, "i2c1", p.Display.Bus)
	assert.Equal(t, int16(128), p.Display.Width)
	assert.Equal(t, int16(64), p.Display.Height)
	assert.Equal(t, uint32(115_200), p.UART[0].Baud)
	assert.Equal(t, "info", p.LogLevel)
	require.NoError(t, p.Validate())
}

func TestValidateRejects(t *testing.T) {
	base := Plan{I2C: I2CPlan{ID: "i2c0"}, Sensor: SensorPlan{Kind: SensorSim}}.WithDefaults()
	require.NoError(t, base.Validate())

	cases := map[string]func(p *Plan){
		"unknown sensor": func(p *Plan) { p.Sensor.Kind = "bme280" },
		"sensor bus":     func(p *Plan) { p.Sensor = SensorPlan{Kind: SensorSHTC3, Bus: "i2c1"} },
		"dht pin":        func(p *Plan) { p.Sensor = SensorPlan{Kind: SensorDHT22, Pin: 40} },
		"display bus":    func(p *Plan) { p.Display.Bus = "i2c1" },
		"geometry":       func(p *Plan) { p.Display.Height = 60 },
		"uart":           func(p *Plan) { p.UART = []UARTPlan{{ID: "uart7"}} },
		"log level":      func(p *Plan) { p.LogLevel = "loud" },
		"i2c id":         func(p *Plan) { p.I2C.ID = "i2c9"; p.Display.Bus = "i2c9" },
	}
	for name, mutate := range cases {
		p := base
		p.UART = nil
		mutate(&p)
		err := p.Validate()
		assert.ErrorIs(t, err, errcode.InvalidParams, name)
	}
}
