//go:build pico_oled_aht20

package setup

import "time"

// Pico with an SSD1306 and an AHT20 sharing I2C0, logs mirrored on UART0.
var Selected = Plan{
	Name:    "pico_oled_aht20",
	I2C:     I2CPlan{ID: "i2c0", SDA: 8, SCL: 9, Hz: 400_000},
	Sensor:  SensorPlan{Kind: SensorAHT20, Bus: "i2c0", Addr: 0x38},
	Display: DisplayPlan{Bus: "i2c0", Addr: 0x3C, Width: 128, Height: 64},
	UART: []UARTPlan{
		// RP2040 default pins for Pico
		{ID: "uart0", TX: 0, RX: 1, Baud: 115_200},
	},

	BootDelay:   DefaultBootDelay,
	Period:      DefaultPeriod,
	StepTimeout: 500 * time.Millisecond,
	LogLevel:    "info",
	Heartbeat:   DefaultHeartbeat,
}
