//go:build pico_oled_shtc3 && !pico_oled_aht20

package setup

// Pico with an SSD1306 and an SHTC3 on I2C0 (GP12/GP13).
var Selected = Plan{
	Name:    "pico_oled_shtc3",
	I2C:     I2CPlan{ID: "i2c0", SDA: 12, SCL: 13, Hz: 400_000},
	Sensor:  SensorPlan{Kind: SensorSHTC3, Bus: "i2c0", Addr: 0x70},
	Display: DisplayPlan{Bus: "i2c0", Addr: 0x3C, Width: 128, Height: 64},

	BootDelay: DefaultBootDelay,
	Period:    DefaultPeriod,
	LogLevel:  "info",
	Heartbeat: DefaultHeartbeat,
}
