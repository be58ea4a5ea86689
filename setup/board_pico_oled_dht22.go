//go:build !(pico_oled_aht20 || pico_oled_shtc3)

package setup

// Pico with an SSD1306 on I2C0 (GP8/GP9) and a DHT22 on GP15. Default board.
var Selected = Plan{
	Name:    "pico_oled_dht22",
	I2C:     I2CPlan{ID: "i2c0", SDA: 8, SCL: 9, Hz: 400_000},
	Sensor:  SensorPlan{Kind: SensorDHT22, Pin: 15},
	Display: DisplayPlan{Bus: "i2c0", Addr: 0x3C, Width: 128, Height: 64},

	BootDelay: DefaultBootDelay,
	Period:    DefaultPeriod,
	LogLevel:  "info",
	Heartbeat: DefaultHeartbeat,
}
