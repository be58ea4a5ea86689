//go:build rp2040 || rp2350

// Package platform builds the collaborators for the target: real peripherals
// on RP2 boards, simulated ones on the host.
package platform

import (
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/shtc3"
	"tinygo.org/x/drivers/ssd1306"

	"envmon-go/devices/ahtsensor"
	"envmon-go/devices/dhtsensor"
	"envmon-go/devices/oled"
	"envmon-go/devices/shtcsensor"
	"envmon-go/devices/simsensor"
	"envmon-go/drivers/aht20"
	"envmon-go/errcode"
	"envmon-go/services/monitor"
	"envmon-go/setup"
	"envmon-go/types"
	"envmon-go/x/strconvx"
)

// Board owns the configured I2C bus shared by the sensor and the panel.
type Board struct {
	plan setup.Plan
	i2c  *machine.I2C
}

// Default configures the planned I2C bus.
func Default(plan setup.Plan) *Board {
	plan = plan.WithDefaults()
	b := &Board{plan: plan}

	switch plan.I2C.ID {
	case "i2c0":
		b.i2c = machine.I2C0
	case "i2c1":
		b.i2c = machine.I2C1
	}
	if b.i2c != nil {
		sda := machine.Pin(plan.I2C.SDA)
		scl := machine.Pin(plan.I2C.SCL)
		sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
		scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
		if err := b.i2c.Configure(machine.I2CConfig{SCL: scl, SDA: sda, Frequency: plan.I2C.Hz}); err != nil {
			println("[platform] i2c configure:", err.Error())
		}
	}
	return b
}

// LogWriters is USB CDC followed by every planned UART mirror.
func (b *Board) LogWriters() []io.Writer {
	ws := []io.Writer{machine.Serial}
	for _, u := range b.plan.UART {
		var hw *uartx.UART
		switch u.ID {
		case "uart0":
			hw = uartx.UART0
		case "uart1":
			hw = uartx.UART1
		default:
			continue
		}
		// Configure pins and baud. Defaults inside uartx will apply if zero.
		if err := hw.Configure(uartx.UARTConfig{
			BaudRate: u.Baud,
			TX:       machine.Pin(u.TX),
			RX:       machine.Pin(u.RX),
		}); err != nil {
			println("[platform] uart", u.ID, "configure:", err.Error())
			continue
		}
		ws = append(ws, hw)
	}
	return ws
}

func (b *Board) OpenSensor(p setup.SensorPlan) (monitor.Sensor, types.SensorInfo, error) {
	info := types.SensorInfo{Sensor: string(p.Kind), Addr: p.Addr, Bus: p.Bus}

	switch p.Kind {
	case setup.SensorDHT22:
		info.Bus = "gp" + strconvx.FormatUint(uint64(p.Pin))
		return dhtsensor.Open(machine.Pin(p.Pin)), info, nil

	case setup.SensorAHT20:
		if b.i2c == nil {
			return nil, info, errcode.New(errcode.InvalidParams, "platform", "no i2c bus for aht20")
		}
		dev := aht20.New(b.i2c)
		if err := dev.Configure(aht20.Config{Address: p.Addr}); err != nil {
			return nil, info, err
		}
		info.Addr = dev.Address
		return ahtsensor.New(&dev), info, nil

	case setup.SensorSHTC3:
		if b.i2c == nil {
			return nil, info, errcode.New(errcode.InvalidParams, "platform", "no i2c bus for shtc3")
		}
		dev := shtc3.New(b.i2c)
		info.Addr = shtc3.SHTC3_ADDRESS
		return shtcsensor.New(&dev), info, nil

	case setup.SensorSim:
		return simsensor.New(simsensor.DefaultConfig()), info, nil
	}
	return nil, info, errcode.Unsupported
}

// OpenDisplay binds an SSD1306 on the shared bus. Bring-up sends the init
// sequence and one blank frame; the frame transfer is what reports a
// missing panel, since Configure has no error result. The panel restores
// the drawn frame around a bring-up retried from Flush.
func (b *Board) OpenDisplay(p setup.DisplayPlan) *oled.Panel {
	dev := ssd1306.NewI2C(b.i2c)
	cfg := ssd1306.Config{Address: p.Addr, Width: p.Width, Height: p.Height}
	return oled.New(dev, p.Width, p.Height, func() error {
		dev.Configure(cfg)
		dev.ClearBuffer()
		return dev.Display()
	})
}

// Halt parks the main goroutine; firmware never exits.
func Halt() { select {} }
