// Package aht20 drives the AHT20 temperature/humidity sensor over I2C.
//
//	d.Trigger()             // start a conversion (fast)
//	err := d.Collect(&s)    // fetch; ErrNotReady while the part is busy
//	s, err := d.Read(ctx)   // trigger + bounded polling, ctx-aware
//
// I2C.Tx must perform a write followed by a repeated-start read when both w
// and r are provided.
package aht20

import (
	"context"
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// I2C address.
const Address = 0x38

const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy       = 0x80
	statusCalibrated = 0x08

	fullScale = 1 << 20
)

var (
	ErrTimeout  = errors.New("aht20: timeout")
	ErrNotReady = errors.New("aht20: not ready")
	ErrChecksum = errors.New("aht20: checksum mismatch")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	Address uint16 // 0x38 if zero
	// PollInterval separates Collect attempts in Read. Default 15 ms.
	PollInterval time.Duration
	// CollectTimeout bounds Read when ctx has no earlier deadline. Default 250 ms.
	CollectTimeout time.Duration
	// SkipCRC accepts frames from clones that do not send the CRC byte.
	SkipCRC bool
}

type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg        Config
	configured bool
	buf        [7]byte
}

// New does not touch the bus; call Configure before the first read.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Configure applies cfg and calibrates the part if it reports uncalibrated.
func (d *Device) Configure(cfg Config) error {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Millisecond
	}
	if cfg.CollectTimeout <= 0 {
		cfg.CollectTimeout = 250 * time.Millisecond
	}
	d.cfg = cfg
	d.configured = true

	st, err := d.Status()
	if err == nil && st&statusCalibrated != 0 {
		return nil
	}
	if err := d.bus.Tx(d.Address, []byte{cmdInitialize, 0x08, 0x00}, nil); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	return nil
}

// Reset issues a soft reset; allow ~20 ms before the next command.
func (d *Device) Reset() error {
	return d.bus.Tx(d.Address, []byte{cmdSoftReset}, nil)
}

// Status reads the status byte.
func (d *Device) Status() (byte, error) {
	var data [1]byte
	if err := d.bus.Tx(d.Address, []byte{cmdStatus}, data[:]); err != nil {
		return 0, err
	}
	return data[0], nil
}

// Trigger starts a conversion (~80 ms on the datasheet).
func (d *Device) Trigger() error {
	if !d.configured {
		if err := d.Configure(Config{}); err != nil {
			return err
		}
	}
	return d.bus.Tx(d.Address, []byte{cmdTrigger, 0x33, 0x00}, nil)
}

// Collect reads one frame into out. ErrNotReady means the conversion is
// still running; bus errors are returned as-is.
func (d *Device) Collect(out *Sample) error {
	data := d.buf[:]
	if err := d.bus.Tx(d.Address, nil, data); err != nil {
		return err
	}
	if data[0]&statusCalibrated == 0 || data[0]&statusBusy != 0 {
		return ErrNotReady
	}
	if !d.cfg.SkipCRC && crc8(data[:6]) != data[6] {
		return ErrChecksum
	}
	out.RawHumidity = uint32(data[1])<<12 | uint32(data[2])<<4 | uint32(data[3])>>4
	out.RawTemp = uint32(data[3]&0x0F)<<16 | uint32(data[4])<<8 | uint32(data[5])
	return nil
}

// Read triggers a conversion and polls until a frame arrives, ctx is done or
// CollectTimeout elapses.
func (d *Device) Read(ctx context.Context) (Sample, error) {
	var s Sample
	if err := d.Trigger(); err != nil {
		return s, err
	}
	deadline := time.Now().Add(d.cfg.CollectTimeout)
	for {
		err := d.Collect(&s)
		if err != ErrNotReady {
			return s, err
		}
		if time.Now().After(deadline) {
			return s, ErrTimeout
		}
		select {
		case <-ctx.Done():
			return s, ctx.Err()
		case <-time.After(d.cfg.PollInterval):
		}
	}
}

// Sample holds one raw frame.
type Sample struct {
	RawHumidity uint32
	RawTemp     uint32
}

// MilliCelsius converts with integer math: T = raw/2^20 * 200 - 50.
func (s Sample) MilliCelsius() int32 {
	return int32(int64(s.RawTemp)*200_000/fullScale) - 50_000
}

// MilliRelHumidity converts with integer math: RH = raw/2^20 * 100.
func (s Sample) MilliRelHumidity() int32 {
	return int32(int64(s.RawHumidity) * 100_000 / fullScale)
}

func (s Sample) Celsius() float32 {
	return float32(s.RawTemp)*200/fullScale - 50
}

func (s Sample) RelHumidity() float32 {
	return float32(s.RawHumidity) * 100 / fullScale
}

// crc8 is CRC-8/NRSC-5 (poly 0x31, init 0xFF) as used by Aosong parts.
func crc8(p []byte) byte {
	crc := byte(0xFF)
	for _, b := range p {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
