//go:build rp2040 || rp2350

package dhtsensor

import (
	"machine"

	"tinygo.org/x/drivers/dht"
)

// Open attaches a DHT22 on pin with the driver's default 2 s update policy.
func Open(pin machine.Pin) *Sensor {
	return New(dht.New(pin, dht.DHT22))
}
