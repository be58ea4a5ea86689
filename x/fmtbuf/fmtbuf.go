// Package fmtbuf provides a bounded, append-only text sink over caller-owned
// memory. A write that does not fit fails as a whole with errcode.BufferFull
// and leaves the content written so far untouched; the buffer never grows.
package fmtbuf

import (
	"io"

	"envmon-go/errcode"
	"envmon-go/x/strconvx"
)

// LineCap bounds one rendered status line. The widest line the monitor
// produces is "Temp: -40.00°C" (15 bytes); the rest is headroom for sensors
// reporting out of their datasheet range.
const LineCap = 24

// Buf writes into a fixed backing slice. The zero value has capacity 0.
type Buf struct {
	mem []byte
	n   int
}

var (
	_ io.Writer       = (*Buf)(nil)
	_ io.StringWriter = (*Buf)(nil)
)

// New returns a Buf whose capacity is len(mem). mem is usually a slice of an
// array owned by the caller, so nothing is allocated per cycle.
func New(mem []byte) Buf {
	return Buf{mem: mem[:len(mem):len(mem)]}
}

// Reset empties the buffer without touching the backing memory.
func (b *Buf) Reset() { b.n = 0 }

func (b *Buf) Len() int       { return b.n }
func (b *Buf) Cap() int       { return len(b.mem) }
func (b *Buf) Available() int { return len(b.mem) - b.n }

// Write appends p entirely or not at all.
func (b *Buf) Write(p []byte) (int, error) {
	if len(p) > b.Available() {
		return 0, errcode.BufferFull
	}
	b.n += copy(b.mem[b.n:], p)
	return len(p), nil
}

// WriteString appends s entirely or not at all.
func (b *Buf) WriteString(s string) (int, error) {
	if len(s) > b.Available() {
		return 0, errcode.BufferFull
	}
	b.n += copy(b.mem[b.n:], s)
	return len(s), nil
}

// WriteFixed appends v with exactly prec fractional digits.
func (b *Buf) WriteFixed(v float64, prec int) error {
	var scratch [32]byte
	_, err := b.Write(strconvx.AppendFixed(scratch[:0], v, prec))
	return err
}

// Bytes aliases the written bytes; it is valid until the next Reset/Write.
func (b *Buf) Bytes() []byte { return b.mem[:b.n] }

func (b *Buf) String() string { return string(b.mem[:b.n]) }
