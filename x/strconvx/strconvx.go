// Package strconvx holds allocation-free number formatting that behaves the
// same on MCU and host builds. Every helper appends to a caller buffer.
package strconvx

import (
	"math"
	"strconv"

	"envmon-go/x/mathx"
)

const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// MaxFixedPrec is the largest precision AppendFixed honours.
const MaxFixedPrec = 9

var pow10 = [MaxFixedPrec + 1]uint64{
	1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000, 1_000_000_000,
}

// fixedLimit keeps v*10^prec inside the exactly representable integer range.
const fixedLimit = 1 << 53

// AppendUint appends u in the given base (2..36; anything else means 10).
func AppendUint(dst []byte, u uint64, base int) []byte {
	if base < 2 || base > 36 {
		base = 10
	}
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for {
		i--
		buf[i] = digits[u%b]
		u /= b
		if u == 0 {
			break
		}
	}
	return append(dst, buf[i:]...)
}

// AppendInt appends the base-10 form of i.
func AppendInt(dst []byte, i int64) []byte {
	if i < 0 {
		dst = append(dst, '-')
		return AppendUint(dst, uint64(-(i+1))+1, 10)
	}
	return AppendUint(dst, uint64(i), 10)
}

// AppendUintPad appends u in base 10, left-padded with zeros to width.
func AppendUintPad(dst []byte, u uint64, width int) []byte {
	var buf [20]byte
	s := AppendUint(buf[:0], u, 10)
	for pad := width - len(s); pad > 0; pad-- {
		dst = append(dst, '0')
	}
	return append(dst, s...)
}

// AppendFixed appends v with exactly prec fractional digits, rounding half
// away from zero on the decimal-scaled value. Negative results carry a
// leading '-', zero never does. NaN and infinities are spelled like strconv.
func AppendFixed(dst []byte, v float64, prec int) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, "NaN"...)
	case math.IsInf(v, 1):
		return append(dst, "+Inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-Inf"...)
	}
	prec = mathx.Clamp(prec, 0, MaxFixedPrec)
	scale := pow10[prec]

	neg := v < 0
	a := math.Abs(v)
	scaled := math.Floor(a*float64(scale) + 0.5)
	if scaled >= fixedLimit {
		// Out of the exact range; precision is meaningless there anyway.
		return strconv.AppendFloat(dst, v, 'f', prec, 64)
	}
	q := uint64(scaled)
	if neg && q != 0 {
		dst = append(dst, '-')
	}
	dst = AppendUint(dst, q/scale, 10)
	if prec > 0 {
		dst = append(dst, '.')
		dst = AppendUintPad(dst, q%scale, prec)
	}
	return dst
}

// FormatFixed is the string form of AppendFixed.
func FormatFixed(v float64, prec int) string {
	var buf [32]byte
	return string(AppendFixed(buf[:0], v, prec))
}

// FormatUint is the base-10 string form of u.
func FormatUint(u uint64) string {
	var buf [20]byte
	return string(AppendUint(buf[:0], u, 10))
}
