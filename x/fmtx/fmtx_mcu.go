//go:build rp2040 || rp2350

package fmtx

import (
	"errors"
	"unicode/utf8"

	"envmon-go/x/strconvx"
)

// Supports: %s %q %d %x %X %v %t %f %% with width for %s and precision for
// %s/%f. No flags; keeps MCU cost low. %w behaves like %v.

func Sprintf(format string, a ...any) string {
	var buf [96]byte
	return string(Appendf(buf[:0], format, a...))
}

func Appendf(dst []byte, format string, a ...any) []byte {
	b := builder{buf: dst}
	b.format(format, a...)
	return b.buf
}

func Errorf(format string, a ...any) error {
	return errors.New(Sprintf(format, a...))
}

// Sprint spaces operands like fmt: only between two non-strings.
func Sprint(a ...any) string {
	var b builder
	prevStr := true
	for i, v := range a {
		_, isStr := v.(string)
		if i > 0 && !isStr && !prevStr {
			b.byte(' ')
		}
		b.any(v)
		prevStr = isStr
	}
	return string(b.buf)
}

type builder struct{ buf []byte }

func (b *builder) byte(c byte)  { b.buf = append(b.buf, c) }
func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func (b *builder) any(v any) {
	switch x := v.(type) {
	case nil:
		b.str("<nil>")
	case string:
		b.str(x)
	case []byte:
		b.buf = append(b.buf, x...)
	case int, int8, int16, int32, int64:
		b.buf = strconvx.AppendInt(b.buf, toI64(x))
	case uint, uint8, uint16, uint32, uint64:
		b.buf = strconvx.AppendUint(b.buf, toU64(x), 10)
	case bool:
		b.bool(x)
	case float32:
		b.buf = strconvx.AppendFixed(b.buf, float64(x), 6)
	case float64:
		b.buf = strconvx.AppendFixed(b.buf, x, 6)
	case error:
		b.str(x.Error())
	case interface{ String() string }:
		b.str(x.String())
	default:
		b.str("<unk>")
	}
}

func (b *builder) bool(v bool) {
	if v {
		b.str("true")
	} else {
		b.str("false")
	}
}

func (b *builder) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format); {
		if format[i] != '%' {
			b.byte(format[i])
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.byte('%')
			i += 2
			continue
		}
		i++
		// %<w>.<p><verb>
		width, prec, hasPrec := 0, 0, false
		i = parseNum(format, i, &width)
		if i < len(format) && format[i] == '.' {
			i++
			hasPrec = true
			i = parseNum(format, i, &prec)
		}
		if i >= len(format) {
			return
		}
		verb := format[i]
		i++
		if ai >= len(args) {
			b.str("%!")
			b.byte(verb)
			b.str("(MISSING)")
			continue
		}
		arg := args[ai]
		ai++

		switch verb {
		case 's', 'q':
			var s string
			switch v := arg.(type) {
			case string:
				s = v
			case []byte:
				s = string(v)
			case error:
				s = v.Error()
			default:
				b.any(arg)
				continue
			}
			if verb == 'q' {
				b.quote(s)
				continue
			}
			if hasPrec && prec < len(s) {
				s = s[:prec]
			}
			for pad := width - utf8.RuneCountInString(s); pad > 0; pad-- {
				b.byte(' ')
			}
			b.str(s)
		case 'd':
			if isUnsigned(arg) {
				b.buf = strconvx.AppendUint(b.buf, toU64(arg), 10)
			} else {
				b.buf = strconvx.AppendInt(b.buf, toI64(arg))
			}
		case 'x', 'X':
			start := len(b.buf)
			b.buf = strconvx.AppendUint(b.buf, toU64(arg), 16)
			if verb == 'X' {
				for j := start; j < len(b.buf); j++ {
					if c := b.buf[j]; 'a' <= c && c <= 'f' {
						b.buf[j] = c - ('a' - 'A')
					}
				}
			}
		case 'f':
			if !hasPrec {
				prec = 6
			}
			b.buf = strconvx.AppendFixed(b.buf, toF64(arg), prec)
		case 't':
			v, _ := arg.(bool)
			b.bool(v)
		case 'v', 'w':
			b.any(arg)
		default:
			b.byte('%')
			b.byte(verb)
		}
	}
}

func isUnsigned(v any) bool {
	switch v.(type) {
	case uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func toU64(v any) uint64 {
	switch t := v.(type) {
	case uint:
		return uint64(t)
	case uint8:
		return uint64(t)
	case uint16:
		return uint64(t)
	case uint32:
		return uint64(t)
	case uint64:
		return t
	default:
		return uint64(toI64(v))
	}
}

func toI64(v any) int64 {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint, uint8, uint16, uint32, uint64:
		return int64(toU64(t))
	default:
		return 0
	}
}

func toF64(v any) float64 {
	switch t := v.(type) {
	case float32:
		return float64(t)
	case float64:
		return t
	default:
		return float64(toI64(v))
	}
}

func parseNum(s string, i int, out *int) int {
	n := 0
	start := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i > start {
		*out = n
	}
	return i
}

// quote escapes backslash, quotes and common control bytes only.
func (b *builder) quote(s string) {
	b.byte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			b.byte('\\')
			b.byte(s[i])
		case '\n':
			b.str(`\n`)
		case '\r':
			b.str(`\r`)
		case '\t':
			b.str(`\t`)
		default:
			b.byte(s[i])
		}
	}
	b.byte('"')
}
