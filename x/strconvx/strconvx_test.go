package strconvx

import (
	"math"
	"testing"
)

func TestAppendFixed(t *testing.T) {
	type C struct {
		v    float64
		prec int
		want string
	}
	for _, c := range []C{
		{23.456, 2, "23.46"},
		{55.1, 2, "55.10"},
		{float64(float32(23.456)), 2, "23.46"},
		{float64(float32(55.1)), 2, "55.10"},
		{0, 2, "0.00"},
		{-0.004, 2, "0.00"},
		{-0.005, 2, "-0.01"},
		{-12.5, 2, "-12.50"},
		{-40, 2, "-40.00"},
		{100, 2, "100.00"},
		{99.996, 2, "100.00"},
		{1.5, 0, "2"},
		{-1.5, 0, "-2"},
		{3.14159, 4, "3.1416"},
		{7, -3, "7"},
		{math.NaN(), 2, "NaN"},
		{math.Inf(1), 2, "+Inf"},
		{math.Inf(-1), 2, "-Inf"},
	} {
		if got := FormatFixed(c.v, c.prec); got != c.want {
			t.Fatalf("FormatFixed(%v, %d) = %q, want %q", c.v, c.prec, got, c.want)
		}
	}
}

func TestAppendFixedHugeFallsBack(t *testing.T) {
	got := FormatFixed(1e20, 2)
	if got != "100000000000000000000.00" {
		t.Fatalf("FormatFixed(1e20) = %q", got)
	}
}

func TestAppendIntUint(t *testing.T) {
	type C struct {
		u    uint64
		base int
		want string
	}
	for _, c := range []C{
		{0, 10, "0"},
		{5, 2, "101"},
		{255, 16, "ff"},
		{255, 99, "255"},
		{35, 36, "z"},
	} {
		if got := string(AppendUint(nil, c.u, c.base)); got != c.want {
			t.Fatalf("AppendUint(%d,%d) = %q, want %q", c.u, c.base, got, c.want)
		}
	}
	if got := string(AppendInt([]byte("x="), -15)); got != "x=-15" {
		t.Fatalf("AppendInt = %q", got)
	}
	if got := string(AppendInt(nil, math.MinInt64)); got != "-9223372036854775808" {
		t.Fatalf("AppendInt(MinInt64) = %q", got)
	}
}

func TestAppendUintPad(t *testing.T) {
	if got := string(AppendUintPad(nil, 7, 3)); got != "007" {
		t.Fatalf("AppendUintPad(7,3) = %q", got)
	}
	if got := string(AppendUintPad(nil, 12345, 3)); got != "12345" {
		t.Fatalf("AppendUintPad(12345,3) = %q", got)
	}
}

func TestAppendFixedNoAlloc(t *testing.T) {
	buf := make([]byte, 0, 32)
	n := testing.AllocsPerRun(100, func() {
		buf = AppendFixed(buf[:0], -23.456, 2)
	})
	if n != 0 {
		t.Fatalf("AppendFixed allocated %v times per run", n)
	}
}
