package fmtx

import (
	"errors"
	"testing"
)

func TestSprintfVerbs(t *testing.T) {
	type C struct {
		fmt  string
		args []any
		want string
	}
	for _, c := range []C{
		{"hello %s", []any{"world"}, "hello world"},
		{"num %d hex %x HEX %X", []any{255, 255, 255}, "num 255 hex ff HEX FF"},
		{"bool %t %t", []any{true, false}, "bool true false"},
		{"literal %%", nil, "literal %"},
		{"q=%q", []any{"a\"b\\c"}, `q="a\"b\\c"`},
		{"v=%v", []any{123}, "v=123"},
		{"trim: %.3s", []any{"abcdef"}, "trim: abc"},
		{"temp=%.2fC humi=%.2f%%", []any{23.456, 55.1}, "temp=23.46C humi=55.10%"},
		{"err: %v", []any{errors.New("no signal")}, "err: no signal"},
		{"u=%d", []any{uint16(512)}, "u=512"},
	} {
		got := Sprintf(c.fmt, c.args...)
		if got != c.want {
			t.Fatalf("Sprintf(%q, ...) = %q, want %q", c.fmt, got, c.want)
		}
	}
}

func TestAppendfReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 64)
	buf = append(buf, "[x] "...)
	out := Appendf(buf, "cycle %d", 7)
	if got, want := string(out), "[x] cycle 7"; got != want {
		t.Fatalf("Appendf = %q, want %q", got, want)
	}
}

func TestSprint(t *testing.T) {
	if got, want := Sprint("a", 1, true), "a1 true"; got != want {
		t.Fatalf("Sprint = %q, want %q", got, want)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf("bad %s: %d", "thing", 3)
	if err == nil {
		t.Fatalf("Errorf returned nil")
	}
	if err.Error() != "bad thing: 3" {
		t.Fatalf("Errorf string = %q, want %q", err.Error(), "bad thing: 3")
	}
}
