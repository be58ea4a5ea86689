//go:build !(rp2040 || rp2350)

package fmtx

import "fmt"

// Host builds delegate straight to fmt.

func Sprintf(format string, a ...any) string             { return fmt.Sprintf(format, a...) }
func Appendf(dst []byte, format string, a ...any) []byte { return fmt.Appendf(dst, format, a...) }
func Errorf(format string, a ...any) error               { return fmt.Errorf(format, a...) }
func Sprint(a ...any) string                             { return fmt.Sprint(a...) }
