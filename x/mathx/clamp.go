package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundDiv divides a by b rounding half away from zero. b must be positive.
func RoundDiv[T constraints.Signed](a, b T) T {
	if a < 0 {
		return -((-a + b/2) / b)
	}
	return (a + b/2) / b
}
