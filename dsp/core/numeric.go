// Package core provides small float32 helpers shared by the live signal
// path. Everything here is allocation-free and safe in audio callbacks.
package core

import "math"

const defaultEpsilon = 1e-6

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float32) float32 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float32) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := abs(a - b)
	if diff <= eps {
		return true
	}

	largest := abs(a)
	if b2 := abs(b); b2 > largest {
		largest = b2
	}
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
