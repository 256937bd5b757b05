package utils

import (
	"math"
)

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PositiveFinite reports whether v is a usable strictly positive quantity.
func PositiveFinite(v float64) bool {
	return IsFinite(v) && v > 0
}

// SmallerMagnitude returns whichever of a and b is closer to zero.
func SmallerMagnitude(a, b float64) float64 {
	if math.Abs(b) < math.Abs(a) {
		return b
	}
	return a
}

