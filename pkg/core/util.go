package core

import "math"

// Epsilon is the tolerance used for all "is this zero" decisions
const Epsilon = 1e-10

// IsZero reports whether x is within Epsilon of zero
func IsZero(x float64) bool {
	return math.Abs(x) < Epsilon
}

// AlignZero snaps values within Epsilon of zero to exactly zero
func AlignZero(x float64) float64 {
	if IsZero(x) {
		return 0
	}
	return x
}

// Sign returns -1, 0 or 1 after aligning x to zero
func Sign(x float64) int {
	switch x = AlignZero(x); {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
