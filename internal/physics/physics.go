// Package physics provides proximity checks and a broad-phase grid.
package physics

import "math"

// Clamp limits v to [lo, hi]. When the range is inverted (lo > hi) the
// midpoint is returned so callers always get a stable position.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WithinBox reports whether (bx, by) lies strictly inside the square of
// half-extent r centred on (ax, ay). Both axes are checked independently.
func WithinBox(ax, ay, bx, by, r float64) bool {
	return math.Abs(ax-bx) < r && math.Abs(ay-by) < r
}
