package engine

import "math"

// Fast math helpers for hot-path physics. These avoid float32->float64
// round trips where the precision loss is irrelevant.

// fastSqrt approximates sqrt(x) with one Newton refinement of the inverse
// square root trick. Relative error is well under 0.1%.
func fastSqrt(x float32) float32 {
	if x <= 0 {
		return 0
	}
	i := math.Float32bits(x)
	i = 0x5f375a86 - (i >> 1)
	y := math.Float32frombits(i)
	y = y * (1.5 - 0.5*x*y*y)
	return x * y
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// isFinite reports whether x is neither NaN nor infinite.
func isFinite(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// finiteVec reports whether all three components are finite.
func finiteVec(x, y, z float32) bool {
	return isFinite(x) && isFinite(y) && isFinite(z)
}
