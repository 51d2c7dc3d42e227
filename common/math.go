package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Repeat wraps v into [0, length). The sign of v is preserved by math.Mod, so
// callers that need a positive result must offset it themselves.
func Repeat(v, length float64) float64 {
	return math.Mod(v, length)
}

// PingPong folds v back and forth over [0, length].
func PingPong(v, length float64) float64 {
	t := math.Mod(math.Abs(v), 2*length) / length
	if t < 1 {
		return t * length
	}
	return (2 - t) * length
}
