package systems

import (
	"math"
	"math/rand"
)

// RandRange returns a uniform sample in [min, max).
func RandRange(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// randRange32 is RandRange narrowed to float32.
func randRange32(rng *rand.Rand, min, max float64) float32 {
	return float32(RandRange(rng, min, max))
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Frac returns the fractional part of x, always in [0, 1).
func Frac(x float64) float64 {
	f := x - math.Floor(x)
	// x - Floor(x) rounds to 1 for tiny negative x
	if f >= 1 {
		return 0
	}
	return f
}

// Clamp01 clamps a value to the [0, 1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clamp01f is Clamp01 for float32.
func clamp01f(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampInt restricts n to [lo, hi].
func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// sign returns -1 for negative values and 1 otherwise.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// ProximityBoost is the pointer-proximity falloff: 1 at distance 0,
// linearly down to 0 at the influence radius and beyond.
func ProximityBoost(px, py, qx, qy, influence float32) float32 {
	if influence <= 0 {
		return 0
	}
	dx := float64(px - qx)
	dy := float64(py - qy)
	d := math.Hypot(dx, dy)
	return float32(Clamp01(1 - d/float64(influence)))
}
