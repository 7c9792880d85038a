package components

import "math"

// Viewport is the logical drawing area. Width and Height are never below 1.
type Viewport struct {
	Width, Height float32
	DPR           float32
}

// NewViewport floors the given dimensions and clamps them to at least 1.
// dpr is clamped to [1, maxDPR].
func NewViewport(width, height, dpr, maxDPR float64) Viewport {
	w := float32(1)
	if width >= 1 && !math.IsInf(width, 0) {
		w = float32(math.Floor(width))
	}
	h := float32(1)
	if height >= 1 && !math.IsInf(height, 0) {
		h = float32(math.Floor(height))
	}
	if maxDPR < 1 {
		maxDPR = 1
	}
	if dpr < 1 || math.IsNaN(dpr) {
		dpr = 1
	}
	if dpr > maxDPR {
		dpr = maxDPR
	}
	return Viewport{Width: w, Height: h, DPR: float32(dpr)}
}

// Pointer is the latest pointer input.
type Pointer struct {
	X, Y   float32
	Active bool
}

// FlightState is the sleigh state for the current frame.
type FlightState struct {
	Phase     float64 // [0, 1)
	PrevPhase float64
	X, Y      float32
	Width     float32
	Height    float32
	Dropped   []bool // one flag per configured drop phase
	Cycle     int    // completed wraps since the last reset
}
