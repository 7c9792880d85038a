package systems

import (
	"math"

	"github.com/pthm-cable/glowtree/components"
	"github.com/pthm-cable/glowtree/config"
)

// DropFunc receives the spawn coordinates of a scheduled gift drop.
type DropFunc func(index int, x, y float32)

// FlightScheduler maps elapsed time to the sleigh's position on a periodic
// pass and fires each configured drop phase exactly once per cycle.
//
// Each threshold fires once per cycle provided the frame delta stays below
// the smallest gap between consecutive thresholds and between the last
// threshold and the wrap point. Larger gaps are not compensated.
type FlightScheduler struct {
	cfg   *config.FlightConfig
	vp    components.Viewport
	state components.FlightState
}

// NewFlightScheduler creates a scheduler for the given viewport.
func NewFlightScheduler(cfg *config.FlightConfig, vp components.Viewport) *FlightScheduler {
	s := &FlightScheduler{cfg: cfg}
	s.Resize(vp)
	return s
}

// Resize adopts a new viewport and starts a fresh cycle.
func (s *FlightScheduler) Resize(vp components.Viewport) {
	s.vp = vp
	s.Reset()
}

// Reset clears all per-cycle drop flags and the previous phase.
func (s *FlightScheduler) Reset() {
	s.state = components.FlightState{
		Dropped: make([]bool, len(s.cfg.DropPhases)),
	}
	s.state.Width, s.state.Height = s.SleighSize()
}

// SleighSize returns the rendered sleigh dimensions for the viewport.
func (s *FlightScheduler) SleighSize() (w, h float32) {
	sw := math.Min(float64(s.vp.Width)*s.cfg.WidthFrac, s.cfg.MaxWidth)
	return float32(sw), float32(sw * s.cfg.Aspect)
}

// Phase returns the normalized cycle phase for an elapsed time.
func (s *FlightScheduler) Phase(elapsed float64) float64 {
	return Frac(elapsed / s.cfg.Period)
}

// Position returns the sleigh centre at the given phase.
func (s *FlightScheduler) Position(phase float64) (x, y float32) {
	sw, _ := s.SleighSize()
	margin := float64(sw) * s.cfg.MarginFrac
	x = float32(Lerp(-margin, float64(s.vp.Width)+margin, phase))

	baseY := math.Max(s.cfg.MinBaseY, float64(s.vp.Height)*s.cfg.BaseYFrac)
	y = float32(baseY + math.Sin(phase*2*math.Pi)*s.cfg.BobAmplitude)
	return x, y
}

// Evaluate advances the schedule to elapsed seconds and invokes drop for
// every threshold crossed since the previous evaluation in this cycle.
func (s *FlightScheduler) Evaluate(elapsed float64, drop DropFunc) components.FlightState {
	phase := s.Phase(elapsed)
	x, y := s.Position(phase)

	if phase < s.state.Phase {
		for i := range s.state.Dropped {
			s.state.Dropped[i] = false
		}
		s.state.Cycle++
	}
	s.state.PrevPhase = s.state.Phase
	s.state.Phase = phase
	s.state.X, s.state.Y = x, y
	s.state.Width, s.state.Height = s.SleighSize()

	spawnX := x + s.state.Width*float32(s.cfg.DropOffsetX)
	spawnY := y + s.state.Height*float32(s.cfg.DropOffsetY)
	for i, threshold := range s.cfg.DropPhases {
		if s.state.Dropped[i] || phase < threshold {
			continue
		}
		s.state.Dropped[i] = true
		if drop != nil {
			drop(i, spawnX, spawnY)
		}
	}
	return s.State()
}

// State returns a copy of the current flight state.
func (s *FlightScheduler) State() components.FlightState {
	st := s.state
	st.Dropped = append([]bool(nil), s.state.Dropped...)
	return st
}
