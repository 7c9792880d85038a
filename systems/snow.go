package systems

import (
	"math/rand"

	"github.com/pthm-cable/glowtree/components"
	"github.com/pthm-cable/glowtree/config"
)

// SnowSystem drifts a closed population of snowflakes. Flakes leaving the
// viewport are recycled, never created or destroyed.
type SnowSystem struct {
	cfg    *config.SnowConfig
	rng    *rand.Rand
	vp     components.Viewport
	Flakes []components.SnowParticle
}

// NewSnowSystem wraps an existing population.
func NewSnowSystem(cfg *config.SnowConfig, vp components.Viewport, flakes []components.SnowParticle, rng *rand.Rand) *SnowSystem {
	return &SnowSystem{cfg: cfg, rng: rng, vp: vp, Flakes: flakes}
}

// Reset replaces the population wholesale, e.g. after a resize.
func (s *SnowSystem) Reset(vp components.Viewport, flakes []components.SnowParticle) {
	s.vp = vp
	s.Flakes = flakes
}

// Update advances every flake and wraps those that left the viewport.
func (s *SnowSystem) Update(dt float32) {
	w := s.vp.Width
	bottom := s.vp.Height + float32(s.cfg.BottomMargin)
	top := -float32(s.cfg.BottomMargin)
	side := float32(s.cfg.SideMargin)

	for i := range s.Flakes {
		f := &s.Flakes[i]
		f.Y += f.FallSpeed * dt
		f.X += f.DriftSpeed * dt

		if f.Y > bottom {
			f.Y = top
			f.X = float32(s.rng.Float64()) * w
		}
		if f.X < -side {
			f.X = w + side
		} else if f.X > w+side {
			f.X = -side
		}
	}
}
