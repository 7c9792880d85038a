package systems

import (
	"math"

	"github.com/pthm-cable/glowtree/components"
	"github.com/pthm-cable/glowtree/config"
)

// OutlineSweep returns the drawn x position and fade multiplier of an
// outline particle at time t. The particle travels across the canopy
// half-width at its own height, right to left, on a cycle offset by its
// twinkle phase, fading in and out over FadeSpan at either end.
func OutlineSweep(p *components.TreeParticle, geom TreeGeometry, t float64, cfg *config.OutlineConfig) (x, fade float32) {
	halfW := geom.HalfWidth(geom.NormalizedY(p.Y))

	phase := Frac(t*cfg.Speed + float64(p.TwinklePhase)/(2*math.Pi))
	xNorm := 1 - 2*phase

	fadeIn, fadeOut := 1.0, 1.0
	if cfg.FadeSpan > 0 {
		if xNorm > 1-cfg.FadeSpan {
			fadeIn = (1 - xNorm) / cfg.FadeSpan
		}
		if xNorm < -1+cfg.FadeSpan {
			fadeOut = (xNorm + 1) / cfg.FadeSpan
		}
	}

	x = geom.CenterX + float32(xNorm)*halfW
	return x, float32(Clamp01(fadeIn * fadeOut))
}
