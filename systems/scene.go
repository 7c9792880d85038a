package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/glowtree/components"
	"github.com/pthm-cable/glowtree/config"
)

// TreeGeometry is the canopy silhouette derived from the viewport.
// It is never stored on particles; both the builder and the outline
// sweep recompute it from the same viewport.
type TreeGeometry struct {
	CenterX, CenterY float32
	Height           float32 // canopy height
	BaseWidth        float32 // canopy width at the base
	Taper            float64
}

// NewTreeGeometry derives the canopy geometry for a viewport.
func NewTreeGeometry(vp components.Viewport, cfg *config.TreeConfig) TreeGeometry {
	w := float64(vp.Width)
	h := float64(vp.Height)
	return TreeGeometry{
		CenterX:   float32(w * cfg.CenterX),
		CenterY:   float32(h * cfg.CenterY),
		Height:    float32(math.Min(h*cfg.HeightFrac, cfg.MaxHeight)),
		BaseWidth: float32(math.Min(w*cfg.BaseWidthFrac, cfg.MaxBaseWidth)),
		Taper:     cfg.TaperExponent,
	}
}

// Top returns the y coordinate of the canopy apex.
func (g TreeGeometry) Top() float32 {
	return g.CenterY - g.Height*0.5
}

// Base returns the y coordinate of the canopy base.
func (g TreeGeometry) Base() float32 {
	return g.CenterY + g.Height*0.5
}

// HalfWidth returns the canopy half-width at normalized height ny
// (0 = apex, 1 = base). The power-law taper gives a concave silhouette.
func (g TreeGeometry) HalfWidth(ny float64) float32 {
	ny = Clamp01(ny)
	return float32(math.Pow(ny, g.Taper)) * g.BaseWidth * 0.5
}

// NormalizedY maps an absolute y back to [0, 1] canopy height.
func (g TreeGeometry) NormalizedY(y float32) float64 {
	if g.Height <= 0 {
		return 0
	}
	return Clamp01(float64((y - g.Top()) / g.Height))
}

// Scene holds the particle populations generated for one viewport.
type Scene struct {
	Viewport components.Viewport
	Geometry TreeGeometry
	Tree     []components.TreeParticle
	Snow     []components.SnowParticle
}

// CanopyCount returns the clamped canopy population for a viewport.
func CanopyCount(vp components.Viewport, cfg *config.TreeConfig) int {
	n := int(math.Floor(float64(vp.Width) * float64(vp.Height) / cfg.AreaPerParticle))
	return clampInt(n, cfg.MinParticles, cfg.MaxParticles)
}

// SnowCount returns the clamped snow population for a viewport.
func SnowCount(vp components.Viewport, cfg *config.SnowConfig) int {
	n := int(math.Floor(float64(vp.Width) * float64(vp.Height) / cfg.AreaPerParticle))
	return clampInt(n, cfg.MinParticles, cfg.MaxParticles)
}

// BuildScene generates fresh canopy, trunk and snow populations.
// It never reuses previous slices; callers swap the result in whole.
func BuildScene(vp components.Viewport, cfg *config.Config, rng *rand.Rand) Scene {
	if vp.Width < 1 {
		vp.Width = 1
	}
	if vp.Height < 1 {
		vp.Height = 1
	}

	geom := NewTreeGeometry(vp, &cfg.Tree)
	canopy := CanopyCount(vp, &cfg.Tree)
	tree := make([]components.TreeParticle, 0, canopy+cfg.Trunk.Particles)

	tree = appendCanopy(tree, canopy, geom, &cfg.Tree, rng)
	tree = appendTrunk(tree, vp, geom, &cfg.Trunk, rng)

	return Scene{
		Viewport: vp,
		Geometry: geom,
		Tree:     tree,
		Snow:     buildSnow(vp, &cfg.Snow, rng),
	}
}

func appendCanopy(dst []components.TreeParticle, n int, geom TreeGeometry, cfg *config.TreeConfig, rng *rand.Rand) []components.TreeParticle {
	top := geom.Top()
	for i := 0; i < n; i++ {
		ny := rng.Float64()
		y := top + float32(ny)*geom.Height
		halfW := geom.HalfWidth(ny)

		nx := RandRange(rng, -1, 1)
		edge := rng.Float64() < cfg.OutlineChance
		if edge {
			nx = sign(nx) * (cfg.OutlineInner + (1-cfg.OutlineInner)*rng.Float64())
		}
		x := geom.CenterX + float32(nx)*halfW

		p := components.TreeParticle{
			X:            x,
			Y:            y,
			TwinklePhase: randRange32(rng, 0, 2*math.Pi),
		}
		if rng.Float64() < cfg.OrnamentChance {
			p.Kind = components.KindOrnament
			p.Radius = randRange32(rng, 1.8, 3.2)
			p.BaseAlpha = randRange32(rng, 0.55, 0.95)
			p.TwinkleRate = randRange32(rng, 1.2, 2.4)
		} else {
			p.Kind = components.KindCanopy
			p.Radius = randRange32(rng, 0.7, 2.0)
			p.BaseAlpha = randRange32(rng, 0.25, 0.75)
			p.TwinkleRate = randRange32(rng, 0.7, 1.6)
			p.Outline = edge
		}
		dst = append(dst, p)
	}
	return dst
}

// TrunkBand returns the trunk's horizontal half-span around the canopy
// centre and its vertical extent. The band is clipped to the viewport so
// the width and height minimums cannot push particles off-screen.
func TrunkBand(vp components.Viewport, geom TreeGeometry, cfg *config.TrunkConfig) (halfW, top, bottom float64) {
	cx := float64(geom.CenterX)
	halfW = math.Max(cfg.MinWidth, float64(geom.BaseWidth)*cfg.WidthFrac) * 0.55
	halfW = math.Max(0, math.Min(halfW, math.Min(cx, float64(vp.Width)-cx)))

	bottom = math.Max(0, math.Min(float64(geom.Base()), float64(vp.Height)))
	trunkH := math.Max(cfg.MinHeight, float64(geom.Height)*cfg.HeightFrac)
	top = bottom - math.Min(trunkH, bottom)
	return halfW, top, bottom
}

func appendTrunk(dst []components.TreeParticle, vp components.Viewport, geom TreeGeometry, cfg *config.TrunkConfig, rng *rand.Rand) []components.TreeParticle {
	halfW, top, bottom := TrunkBand(vp, geom, cfg)

	for i := 0; i < cfg.Particles; i++ {
		dst = append(dst, components.TreeParticle{
			X:            geom.CenterX + randRange32(rng, -halfW, halfW),
			Y:            float32(RandRange(rng, top, bottom)),
			Radius:       randRange32(rng, 1.0, 2.2),
			BaseAlpha:    randRange32(rng, 0.28, 0.58),
			TwinkleRate:  randRange32(rng, 0.6, 1.2),
			TwinklePhase: randRange32(rng, 0, 2*math.Pi),
			Kind:         components.KindTrunk,
		})
	}
	return dst
}

func buildSnow(vp components.Viewport, cfg *config.SnowConfig, rng *rand.Rand) []components.SnowParticle {
	n := SnowCount(vp, cfg)
	snow := make([]components.SnowParticle, n)
	for i := range snow {
		snow[i] = components.SnowParticle{
			X:          float32(rng.Float64()) * vp.Width,
			Y:          float32(rng.Float64()) * vp.Height,
			Radius:     randRange32(rng, cfg.MinRadius, cfg.MaxRadius),
			FallSpeed:  randRange32(rng, cfg.MinFallSpeed, cfg.MaxFallSpeed),
			DriftSpeed: randRange32(rng, -cfg.MaxDriftSpeed, cfg.MaxDriftSpeed),
			BaseAlpha:  randRange32(rng, cfg.MinAlpha, cfg.MaxAlpha),
		}
	}
	return snow
}
