// Package renderer composes the animation frame onto a 2D surface.
package renderer

import (
	"image/color"
	"math"

	"github.com/pthm-cable/glowtree/components"
	"github.com/pthm-cable/glowtree/config"
	"github.com/pthm-cable/glowtree/systems"
)

// Pass names, in draw order.
const (
	PassBackdrop = "backdrop"
	PassSnow     = "snow"
	PassTree     = "tree"
	PassGifts    = "gifts"
	PassSleigh   = "sleigh"
	PassPointer  = "pointer_glow"
	PassVignette = "vignette"
)

// Passes lists every pass in the order Draw executes them.
var Passes = []string{
	PassBackdrop, PassSnow, PassTree, PassGifts, PassSleigh, PassPointer, PassVignette,
}

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// PhaseTimer receives a call at the start of each pass.
type PhaseTimer interface {
	StartPhase(name string)
}

// Culler reports whether a circle could be visible. Pipeline skips
// snow and gifts it rejects.
type Culler interface {
	IsVisible(x, y, radius float32) bool
}

// Frame is the read-only simulation snapshot a single Draw consumes.
type Frame struct {
	Time     float64
	Viewport components.Viewport
	Geometry systems.TreeGeometry
	Tree     []components.TreeParticle
	Snow     []components.SnowParticle
	Gifts    []components.GiftView
	Flight   components.FlightState
	Pointer  components.Pointer
}

// Pipeline draws a Frame as a fixed sequence of passes.
type Pipeline struct {
	cfg     *config.Config
	surface Surface
	sleigh  Image
	timer   PhaseTimer
	cull    Culler

	haloStops    []GradientStop
	pointerStops []GradientStop
	vignetteStop []GradientStop
}

// NewPipeline creates a pipeline drawing onto surface. sleigh may be nil.
func NewPipeline(cfg *config.Config, surface Surface, sleigh Image) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		surface: surface,
		sleigh:  sleigh,
		haloStops: []GradientStop{
			{Offset: 0, Color: white},
			{Offset: 1, Color: color.RGBA{R: 255, G: 255, B: 255, A: 0}},
		},
		pointerStops: []GradientStop{
			{Offset: 0, Color: color.RGBA{R: 255, G: 255, B: 255, A: alpha8(0.4125)}},
			{Offset: 0.35, Color: color.RGBA{R: 255, G: 255, B: 255, A: alpha8(0.165)}},
			{Offset: 1, Color: color.RGBA{R: 255, G: 255, B: 255, A: 0}},
		},
		vignetteStop: []GradientStop{
			{Offset: 0, Color: color.RGBA{}},
			{Offset: 1, Color: color.RGBA{A: alpha8(cfg.Vignette.Alpha)}},
		},
	}
}

// SetTimer installs a per-pass timer. nil disables timing.
func (p *Pipeline) SetTimer(t PhaseTimer) {
	p.timer = t
}

// SetCuller installs a visibility test. nil draws everything.
func (p *Pipeline) SetCuller(c Culler) {
	p.cull = c
}

func (p *Pipeline) visible(x, y, r float32) bool {
	return p.cull == nil || p.cull.IsVisible(x, y, r)
}

// GlowRadius returns the pointer glow radius for a viewport.
func (p *Pipeline) GlowRadius(vp components.Viewport) float32 {
	g := &p.cfg.Glow
	minSide := math.Min(float64(vp.Width), float64(vp.Height))
	return float32(g.RadiusScale * math.Max(g.MinRadius, minSide*g.RadiusFrac))
}

// InfluenceRadius returns the distance at which the pointer boost reaches zero.
func (p *Pipeline) InfluenceRadius(vp components.Viewport) float32 {
	return p.GlowRadius(vp) * float32(p.cfg.Glow.InfluenceFrac)
}

// Draw renders one frame. Passes run in the order listed in Passes.
func (p *Pipeline) Draw(f *Frame) {
	p.phase(PassBackdrop)
	p.drawBackdrop(f)

	p.phase(PassSnow)
	p.drawSnow(f)

	p.phase(PassTree)
	p.drawTree(f)

	p.phase(PassGifts)
	p.drawGifts(f)

	p.phase(PassSleigh)
	p.drawSleigh(f)

	p.phase(PassPointer)
	p.drawPointerGlow(f)

	p.phase(PassVignette)
	p.drawVignette(f)
}

func (p *Pipeline) phase(name string) {
	if p.timer != nil {
		p.timer.StartPhase(name)
	}
}

func (p *Pipeline) drawBackdrop(f *Frame) {
	s := p.surface
	s.Clear(black)
	s.FillRect(0, 0, f.Viewport.Width, f.Viewport.Height, black)
}

func (p *Pipeline) drawSnow(f *Frame) {
	s := p.surface
	boost := float32(p.cfg.Snow.AlphaBoost)

	s.Save()
	for i := range f.Snow {
		flake := &f.Snow[i]
		if !p.visible(flake.X, flake.Y, flake.Radius) {
			continue
		}
		s.SetAlpha(min(1, flake.BaseAlpha*boost))
		s.FillCircle(flake.X, flake.Y, flake.Radius, white)
	}
	s.Restore()
}

func (p *Pipeline) drawTree(f *Frame) {
	s := p.surface
	glow := &p.cfg.Glow
	influence := p.InfluenceRadius(f.Viewport)
	haloScale := float32(glow.HaloScale)

	s.Save()
	for i := range f.Tree {
		tp := &f.Tree[i]

		twinkle := 0.55 + 0.45*math.Sin(f.Time*float64(tp.TwinkleRate)+float64(tp.TwinklePhase))
		base := float64(tp.BaseAlpha) * twinkle

		x, y := tp.X, tp.Y
		fade := float32(1)
		if tp.Kind == components.KindCanopy && tp.Outline {
			x, fade = systems.OutlineSweep(tp, f.Geometry, f.Time, &p.cfg.Outline)
		}

		var boost float32
		if f.Pointer.Active {
			boost = systems.ProximityBoost(x, y, f.Pointer.X, f.Pointer.Y, influence)
		}

		k := glow.CanopyBoost
		if tp.Kind == components.KindTrunk {
			k = glow.TrunkBoost
		}
		a := float32(systems.Clamp01((base + float64(boost)*k) * float64(fade)))
		r := tp.Radius * (1 + boost*float32(glow.SizeBoost))

		s.SetAlpha(a)
		if tp.Glows() || float64(boost) > glow.HaloThreshold {
			s.FillGradientCircle(x, y, r*haloScale, p.haloStops)
			s.SetAlpha(float32(systems.Clamp01(float64(a) + glow.CoreAlphaBonus)))
		}
		s.FillCircle(x, y, r, white)
	}
	s.Restore()
}

func (p *Pipeline) drawGifts(f *Frame) {
	s := p.surface
	for i := range f.Gifts {
		g := &f.Gifts[i]
		if !p.visible(g.X, g.Y, g.Size) {
			continue
		}
		w := g.Size * 1.2
		h := g.Size

		s.Save()
		s.Translate(g.X, g.Y)
		s.Rotate(g.Angle)

		s.SetAlpha(0.95 * g.Alpha)
		s.FillRoundedRect(-w/2, -h/2, w, h, 3, g.Fill)

		s.SetAlpha(0.85 * g.Alpha)
		s.FillRect(-2, -h/2, 4, h, g.Ribbon)
		s.FillRect(-w/2, -2, w, 4, g.Ribbon)

		s.SetAlpha(0.25 * g.Alpha)
		s.FillRect(-w/2+2, -h/2+2, 3, h-4, white)
		s.Restore()
	}
}

func (p *Pipeline) drawSleigh(f *Frame) {
	if p.sleigh == nil || !p.sleigh.Ready() {
		return
	}
	fc := &p.cfg.Flight
	bob := float32(math.Sin(f.Time*fc.WobbleRate) * fc.WobbleAmplitude)
	tilt := float32(math.Sin(f.Time*fc.TiltRate) * fc.TiltAmplitude)
	sw, sh := f.Flight.Width, f.Flight.Height

	s := p.surface
	s.Save()
	s.Translate(f.Flight.X, f.Flight.Y+bob)
	s.Rotate(tilt)
	s.SetAlpha(1)
	s.DrawImage(p.sleigh, -sw/2, -sh/2, sw, sh)
	s.Restore()
}

func (p *Pipeline) drawPointerGlow(f *Frame) {
	if !f.Pointer.Active {
		return
	}
	s := p.surface
	s.Save()
	s.SetBlend(BlendAdditive)
	s.SetAlpha(1)
	s.FillGradientCircle(f.Pointer.X, f.Pointer.Y, p.GlowRadius(f.Viewport), p.pointerStops)
	s.Restore()
}

func (p *Pipeline) drawVignette(f *Frame) {
	vc := &p.cfg.Vignette
	w, h := f.Viewport.Width, f.Viewport.Height
	r0 := float32(float64(min(w, h)) * vc.InnerFrac)
	r1 := float32(float64(max(w, h)) * vc.OuterFrac)

	s := p.surface
	s.Save()
	s.FillGradientRect(0, 0, w, h, f.Geometry.CenterX, f.Geometry.CenterY, r0, r1, p.vignetteStop)
	s.Restore()
}

func alpha8(a float64) uint8 {
	return uint8(systems.Clamp01(a)*255 + 0.5)
}
