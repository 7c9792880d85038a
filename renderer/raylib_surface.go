package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// gradientBands is the number of rings used per gradient segment.
const gradientBands = 24

type surfaceState struct {
	alpha float32
	blend BlendMode
}

// RaylibSurface implements Surface on the raylib immediate-mode API.
// Transforms use the rlgl matrix stack, so every call between
// rl.BeginDrawing and rl.EndDrawing respects Translate and Rotate.
type RaylibSurface struct {
	state surfaceState
	stack []surfaceState
}

// NewRaylibSurface returns a surface for the current window.
// It fails with ErrNoSurface if no window has been created.
func NewRaylibSurface() (*RaylibSurface, error) {
	if !rl.IsWindowReady() {
		return nil, ErrNoSurface
	}
	return &RaylibSurface{state: surfaceState{alpha: 1}}, nil
}

// Clear fills the whole framebuffer, ignoring transform and alpha.
func (s *RaylibSurface) Clear(c color.RGBA) {
	rl.ClearBackground(c)
}

// FillRect fills an axis-aligned rectangle in the current transform.
func (s *RaylibSurface) FillRect(x, y, w, h float32, c color.RGBA) {
	rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, applyAlpha(c, s.state.alpha))
}

// FillCircle fills a disc.
func (s *RaylibSurface) FillCircle(x, y, r float32, c color.RGBA) {
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, r, applyAlpha(c, s.state.alpha))
}

// FillRoundedRect fills a rectangle with rounded corners of the given radius.
func (s *RaylibSurface) FillRoundedRect(x, y, w, h, radius float32, c color.RGBA) {
	short := min(w, h)
	if short <= 0 {
		return
	}
	roundness := min(1, max(0, 2*radius/short))
	rl.DrawRectangleRounded(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, roundness, 6, applyAlpha(c, s.state.alpha))
}

// FillGradientCircle fills a disc with a radial gradient.
func (s *RaylibSurface) FillGradientCircle(cx, cy, r float32, stops []GradientStop) {
	if r <= 0 || len(stops) == 0 {
		return
	}
	// Two-stop gradients spanning the full radius map onto raylib's native call.
	if len(stops) == 2 && stops[0].Offset == 0 && stops[1].Offset == 1 {
		rl.DrawCircleGradient(int32(math.Round(float64(cx))), int32(math.Round(float64(cy))), r,
			applyAlpha(stops[0].Color, s.state.alpha),
			applyAlpha(stops[1].Color, s.state.alpha))
		return
	}
	s.drawRings(cx, cy, 0, r, stops)
}

// FillGradientRect fills a rectangle with a radial gradient. Pixels inside
// r0 take the first stop colour and pixels beyond r1 the last.
func (s *RaylibSurface) FillGradientRect(x, y, w, h, cx, cy, r0, r1 float32, stops []GradientStop) {
	if len(stops) == 0 || w <= 0 || h <= 0 {
		return
	}
	first := applyAlpha(stops[0].Color, s.state.alpha)
	last := applyAlpha(stops[len(stops)-1].Color, s.state.alpha)

	// Farthest rectangle corner from the centre bounds the outer fill.
	far := float32(0)
	for _, corner := range [4][2]float32{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		far = max(far, float32(math.Hypot(float64(corner[0]-cx), float64(corner[1]-cy))))
	}

	rl.BeginScissorMode(int32(x), int32(y), int32(math.Ceil(float64(w))), int32(math.Ceil(float64(h))))
	if first.A > 0 && r0 > 0 {
		rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, r0, first)
	}
	if r1 > r0 {
		s.drawRings(cx, cy, r0, r1, stops)
	}
	if last.A > 0 && far > r1 {
		rl.DrawRing(rl.Vector2{X: cx, Y: cy}, r1, far, 0, 360, 96, last)
	}
	rl.EndScissorMode()
}

// drawRings approximates a radial gradient between inner and outer with
// concentric, non-overlapping rings.
func (s *RaylibSurface) drawRings(cx, cy, inner, outer float32, stops []GradientStop) {
	center := rl.Vector2{X: cx, Y: cy}
	bands := gradientBands * (len(stops) - 1)
	if bands < gradientBands {
		bands = gradientBands
	}
	step := (outer - inner) / float32(bands)
	segments := int32(max(24, min(96, outer/2)))
	for i := 0; i < bands; i++ {
		ra := inner + step*float32(i)
		rb := ra + step
		t := (float32(i) + 0.5) / float32(bands)
		c := applyAlpha(sampleStops(stops, t), s.state.alpha)
		if c.A == 0 {
			continue
		}
		rl.DrawRing(center, ra, rb, 0, 360, segments, c)
	}
}

// DrawImage blits a loaded texture into the destination rectangle.
// Images that are not ready, or not raylib textures, are skipped.
func (s *RaylibSurface) DrawImage(img Image, x, y, w, h float32) {
	tex, ok := img.(textureSource)
	if !ok || !img.Ready() {
		return
	}
	t, flipped := tex.texture()
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(t.Width), Height: float32(t.Height)}
	if flipped {
		src.Height = -src.Height
	}
	dst := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	rl.DrawTexturePro(t, src, dst, rl.Vector2{}, 0, applyAlpha(white, s.state.alpha))
}

// Save pushes alpha, blend and transform state.
func (s *RaylibSurface) Save() {
	s.stack = append(s.stack, s.state)
	rl.PushMatrix()
}

// Restore pops the state saved by the matching Save.
func (s *RaylibSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	prev := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	rl.PopMatrix()
	if prev.blend != s.state.blend {
		s.applyBlend(prev.blend)
	}
	s.state = prev
}

// Translate moves the origin.
func (s *RaylibSurface) Translate(x, y float32) {
	rl.Translatef(x, y, 0)
}

// Rotate rotates subsequent drawing clockwise by radians (y points down).
func (s *RaylibSurface) Rotate(radians float32) {
	rl.Rotatef(radians*rl.Rad2deg, 0, 0, 1)
}

// SetAlpha sets the global alpha, clamped to [0, 1].
func (s *RaylibSurface) SetAlpha(a float32) {
	s.state.alpha = min(1, max(0, a))
}

// SetBlend switches the compositing mode.
func (s *RaylibSurface) SetBlend(m BlendMode) {
	if m == s.state.blend {
		return
	}
	s.applyBlend(m)
	s.state.blend = m
}

func (s *RaylibSurface) applyBlend(m BlendMode) {
	switch m {
	case BlendAdditive:
		rl.BeginBlendMode(rl.BlendAdditive)
	default:
		rl.EndBlendMode()
	}
}

// textureSource is implemented by images backed by a raylib texture.
type textureSource interface {
	texture() (t rl.Texture2D, flipped bool)
}
