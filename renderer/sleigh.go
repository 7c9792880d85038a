package renderer

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Native size of the built-in sleigh artwork (viewBox units).
const (
	sleighArtW = 1100
	sleighArtH = 320
)

type decodeResult struct {
	img image.Image
	err error
}

// SleighImage is the decorative sleigh. A file is decoded on a background
// goroutine and uploaded by Poll on the render thread, so loading never
// blocks a frame. Without a file, Load rasterises the built-in vector art.
// A failed load leaves the image permanently not ready.
type SleighImage struct {
	path    string
	results chan decodeResult

	tex     rl.Texture2D
	target  rl.RenderTexture2D
	flipped bool
	ready   bool
	failed  bool
	started bool
}

// NewSleighImage creates an unloaded sleigh image. An empty path selects
// the built-in artwork.
func NewSleighImage(path string) *SleighImage {
	return &SleighImage{path: path}
}

// Load starts loading. Must run on the thread that owns the raylib
// context, outside rl.BeginDrawing. File loads return immediately.
func (s *SleighImage) Load() {
	if s.started {
		return
	}
	s.started = true
	if s.path == "" {
		s.rasterizeBuiltin()
		return
	}
	s.results = make(chan decodeResult, 1)
	go func(path string, out chan<- decodeResult) {
		img, err := decodeImageFile(path)
		out <- decodeResult{img: img, err: err}
	}(s.path, s.results)
}

// Poll completes a pending file load without blocking. Must run on the
// thread that owns the raylib context.
func (s *SleighImage) Poll() {
	if s.results == nil || s.ready || s.failed {
		return
	}
	select {
	case res := <-s.results:
		if res.err != nil {
			s.failed = true
			slog.Warn("sleigh_image_unavailable", "path", s.path, "error", res.err)
			return
		}
		img := rl.NewImageFromImage(res.img)
		s.tex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		rl.SetTextureFilter(s.tex, rl.FilterBilinear)
		s.ready = true
		slog.Info("sleigh_image_loaded", "path", s.path, "width", s.tex.Width, "height", s.tex.Height)
	default:
	}
}

// Ready reports whether the image can be drawn.
func (s *SleighImage) Ready() bool {
	return s.ready
}

func (s *SleighImage) texture() (rl.Texture2D, bool) {
	return s.tex, s.flipped
}

// Unload frees GPU resources.
func (s *SleighImage) Unload() {
	if !s.ready {
		return
	}
	if s.path == "" {
		rl.UnloadRenderTexture(s.target)
	} else {
		rl.UnloadTexture(s.tex)
	}
	s.ready = false
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sleigh image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding sleigh image: %w", err)
	}
	return img, nil
}

// rasterizeBuiltin draws the vector sleigh into a render texture.
func (s *SleighImage) rasterizeBuiltin() {
	s.target = rl.LoadRenderTexture(sleighArtW, sleighArtH)
	if s.target.ID == 0 {
		s.failed = true
		slog.Warn("sleigh_image_unavailable", "path", "builtin", "error", "render texture allocation failed")
		return
	}

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Blank)
	drawReindeer(120, 165)
	drawReins()
	drawSleighBody(670, 120)
	rl.EndTextureMode()

	s.tex = s.target.Texture
	rl.SetTextureFilter(s.tex, rl.FilterBilinear)
	// Render textures are stored bottom-up.
	s.flipped = true
	s.ready = true
}

var (
	furDark   = rl.NewColor(0x7a, 0x4a, 0x23, 255)
	furMid    = rl.NewColor(0xb8, 0x77, 0x45, 255)
	furLight  = rl.NewColor(0xc9, 0x8b, 0x57, 255)
	muzzle    = rl.NewColor(0xd9, 0xa1, 0x73, 190)
	harness   = rl.NewColor(0xe6, 0x2a, 0x2a, 255)
	gold      = rl.NewColor(0xd0, 0xb4, 0x6b, 255)
	bell      = rl.NewColor(0xff, 0xd6, 0x4f, 255)
	sleighRed = rl.NewColor(0xd6, 0x1c, 0x2b, 255)
	seatRed   = rl.NewColor(0xb4, 0x14, 0x20, 255)
	runner    = rl.NewColor(0xcf, 0xcf, 0xcf, 255)
	skin      = rl.NewColor(0xf2, 0xc9, 0xa0, 255)
	ink       = rl.NewColor(0x11, 0x11, 0x11, 255)
)

func drawReindeer(ox, oy float32) {
	v := func(x, y float32) rl.Vector2 { return rl.Vector2{X: ox + x, Y: oy + y} }

	for _, leg := range [][4]float32{{120, 80, 95, 150}, {175, 80, 155, 150}, {250, 80, 230, 150}, {285, 80, 300, 150}} {
		rl.DrawLineEx(v(leg[0], leg[1]), v(leg[2], leg[3]), 10, furDark)
	}

	fillEllipse(v(185, 70), 160, 75, furMid)
	fillEllipse(v(160, 55), 130, 55, rl.Fade(furLight, 0.65))
	fillEllipse(v(30, 85), 22, 14, furMid) // tail

	// neck and head
	fillEllipse(v(320, 85), 55, 65, furMid)
	fillEllipse(v(395, 105), 70, 55, furLight)
	fillEllipse(v(420, 110), 40, 32, muzzle)
	rl.DrawCircleV(v(455, 120), 10, ink)
	rl.DrawCircleV(v(410, 92), 6, ink)

	strokeCubic(v(405, 55), v(385, 20), v(360, 0), v(340, -10), 10, furDark)
	strokeCubic(v(390, 30), v(365, 20), v(350, 10), v(330, 5), 10, furDark)
	strokeCubic(v(425, 55), v(445, 25), v(470, 10), v(495, 0), 10, furDark)
	strokeCubic(v(440, 30), v(455, 25), v(470, 18), v(490, 12), 10, furDark)

	rl.DrawRectangleRounded(rl.Rectangle{X: ox + 290, Y: oy + 55, Width: 30, Height: 120}, 0.8, 6, harness)
	rl.DrawRectangleRounded(rl.Rectangle{X: ox + 85, Y: oy + 75, Width: 220, Height: 26}, 1, 6, harness)
	rl.DrawCircleV(v(300, 140), 16, bell)
}

func drawReins() {
	strokeCubic(rl.Vector2{X: 520, Y: 170}, rl.Vector2{X: 640, Y: 140}, rl.Vector2{X: 720, Y: 150}, rl.Vector2{X: 835, Y: 165}, 6, gold)
	strokeCubic(rl.Vector2{X: 520, Y: 195}, rl.Vector2{X: 650, Y: 165}, rl.Vector2{X: 740, Y: 165}, rl.Vector2{X: 850, Y: 185}, 6, gold)
}

func drawSleighBody(ox, oy float32) {
	v := func(x, y float32) rl.Vector2 { return rl.Vector2{X: ox + x, Y: oy + y} }

	strokeCubic(v(60, 170), v(120, 205), v(250, 205), v(330, 160), 14, runner)
	strokeCubic(v(330, 160), v(370, 140), v(390, 120), v(410, 90), 14, runner)

	fillEllipse(v(200, 135), 160, 50, sleighRed)
	rl.DrawRectangleRounded(rl.Rectangle{X: ox + 60, Y: oy + 95, Width: 290, Height: 85}, 0.6, 8, sleighRed)
	strokeCubic(v(55, 130), v(95, 90), v(185, 90), v(230, 110), 8, gold)
	strokeCubic(v(230, 110), v(265, 125), v(315, 130), v(340, 105), 8, gold)

	rl.DrawLineEx(v(160, 95), v(160, 35), 14, seatRed)
	rl.DrawLineEx(v(160, 35), v(240, 35), 14, seatRed)

	// Santa, relative to (240, 30)
	sx, sy := float32(240), float32(30)
	fillEllipse(v(sx+125, sy+110), 42, 38, rl.Fade(rl.White, 0.95)) // bag
	fillEllipse(v(sx+35, sy+95), 55, 42, sleighRed)
	rl.DrawRectangleRounded(rl.Rectangle{X: ox + sx, Y: oy + sy + 92, Width: 75, Height: 14}, 1, 6, ink)
	rl.DrawRectangleRounded(rl.Rectangle{X: ox + sx + 30, Y: oy + sy + 92, Width: 15, Height: 14}, 0.4, 4, gold)
	rl.DrawCircleV(v(sx+55, sy+45), 18, skin)
	fillEllipse(v(sx+59, sy+64), 18, 14, rl.White) // beard
	rl.DrawTriangle(v(sx+45, sy+30), v(sx+92, sy+45), v(sx+75, sy+5), sleighRed)
	rl.DrawCircleV(v(sx+95, sy+45), 8, rl.White)
}

func fillEllipse(c rl.Vector2, rx, ry float32, col rl.Color) {
	rl.DrawEllipse(int32(c.X), int32(c.Y), rx, ry, col)
}

// strokeCubic draws a cubic Bézier as a thick polyline.
func strokeCubic(p0, p1, p2, p3 rl.Vector2, thick float32, col rl.Color) {
	const steps = 24
	prev := p0
	for i := 1; i <= steps; i++ {
		t := float32(i) / steps
		u := 1 - t
		b0 := u * u * u
		b1 := 3 * u * u * t
		b2 := 3 * u * t * t
		b3 := t * t * t
		pt := rl.Vector2{
			X: b0*p0.X + b1*p1.X + b2*p2.X + b3*p3.X,
			Y: b0*p0.Y + b1*p1.Y + b2*p2.Y + b3*p3.Y,
		}
		rl.DrawLineEx(prev, pt, thick, col)
		prev = pt
	}
	rl.DrawCircleV(p0, thick/2, col)
	rl.DrawCircleV(p3, thick/2, col)
}
