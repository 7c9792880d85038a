package renderer

import "image/color"

// Op identifies a Surface call.
type Op uint8

const (
	OpClear Op = iota
	OpFillRect
	OpFillCircle
	OpFillRoundedRect
	OpFillGradientCircle
	OpFillGradientRect
	OpDrawImage
	OpSave
	OpRestore
	OpTranslate
	OpRotate
	OpSetAlpha
	OpSetBlend
	opCount
)

var opNames = [opCount]string{
	"clear", "fill_rect", "fill_circle", "fill_rounded_rect",
	"fill_gradient_circle", "fill_gradient_rect", "draw_image",
	"save", "restore", "translate", "rotate", "set_alpha", "set_blend",
}

func (o Op) String() string {
	if o < opCount {
		return opNames[o]
	}
	return "unknown"
}

// Call is one recorded Surface call. Alpha and Blend are the effective
// state when the call was made.
type Call struct {
	Op    Op
	X, Y  float32
	W, H  float32
	R     float32
	Color color.RGBA
	Alpha float32
	Blend BlendMode
}

// RecordSurface is a Surface with no display. It tracks the state machine
// of a real surface and counts every call; with Keep set it also retains
// the full call log. It backs headless runs and tests.
type RecordSurface struct {
	Keep  bool
	Calls []Call

	counts [opCount]int
	state  surfaceState
	stack  []surfaceState
}

// NewRecordSurface returns an empty recorder. keep retains every call.
func NewRecordSurface(keep bool) *RecordSurface {
	return &RecordSurface{Keep: keep, state: surfaceState{alpha: 1}}
}

// Count returns how many times op was called since the last Reset.
func (s *RecordSurface) Count(op Op) int {
	return s.counts[op]
}

// Total returns the number of calls since the last Reset.
func (s *RecordSurface) Total() int {
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Depth returns the current Save nesting depth.
func (s *RecordSurface) Depth() int {
	return len(s.stack)
}

// Reset clears counters and the call log but keeps the current state.
func (s *RecordSurface) Reset() {
	s.counts = [opCount]int{}
	s.Calls = s.Calls[:0]
}

func (s *RecordSurface) record(c Call) {
	s.counts[c.Op]++
	if !s.Keep {
		return
	}
	c.Alpha = s.state.alpha
	c.Blend = s.state.blend
	s.Calls = append(s.Calls, c)
}

func (s *RecordSurface) Clear(c color.RGBA) {
	s.record(Call{Op: OpClear, Color: c})
}

func (s *RecordSurface) FillRect(x, y, w, h float32, c color.RGBA) {
	s.record(Call{Op: OpFillRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (s *RecordSurface) FillCircle(x, y, r float32, c color.RGBA) {
	s.record(Call{Op: OpFillCircle, X: x, Y: y, R: r, Color: c})
}

func (s *RecordSurface) FillRoundedRect(x, y, w, h, radius float32, c color.RGBA) {
	s.record(Call{Op: OpFillRoundedRect, X: x, Y: y, W: w, H: h, R: radius, Color: c})
}

func (s *RecordSurface) FillGradientCircle(cx, cy, r float32, stops []GradientStop) {
	c := Call{Op: OpFillGradientCircle, X: cx, Y: cy, R: r}
	if len(stops) > 0 {
		c.Color = stops[0].Color
	}
	s.record(c)
}

func (s *RecordSurface) FillGradientRect(x, y, w, h, cx, cy, r0, r1 float32, stops []GradientStop) {
	c := Call{Op: OpFillGradientRect, X: x, Y: y, W: w, H: h, R: r1}
	if len(stops) > 0 {
		c.Color = stops[len(stops)-1].Color
	}
	s.record(c)
}

func (s *RecordSurface) DrawImage(img Image, x, y, w, h float32) {
	if img == nil || !img.Ready() {
		return
	}
	s.record(Call{Op: OpDrawImage, X: x, Y: y, W: w, H: h})
}

func (s *RecordSurface) Save() {
	s.stack = append(s.stack, s.state)
	s.record(Call{Op: OpSave})
}

func (s *RecordSurface) Restore() {
	s.record(Call{Op: OpRestore})
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *RecordSurface) Translate(x, y float32) {
	s.record(Call{Op: OpTranslate, X: x, Y: y})
}

func (s *RecordSurface) Rotate(radians float32) {
	s.record(Call{Op: OpRotate, R: radians})
}

func (s *RecordSurface) SetAlpha(a float32) {
	s.state.alpha = min(1, max(0, a))
	s.record(Call{Op: OpSetAlpha, R: s.state.alpha})
}

func (s *RecordSurface) SetBlend(m BlendMode) {
	s.state.blend = m
	s.record(Call{Op: OpSetBlend})
}

// StaticImage is an Image with a fixed readiness, for surfaces that do not
// load real assets.
type StaticImage bool

func (i StaticImage) Ready() bool { return bool(i) }
