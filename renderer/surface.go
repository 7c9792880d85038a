package renderer

import (
	"errors"
	"image/color"
)

// ErrNoSurface is returned when no 2D drawing surface can be acquired.
var ErrNoSurface = errors.New("renderer: 2D drawing surface not available")

// BlendMode selects how new pixels combine with the frame.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over
	BlendAdditive                  // brightens, never occludes
)

// GradientStop is one colour stop of a radial gradient, Offset in [0, 1].
type GradientStop struct {
	Offset float32
	Color  color.RGBA
}

// Image is a drawable asset that may still be loading.
type Image interface {
	Ready() bool
}

// Surface is the 2D drawing target. Colours are multiplied by the current
// global alpha. Save and Restore bracket transform, alpha and blend changes.
type Surface interface {
	Clear(c color.RGBA)
	FillRect(x, y, w, h float32, c color.RGBA)
	FillCircle(x, y, r float32, c color.RGBA)
	FillRoundedRect(x, y, w, h, radius float32, c color.RGBA)
	// FillGradientCircle fills a disc of radius r centred on (cx, cy).
	FillGradientCircle(cx, cy, r float32, stops []GradientStop)
	// FillGradientRect fills a rectangle with a radial gradient running from
	// r0 to r1 around (cx, cy); the end colours extend past either radius.
	FillGradientRect(x, y, w, h, cx, cy, r0, r1 float32, stops []GradientStop)
	DrawImage(img Image, x, y, w, h float32)

	Save()
	Restore()
	Translate(x, y float32)
	Rotate(radians float32)
	SetAlpha(a float32)
	SetBlend(m BlendMode)
}

// applyAlpha scales a colour's alpha by a global alpha in [0, 1].
func applyAlpha(c color.RGBA, a float32) color.RGBA {
	if a >= 1 {
		return c
	}
	if a <= 0 {
		c.A = 0
		return c
	}
	c.A = uint8(float32(c.A)*a + 0.5)
	return c
}

// sampleStops returns the interpolated colour at offset t.
func sampleStops(stops []GradientStop, t float32) color.RGBA {
	if len(stops) == 0 {
		return color.RGBA{}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.Offset {
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return lerpColor(a.Color, b.Color, (t-a.Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}

func lerpColor(a, b color.RGBA, t float32) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
