// Package camera maps between window coordinates and scene coordinates.
package camera

import "math"

// Camera is a 2D view onto the scene. The scene is laid out in CSS-style
// logical pixels; the backing framebuffer is DPR times larger.
type Camera struct {
	// Position is the scene point shown at the viewport centre.
	X, Y float32

	// Viewport dimensions in logical pixels.
	ViewportW, ViewportH float32

	// DPR is the device pixel ratio of the backing framebuffer.
	DPR float32
}

// New creates a camera centred on a viewport of the given size.
func New(viewportW, viewportH, dpr float32) *Camera {
	c := &Camera{}
	c.Resize(viewportW, viewportH, dpr)
	return c
}

// ScreenToScene converts window coordinates (for example the pointer) to
// scene coordinates.
func (c *Camera) ScreenToScene(sx, sy float32) (x, y float32) {
	x = c.X + sx - c.ViewportW/2
	y = c.Y + sy - c.ViewportH/2
	return x, y
}

// IsVisible reports whether a circle at (x, y) could touch the viewport.
func (c *Camera) IsVisible(x, y, radius float32) bool {
	minX, minY, maxX, maxY := c.VisibleBounds()
	return x+radius >= minX && x-radius <= maxX &&
		y+radius >= minY && y-radius <= maxY
}

// Resize updates the viewport and re-centres the camera on it.
// Non-positive sizes are treated as 1; dpr below 1 as 1.
func (c *Camera) Resize(viewportW, viewportH, dpr float32) {
	c.ViewportW = max(1, viewportW)
	c.ViewportH = max(1, viewportH)
	c.DPR = max(1, dpr)
	c.X = c.ViewportW / 2
	c.Y = c.ViewportH / 2
}

// VisibleBounds returns the scene-coordinate bounds of the visible area.
func (c *Camera) VisibleBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / 2
	halfH := c.ViewportH / 2
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// BackingSize returns the framebuffer size in device pixels.
func (c *Camera) BackingSize() (w, h int) {
	w = int(math.Round(float64(c.ViewportW * c.DPR)))
	h = int(math.Round(float64(c.ViewportH * c.DPR)))
	return w, h
}
