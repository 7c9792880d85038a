package game

import rl "github.com/gen2brain/raylib-go/raylib"

// HandleInput translates raylib window and mouse state into Resize,
// PointerMove and PointerLeave. It returns true when the user asked to
// leave (Esc).
func (g *Game) HandleInput() (back bool) {
	g.handleResize()

	if rl.IsCursorOnScreen() {
		pos := rl.GetMousePosition()
		g.PointerMove(pos.X, pos.Y)
	} else if g.pointer.Active {
		g.PointerLeave()
	}

	return rl.IsKeyPressed(rl.KeyEscape)
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h, dpr := WindowViewport()
	g.Resize(w, h, dpr)
}

// WindowViewport returns the logical window size and its DPI scale.
func WindowViewport() (width, height, dpr float64) {
	scale := rl.GetWindowScaleDPI()
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()), float64(scale.X)
}

// Camera2D returns the raylib camera matching the view camera. The scene
// is drawn in logical pixels; raylib applies the DPI scale itself when
// the window is created with FlagWindowHighdpi.
func (g *Game) Camera2D() rl.Camera2D {
	c := g.camera
	return rl.Camera2D{
		Offset: rl.Vector2{X: c.ViewportW / 2, Y: c.ViewportH / 2},
		Target: rl.Vector2{X: c.X, Y: c.Y},
		Zoom:   1,
	}
}
