// Package ui draws the overlay controls on top of the animation.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	margin       = 16
	buttonW      = 88
	buttonH      = 30
	lineHeight   = 18
	panelPadding = 8
	fontSize     = 14
)

// HUDData holds what the stats panel shows.
type HUDData struct {
	FPS          int32
	Elapsed      float64
	Cycle        int
	Phase        float64
	Gifts        int
	GiftsSpawned int
	GiftsReaped  int
	TreeCount    int
	SnowCount    int
	DPR          float32
	BackingW     int
	BackingH     int
}

// Actions reports which controls were activated this frame.
type Actions struct {
	Back bool
}

// HUD renders the Back control and an optional stats panel.
type HUD struct {
	ShowStats bool
}

// NewHUD creates a HUD with the stats panel hidden.
func NewHUD() *HUD {
	return &HUD{}
}

// Layout holds the control rectangles for a screen size.
type Layout struct {
	Back  rl.Rectangle
	Stats rl.Rectangle
	Panel rl.Rectangle
}

// LayoutFor places the Back control top-left and the stats toggle
// top-right, with the panel below the toggle.
func LayoutFor(screenW, screenH float32, lines int) Layout {
	panelW := float32(220)
	panelH := float32(lines*lineHeight + 2*panelPadding)
	return Layout{
		Back:  rl.Rectangle{X: margin, Y: margin, Width: buttonW, Height: buttonH},
		Stats: rl.Rectangle{X: screenW - margin - buttonW, Y: margin, Width: buttonW, Height: buttonH},
		Panel: rl.Rectangle{
			X:      screenW - margin - panelW,
			Y:      min(margin+buttonH+8, max(0, screenH-panelH)),
			Width:  panelW,
			Height: panelH,
		},
	}
}

// StatsLines formats the stats panel contents.
func StatsLines(d HUDData) []string {
	return []string{
		fmt.Sprintf("FPS: %d  DPR: %.1f (%dx%d)", d.FPS, d.DPR, d.BackingW, d.BackingH),
		fmt.Sprintf("Time: %.1fs  Cycle: %d", d.Elapsed, d.Cycle),
		fmt.Sprintf("Phase: %.3f", d.Phase),
		fmt.Sprintf("Gifts: %d (+%d / -%d)", d.Gifts, d.GiftsSpawned, d.GiftsReaped),
		fmt.Sprintf("Tree: %d  Snow: %d", d.TreeCount, d.SnowCount),
	}
}

// Draw renders the controls and returns the actions taken. Must be called
// between rl.BeginDrawing and rl.EndDrawing, outside any 2D camera mode.
func (h *HUD) Draw(screenW, screenH int32, data HUDData) Actions {
	lines := StatsLines(data)
	l := LayoutFor(float32(screenW), float32(screenH), len(lines))

	var a Actions
	if gui.Button(l.Back, "Back") {
		a.Back = true
	}
	if gui.Button(l.Stats, toggleText(h.ShowStats, "Hide Stats", "Stats")) {
		h.ShowStats = !h.ShowStats
	}

	if h.ShowStats {
		rl.DrawRectangleRec(l.Panel, rl.Fade(rl.Black, 0.6))
		x := int32(l.Panel.X) + panelPadding
		y := int32(l.Panel.Y) + panelPadding
		for i, line := range lines {
			rl.DrawText(line, x, y+int32(i*lineHeight), fontSize, rl.LightGray)
		}
	}
	return a
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
