package game

import (
	"context"
	"log/slog"
	"time"
)

// RunHeadless drives g from a synthetic clock at a fixed frame rate until
// maxFrames frames have run (0 = unlimited), ctx is cancelled or the game
// is stopped. g must have been created with clock. It returns the number
// of frames run.
func RunHeadless(ctx context.Context, g *Game, clock *ManualClock, fps, maxFrames int) int {
	if fps <= 0 {
		fps = 60
	}
	step := time.Second / time.Duration(fps)

	g.Start()
	frames := 0
	for maxFrames <= 0 || frames < maxFrames {
		if ctx.Err() != nil {
			slog.Info("headless_cancelled", "frames", frames)
			break
		}
		clock.Advance(step)
		if !g.Frame() {
			break
		}
		frames++
	}
	if maxFrames > 0 && frames >= maxFrames {
		slog.Info("max frames reached", "frames", frames, "elapsed", g.Elapsed())
	}
	return frames
}

// placeholderSleigh is always ready and loads nothing.
type placeholderSleigh struct{}

func (placeholderSleigh) Ready() bool { return true }
func (placeholderSleigh) Load()       {}
func (placeholderSleigh) Poll()       {}

// PlaceholderSleigh returns a Sleigh that is ready immediately, for
// surfaces that never draw real textures.
func PlaceholderSleigh() Sleigh {
	return placeholderSleigh{}
}
