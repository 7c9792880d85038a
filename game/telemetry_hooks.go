package game

import "log/slog"

// flushTelemetry emits perf stats and pending drop events once per stats
// window.
func (g *Game) flushTelemetry() {
	if !g.perf.WindowFull() {
		return
	}

	perfStats := g.perf.Stats()
	drops := g.drops.Drain()

	if g.logStats {
		perfStats.LogStats()
		spawned, reaped := g.gifts.Totals()
		slog.Info("scene",
			"frame", g.frameCount,
			"elapsed", g.elapsed,
			"cycle", g.flightNow.Cycle,
			"gifts", g.gifts.Count(),
			"gifts_spawned", spawned,
			"gifts_reaped", reaped,
			"window_drops", len(drops),
		)
	}

	if g.output != nil {
		if err := g.output.WritePerf(perfStats, g.frameCount); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := g.output.WriteDrops(drops); err != nil {
			slog.Error("failed to write drops", "error", err)
		}
	}
}
