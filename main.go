package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glowtree/config"
	"github.com/pthm-cable/glowtree/game"
	"github.com/pthm-cable/glowtree/renderer"
	"github.com/pthm-cable/glowtree/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window against a counting surface")
	logStats := flag.Bool("log-stats", false, "Output perf and scene stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	width := flag.Int("width", 0, "Window width (0 = use config)")
	height := flag.Int("height", 0, "Window height (0 = use config)")
	debug := flag.Bool("debug", false, "Enable debug logging (per-drop events)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *width > 0 {
		cfg.Screen.Width = *width
	}
	if *height > 0 {
		cfg.Screen.Height = *height
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:    cfg,
		Seed:      rngSeed,
		Width:     float64(cfg.Screen.Width),
		Height:    float64(cfg.Screen.Height),
		DPR:       1,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	if *headless {
		runHeadless(opts, *maxFrames)
		return
	}
	runWindow(opts, *maxFrames)
}

func runHeadless(opts game.Options, maxFrames int) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	clock := &game.ManualClock{}
	opts.Clock = clock
	opts.Surface = renderer.NewRecordSurface(false)
	opts.Sleigh = game.PlaceholderSleigh()

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"width", opts.Width,
		"height", opts.Height,
		"max_frames", maxFrames,
	)

	frames := game.RunHeadless(ctx, g, clock, opts.Config.Loop.HeadlessFPS, maxFrames)
	spawned, reaped := g.GiftTotals()
	slog.Info("headless run finished",
		"frames", frames,
		"elapsed", g.Elapsed(),
		"drops", g.Drops(),
		"gifts_spawned", spawned,
		"gifts_reaped", reaped,
	)
}

func runWindow(opts game.Options, maxFrames int) {
	cfg := opts.Config

	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if cfg.Screen.MaxDPR > 1 {
		flags |= rl.FlagWindowHighdpi
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Glow Tree")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyNull)

	surface, err := renderer.NewRaylibSurface()
	if err != nil {
		slog.Error("failed to acquire drawing surface", "error", err)
		os.Exit(1)
	}

	sleigh := renderer.NewSleighImage(cfg.Flight.ImagePath)
	defer sleigh.Unload()

	opts.Surface = surface
	opts.Sleigh = sleigh
	opts.Width, opts.Height, opts.DPR = game.WindowViewport()

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	hud := ui.NewHUD()
	g.Start()

	for !rl.WindowShouldClose() {
		back := g.HandleInput()

		rl.BeginDrawing()
		rl.BeginMode2D(g.Camera2D())
		running := g.Frame()
		rl.EndMode2D()

		spawned, reaped := g.GiftTotals()
		backingW, backingH := g.BackingSize()
		flight := g.Flight()
		actions := hud.Draw(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()), ui.HUDData{
			FPS:          rl.GetFPS(),
			Elapsed:      g.Elapsed(),
			Cycle:        flight.Cycle,
			Phase:        flight.Phase,
			Gifts:        g.GiftCount(),
			GiftsSpawned: spawned,
			GiftsReaped:  reaped,
			TreeCount:    g.TreeCount(),
			SnowCount:    g.SnowCount(),
			DPR:          g.Viewport().DPR,
			BackingW:     backingW,
			BackingH:     backingH,
		})
		rl.EndDrawing()

		if back || actions.Back {
			slog.Info("back requested")
			g.Stop()
		}
		if !running || g.State() == game.StateStopped {
			break
		}
		if maxFrames > 0 && g.Frames() >= int64(maxFrames) {
			slog.Info("max frames reached", "frames", g.Frames())
			break
		}
	}
}
