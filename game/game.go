// Package game drives the animation: it owns the scene, advances the
// simulators once per frame and hands the result to the render pipeline.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/glowtree/camera"
	"github.com/pthm-cable/glowtree/components"
	"github.com/pthm-cable/glowtree/config"
	"github.com/pthm-cable/glowtree/renderer"
	"github.com/pthm-cable/glowtree/systems"
	"github.com/pthm-cable/glowtree/telemetry"
)

// State is the lifecycle state of a Game.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Sleigh is a decorative image that loads in the background.
type Sleigh interface {
	renderer.Image
	Load()
	Poll()
}

// Options configures a Game.
type Options struct {
	Config  *config.Config   // nil = config.Cfg()
	Surface renderer.Surface // required
	Sleigh  Sleigh           // nil = no sleigh
	Clock   Clock            // nil = RealClock
	Seed    int64

	// Initial viewport in logical pixels and its device pixel ratio.
	Width, Height float64
	DPR           float64

	LogStats  bool
	OutputDir string
}

// Game holds the complete animation state.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	clock   Clock
	surface renderer.Surface
	sleigh  Sleigh

	state atomic.Int32

	camera   *camera.Camera
	vp       components.Viewport
	geometry systems.TreeGeometry
	tree     []components.TreeParticle
	pointer  components.Pointer

	snow     *systems.SnowSystem
	flight   *systems.FlightScheduler
	gifts    *systems.GiftSystem
	pipeline *renderer.Pipeline

	origin     time.Duration
	last       time.Duration
	elapsed    float64
	frameCount int64
	flightNow  components.FlightState
	giftViews  []components.GiftView

	// Telemetry
	perf     *telemetry.PerfCollector
	drops    telemetry.DropLog
	output   *telemetry.OutputManager
	logStats bool
}

// NewGame creates an idle game. It fails with renderer.ErrNoSurface when
// no surface is supplied.
func NewGame(opts Options) (*Game, error) {
	if opts.Surface == nil {
		return nil, renderer.ErrNoSurface
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	clock := opts.Clock
	if clock == nil {
		clock = NewRealClock()
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	vp := components.NewViewport(opts.Width, opts.Height, opts.DPR, cfg.Screen.MaxDPR)

	g := &Game{
		cfg:      cfg,
		rng:      rng,
		clock:    clock,
		surface:  opts.Surface,
		sleigh:   opts.Sleigh,
		vp:       vp,
		camera:   camera.New(vp.Width, vp.Height, vp.DPR),
		snow:     systems.NewSnowSystem(&cfg.Snow, vp, nil, rng),
		flight:   systems.NewFlightScheduler(&cfg.Flight, vp),
		gifts:    systems.NewGiftSystem(cfg, vp, rng),
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.StatsWindow),
		output:   output,
		logStats: opts.LogStats,
	}

	var img renderer.Image
	if opts.Sleigh != nil {
		img = opts.Sleigh
	}
	g.pipeline = renderer.NewPipeline(cfg, opts.Surface, img)
	g.pipeline.SetTimer(g.perf)
	g.pipeline.SetCuller(g.camera)
	g.resetPointer()

	return g, nil
}

// Start captures the time origin, builds the scene and begins loading the
// sleigh. Calling Start on a game that is not idle does nothing.
func (g *Game) Start() {
	if !g.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return
	}
	g.origin = g.clock.Now()
	g.last = g.origin
	g.rebuild()
	if g.sleigh != nil {
		g.sleigh.Load()
	}
	slog.Info("animation_started",
		"width", g.vp.Width,
		"height", g.vp.Height,
		"dpr", g.vp.DPR,
		"output_dir", g.output.Dir(),
	)
}

// Stop ends the animation. No frame runs after Stop returns, including one
// already scheduled by the host loop. Stop is idempotent and safe to call
// from any goroutine.
func (g *Game) Stop() {
	prev := State(g.state.Swap(int32(StateStopped)))
	if prev == StateStopped {
		return
	}
	spawned, reaped := g.gifts.Totals()
	slog.Info("animation_stopped",
		"frames", g.frameCount,
		"elapsed", g.elapsed,
		"drops", g.drops.Total(),
		"gifts_spawned", spawned,
		"gifts_reaped", reaped,
	)
}

// State returns the current lifecycle state.
func (g *Game) State() State {
	return State(g.state.Load())
}

// Frame advances the simulation by the clock delta and draws one frame.
// It returns false, without touching the surface, once the game is stopped
// or before it has started.
func (g *Game) Frame() bool {
	if g.State() != StateRunning {
		return false
	}

	g.perf.StartFrame()

	now := g.clock.Now()
	dt := min(g.cfg.Loop.MaxStep, max(0, (now-g.last).Seconds()))
	g.last = now
	g.elapsed = (now - g.origin).Seconds()
	g.frameCount++

	g.perf.StartPhase(telemetry.PhaseSnow)
	g.snow.Update(float32(dt))

	g.perf.StartPhase(telemetry.PhaseFlight)
	g.flightNow = g.flight.Evaluate(g.elapsed, g.dropGift)

	g.perf.StartPhase(telemetry.PhaseGifts)
	g.gifts.Update(float32(dt))
	g.giftViews = g.gifts.Snapshot(g.giftViews[:0])

	if g.sleigh != nil {
		g.sleigh.Poll()
	}

	g.pipeline.Draw(&renderer.Frame{
		Time:     g.elapsed,
		Viewport: g.vp,
		Geometry: g.geometry,
		Tree:     g.tree,
		Snow:     g.snow.Flakes,
		Gifts:    g.giftViews,
		Flight:   g.flightNow,
		Pointer:  g.pointer,
	})

	g.perf.EndFrame()
	g.flushTelemetry()
	return true
}

// Resize recomputes the viewport and, once started, rebuilds the scene:
// every population is regenerated, drop flags reset and gifts cleared.
func (g *Game) Resize(width, height, dpr float64) {
	g.vp = components.NewViewport(width, height, dpr, g.cfg.Screen.MaxDPR)
	g.camera.Resize(g.vp.Width, g.vp.Height, g.vp.DPR)
	if g.State() == StateRunning {
		g.rebuild()
		slog.Info("viewport_resized",
			"width", g.vp.Width,
			"height", g.vp.Height,
			"dpr", g.vp.DPR,
		)
		return
	}
	if !g.pointer.Active {
		g.resetPointer()
	}
}

// PointerMove records the pointer at window coordinates (x, y).
func (g *Game) PointerMove(x, y float32) {
	g.pointer.X, g.pointer.Y = g.camera.ScreenToScene(x, y)
	g.pointer.Active = true
}

// PointerLeave marks the pointer inactive.
func (g *Game) PointerLeave() {
	g.pointer.Active = false
}

// rebuild regenerates the scene for the current viewport.
func (g *Game) rebuild() {
	scene := systems.BuildScene(g.vp, g.cfg, g.rng)
	g.geometry = scene.Geometry
	g.tree = scene.Tree
	g.snow.Reset(g.vp, scene.Snow)
	g.flight.Resize(g.vp)
	g.gifts.Resize(g.vp)
	g.flightNow = g.flight.State()
	g.giftViews = g.giftViews[:0]
	if !g.pointer.Active {
		g.resetPointer()
	}

	slog.Debug("scene_built",
		"tree", len(scene.Tree),
		"snow", len(scene.Snow),
		"tree_height", scene.Geometry.Height,
		"base_width", scene.Geometry.BaseWidth,
	)
}

func (g *Game) resetPointer() {
	g.pointer.X = g.vp.Width * float32(g.cfg.Glow.PointerFallbackX)
	g.pointer.Y = g.vp.Height * float32(g.cfg.Glow.PointerFallbackY)
}

// dropGift spawns a gift for a scheduled drop and records it.
func (g *Game) dropGift(index int, x, y float32) {
	g.gifts.Spawn(x, y)
	st := g.flight.State()
	g.drops.Record(telemetry.DropEvent{
		Frame:   g.frameCount,
		Elapsed: g.elapsed,
		Cycle:   st.Cycle,
		Index:   index,
		Phase:   st.Phase,
		X:       x,
		Y:       y,
	})
	slog.Debug("gift_drop", "cycle", st.Cycle, "index", index, "phase", st.Phase, "x", x, "y", y)
}

// Unload releases telemetry output. The caller owns the surface and the
// sleigh image.
func (g *Game) Unload() {
	g.Stop()
	if err := g.output.WriteDrops(g.drops.Drain()); err != nil {
		slog.Error("failed to write drops", "error", err)
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Accessors

// Elapsed returns seconds since Start as of the last frame.
func (g *Game) Elapsed() float64 { return g.elapsed }

// Frames returns the number of frames drawn.
func (g *Game) Frames() int64 { return g.frameCount }

// Viewport returns the current viewport.
func (g *Game) Viewport() components.Viewport { return g.vp }

// BackingSize returns the framebuffer size in device pixels.
func (g *Game) BackingSize() (w, h int) { return g.camera.BackingSize() }

// Pointer returns the pointer state in scene coordinates.
func (g *Game) Pointer() components.Pointer { return g.pointer }

// Flight returns the sleigh state as of the last frame.
func (g *Game) Flight() components.FlightState { return g.flightNow }

// TreeCount returns the number of tree particles.
func (g *Game) TreeCount() int { return len(g.tree) }

// SnowCount returns the number of snow flakes.
func (g *Game) SnowCount() int { return len(g.snow.Flakes) }

// GiftCount returns the number of live gifts.
func (g *Game) GiftCount() int { return g.gifts.Count() }

// GiftTotals returns how many gifts were spawned and reaped so far.
func (g *Game) GiftTotals() (spawned, reaped int) { return g.gifts.Totals() }

// Drops returns the number of drops since creation.
func (g *Game) Drops() int { return g.drops.Total() }

// PerfStats returns frame timing over the current window.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perf.Stats() }
