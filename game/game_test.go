package game

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/glowtree/components"
	"github.com/pthm-cable/glowtree/config"
	"github.com/pthm-cable/glowtree/renderer"
)

func newTestGame(t *testing.T, opts Options) (*Game, *ManualClock, *renderer.RecordSurface) {
	t.Helper()
	clock := &ManualClock{}
	surface := renderer.NewRecordSurface(false)
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Width == 0 {
		opts.Width, opts.Height, opts.DPR = 1280, 800, 1
	}
	opts.Surface = surface
	opts.Clock = clock
	opts.Seed = 7
	g, err := NewGame(opts)
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	return g, clock, surface
}

func TestNewGameRequiresSurface(t *testing.T) {
	_, err := NewGame(Options{Config: config.Default(), Width: 800, Height: 600})
	if !errors.Is(err, renderer.ErrNoSurface) {
		t.Errorf("expected ErrNoSurface, got %v", err)
	}
}

func TestFrameBeforeStart(t *testing.T) {
	g, clock, surface := newTestGame(t, Options{})

	clock.AdvanceSeconds(1)
	if g.Frame() {
		t.Error("expected no frame before Start")
	}
	if surface.Total() != 0 {
		t.Errorf("expected untouched surface, got %d calls", surface.Total())
	}
	if g.State() != StateIdle {
		t.Errorf("expected idle, got %s", g.State())
	}
}

func TestStartBuildsScene(t *testing.T) {
	g, _, surface := newTestGame(t, Options{})
	g.Start()

	if g.State() != StateRunning {
		t.Fatalf("expected running, got %s", g.State())
	}
	if want := 731 + g.cfg.Trunk.Particles; g.TreeCount() != want {
		t.Errorf("expected %d tree particles, got %d", want, g.TreeCount())
	}
	if g.SnowCount() != 204 {
		t.Errorf("expected 204 flakes, got %d", g.SnowCount())
	}
	if !g.Frame() {
		t.Fatal("expected a frame after Start")
	}
	if surface.Count(renderer.OpClear) != 1 {
		t.Errorf("expected one clear per frame, got %d", surface.Count(renderer.OpClear))
	}
}

func TestFrameClampsDelta(t *testing.T) {
	g, clock, _ := newTestGame(t, Options{})
	g.Start()

	before := append([]components.SnowParticle(nil), g.snow.Flakes...)
	clock.AdvanceSeconds(2)
	g.Frame()

	if math.Abs(g.Elapsed()-2) > 1e-9 {
		t.Errorf("expected elapsed 2s, got %f", g.Elapsed())
	}

	bottom := g.Viewport().Height + float32(g.cfg.Snow.BottomMargin)
	checked := 0
	for i, f := range g.snow.Flakes {
		want := before[i].Y + before[i].FallSpeed*0.05
		if want > bottom {
			continue
		}
		checked++
		if math.Abs(float64(f.Y-want)) > 1e-3 {
			t.Errorf("flake %d: expected y=%f after a clamped step, got %f", i, want, f.Y)
		}
	}
	if checked == 0 {
		t.Fatal("no flakes checked")
	}
}

func TestFrameIgnoresBackwardClock(t *testing.T) {
	g, clock, _ := newTestGame(t, Options{})
	g.Start()

	clock.AdvanceSeconds(1)
	g.Frame()
	before := append([]components.SnowParticle(nil), g.snow.Flakes...)

	clock.Set(500 * time.Millisecond)
	g.Frame()
	for i, f := range g.snow.Flakes {
		if f != before[i] {
			t.Fatalf("flake %d moved on a negative step", i)
		}
	}
}

func TestFirstDropAtScheduledTime(t *testing.T) {
	g, clock, _ := newTestGame(t, Options{})
	g.Start()

	clock.Set(4390 * time.Millisecond)
	g.Frame()
	if g.Drops() != 0 || g.GiftCount() != 0 {
		t.Fatalf("expected no drop before 4.4s, got %d drops", g.Drops())
	}

	clock.Set(4410 * time.Millisecond)
	g.Frame()
	if g.Drops() != 1 {
		t.Errorf("expected 1 drop at 4.41s, got %d", g.Drops())
	}
	if g.GiftCount() != 1 {
		t.Errorf("expected 1 gift, got %d", g.GiftCount())
	}
	if !g.Flight().Dropped[0] {
		t.Error("expected first drop flag set")
	}
}

func TestResizeRebuildsScene(t *testing.T) {
	g, clock, _ := newTestGame(t, Options{})
	g.Start()

	clock.Set(4410 * time.Millisecond)
	g.Frame()
	if g.GiftCount() != 1 {
		t.Fatalf("expected 1 gift before resize, got %d", g.GiftCount())
	}

	g.Resize(800, 600, 1)

	if g.GiftCount() != 0 {
		t.Errorf("expected gifts cleared, got %d", g.GiftCount())
	}
	for i, d := range g.Flight().Dropped {
		if d {
			t.Errorf("expected drop flag %d cleared", i)
		}
	}
	if vp := g.Viewport(); vp.Width != 800 || vp.Height != 600 {
		t.Errorf("expected 800x600 viewport, got %fx%f", vp.Width, vp.Height)
	}
	if g.TreeCount() == 731+g.cfg.Trunk.Particles {
		t.Error("expected tree rebuilt for the new viewport")
	}

	// Thresholds already passed this cycle fire again on the next frame.
	clock.Set(4420 * time.Millisecond)
	g.Frame()
	if g.Drops() != 2 {
		t.Errorf("expected the first drop to repeat after resize, got %d drops", g.Drops())
	}
}

func TestResizeBeforeStart(t *testing.T) {
	g, _, _ := newTestGame(t, Options{})
	g.Resize(1000, 500, 1)

	if g.TreeCount() != 0 {
		t.Errorf("expected no scene before Start, got %d particles", g.TreeCount())
	}
	p := g.Pointer()
	if math.Abs(float64(p.X)-420) > 1e-3 || math.Abs(float64(p.Y)-225) > 1e-3 {
		t.Errorf("expected fallback pointer (420, 225), got (%f, %f)", p.X, p.Y)
	}
}

func TestResizeBeforeStartKeepsActivePointer(t *testing.T) {
	g, _, _ := newTestGame(t, Options{})
	g.PointerMove(70, 80)

	g.Resize(1000, 500, 1)
	if p := g.Pointer(); !p.Active || p.X != 70 || p.Y != 80 {
		t.Errorf("expected active pointer kept at (70, 80), got %+v", p)
	}
}

func TestStop(t *testing.T) {
	g, clock, surface := newTestGame(t, Options{})
	g.Start()
	clock.AdvanceSeconds(0.016)
	g.Frame()

	g.Stop()
	g.Stop()
	if g.State() != StateStopped {
		t.Fatalf("expected stopped, got %s", g.State())
	}

	calls := surface.Total()
	frames := g.Frames()
	clock.AdvanceSeconds(0.016)
	if g.Frame() {
		t.Error("expected no frame after Stop")
	}
	if surface.Total() != calls {
		t.Errorf("expected surface untouched after Stop, got %d new calls", surface.Total()-calls)
	}
	if g.Frames() != frames {
		t.Errorf("expected frame count %d, got %d", frames, g.Frames())
	}

	// A stopped game cannot be restarted.
	g.Start()
	if g.State() != StateStopped {
		t.Errorf("expected still stopped, got %s", g.State())
	}
}

func TestPointer(t *testing.T) {
	g, _, _ := newTestGame(t, Options{})

	p := g.Pointer()
	if p.Active {
		t.Error("expected inactive pointer initially")
	}
	if math.Abs(float64(p.X)-0.42*1280) > 1e-3 || math.Abs(float64(p.Y)-0.45*800) > 1e-3 {
		t.Errorf("expected fallback (537.6, 360), got (%f, %f)", p.X, p.Y)
	}

	g.PointerMove(100, 200)
	p = g.Pointer()
	if !p.Active || p.X != 100 || p.Y != 200 {
		t.Errorf("expected active pointer at (100, 200), got %+v", p)
	}

	g.PointerLeave()
	p = g.Pointer()
	if p.Active {
		t.Error("expected inactive pointer after leave")
	}
	if p.X != 100 || p.Y != 200 {
		t.Errorf("expected last position kept, got (%f, %f)", p.X, p.Y)
	}
}

func TestPointerKeptAcrossRebuild(t *testing.T) {
	g, _, _ := newTestGame(t, Options{})
	g.Start()
	g.PointerMove(50, 60)

	g.Resize(640, 480, 1)
	if p := g.Pointer(); p.X != 50 || p.Y != 60 || !p.Active {
		t.Errorf("expected active pointer kept at (50, 60), got %+v", p)
	}
}

func TestSleighLifecycle(t *testing.T) {
	sl := &fakeSleigh{}
	g, clock, surface := newTestGame(t, Options{Sleigh: sl})

	g.Start()
	if sl.loads != 1 {
		t.Errorf("expected one Load on Start, got %d", sl.loads)
	}

	clock.AdvanceSeconds(0.016)
	g.Frame()
	if surface.Count(renderer.OpDrawImage) != 0 {
		t.Error("expected no sleigh draw while loading")
	}

	sl.ready = true
	clock.AdvanceSeconds(0.016)
	g.Frame()
	if surface.Count(renderer.OpDrawImage) != 1 {
		t.Errorf("expected sleigh drawn once ready, got %d", surface.Count(renderer.OpDrawImage))
	}
	if sl.polls != 2 {
		t.Errorf("expected a poll per frame, got %d", sl.polls)
	}
}

type fakeSleigh struct {
	ready        bool
	loads, polls int
}

func (s *fakeSleigh) Ready() bool { return s.ready }
func (s *fakeSleigh) Load()       { s.loads++ }
func (s *fakeSleigh) Poll()       { s.polls++ }

func TestRunHeadless(t *testing.T) {
	g, clock, _ := newTestGame(t, Options{Sleigh: PlaceholderSleigh()})

	n := RunHeadless(context.Background(), g, clock, 60, 30)
	if n != 30 {
		t.Errorf("expected 30 frames, got %d", n)
	}
	if g.Frames() != 30 {
		t.Errorf("expected frame count 30, got %d", g.Frames())
	}
	if math.Abs(g.Elapsed()-0.5) > 1e-6 {
		t.Errorf("expected 0.5s elapsed, got %f", g.Elapsed())
	}
}

func TestRunHeadlessCancelled(t *testing.T) {
	g, clock, _ := newTestGame(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if n := RunHeadless(ctx, g, clock, 60, 100); n != 0 {
		t.Errorf("expected 0 frames after cancel, got %d", n)
	}
}

func TestRunHeadlessDropsOverCycle(t *testing.T) {
	g, clock, _ := newTestGame(t, Options{})

	RunHeadless(context.Background(), g, clock, 60, 20*60+1)
	if g.Drops() != 5 {
		t.Errorf("expected 5 drops in one cycle, got %d", g.Drops())
	}
	if g.Flight().Cycle != 1 {
		t.Errorf("expected cycle 1, got %d", g.Flight().Cycle)
	}
	spawned, _ := g.GiftTotals()
	if spawned != 5 {
		t.Errorf("expected 5 gifts spawned, got %d", spawned)
	}
}

func TestTelemetryOutput(t *testing.T) {
	dir := t.TempDir()
	g, clock, _ := newTestGame(t, Options{OutputDir: dir})

	RunHeadless(context.Background(), g, clock, 60, 300)
	g.Unload()

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config snapshot: %v", err)
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(perf)), "\n"); len(lines) != 3 {
		t.Errorf("expected header and 2 perf windows, got %d lines", len(lines))
	}

	drops, err := os.ReadFile(filepath.Join(dir, "drops.csv"))
	if err != nil {
		t.Fatalf("reading drops.csv: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(drops)), "\n"); len(lines) != 2 {
		t.Errorf("expected header and 1 drop, got %d lines", len(lines))
	}
}

func TestManualClock(t *testing.T) {
	var c ManualClock
	c.Advance(time.Second)
	c.AdvanceSeconds(0.5)
	if c.Now() != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", c.Now())
	}
	c.Set(0)
	if c.Now() != 0 {
		t.Errorf("expected 0, got %v", c.Now())
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateIdle, "idle"},
		{StateRunning, "running"},
		{StateStopped, "stopped"},
		{State(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}
