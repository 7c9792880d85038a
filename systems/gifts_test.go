package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/glowtree/components"
	"github.com/pthm-cable/glowtree/config"
)

func newTestGifts(h float64) *GiftSystem {
	cfg := config.Default()
	return NewGiftSystem(cfg, viewport(800, h), rand.New(rand.NewSource(1)))
}

// addStill inserts a gift with zero velocity and spin at (x, y).
func addStill(s *GiftSystem, x, y float32) {
	s.add(
		components.Position{X: x, Y: y},
		components.Velocity{},
		components.Spin{},
		components.Gift{Size: 12, Alpha: 1},
	)
}

func TestGiftFreeFall(t *testing.T) {
	s := newTestGifts(100000)
	addStill(s, 100, 0)

	const dt = float32(1.0 / 600)
	const steps = 300 // 0.5 s
	for i := 0; i < steps; i++ {
		s.Update(dt)
	}

	views := s.Snapshot(nil)
	if len(views) != 1 {
		t.Fatalf("expected 1 gift, got %d", len(views))
	}

	tSec := float64(steps) * float64(dt)
	want := 0.5 * 420 * tSec * tSec
	got := float64(views[0].Y)
	if math.Abs(got-want)/want > 0.01 {
		t.Errorf("expected fall of ~%.2f after %.2fs, got %.2f", want, tSec, got)
	}
	if views[0].X != 100 {
		t.Errorf("expected no horizontal drift, got x=%f", views[0].X)
	}
}

func TestGiftSpawnRandomization(t *testing.T) {
	cfg := config.Default()
	s := NewGiftSystem(cfg, viewport(800, 600), rand.New(rand.NewSource(2)))

	for i := 0; i < 50; i++ {
		s.Spawn(200, 100)
	}
	if s.Count() != 50 {
		t.Fatalf("expected 50 gifts, got %d", s.Count())
	}

	for _, g := range s.Snapshot(nil) {
		if g.Size < float32(cfg.Gifts.MinSize) || g.Size > float32(cfg.Gifts.MaxSize) {
			t.Errorf("size %f outside [%v, %v]", g.Size, cfg.Gifts.MinSize, cfg.Gifts.MaxSize)
		}
		if g.Alpha != 1 {
			t.Errorf("expected fresh gift alpha 1, got %f", g.Alpha)
		}
		if math.Abs(float64(g.Angle)) > cfg.Gifts.MaxRotation {
			t.Errorf("initial angle %f exceeds %f", g.Angle, cfg.Gifts.MaxRotation)
		}
		if !inPalette(g.Fill, cfg.Derived.Fills) {
			t.Errorf("fill %v not in palette", g.Fill)
		}
		if !inPalette(g.Ribbon, cfg.Derived.Ribbons) {
			t.Errorf("ribbon %v not in palette", g.Ribbon)
		}
	}
}

func inPalette[T comparable](c T, palette []T) bool {
	for _, p := range palette {
		if p == c {
			return true
		}
	}
	return false
}

func TestFadeAlpha(t *testing.T) {
	tests := []struct {
		name string
		y    float32
		want float32
	}{
		{"above fade start", 100, 1},
		{"at fade start", 468, 1},
		{"halfway", 534, 0.5},
		{"at bottom", 600, 0},
		{"below bottom", 650, 0},
	}

	for _, tt := range tests {
		got := FadeAlpha(tt.y, 468, 600)
		if math.Abs(float64(got-tt.want)) > 1e-4 {
			t.Errorf("%s: expected alpha %f, got %f", tt.name, tt.want, got)
		}
	}

	if got := FadeAlpha(10, 600, 600); got != 1 {
		t.Errorf("expected alpha 1 above degenerate fade band, got %f", got)
	}
}

func TestGiftFadesBeforeRemoval(t *testing.T) {
	s := newTestGifts(600)
	addStill(s, 100, 400)

	const dt = float32(1.0 / 60)
	prevAlpha := float32(1)
	removed := false
	for i := 0; i < 600 && !removed; i++ {
		s.Update(dt)
		views := s.Snapshot(nil)
		if len(views) == 0 {
			removed = true
			break
		}
		g := views[0]
		if g.Alpha > prevAlpha {
			t.Fatalf("alpha increased from %f to %f", prevAlpha, g.Alpha)
		}
		if g.Y >= 600+60 {
			t.Fatalf("gift still alive at y=%f", g.Y)
		}
		prevAlpha = g.Alpha
	}

	if !removed {
		t.Fatal("expected gift to be removed")
	}
	if prevAlpha >= 1 {
		t.Errorf("expected gift to fade before removal, last alpha %f", prevAlpha)
	}
	if spawned, reaped := s.Totals(); spawned != 1 || reaped != 1 {
		t.Errorf("expected totals 1/1, got %d/%d", spawned, reaped)
	}
}

func TestGiftRemovedBelowMargin(t *testing.T) {
	s := newTestGifts(600)
	addStill(s, 100, 100)
	addStill(s, 200, 700)

	s.Update(0.001)

	if s.Count() != 1 {
		t.Fatalf("expected 1 gift left, got %d", s.Count())
	}
	views := s.Snapshot(nil)
	if len(views) != 1 || views[0].X != 100 {
		t.Errorf("expected the gift at x=100 to survive, got %+v", views)
	}
}

func TestGiftClear(t *testing.T) {
	s := newTestGifts(600)
	for i := 0; i < 10; i++ {
		addStill(s, float32(i*10), 50)
	}

	s.Clear()
	if s.Count() != 0 {
		t.Errorf("expected 0 gifts after clear, got %d", s.Count())
	}
	if n := len(s.Snapshot(nil)); n != 0 {
		t.Errorf("expected empty snapshot, got %d", n)
	}

	// Clearing or updating an empty system is harmless.
	s.Clear()
	s.Update(0.016)
	if s.Count() != 0 {
		t.Errorf("expected 0 gifts, got %d", s.Count())
	}
}

func TestGiftResizeClears(t *testing.T) {
	s := newTestGifts(600)
	addStill(s, 10, 10)
	addStill(s, 20, 20)

	s.Resize(viewport(1024, 768))
	if s.Count() != 0 {
		t.Errorf("expected resize to clear gifts, got %d", s.Count())
	}
}

func TestGiftSpinAdvances(t *testing.T) {
	s := newTestGifts(100000)
	s.add(
		components.Position{X: 0, Y: 0},
		components.Velocity{},
		components.Spin{Angle: 0.5, AngVel: 2},
		components.Gift{Size: 12, Alpha: 1},
	)

	s.Update(0.25)
	views := s.Snapshot(nil)
	if math.Abs(float64(views[0].Angle)-1.0) > 1e-5 {
		t.Errorf("expected angle 1.0, got %f", views[0].Angle)
	}
}
