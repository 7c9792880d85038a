package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Flight.Period != 20 {
		t.Errorf("expected period 20, got %v", cfg.Flight.Period)
	}
	want := []float64{0.22, 0.35, 0.48, 0.61, 0.74}
	if len(cfg.Flight.DropPhases) != len(want) {
		t.Fatalf("expected %d drop phases, got %d", len(want), len(cfg.Flight.DropPhases))
	}
	for i, p := range want {
		if cfg.Flight.DropPhases[i] != p {
			t.Errorf("drop phase %d: expected %v, got %v", i, p, cfg.Flight.DropPhases[i])
		}
	}
	if cfg.Gifts.Gravity != 420 {
		t.Errorf("expected gravity 420, got %v", cfg.Gifts.Gravity)
	}
	if cfg.Loop.MaxStep != 0.05 {
		t.Errorf("expected max step 0.05, got %v", cfg.Loop.MaxStep)
	}
	if len(cfg.Derived.Fills) != len(cfg.Gifts.Fills) || len(cfg.Derived.Ribbons) != len(cfg.Gifts.Ribbons) {
		t.Error("expected derived palettes to match configured hex lists")
	}
}

func TestDefaultIsFreshCopy(t *testing.T) {
	a := Default()
	a.Flight.Period = 1
	if b := Default(); b.Flight.Period != 20 {
		t.Errorf("expected independent copies, got period %v", b.Flight.Period)
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := "flight:\n  period: 12\ngifts:\n  gravity: 300\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}
	if cfg.Flight.Period != 12 {
		t.Errorf("expected period 12, got %v", cfg.Flight.Period)
	}
	if cfg.Gifts.Gravity != 300 {
		t.Errorf("expected gravity 300, got %v", cfg.Gifts.Gravity)
	}
	// Keys absent from the file keep their defaults.
	if len(cfg.Flight.DropPhases) != 5 {
		t.Errorf("expected default drop phases kept, got %v", cfg.Flight.DropPhases)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"zero period", func(c *Config) { c.Flight.Period = 0 }, "flight.period"},
		{"phase at one", func(c *Config) { c.Flight.DropPhases = []float64{0.2, 1} }, "outside (0, 1)"},
		{"unordered phases", func(c *Config) { c.Flight.DropPhases = []float64{0.5, 0.3} }, "strictly increasing"},
		{"negative gravity", func(c *Config) { c.Gifts.Gravity = -1 }, "gifts.gravity"},
		{"fade start", func(c *Config) { c.Gifts.FadeStart = 1 }, "fade_start"},
		{"empty palette", func(c *Config) { c.Gifts.Fills = nil }, "must not be empty"},
		{"tree band", func(c *Config) { c.Tree.MinParticles = 2000 }, "tree particle band"},
		{"snow band", func(c *Config) { c.Snow.MaxParticles = 1 }, "snow particle band"},
		{"area", func(c *Config) { c.Snow.AreaPerParticle = 0 }, "area_per_particle"},
		{"max step", func(c *Config) { c.Loop.MaxStep = 0 }, "loop.max_step"},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.errSub) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.errSub, err)
		}
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff3b3b", color.RGBA{R: 0xff, G: 0x3b, B: 0x3b, A: 0xff}, false},
		{"27c265", color.RGBA{R: 0x27, G: 0xc2, B: 0x65, A: 0xff}, false},
		{" #50c8ff80 ", color.RGBA{R: 0x50, G: 0xc8, B: 0xff, A: 0x80}, false},
		{"#fff", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Flight.Period = 15
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if loaded.Flight.Period != 15 {
		t.Errorf("expected period 15, got %v", loaded.Flight.Period)
	}
}
