package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/glowtree/config"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// Nil receivers are no-ops.
	if err := om.WriteDrops([]DropEvent{{Index: 1}}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("expected empty dir, got %q", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("creating output manager: %v", err)
	}
	if om.Dir() != dir {
		t.Errorf("expected dir %q, got %q", dir, om.Dir())
	}

	log := &DropLog{}
	log.Record(DropEvent{Frame: 10, Elapsed: 4.4, Index: 0, Phase: 0.22, X: 100, Y: 50})
	log.Record(DropEvent{Frame: 20, Elapsed: 7.0, Index: 1, Phase: 0.35, X: 200, Y: 55})
	if err := om.WriteDrops(log.Drain()); err != nil {
		t.Fatalf("writing drops: %v", err)
	}
	log.Record(DropEvent{Frame: 30, Elapsed: 9.6, Index: 2, Phase: 0.48, X: 300, Y: 60})
	if err := om.WriteDrops(log.Drain()); err != nil {
		t.Fatalf("writing drops: %v", err)
	}
	if err := om.WritePerf(PerfStats{Frames: 1}, 60); err != nil {
		t.Fatalf("writing perf: %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "drops.csv"))
	if err != nil {
		t.Fatalf("reading drops.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "frame,elapsed,cycle,drop_index") {
		t.Errorf("unexpected header %q", lines[0])
	}

	if _, err := os.Stat(filepath.Join(dir, "perf.csv")); err != nil {
		t.Errorf("expected perf.csv: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config.yaml: %v", err)
	}
	if log.Total() != 3 {
		t.Errorf("expected 3 total drops, got %d", log.Total())
	}
}
