package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"voxmesh/internal/meshing"
	"voxmesh/internal/pipeline"
	"voxmesh/internal/world"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxmesh.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	opts, err := c.PipelineOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Algorithm != meshing.AlgorithmGreedy || opts.Mode != pipeline.ModeAsync {
		t.Fatalf("options = %+v", opts)
	}
	if opts.CompletionBudget != 4*time.Millisecond {
		t.Fatalf("CompletionBudget = %v", opts.CompletionBudget)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
meshing:
  algorithm: naive
  mode: batched
  workers: 3
  completion_budget_ms: 1.5
world:
  generator: flat
  radius: 1
loop:
  tick_rate: 30
  ticks: 10
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts, err := c.PipelineOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Algorithm != meshing.AlgorithmNaive || opts.Mode != pipeline.ModeBatched || opts.Workers != 3 {
		t.Fatalf("options = %+v", opts)
	}
	if opts.CompletionBudget != 1500*time.Microsecond {
		t.Fatalf("CompletionBudget = %v", opts.CompletionBudget)
	}
	// untouched keys keep their defaults
	if c.World.Height != 2 || c.World.Seed != 1337 || !c.Meshing.BakeCollision {
		t.Fatalf("defaults lost: %+v", c)
	}
	if c.TickInterval() != time.Second/30 {
		t.Fatalf("TickInterval = %v", c.TickInterval())
	}
	gen, err := c.Generator()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := gen.(*world.FlatGenerator); !ok {
		t.Fatalf("generator = %T", gen)
	}
	if n := len(c.ChunkIDs()); n != 3*3*2 {
		t.Fatalf("ChunkIDs = %d, want 18", n)
	}
}

func TestLoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Load(missing)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file: err = %v, want fs.ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), "config "+missing) {
		t.Fatalf("error lacks path context: %v", err)
	}

	cases := map[string]string{
		"syntax":    "meshing: [",
		"algorithm": "meshing:\n  algorithm: marching\n",
		"mode":      "meshing:\n  mode: eager\n",
		"generator": "world:\n  generator: caves\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			if err == nil {
				t.Fatal("invalid config accepted")
			}
			if !strings.Contains(err.Error(), "config ") {
				t.Fatalf("error lacks path context: %v", err)
			}
		})
	}
}

func TestClamping(t *testing.T) {
	c := Default()
	c.SetRadius(100)
	c.SetHeight(0)
	c.SetTickRate(-5)
	c.SetWorkers(-1)
	if c.World.Radius != 32 || c.World.Height != 1 || c.Loop.TickRate != 0 || c.Meshing.Workers != 0 {
		t.Fatalf("clamped = %+v", c)
	}
	if c.TickInterval() != 0 {
		t.Fatal("zero tick rate must disable the interval")
	}

	path := writeConfig(t, "world:\n  radius: -3\n  frequency: 0\nloop:\n  slow_tick_ms: -1\n")
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.World.Radius != 0 || c.World.Frequency != 0.05 || c.Loop.SlowTickMs != 0 {
		t.Fatalf("normalized = %+v", c)
	}
	if ids := c.ChunkIDs(); len(ids) != 2 {
		t.Fatalf("radius 0 gave %d chunks", len(ids))
	}
}

func TestGenerators(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"noise", "*world.NoiseGenerator"},
		{"", "*world.NoiseGenerator"},
		{"height", "*world.HeightGenerator"},
		{"FLAT", "*world.FlatGenerator"},
		{"empty", "world.FillGenerator"},
	}
	for _, tt := range tests {
		c := Default()
		c.World.Generator = tt.name
		gen, err := c.Generator()
		if err != nil {
			t.Fatalf("%q: %v", tt.name, err)
		}
		if got := fmt.Sprintf("%T", gen); got != tt.want {
			t.Errorf("%q: got %s, want %s", tt.name, got, tt.want)
		}
	}
}
