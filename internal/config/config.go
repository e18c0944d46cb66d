package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"voxmesh/internal/meshing"
	"voxmesh/internal/pipeline"
	"voxmesh/internal/world"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the meshing engine and its host
// loop, normally read from a YAML file.
type Config struct {
	Meshing MeshingConfig `yaml:"meshing"`
	World   WorldConfig   `yaml:"world"`
	Loop    LoopConfig    `yaml:"loop"`
}

type MeshingConfig struct {
	Algorithm          string  `yaml:"algorithm"`
	Mode               string  `yaml:"mode"`
	Workers            int     `yaml:"workers"`
	CompletionBudgetMs float64 `yaml:"completion_budget_ms"`
	BakeCollision      bool    `yaml:"bake_collision"`
}

type WorldConfig struct {
	Seed      int64   `yaml:"seed"`
	Generator string  `yaml:"generator"`
	Frequency float32 `yaml:"frequency"`
	// Radius is the horizontal load radius in chunks around the origin.
	Radius int `yaml:"radius"`
	// Height is the number of chunk layers starting at y=0.
	Height int `yaml:"height"`
	// FlatHeight is the surface level of the flat generator.
	FlatHeight int `yaml:"flat_height"`
}

type LoopConfig struct {
	TickRate     int     `yaml:"tick_rate"`
	SlowTickMs   float64 `yaml:"slow_tick_ms"`
	EditsPerTick int     `yaml:"edits_per_tick"`
	// Ticks stops the loop after this many ticks. Zero runs until interrupted.
	Ticks int `yaml:"ticks"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Meshing: MeshingConfig{
			Algorithm:          "greedy",
			Mode:               "async",
			CompletionBudgetMs: 4,
			BakeCollision:      true,
		},
		World: WorldConfig{
			Seed:       1337,
			Generator:  "noise",
			Frequency:  0.05,
			Radius:     4,
			Height:     2,
			FlatHeight: 8,
		},
		Loop: LoopConfig{
			TickRate:     60,
			SlowTickMs:   16,
			EditsPerTick: 4,
		},
	}
}

// Load reads a YAML file over the defaults. Missing keys keep their default
// values and out of range values are clamped.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.Normalize(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Normalize clamps numeric settings and rejects unknown names.
func (c *Config) Normalize() error {
	c.SetWorkers(c.Meshing.Workers)
	c.SetRadius(c.World.Radius)
	c.SetHeight(c.World.Height)
	c.SetTickRate(c.Loop.TickRate)
	if c.Meshing.CompletionBudgetMs < 0 {
		c.Meshing.CompletionBudgetMs = 0
	}
	if c.Loop.SlowTickMs < 0 {
		c.Loop.SlowTickMs = 0
	}
	if c.Loop.EditsPerTick < 0 {
		c.Loop.EditsPerTick = 0
	}
	if c.Loop.Ticks < 0 {
		c.Loop.Ticks = 0
	}
	if c.World.Frequency <= 0 {
		c.World.Frequency = 0.05
	}

	if _, err := meshing.ParseAlgorithm(c.Meshing.Algorithm); err != nil {
		return err
	}
	if _, err := pipeline.ParseMode(c.Meshing.Mode); err != nil {
		return err
	}
	if _, err := c.Generator(); err != nil {
		return err
	}
	return nil
}

// SetWorkers sets the meshing pool size. Zero means one per CPU.
func (c *Config) SetWorkers(n int) {
	if n < 0 {
		n = 0
	}
	if n > 256 {
		n = 256
	}
	c.Meshing.Workers = n
}

// SetRadius sets the load radius in chunks.
func (c *Config) SetRadius(r int) {
	if r < 0 {
		r = 0
	}
	if r > 32 {
		r = 32
	}
	c.World.Radius = r
}

// SetHeight sets the number of vertical chunk layers.
func (c *Config) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	if h > 16 {
		h = 16
	}
	c.World.Height = h
}

// SetTickRate sets the host loop rate in ticks per second. Zero disables
// limiting.
func (c *Config) SetTickRate(hz int) {
	if hz < 0 {
		hz = 0
	}
	if hz > 1000 {
		hz = 1000
	}
	c.Loop.TickRate = hz
}

// PipelineOptions converts the meshing section.
func (c Config) PipelineOptions() (pipeline.Options, error) {
	alg, err := meshing.ParseAlgorithm(c.Meshing.Algorithm)
	if err != nil {
		return pipeline.Options{}, err
	}
	mode, err := pipeline.ParseMode(c.Meshing.Mode)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Algorithm:        alg,
		Mode:             mode,
		Workers:          c.Meshing.Workers,
		CompletionBudget: millis(c.Meshing.CompletionBudgetMs),
		BakeCollision:    c.Meshing.BakeCollision,
		SlowTick:         millis(c.Loop.SlowTickMs),
	}, nil
}

// Generator builds the configured terrain generator.
func (c Config) Generator() (world.TerrainGenerator, error) {
	switch strings.ToLower(c.World.Generator) {
	case "", "noise":
		return world.NewNoiseGenerator(c.World.Seed, c.World.Frequency), nil
	case "height", "terrain":
		return world.NewHeightGenerator(c.World.Seed), nil
	case "flat":
		return world.NewFlatGenerator(c.World.FlatHeight), nil
	case "empty":
		return world.FillGenerator(world.Air), nil
	}
	return nil, fmt.Errorf("config: unknown generator %q", c.World.Generator)
}

// ChunkIDs lists the chunks of the configured load area.
func (c Config) ChunkIDs() []world.ChunkID {
	r := c.World.Radius
	ids := make([]world.ChunkID, 0, (2*r+1)*(2*r+1)*c.World.Height)
	for x := -r; x <= r; x++ {
		for z := -r; z <= r; z++ {
			for y := 0; y < c.World.Height; y++ {
				ids = append(ids, world.ChunkID{X: x, Y: y, Z: z})
			}
		}
	}
	world.SortMorton(ids)
	return ids
}

// TickInterval returns the target duration of one host tick.
func (c Config) TickInterval() time.Duration {
	if c.Loop.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.Loop.TickRate)
}

func millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
