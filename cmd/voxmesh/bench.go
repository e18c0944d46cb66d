package main

import (
	"log"
	"time"

	"voxmesh/internal/config"
	"voxmesh/internal/meshing"
	"voxmesh/internal/pipeline"
	"voxmesh/internal/profiling"
	"voxmesh/internal/render"
	"voxmesh/internal/world"

	"github.com/urfave/cli/v2"
)

func commandBench(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	gen, err := cfg.Generator()
	if err != nil {
		return err
	}
	rounds := max(c.Int("rounds"), 1)
	ids := cfg.ChunkIDs()

	reg := world.NewRegistry(nil)
	for _, id := range ids {
		reg.GenerateChunk(id, gen)
	}
	log.Printf("bench: %d chunks, %s generator, %d rounds", len(ids), cfg.World.Generator, rounds)

	for _, alg := range []meshing.Algorithm{meshing.AlgorithmNaive, meshing.AlgorithmGreedy} {
		r := benchAlgorithm(reg, ids, alg, rounds)
		log.Printf("%-6s %s per round, %d faces, area %.0f", alg, profiling.FormatMs(r.perRound), r.faces, r.area)
	}

	for _, mode := range []pipeline.Mode{pipeline.ModeSync, pipeline.ModeAsync, pipeline.ModeBatched} {
		d, ticks, err := benchPipeline(cfg, mode)
		if err != nil {
			return err
		}
		log.Printf("pipeline %-7s %s to mesh the world in %d ticks", mode, profiling.FormatMs(d), ticks)
	}
	return nil
}

type benchResult struct {
	perRound time.Duration
	faces    int
	area     float32
}

func benchAlgorithm(reg *world.Registry, ids []world.ChunkID, alg meshing.Algorithm, rounds int) benchResult {
	var r benchResult
	m := meshing.NewGrowableMesh()
	start := time.Now()
	for i := 0; i < rounds; i++ {
		r.faces, r.area = 0, 0
		for _, id := range ids {
			per, ok := reg.Perimeter(id)
			if !ok {
				continue
			}
			m.Reset()
			alg.Build(per, m)
			per.Release()
			r.faces += m.FaceCount()
			r.area += m.Area()
		}
	}
	r.perRound = time.Since(start) / time.Duration(rounds)
	return r
}

// benchPipeline times a full world load through a fresh pipeline.
func benchPipeline(cfg config.Config, mode pipeline.Mode) (time.Duration, int, error) {
	opts, err := cfg.PipelineOptions()
	if err != nil {
		return 0, 0, err
	}
	opts.Mode = mode
	opts.BakeCollision = false
	gen, err := cfg.Generator()
	if err != nil {
		return 0, 0, err
	}

	rec := render.NewRecorder()
	p := pipeline.New(world.NewRegistry(rec.NewView), rec, nil, opts)
	defer p.Close()

	start := time.Now()
	for _, id := range cfg.ChunkIDs() {
		p.GenerateChunk(id, gen)
	}
	ticks := 0
	for !p.Idle() {
		p.Tick()
		ticks++
	}
	return time.Since(start), ticks, nil
}
