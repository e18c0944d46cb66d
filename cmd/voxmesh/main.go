package main

import (
	"log"
	"os"

	"voxmesh/internal/config"

	"github.com/urfave/cli/v2"
	"github.com/xlab/closer"
)

func main() {
	app := &cli.App{
		Name:        "voxmesh",
		Usage:       "voxel chunk meshing engine",
		Description: "generates a chunked voxel world and keeps it meshed while it is edited",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:  "config",
				Usage: "path to a YAML configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the tick loop with random edits",
				Action: commandRun,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "algorithm", Usage: "naive or greedy"},
					&cli.StringFlag{Name: "mode", Usage: "async, sync or batched"},
					&cli.StringFlag{Name: "generator", Usage: "noise, height, flat or empty"},
					&cli.IntFlag{Name: "workers", Usage: "meshing workers, 0 for one per CPU"},
					&cli.IntFlag{Name: "radius", Usage: "load radius in chunks"},
					&cli.IntFlag{Name: "ticks", Usage: "stop after this many ticks, 0 to run until interrupted"},
					&cli.BoolFlag{Name: "no-bake", Usage: "skip collision baking"},
				},
			},
			{
				Name:   "bench",
				Usage:  "compare the meshing algorithms on generated terrain",
				Action: commandBench,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "generator", Usage: "noise, height, flat or empty"},
					&cli.IntFlag{Name: "radius", Usage: "load radius in chunks"},
					&cli.IntFlag{Name: "rounds", Usage: "full remesh rounds per algorithm", Value: 3},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
	closer.Close()
}

// loadConfig reads the global --config file, if any, and applies the
// command's flag overrides.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.Path("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet("algorithm") {
		cfg.Meshing.Algorithm = ctx.String("algorithm")
	}
	if ctx.IsSet("mode") {
		cfg.Meshing.Mode = ctx.String("mode")
	}
	if ctx.IsSet("generator") {
		cfg.World.Generator = ctx.String("generator")
	}
	if ctx.IsSet("workers") {
		cfg.SetWorkers(ctx.Int("workers"))
	}
	if ctx.IsSet("radius") {
		cfg.SetRadius(ctx.Int("radius"))
	}
	if ctx.IsSet("ticks") {
		cfg.Loop.Ticks = ctx.Int("ticks")
	}
	if ctx.IsSet("no-bake") {
		cfg.Meshing.BakeCollision = !ctx.Bool("no-bake")
	}
	return cfg, cfg.Normalize()
}
