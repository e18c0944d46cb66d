package main

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"voxmesh/internal/config"
	"voxmesh/internal/meshing"
	"voxmesh/internal/physics"
	"voxmesh/internal/pipeline"
	"voxmesh/internal/profiling"
	"voxmesh/internal/render"
	"voxmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli/v2"
	"github.com/xlab/closer"
)

// host owns the pipeline and drives it from a single goroutine.
type host struct {
	cfg      config.Config
	rec      *render.Recorder
	baker    *physics.Baker
	pool     *meshing.WorkerPool
	p        *pipeline.Pipeline
	rng      *rand.Rand
	limiter  *tickLimiter
	ids      []world.ChunkID
	ticks    int
	edits    int
	lastLog  time.Time
	lastTick int
}

func newHost(cfg config.Config) (*host, error) {
	opts, err := cfg.PipelineOptions()
	if err != nil {
		return nil, err
	}
	rec := render.NewRecorder()
	reg := world.NewRegistry(rec.NewView)
	var baker *physics.Baker
	var phys pipeline.Physics
	if opts.BakeCollision {
		baker = physics.NewBaker(opts.Workers)
		phys = baker
	}
	var pool *meshing.WorkerPool
	if opts.Mode != pipeline.ModeSync {
		pool = meshing.NewWorkerPool(opts.Workers)
		opts.Scheduler = pool
	}
	h := &host{
		cfg:     cfg,
		rec:     rec,
		baker:   baker,
		pool:    pool,
		p:       pipeline.New(reg, rec, phys, opts),
		rng:     rand.New(rand.NewPCG(uint64(cfg.World.Seed), 0x9e3779b97f4a7c15)),
		limiter: newTickLimiter(cfg.TickInterval()),
		ids:     cfg.ChunkIDs(),
		lastLog: time.Now(),
	}
	return h, nil
}

// generate loads the configured area.
func (h *host) generate() error {
	gen, err := h.cfg.Generator()
	if err != nil {
		return err
	}
	defer profiling.Track("host.generate")()
	for _, id := range h.ids {
		h.p.GenerateChunk(id, gen)
	}
	return nil
}

func (h *host) run(ctx context.Context) {
	for h.cfg.Loop.Ticks == 0 || h.ticks < h.cfg.Loop.Ticks {
		select {
		case <-ctx.Done():
			return
		default:
		}
		h.tick()
		h.limiter.Wait()
	}
}

func (h *host) tick() {
	profiling.ResetFrame()
	h.ticks++
	for i := 0; i < h.cfg.Loop.EditsPerTick; i++ {
		h.edit()
	}
	h.p.Tick()

	if now := time.Now(); now.Sub(h.lastLog) >= time.Second {
		h.report(now)
	}
}

// edit drops a ray onto a random column and either digs out the voxel it
// hits or places one on top of it.
func (h *host) edit() {
	r := h.cfg.World.Radius
	lo := -r * world.ChunkSize
	span := (2*r + 1) * world.ChunkSize
	x := lo + h.rng.IntN(span)
	z := lo + h.rng.IntN(span)
	top := float32(h.cfg.World.Height * world.ChunkSize)

	start := mgl32.Vec3{float32(x) + 0.5, top - 0.01, float32(z) + 0.5}
	hit := physics.Raycast(start, mgl32.Vec3{0, -1, 0}, 0, top, h.p)
	if !hit.Hit {
		return
	}
	if h.rng.IntN(2) == 0 {
		p := hit.HitPosition
		h.p.SetVoxel(p[0], p[1], p[2], world.Air)
	} else {
		p := hit.AdjacentPosition
		h.p.SetVoxel(p[0], p[1], p[2], world.Dirt)
	}
	h.edits++
}

func (h *host) report(now time.Time) {
	elapsed := now.Sub(h.lastLog).Seconds()
	rate := float64(h.ticks-h.lastTick) / elapsed
	st := h.p.Stats()
	rs := h.rec.Stats()
	var running int64
	var waiting uint64
	if h.pool != nil {
		running, waiting = h.pool.Running(), h.pool.Waiting()
	}
	log.Printf("tick %d (%.0f/s): pending %d, in flight %d, workers %d running %d waiting, meshed %d, baked %d, faces %d, edits %d [%s]",
		h.ticks, rate, h.p.Pending(), h.p.InFlight(), running, waiting, st.Completed, st.Baked, rs.Faces, h.edits,
		profiling.TopN(3))
	h.lastLog = now
	h.lastTick = h.ticks
}

func (h *host) shutdown() {
	h.p.Close()
	if h.pool != nil {
		h.pool.Shutdown()
	}
	if h.baker != nil {
		h.baker.Shutdown()
	}
	st := h.p.Stats()
	rs := h.rec.Stats()
	log.Printf("done after %d ticks: scheduled %d, completed %d, failed %d, discarded %d, requeued %d, deferred %d, batches %d, baked %d",
		st.Ticks, st.Scheduled, st.Completed, st.Failed, st.Discarded, st.Requeued, st.Deferred, st.Batches, st.Baked)
	log.Printf("%d views, %d faces, %d assigns", rs.Views, rs.Faces, rs.Assigns)
}

func commandRun(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	h, err := newHost(cfg)
	if err != nil {
		return err
	}
	log.Printf("voxmesh: %d chunks, %s meshing, %s mode", len(h.ids), cfg.Meshing.Algorithm, cfg.Meshing.Mode)
	if err := h.generate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	closer.Bind(func() {
		cancel()
		<-done
		h.shutdown()
	})

	go func() {
		defer close(done)
		h.run(ctx)
	}()
	<-done
	return nil
}
